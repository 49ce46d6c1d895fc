package cli

import (
	"github.com/spf13/cobra"

	"github.com/santoshjammi/funds-trackon-sub001/internal/output"
)

func NewPendingCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List recordings saved locally but not yet uploaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(cmd.OutOrStdout())

			recs, err := deps.App.Pending.Execute(cmd.Context())
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				f.Info("No pending recordings")
				return nil
			}

			f.PendingListHeader()
			for _, rec := range recs {
				f.PendingListItem(rec.MeetingID, rec.Filename, rec.SizeBytes, rec.CreatedAt)
			}
			return nil
		},
	}
}
