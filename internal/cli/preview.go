package cli

import (
	"github.com/spf13/cobra"

	"github.com/santoshjammi/funds-trackon-sub001/internal/output"
)

func NewPreviewCmd(deps *Dependencies) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "preview <meeting-id>",
		Short: "Export the pending local recording to a playable file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(cmd.OutOrStdout())

			path, err := deps.App.Preview.Execute(cmd.Context(), args[0], outPath)
			if err != nil {
				return err
			}
			f.Success("Exported to " + path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file (default: downloads dir)")
	return cmd
}
