package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/santoshjammi/funds-trackon-sub001/internal/audio"
	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
	"github.com/santoshjammi/funds-trackon-sub001/internal/output"
)

func NewSubmitCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <meeting-id>",
		Short: "Upload a pending recording to the CRM",
		Long:  "Upload the locally saved recording for a meeting. On success the local copy is removed and the meeting's processing status is shown.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(cmd.OutOrStdout())
			meetingID := args[0]

			f.Uploading(meetingID)
			result, err := submitWithRefresh(cmd.Context(), deps, f, meetingID, nil)
			if err != nil {
				return err
			}
			f.UploadDone(result.AudioFilename, result.FileSizeBytes, result.ProcessingStatus)
			return nil
		},
	}
}

// submitWithRefresh runs the upload and, once it lands, refreshes the
// meeting details from the CRM — the backend record, not the upload
// response, is what the user ends up seeing.
func submitWithRefresh(ctx context.Context, deps *Dependencies, f *output.Formatter, meetingID string, fallback *audio.Artifact) (*meeting.UploadResult, error) {
	deps.App.Submit.OnUploaded = func(res meeting.UploadResult) {
		token, ok := deps.App.Guard.CurrentToken()
		if !ok {
			return
		}
		details, err := deps.App.Client.GetMeeting(ctx, res.MeetingID, token)
		if err != nil {
			deps.App.Logger.Warn().Err(err).Str("meeting_id", res.MeetingID).Msg("details refresh failed")
			return
		}
		f.MeetingDetails(details.Title, details.AudioProcessingStatus)
	}
	return deps.App.Submit.Execute(ctx, meetingID, fallback)
}
