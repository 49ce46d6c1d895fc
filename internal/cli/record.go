package cli

import (
	"bufio"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/santoshjammi/funds-trackon-sub001/internal/output"
	"github.com/santoshjammi/funds-trackon-sub001/internal/store"
)

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	var submitAfter bool
	var discardAfter bool

	cmd := &cobra.Command{
		Use:   "record <meeting-id>",
		Short: "Record audio for a meeting",
		Long: "Record microphone audio for a CRM meeting. Type p to pause, r to resume, s to stop.\n" +
			"The recording is kept locally after stopping; use --submit to upload it right away.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(cmd.OutOrStdout())
			meetingID := args[0]

			if deps.App.CaptureErr != nil {
				return deps.App.CaptureErr
			}

			rec := deps.App.Record
			warning, err := rec.Begin(meetingID)
			if err != nil {
				return err
			}
			if warning != "" {
				f.Warning(warning)
			}
			f.RecordingStarted(meetingID)

			lines := make(chan string)
			go func() {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					lines <- strings.ToLower(strings.TrimSpace(scanner.Text()))
				}
				close(lines)
			}()

			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigc)

		loop:
			for {
				select {
				case <-sigc:
					// An interrupt while capture is active stops the
					// recording instead of killing the process, so no
					// audio is lost to an accidental Ctrl+C.
					if rec.CanNavigateAway() {
						return nil
					}
					f.Warning("Recording in progress — stopping instead of exiting.")
					art, err := rec.Stop()
					if err != nil {
						return err
					}
					f.RecordingStopped(art.Duration)
					break loop
				case line, ok := <-lines:
					if !ok {
						// stdin closed mid-recording; stop rather than drop audio
						art, err := rec.Stop()
						if err != nil {
							return err
						}
						f.RecordingStopped(art.Duration)
						break loop
					}
					switch line {
					case "p", "pause":
						if err := rec.Pause(); err != nil {
							f.Error(err.Error())
							continue
						}
						f.RecordingPaused(rec.Elapsed())
					case "r", "resume":
						if err := rec.Resume(); err != nil {
							f.Error(err.Error())
							continue
						}
						f.RecordingResumed()
					case "s", "stop", "":
						art, err := rec.Stop()
						if err != nil {
							return err
						}
						f.RecordingStopped(art.Duration)
						break loop
					default:
						f.Info("commands: p = pause, r = resume, s = stop")
					}
				}
			}

			if discardAfter {
				rec.Reset()
				f.Info("Recording discarded.")
				return nil
			}

			// Keep the recording durable before anything else; a failed
			// save is a warning, the artifact stays in memory for the
			// submit below.
			saved := true
			if err := rec.SaveLocally(cmd.Context(), meetingID); err != nil {
				var storageErr *store.StorageError
				if !errors.As(err, &storageErr) {
					return err
				}
				saved = false
				f.Warning(err.Error())
			} else if art := rec.Artifact(); art != nil {
				f.SavedLocally(meetingID, int64(len(art.Data)))
			}

			if !submitAfter {
				f.Info("Submit with: recorder submit " + meetingID)
				return nil
			}

			f.Uploading(meetingID)
			result, err := submitWithRefresh(cmd.Context(), deps, f, meetingID, rec.Artifact())
			if err != nil {
				if saved {
					f.Info("The recording is kept locally; retry with: recorder submit " + meetingID)
				}
				return err
			}
			f.UploadDone(result.AudioFilename, result.FileSizeBytes, result.ProcessingStatus)
			return nil
		},
	}

	cmd.Flags().BoolVar(&submitAfter, "submit", false, "Upload the recording immediately after stopping")
	cmd.Flags().BoolVar(&discardAfter, "discard", false, "Throw the recording away after stopping")
	cmd.MarkFlagsMutuallyExclusive("submit", "discard")

	return cmd
}
