package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/santoshjammi/funds-trackon-sub001/internal/audio"
	"github.com/santoshjammi/funds-trackon-sub001/internal/output"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(cmd.OutOrStdout())
			ok := true

			if err := audio.CheckEncoder(); err != nil {
				f.SetupCheck("ffmpeg", false, "not found. Install with: brew install ffmpeg")
				ok = false
			} else {
				f.SetupCheck("ffmpeg", true, "installed")
			}

			if input, err := audio.ParseInput(deps.Config.CaptureInput); err != nil {
				f.SetupCheck("Capture input", false, err.Error())
				ok = false
			} else {
				f.SetupCheck("Capture input", true, input.Backend+":"+input.Device)
			}

			if token, found := deps.App.Guard.CurrentToken(); !found {
				f.SetupCheck("CRM session", false, "no token found. Log in to the CRM or set TRACKON_TOKEN")
				ok = false
			} else if deps.App.Guard.IsExpired(token) {
				f.SetupCheck("CRM session", false, "token expired. Log in to the CRM again")
				ok = false
			} else if exp, hasExp := deps.App.Guard.ExpiryOf(token); hasExp {
				f.SetupCheck("CRM session", true, "token valid until "+exp.Local().Format(time.RFC1123))
			} else {
				f.SetupCheck("CRM session", true, "token present (no expiry)")
			}

			if _, err := deps.App.Pending.Execute(cmd.Context()); err != nil {
				f.SetupCheck("Local store", false, err.Error())
				ok = false
			} else {
				f.SetupCheck("Local store", true, deps.Config.StorePath)
			}

			f.SetupCheck("CRM API", true, deps.Config.APIBaseURL)

			if ok {
				f.Success("\nAll prerequisites met. Ready to record!")
			} else {
				f.Warning("\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}
