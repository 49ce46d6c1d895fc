package cli

import (
	"github.com/spf13/cobra"

	"github.com/santoshjammi/funds-trackon-sub001/config"
	"github.com/santoshjammi/funds-trackon-sub001/internal/app"
	"github.com/santoshjammi/funds-trackon-sub001/internal/version"
)

type Dependencies struct {
	App    *app.App
	Config *config.Config
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recorder",
		Short: "Record meeting audio and submit it to the funds-trackon CRM",
		Long:  "A companion CLI for the funds-trackon CRM that records meeting audio, keeps unsent recordings safe locally, and uploads them for transcription and AI analysis.",
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewSubmitCmd(deps))
	rootCmd.AddCommand(NewPendingCmd(deps))
	rootCmd.AddCommand(NewPreviewCmd(deps))
	rootCmd.AddCommand(NewFetchCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
