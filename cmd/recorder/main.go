package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/santoshjammi/funds-trackon-sub001/config"
	"github.com/santoshjammi/funds-trackon-sub001/internal/app"
	"github.com/santoshjammi/funds-trackon-sub001/internal/cli"
	"github.com/santoshjammi/funds-trackon-sub001/internal/output"
)

func main() {
	if err := run(); err != nil {
		formatter := output.NewFormatter(os.Stderr)
		formatter.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}
	defer application.Close()

	deps := &cli.Dependencies{
		App:    application,
		Config: cfg,
	}

	return cli.NewRootCmd(deps).Execute()
}
