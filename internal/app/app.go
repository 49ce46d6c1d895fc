package app

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/santoshjammi/funds-trackon-sub001/config"
	"github.com/santoshjammi/funds-trackon-sub001/internal/audio"
	"github.com/santoshjammi/funds-trackon-sub001/internal/auth"
	"github.com/santoshjammi/funds-trackon-sub001/internal/crm"
	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting/usecases"
	"github.com/santoshjammi/funds-trackon-sub001/internal/store"
)

type App struct {
	Logger zerolog.Logger
	Store  store.Store
	Guard  *auth.Guard
	Client *crm.Client

	Record  *usecases.RecordMeeting
	Submit  *usecases.SubmitRecording
	Pending *usecases.ListPending
	Preview *usecases.PreviewLocal
	Fetch   *usecases.FetchRemote

	// CaptureErr is set when the capture device cannot be prepared (missing
	// encoder, bad input spec). Only the record command needs it; everything
	// else still works.
	CaptureErr error

	logFile *os.File
}

func New(cfg *config.Config) (*App, error) {
	logger, logFile := newLogger(cfg)

	st, err := store.NewSqliteStore(cfg.StorePath)
	if err != nil {
		return nil, err
	}

	provider := auth.ChainProvider{
		auth.StaticProvider(cfg.Token),
		auth.EnvProvider("TRACKON_TOKEN"),
		auth.FileProvider(cfg.TokenFile),
	}
	guard := auth.NewGuard(provider, cfg.AuthSkew(), logger)

	client := crm.NewClient(cfg.APIBaseURL, logger)

	record := &usecases.RecordMeeting{
		Guard:   guard,
		Store:   st,
		WorkDir: cfg.StateDir,
		Logger:  logger,
	}
	recorder, captureErr := audio.NewFFmpegRecorder(cfg.CaptureInput, cfg.AudioFormat)
	if captureErr == nil {
		record.Recorder = recorder
	}

	submit := &usecases.SubmitRecording{
		Store:  st,
		Client: client,
		Guard:  guard,
		Logger: logger,
	}

	return &App{
		Logger:     logger,
		Store:      st,
		Guard:      guard,
		Client:     client,
		Record:     record,
		Submit:     submit,
		Pending:    &usecases.ListPending{Store: st},
		Preview:    &usecases.PreviewLocal{Store: st, ExportDir: cfg.DownloadsDir},
		Fetch:      &usecases.FetchRemote{Client: client, Guard: guard, SaveDir: cfg.DownloadsDir},
		CaptureErr: captureErr,
		logFile:    logFile,
	}, nil
}

// Close releases the capture device, the store, and the log file.
func (a *App) Close() {
	a.Record.Close()
	a.Store.Close()
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// newLogger writes diagnostics to recorder.log in the state dir. User-facing
// messages go through the output formatter, not here.
func newLogger(cfg *config.Config) (zerolog.Logger, *os.File) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logPath := filepath.Join(cfg.StateDir, "recorder.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil
	}
	logger := zerolog.New(logFile).Level(level).With().Timestamp().Logger()
	return logger, logFile
}
