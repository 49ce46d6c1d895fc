package usecases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santoshjammi/funds-trackon-sub001/internal/auth"
	"github.com/santoshjammi/funds-trackon-sub001/internal/crm"
)

// FetchRemote downloads a meeting's uploaded audio from the CRM, honoring
// the backend's content-disposition filename hint.
type FetchRemote struct {
	Client  *crm.Client
	Guard   *auth.Guard
	SaveDir string
}

// Execute downloads the audio to outPath (or SaveDir/<server filename> when
// empty) and returns the written path.
func (f *FetchRemote) Execute(ctx context.Context, meetingID, outPath string) (string, error) {
	token, err := f.Guard.CheckSubmit()
	if err != nil {
		return "", err
	}

	filename, data, err := f.Client.DownloadAudio(ctx, meetingID, token)
	if err != nil {
		return "", err
	}

	if outPath == "" {
		outPath = filepath.Join(f.SaveDir, filename)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing audio file: %w", err)
	}
	return outPath, nil
}
