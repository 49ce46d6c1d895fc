package usecases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
	"github.com/santoshjammi/funds-trackon-sub001/internal/store"
)

// PreviewLocal exports a meeting's pending local recording to a playable
// file so the user can listen before submitting.
type PreviewLocal struct {
	Store     store.Store
	ExportDir string
}

// Execute writes the pending recording to outPath (or ExportDir/filename
// when empty) and returns the written path.
func (p *PreviewLocal) Execute(ctx context.Context, meetingID, outPath string) (string, error) {
	entry, err := p.Store.Get(ctx, meetingID)
	if err != nil {
		return "", err
	}
	if entry == nil {
		return "", meeting.ErrNoRecording
	}

	if outPath == "" {
		outPath = filepath.Join(p.ExportDir, entry.Filename)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(outPath, entry.Blob, 0o644); err != nil {
		return "", fmt.Errorf("writing preview file: %w", err)
	}
	return outPath, nil
}
