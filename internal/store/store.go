package store

import (
	"context"
	"fmt"

	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
)

// Store keeps at most one pending recording per meeting, surviving process
// restarts. Save is an upsert; Get returns nil (not an error) for an absent
// key; Delete on an absent key is a no-op. Implementations serialize Save
// and Delete per meeting id so racing calls cannot resurrect stale data.
type Store interface {
	Save(ctx context.Context, rec meeting.LocalRecording) error
	Get(ctx context.Context, meetingID string) (*meeting.LocalRecording, error)
	Delete(ctx context.Context, meetingID string) error
	List(ctx context.Context) ([]meeting.LocalRecording, error)
	Close() error
}

// StorageError is a durable-persistence failure (quota, IO, corrupt store).
// A failed Save leaves any prior entry for the key untouched; the in-memory
// artifact is still available for a direct submit.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("local recording store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
