package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/santoshjammi/funds-trackon-sub001/internal/audio"
	"github.com/santoshjammi/funds-trackon-sub001/internal/auth"
	"github.com/santoshjammi/funds-trackon-sub001/internal/crm"
	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
	"github.com/santoshjammi/funds-trackon-sub001/internal/store"
)

// SubmitRecording uploads a meeting's recording to the CRM. The durable
// local copy always wins over the in-memory artifact: a saved copy is the
// one the user chose to keep across restarts, so it is the one transmitted
// and then cleared. Only a successful upload deletes it.
type SubmitRecording struct {
	Store  store.Store
	Client *crm.Client
	Guard  *auth.Guard
	Logger zerolog.Logger

	// OnUploaded is invoked exactly once per successful submission, after
	// the durable copy is cleared. The composition root uses it to refresh
	// meeting details.
	OnUploaded func(meeting.UploadResult)

	inFlight atomic.Bool
}

// Execute resolves the artifact for meetingID and transmits it. fallback is
// the current session's in-memory artifact, nil when submitting outside a
// recording session.
func (s *SubmitRecording) Execute(ctx context.Context, meetingID string, fallback *audio.Artifact) (*meeting.UploadResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("a submission is already in progress")
	}
	defer s.inFlight.Store(false)

	entry, err := s.Store.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	var blob []byte
	var filename, mimeType string
	switch {
	case entry != nil:
		blob, filename, mimeType = entry.Blob, entry.Filename, entry.MIME
	case fallback != nil:
		blob, filename, mimeType = fallback.Data, fallback.Filename, fallback.MIME
	default:
		return nil, meeting.ErrNoRecording
	}

	// Re-check auth at transmit time; the token may have expired since the
	// recording started.
	token, err := s.Guard.CheckSubmit()
	if err != nil {
		return nil, err
	}

	result, err := s.Client.UploadAudio(ctx, meetingID, token, filename, mimeType, blob)
	if err != nil {
		if errors.Is(err, meeting.ErrAuthRequired) {
			s.Logger.Warn().Str("meeting_id", meetingID).Msg("upload rejected, local copy kept for retry")
		}
		return nil, err
	}

	if entry != nil {
		if err := s.Store.Delete(ctx, meetingID); err != nil {
			// The upload stands; a leftover local copy is only noise.
			s.Logger.Warn().Err(err).Str("meeting_id", meetingID).Msg("could not clear local copy after upload")
		}
	}
	if s.OnUploaded != nil {
		s.OnUploaded(*result)
	}
	return result, nil
}
