package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/santoshjammi/funds-trackon-sub001/internal/audio"
	"github.com/santoshjammi/funds-trackon-sub001/internal/auth"
	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
	"github.com/santoshjammi/funds-trackon-sub001/internal/store"
)

// RecordMeeting drives one capture session for one meeting: auth-gated
// start, pause/resume/stop/reset, saving the stopped artifact into the
// durable store, and the navigation guard that keeps an active recording
// from being torn down. Actions are serialized behind one mutex so a
// double-triggered control cannot run twice concurrently.
type RecordMeeting struct {
	Guard    *auth.Guard
	Store    store.Store
	Recorder audio.Recorder
	WorkDir  string
	Logger   zerolog.Logger

	mu      sync.Mutex
	session *audio.Session
}

// Begin starts recording for the meeting. A missing token blocks the start;
// an expired one is returned as a warning and capture proceeds locally.
func (r *RecordMeeting) Begin(meetingID string) (warning string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		switch r.session.State() {
		case audio.StateRecording, audio.StatePaused:
			return "", fmt.Errorf("recording already in progress")
		}
	}

	warning, err = r.Guard.CheckStart()
	if err != nil {
		return "", err
	}

	r.session = audio.NewSession(meetingID, r.Recorder, r.WorkDir, r.Logger)
	if err := r.session.Start(); err != nil {
		return "", err
	}
	return warning, nil
}

func (r *RecordMeeting) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return fmt.Errorf("no recording session")
	}
	return r.session.Pause()
}

func (r *RecordMeeting) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return fmt.Errorf("no recording session")
	}
	return r.session.Resume()
}

// Stop finalizes the in-memory artifact and releases the capture device.
func (r *RecordMeeting) Stop() (*audio.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return nil, fmt.Errorf("no recording session")
	}
	return r.session.Stop()
}

// Reset discards the session artifact, ready for a fresh take.
func (r *RecordMeeting) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != nil {
		r.session.Reset()
	}
}

// SaveLocally upserts the stopped artifact into the durable store. A
// storage failure surfaces to the user but leaves the session untouched:
// the artifact stays in memory for a retry or a direct submit.
func (r *RecordMeeting) SaveLocally(ctx context.Context, meetingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil || r.session.State() != audio.StateStopped {
		return fmt.Errorf("nothing to save: stop the recording first")
	}
	art := r.session.Artifact()
	if art == nil {
		return fmt.Errorf("nothing to save: stop the recording first")
	}

	rec := meeting.LocalRecording{
		MeetingID: meetingID,
		Blob:      art.Data,
		Filename:  art.Filename,
		MIME:      art.MIME,
		SizeBytes: int64(len(art.Data)),
		CreatedAt: time.Now(),
	}
	if err := r.Store.Save(ctx, rec); err != nil {
		return err
	}
	r.Logger.Info().Str("meeting_id", meetingID).Int64("bytes", rec.SizeBytes).Msg("recording saved locally")
	return nil
}

// CanNavigateAway is the guard predicate the outer command polls before
// exiting or signing out. It vetoes only while capture is active; once the
// session stops the guard disarms with it.
func (r *RecordMeeting) CanNavigateAway() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return true
	}
	switch r.session.State() {
	case audio.StateRecording, audio.StatePaused:
		return false
	}
	return true
}

// State reports the session lifecycle position, Idle when none exists.
func (r *RecordMeeting) State() audio.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return audio.StateIdle
	}
	return r.session.State()
}

// Elapsed is the capture duration so far, excluding paused time.
func (r *RecordMeeting) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return 0
	}
	return r.session.Elapsed()
}

// Artifact exposes the stopped recording for submit-with-fallback.
func (r *RecordMeeting) Artifact() *audio.Artifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return nil
	}
	return r.session.Artifact()
}

// Close releases the capture device on teardown.
func (r *RecordMeeting) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != nil {
		r.session.Close()
	}
}
