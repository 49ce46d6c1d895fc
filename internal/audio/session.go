package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is the capture session's lifecycle position.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateStopped   State = "stopped"
)

// CaptureError is a failure of the capture device or encoder.
type CaptureError struct {
	Reason string
	Err    error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capture failed: %s: %v", e.Reason, e.Err)
	}
	return "capture failed: " + e.Reason
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Encoding describes the container the recorder produces.
type Encoding struct {
	Ext  string // file extension without dot, e.g. "wav"
	MIME string // e.g. "audio/wav"
}

// Recorder abstracts the capture device. Begin opens a new segment file and
// starts writing captured audio into it; End finalizes the open segment;
// Join concatenates finished segments into one artifact file.
type Recorder interface {
	Begin(path string) error
	End() error
	Join(segments []string, outPath string) error
	Encoding() Encoding
}

// Artifact is the playable result of a stopped session, held in memory
// until it is saved locally or submitted.
type Artifact struct {
	Data     []byte
	MIME     string
	Filename string
	Duration time.Duration
}

// Session drives one recording for one meeting. It exclusively owns the
// capture device while in Recording or Paused; every other transition is an
// in-memory update. Pausing finalizes the current segment and resuming opens
// a new one, so elapsed time in Paused never reaches the artifact.
type Session struct {
	mu        sync.Mutex
	meetingID string
	rec       Recorder
	workDir   string
	logger    zerolog.Logger
	now       func() time.Time

	state       State
	startedAt   time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	segments    []string
	artifact    *Artifact
	lastErr     error
}

// NewSession prepares an idle session for the given meeting. Segment files
// are written under workDir until Stop joins and loads them.
func NewSession(meetingID string, rec Recorder, workDir string, logger zerolog.Logger) *Session {
	return &Session{
		meetingID: meetingID,
		rec:       rec,
		workDir:   workDir,
		logger:    logger.With().Str("meeting_id", meetingID).Logger(),
		now:       time.Now,
		state:     StateIdle,
	}
}

// Start acquires the capture device and begins recording. Only valid from
// Idle; starting twice is an error, never a second device acquisition.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("recording already active (state %s)", s.state)
	}

	seg := s.segmentPath()
	if err := s.rec.Begin(seg); err != nil {
		s.lastErr = &CaptureError{Reason: "could not start capture device", Err: err}
		return s.lastErr
	}

	s.segments = append(s.segments, seg)
	s.startedAt = s.now()
	s.pausedTotal = 0
	s.lastErr = nil
	s.state = StateRecording
	s.logger.Debug().Str("segment", seg).Msg("recording started")
	return nil
}

// Pause finalizes the current segment and stops accumulating duration.
// The device stays reserved for this session.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return fmt.Errorf("cannot pause from state %s", s.state)
	}
	if err := s.rec.End(); err != nil {
		s.lastErr = &CaptureError{Reason: "could not pause capture", Err: err}
		return s.lastErr
	}
	s.pausedAt = s.now()
	s.state = StatePaused
	s.logger.Debug().Msg("recording paused")
	return nil
}

// Resume opens a new segment and restarts duration accumulation.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return fmt.Errorf("cannot resume from state %s", s.state)
	}
	seg := s.segmentPath()
	if err := s.rec.Begin(seg); err != nil {
		s.lastErr = &CaptureError{Reason: "could not resume capture", Err: err}
		return s.lastErr
	}
	s.segments = append(s.segments, seg)
	s.pausedTotal += s.now().Sub(s.pausedAt)
	s.state = StateRecording
	s.logger.Debug().Str("segment", seg).Msg("recording resumed")
	return nil
}

// Stop finalizes the artifact from all captured segments and releases the
// device. A device fault surfacing here (abnormal encoder exit, unreadable
// output) returns CaptureError and resets the session to Idle rather than
// fabricating an empty artifact.
func (s *Session) Stop() (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRecording:
		if err := s.rec.End(); err != nil {
			s.failStop(&CaptureError{Reason: "capture device failed while stopping", Err: err})
			return nil, s.lastErr
		}
	case StatePaused:
		// segment already finalized by Pause
	default:
		return nil, fmt.Errorf("cannot stop from state %s", s.state)
	}

	duration := s.elapsedLocked()
	enc := s.rec.Encoding()

	outPath := s.segments[0]
	if len(s.segments) > 1 {
		outPath = filepath.Join(s.workDir, fmt.Sprintf("joined-%s.%s", uuid.NewString(), enc.Ext))
		if err := s.rec.Join(s.segments, outPath); err != nil {
			s.failStop(&CaptureError{Reason: "could not join capture segments", Err: err})
			return nil, s.lastErr
		}
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		s.failStop(&CaptureError{Reason: "could not read captured audio", Err: err})
		return nil, s.lastErr
	}
	if len(data) == 0 {
		s.failStop(&CaptureError{Reason: "capture produced no audio"})
		return nil, s.lastErr
	}

	s.artifact = &Artifact{
		Data:     data,
		MIME:     enc.MIME,
		Filename: fmt.Sprintf("meeting-%s-%s.%s", s.meetingID, uuid.NewString(), enc.Ext),
		Duration: duration,
	}
	s.state = StateStopped
	os.Remove(outPath)
	s.cleanupSegments()
	s.logger.Debug().Dur("duration", duration).Int("bytes", len(data)).Msg("recording stopped")
	return s.artifact, nil
}

// Reset discards the in-memory artifact and returns the session to Idle.
// If a recording is still active the device is released first.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		_ = s.rec.End()
	}
	s.cleanupSegments()
	s.artifact = nil
	s.lastErr = nil
	s.pausedTotal = 0
	s.state = StateIdle
	s.logger.Debug().Msg("session reset")
}

// Close releases the capture device if the owning command is torn down
// mid-recording.
func (s *Session) Close() {
	s.Reset()
}

// State reports the current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Artifact returns the stopped session's in-memory recording, or nil.
func (s *Session) Artifact() *Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}

// LastError returns the most recent capture fault, or nil.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Elapsed is the recording duration so far, excluding time spent paused.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Session) elapsedLocked() time.Duration {
	switch s.state {
	case StateRecording:
		return s.now().Sub(s.startedAt) - s.pausedTotal
	case StatePaused:
		return s.pausedAt.Sub(s.startedAt) - s.pausedTotal
	case StateStopped:
		if s.artifact != nil {
			return s.artifact.Duration
		}
	}
	return 0
}

func (s *Session) failStop(capErr *CaptureError) {
	s.lastErr = capErr
	s.cleanupSegments()
	s.artifact = nil
	s.state = StateIdle
	s.logger.Warn().Err(capErr).Msg("stop failed, session reset")
}

func (s *Session) segmentPath() string {
	return filepath.Join(s.workDir, fmt.Sprintf("seg-%s.%s", uuid.NewString(), s.rec.Encoding().Ext))
}

func (s *Session) cleanupSegments() {
	for _, seg := range s.segments {
		os.Remove(seg)
	}
	s.segments = nil
}
