package audio

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"
)

// encodings maps supported container formats to their upload MIME types.
// These match what the CRM backend accepts for meeting audio.
var encodings = map[string]Encoding{
	"wav":  {Ext: "wav", MIME: "audio/wav"},
	"mp3":  {Ext: "mp3", MIME: "audio/mpeg"},
	"webm": {Ext: "webm", MIME: "audio/webm"},
	"ogg":  {Ext: "ogg", MIME: "audio/ogg"},
}

// FFmpegRecorder captures microphone audio by running ffmpeg, one process
// per segment. End asks the process to finalize the container with SIGINT
// so the file stays playable.
type FFmpegRecorder struct {
	input Input
	enc   Encoding
	cmd   *exec.Cmd
	log   *os.File
}

// NewFFmpegRecorder validates the encoder and capture input up front so a
// missing ffmpeg surfaces before any recording starts, not as an empty file.
func NewFFmpegRecorder(inputSpec, format string) (*FFmpegRecorder, error) {
	if err := CheckEncoder(); err != nil {
		return nil, err
	}
	input, err := ParseInput(inputSpec)
	if err != nil {
		return nil, err
	}
	enc, ok := encodings[format]
	if !ok {
		return nil, &CaptureError{Reason: fmt.Sprintf("unsupported audio format %q (use one of: %s)", format, strings.Join(formatNames(), ", "))}
	}
	return &FFmpegRecorder{input: input, enc: enc}, nil
}

// CheckEncoder reports whether the ffmpeg encoder is available.
func CheckEncoder() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return &CaptureError{Reason: "ffmpeg not found. Install with: brew install ffmpeg", Err: err}
	}
	return nil
}

func (r *FFmpegRecorder) Encoding() Encoding { return r.enc }

func (r *FFmpegRecorder) Begin(path string) error {
	if r.cmd != nil {
		return fmt.Errorf("a capture segment is already running")
	}

	cmd := exec.Command("ffmpeg",
		"-f", r.input.Backend,
		"-i", r.input.Device,
		"-ac", "1",
		"-ar", "16000",
		"-y",
		path,
	)

	// Keep ffmpeg stderr around for diagnostics
	if logFile, err := os.Create(path + ".ffmpeg.log"); err == nil {
		cmd.Stderr = logFile
		r.log = logFile
	}

	if err := cmd.Start(); err != nil {
		r.closeLog()
		return fmt.Errorf("starting ffmpeg: %w", err)
	}
	r.cmd = cmd
	return nil
}

func (r *FFmpegRecorder) End() error {
	if r.cmd == nil {
		return fmt.Errorf("no capture segment is running")
	}
	defer func() {
		r.cmd = nil
		r.closeLog()
	}()

	// SIGINT lets ffmpeg flush and close the container
	if err := r.cmd.Process.Signal(syscall.SIGINT); err != nil {
		_ = r.cmd.Process.Kill()
		return fmt.Errorf("stopping ffmpeg: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- r.cmd.Wait() }()
	select {
	case <-done:
		// ffmpeg exits non-zero on SIGINT; the segment file is still valid
		return nil
	case <-time.After(10 * time.Second):
		_ = r.cmd.Process.Kill()
		return fmt.Errorf("ffmpeg did not finalize the segment in time")
	}
}

// Join concatenates finished segments into a single file using ffmpeg's
// concat demuxer, re-encoding so mismatched segment headers don't matter.
func (r *FFmpegRecorder) Join(segments []string, outPath string) error {
	list, err := os.CreateTemp("", "recorder-concat-*.txt")
	if err != nil {
		return fmt.Errorf("creating concat list: %w", err)
	}
	defer os.Remove(list.Name())

	for _, seg := range segments {
		fmt.Fprintf(list, "file '%s'\n", seg)
	}
	if err := list.Close(); err != nil {
		return err
	}

	cmd := exec.Command("ffmpeg",
		"-f", "concat",
		"-safe", "0",
		"-i", list.Name(),
		"-ac", "1",
		"-ar", "16000",
		"-y",
		outPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("joining segments: %w\n%s", err, string(out))
	}
	return nil
}

func (r *FFmpegRecorder) closeLog() {
	if r.log != nil {
		r.log.Close()
		r.log = nil
	}
}

func formatNames() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
