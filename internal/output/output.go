package output

import (
	"fmt"
	"io"
	"time"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) RecordingStarted(meetingID string) {
	fmt.Fprintf(f.w, "🎙️  Recording meeting %s — [p]ause  [s]top\n", meetingID)
}

func (f *Formatter) RecordingPaused(elapsed time.Duration) {
	fmt.Fprintf(f.w, "⏸️  Paused at %s — [r]esume  [s]top\n", formatDuration(elapsed))
}

func (f *Formatter) RecordingResumed() {
	fmt.Fprintf(f.w, "🎙️  Resumed — [p]ause  [s]top\n")
}

func (f *Formatter) RecordingStopped(duration time.Duration) {
	fmt.Fprintf(f.w, "⏹️  Recording stopped (%s)\n", formatDuration(duration))
}

func (f *Formatter) SavedLocally(meetingID string, sizeBytes int64) {
	fmt.Fprintf(f.w, "💾 Recording saved locally for meeting %s (%s)\n", meetingID, formatSize(sizeBytes))
}

func (f *Formatter) Uploading(meetingID string) {
	fmt.Fprintf(f.w, "📤 Uploading recording for meeting %s...\n", meetingID)
}

func (f *Formatter) UploadDone(filename string, sizeBytes int64, status string) {
	fmt.Fprintf(f.w, "✅ Uploaded %s (%s), processing: %s\n", filename, formatSize(sizeBytes), status)
}

func (f *Formatter) MeetingDetails(title, processingStatus string) {
	fmt.Fprintf(f.w, "📋 %s — audio processing: %s\n", title, processingStatus)
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) PendingListHeader() {
	fmt.Fprintf(f.w, "💾 Pending recordings:\n\n")
}

func (f *Formatter) PendingListItem(meetingID, filename string, sizeBytes int64, createdAt time.Time) {
	fmt.Fprintf(f.w, "  %s  %s  %s  %s\n", meetingID, filename, formatSize(sizeBytes), createdAt.Format("2006-01-02 15:04"))
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	}
	return fmt.Sprintf("%d B", bytes)
}
