package meeting

import "time"

// LocalRecording is a pending recording persisted in the local store,
// keyed by meeting ID. At most one exists per meeting.
type LocalRecording struct {
	MeetingID string    `db:"meeting_id"`
	Blob      []byte    `db:"blob"`
	Filename  string    `db:"filename"`
	MIME      string    `db:"mime_type"`
	SizeBytes int64     `db:"size_bytes"`
	CreatedAt time.Time `db:"created_at"`
}

// UploadResult is the backend's response to a successful audio upload.
// Display state comes from a follow-up details fetch, not from this payload.
type UploadResult struct {
	MeetingID        string `json:"meeting_id"`
	AudioFilename    string `json:"audio_filename"`
	FileSizeBytes    int64  `json:"file_size"`
	ProcessingStatus string `json:"processing_status"`
}

// Details is the subset of the meeting record shown after an upload.
type Details struct {
	ID                    string `json:"id"`
	Title                 string `json:"title"`
	HasAudio              bool   `json:"has_audio"`
	AudioProcessingStatus string `json:"audio_processing_status"`
}
