package meeting

import (
	"errors"
	"fmt"
)

// ErrAuthRequired means the action needs a valid session token: either none
// was found, the token has expired, or the backend rejected it. Recoverable
// by logging in to the CRM again and retrying.
var ErrAuthRequired = errors.New("authentication required: log in to the CRM and retry")

// ErrNoRecording means submit was called with neither a pending local
// recording nor an in-memory artifact to send.
var ErrNoRecording = errors.New("no recording available for this meeting")

// UploadError is a non-auth rejection from the audio upload endpoint.
// The pending local copy is preserved so the upload can be retried.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload failed (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("upload failed (HTTP %d): %s", e.Status, e.Message)
}
