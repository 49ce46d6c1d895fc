package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/rs/zerolog"

	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
)

// Client calls the funds-trackon CRM REST API for meeting audio.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
		Logger:  logger,
	}
}

// UploadAudio transmits a recording as a multipart upload to
// POST /meetings/{id}/audio. Auth rejections map to ErrAuthRequired so
// callers know the local copy must be kept for a retry after re-login.
func (c *Client) UploadAudio(ctx context.Context, meetingID, token, filename, mimeType string, blob []byte) (*meeting.UploadResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreatePart(audioPartHeader(filename, mimeType))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(blob); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/meetings/%s/audio", c.BaseURL, meetingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &meeting.UploadError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.Logger.Warn().Int("status", resp.StatusCode).Str("meeting_id", meetingID).Msg("upload rejected by auth")
		return nil, meeting.ErrAuthRequired
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &meeting.UploadError{Status: resp.StatusCode, Message: errorDetail(respBody)}
	}

	var result meeting.UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parsing upload response: %w", err)
	}
	c.Logger.Info().Str("meeting_id", meetingID).Int64("bytes", result.FileSizeBytes).Msg("audio uploaded")
	return &result, nil
}

// DownloadAudio fetches a meeting's uploaded audio from
// GET /meetings/{id}/audio, returning the content-disposition filename hint.
func (c *Client) DownloadAudio(ctx context.Context, meetingID, token string) (string, []byte, error) {
	url := fmt.Sprintf("%s/meetings/%s/audio", c.BaseURL, meetingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", nil, meeting.ErrAuthRequired
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return "", nil, &meeting.UploadError{Status: resp.StatusCode, Message: errorDetail(body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("reading audio: %w", err)
	}

	filename := "meeting-" + meetingID + ".audio"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if name := params["filename"]; name != "" {
			filename = name
		}
	}
	return filename, data, nil
}

// GetMeeting refreshes meeting details after an upload. The UI trusts this
// fetch, not the upload response payload, for display state.
func (c *Client) GetMeeting(ctx context.Context, meetingID, token string) (*meeting.Details, error) {
	url := fmt.Sprintf("%s/meetings/%s", c.BaseURL, meetingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching meeting %s (HTTP %d): %s", meetingID, resp.StatusCode, errorDetail(body))
	}

	var details meeting.Details
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("parsing meeting details: %w", err)
	}
	return &details, nil
}

// audioPartHeader builds the multipart header for the audio_file field with
// an explicit content type, which the backend validates.
func audioPartHeader(filename, mimeType string) textproto.MIMEHeader {
	quoteEscaper := strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="audio_file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", mimeType)
	return h
}

// errorDetail pulls the backend's detail message out of an error body,
// falling back to the raw body.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(body))
}
