package usecases

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santoshjammi/funds-trackon-sub001/internal/audio"
	"github.com/santoshjammi/funds-trackon-sub001/internal/auth"
	"github.com/santoshjammi/funds-trackon-sub001/internal/crm"
	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
	"github.com/santoshjammi/funds-trackon-sub001/internal/store"
)

func validToken(t *testing.T) string {
	return tokenWithClaims(t, jwt.MapClaims{"sub": "user", "exp": time.Now().Add(time.Hour).Unix()})
}

func expiredToken(t *testing.T) string {
	return tokenWithClaims(t, jwt.MapClaims{"sub": "user", "exp": time.Now().Add(-time.Hour).Unix()})
}

func tokenWithClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

// uploadServer records upload attempts and answers with a canned success.
func uploadServer(t *testing.T, requests *atomic.Int32, received *[]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		file, _, err := r.FormFile("audio_file")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		*received = data

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"meeting_id":"mtg-1","audio_filename":"abc.wav","file_size":5,"processing_status":"Not Started"}`))
	}))
}

func newSubmit(st store.Store, baseURL, token string) *SubmitRecording {
	guard := auth.NewGuard(auth.StaticProvider(token), 0, zerolog.Nop())
	return &SubmitRecording{
		Store:  st,
		Client: crm.NewClient(baseURL, zerolog.Nop()),
		Guard:  guard,
		Logger: zerolog.Nop(),
	}
}

func durableEntry(blob []byte) meeting.LocalRecording {
	return meeting.LocalRecording{
		MeetingID: "mtg-1",
		Blob:      blob,
		Filename:  "durable.wav",
		MIME:      "audio/wav",
		SizeBytes: int64(len(blob)),
		CreatedAt: time.Now(),
	}
}

func inMemoryArtifact(blob []byte) *audio.Artifact {
	return &audio.Artifact{Data: blob, MIME: "audio/wav", Filename: "inmemory.wav"}
}

func TestSubmit_DurablePreferredOverInMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var requests atomic.Int32
	var received []byte
	srv := uploadServer(t, &requests, &received)
	defer srv.Close()

	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, durableEntry([]byte("durable-bytes"))))

	sub := newSubmit(st, srv.URL, validToken(t))
	var uploads []meeting.UploadResult
	sub.OnUploaded = func(res meeting.UploadResult) { uploads = append(uploads, res) }

	result, err := sub.Execute(ctx, "mtg-1", inMemoryArtifact([]byte("in-memory-bytes")))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, []byte("durable-bytes"), received, "the durable copy is the one transmitted")
	assert.Len(t, uploads, 1, "OnUploaded fires exactly once")

	entry, err := st.Get(ctx, "mtg-1")
	require.NoError(t, err)
	assert.Nil(t, entry, "successful upload clears the durable copy")
}

func TestSubmit_FallsBackToInMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var requests atomic.Int32
	var received []byte
	srv := uploadServer(t, &requests, &received)
	defer srv.Close()

	sub := newSubmit(store.NewMemoryStore(), srv.URL, validToken(t))
	_, err := sub.Execute(ctx, "mtg-1", inMemoryArtifact([]byte("in-memory-bytes")))
	require.NoError(t, err)
	assert.Equal(t, []byte("in-memory-bytes"), received)
}

func TestSubmit_NothingToSend(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	var received []byte
	srv := uploadServer(t, &requests, &received)
	defer srv.Close()

	sub := newSubmit(store.NewMemoryStore(), srv.URL, validToken(t))
	_, err := sub.Execute(context.Background(), "mtg-1", nil)
	require.ErrorIs(t, err, meeting.ErrNoRecording)
	assert.Equal(t, int32(0), requests.Load(), "no network call without an artifact")
}

func TestSubmit_ExpiredTokenPreservesEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var requests atomic.Int32
	var received []byte
	srv := uploadServer(t, &requests, &received)
	defer srv.Close()

	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, durableEntry([]byte("keep-me"))))

	sub := newSubmit(st, srv.URL, expiredToken(t))
	_, err := sub.Execute(ctx, "mtg-1", nil)
	require.ErrorIs(t, err, meeting.ErrAuthRequired)
	assert.Equal(t, int32(0), requests.Load(), "auth is re-checked before transmitting")

	entry, err := st.Get(ctx, "mtg-1")
	require.NoError(t, err)
	require.NotNil(t, entry, "durable copy kept for retry after re-login")
	assert.Equal(t, []byte("keep-me"), entry.Blob)
}

func TestSubmit_TokenWithoutExpiryProceeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var requests atomic.Int32
	var received []byte
	srv := uploadServer(t, &requests, &received)
	defer srv.Close()

	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, durableEntry([]byte("x"))))

	sub := newSubmit(st, srv.URL, tokenWithClaims(t, jwt.MapClaims{"sub": "user"}))
	_, err := sub.Execute(ctx, "mtg-1", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestSubmit_BackendAuthRejectionPreservesEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, durableEntry([]byte("keep-me"))))

	sub := newSubmit(st, srv.URL, validToken(t))
	var uploaded bool
	sub.OnUploaded = func(meeting.UploadResult) { uploaded = true }

	_, err := sub.Execute(ctx, "mtg-1", nil)
	require.ErrorIs(t, err, meeting.ErrAuthRequired)
	assert.False(t, uploaded)

	entry, err := st.Get(ctx, "mtg-1")
	require.NoError(t, err)
	assert.NotNil(t, entry)
}

func TestSubmit_ServerFailurePreservesEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail":"upstream unavailable"}`))
	}))
	defer srv.Close()

	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, durableEntry([]byte("keep-me"))))

	sub := newSubmit(st, srv.URL, validToken(t))
	_, err := sub.Execute(ctx, "mtg-1", nil)

	var uploadErr *meeting.UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, http.StatusBadGateway, uploadErr.Status)
	assert.Equal(t, "upstream unavailable", uploadErr.Message)

	entry, err := st.Get(ctx, "mtg-1")
	require.NoError(t, err)
	assert.NotNil(t, entry)
}
