package usecases

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santoshjammi/funds-trackon-sub001/internal/auth"
	"github.com/santoshjammi/funds-trackon-sub001/internal/crm"
	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
	"github.com/santoshjammi/funds-trackon-sub001/internal/store"
)

func TestPreviewLocal_ExportsPendingRecording(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, durableEntry([]byte("listen-to-me"))))

	p := &PreviewLocal{Store: st, ExportDir: t.TempDir()}
	path, err := p.Execute(ctx, "mtg-1", "")
	require.NoError(t, err)
	assert.Equal(t, "durable.wav", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("listen-to-me"), data)

	// the export is a copy; the pending entry stays put
	entry, err := st.Get(ctx, "mtg-1")
	require.NoError(t, err)
	assert.NotNil(t, entry)
}

func TestPreviewLocal_NothingPending(t *testing.T) {
	t.Parallel()
	p := &PreviewLocal{Store: store.NewMemoryStore(), ExportDir: t.TempDir()}
	_, err := p.Execute(context.Background(), "mtg-1", "")
	require.ErrorIs(t, err, meeting.ErrNoRecording)
}

func TestFetchRemote_DownloadsWithFilenameHint(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="board-call.wav"`)
		w.Write([]byte("remote-audio"))
	}))
	defer srv.Close()

	f := &FetchRemote{
		Client:  crm.NewClient(srv.URL, zerolog.Nop()),
		Guard:   auth.NewGuard(auth.StaticProvider(validToken(t)), 0, zerolog.Nop()),
		SaveDir: t.TempDir(),
	}
	path, err := f.Execute(context.Background(), "mtg-1", "")
	require.NoError(t, err)
	assert.Equal(t, "board-call.wav", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("remote-audio"), data)
}

func TestFetchRemote_RequiresValidToken(t *testing.T) {
	t.Parallel()
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	f := &FetchRemote{
		Client:  crm.NewClient(srv.URL, zerolog.Nop()),
		Guard:   auth.NewGuard(auth.StaticProvider(expiredToken(t)), 0, zerolog.Nop()),
		SaveDir: t.TempDir(),
	}
	_, err := f.Execute(context.Background(), "mtg-1", "")
	require.ErrorIs(t, err, meeting.ErrAuthRequired)
	assert.Zero(t, requests)
}
