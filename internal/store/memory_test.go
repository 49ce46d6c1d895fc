package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryStore()

	first := testRecording()
	require.NoError(t, m.Save(ctx, first))

	second := first
	second.Blob = []byte("retake")
	second.Filename = "retake.wav"
	require.NoError(t, m.Save(ctx, second))

	got, err := m.Get(ctx, first.MeetingID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []byte("retake"), got.Blob, "save is upsert, not accumulate")

	all, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "exactly one entry per meeting")
}

func TestMemoryStore_DeleteSemantics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryStore()

	rec := testRecording()
	require.NoError(t, m.Save(ctx, rec))
	require.NoError(t, m.Delete(ctx, rec.MeetingID))

	got, err := m.Get(ctx, rec.MeetingID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting an absent key is a no-op
	require.NoError(t, m.Delete(ctx, "never-saved"))
}

func TestMemoryStore_GetAbsent(t *testing.T) {
	t.Parallel()
	got, err := NewMemoryStore().Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryStore()
	rec := testRecording()
	require.NoError(t, m.Save(ctx, rec))

	got, err := m.Get(ctx, rec.MeetingID)
	require.NoError(t, err)
	got.Filename = "mutated.wav"

	again, err := m.Get(ctx, rec.MeetingID)
	require.NoError(t, err)
	assert.Equal(t, rec.Filename, again.Filename)
}
