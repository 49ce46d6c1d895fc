package store

import (
	"context"
	"sync"

	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
)

// MemoryStore holds pending recordings in process memory. Used by tests and
// by --no-persist runs where nothing should touch disk.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]meeting.LocalRecording
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]meeting.LocalRecording),
	}
}

func (m *MemoryStore) Save(_ context.Context, rec meeting.LocalRecording) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[rec.MeetingID] = rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, meetingID string) (*meeting.LocalRecording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.data[meetingID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) Delete(_ context.Context, meetingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, meetingID)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]meeting.LocalRecording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := make([]meeting.LocalRecording, 0, len(m.data))
	for _, rec := range m.data {
		recs = append(recs, rec)
	}
	return recs, nil
}

func (m *MemoryStore) Close() error { return nil }
