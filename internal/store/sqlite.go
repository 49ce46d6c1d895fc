package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SqliteStore persists pending recordings in a local sqlite file so an
// unsent recording survives the process.
type SqliteStore struct {
	DB *sqlx.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSqliteStore(dsn string) (*SqliteStore, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	s := &SqliteStore{
		DB:    db,
		locks: make(map[string]*sync.Mutex),
	}
	if err := s.applyMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqliteStore) applyMigrations() error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return &StorageError{Op: "migrate", Err: err}
	}
	if err := goose.Up(s.DB.DB, "migrations"); err != nil {
		return &StorageError{Op: "migrate", Err: err}
	}
	return nil
}

// keyLock serializes Save/Delete for a single meeting id so a delete racing
// a save cannot interleave into a half-written row.
func (s *SqliteStore) keyLock(meetingID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[meetingID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[meetingID] = l
	}
	return l
}

func (s *SqliteStore) Save(ctx context.Context, rec meeting.LocalRecording) error {
	l := s.keyLock(rec.MeetingID)
	l.Lock()
	defer l.Unlock()

	// Single-statement upsert: a failure leaves any prior row intact.
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO pending_recordings (meeting_id, blob, filename, mime_type, size_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(meeting_id) DO UPDATE SET
		   blob = excluded.blob,
		   filename = excluded.filename,
		   mime_type = excluded.mime_type,
		   size_bytes = excluded.size_bytes,
		   created_at = excluded.created_at`,
		rec.MeetingID,
		rec.Blob,
		rec.Filename,
		rec.MIME,
		rec.SizeBytes,
		rec.CreatedAt,
	)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

func (s *SqliteStore) Get(ctx context.Context, meetingID string) (*meeting.LocalRecording, error) {
	rec := meeting.LocalRecording{}
	err := s.DB.GetContext(ctx, &rec,
		"SELECT meeting_id, blob, filename, mime_type, size_bytes, created_at FROM pending_recordings WHERE meeting_id = ?",
		meetingID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &rec, nil
}

func (s *SqliteStore) Delete(ctx context.Context, meetingID string) error {
	l := s.keyLock(meetingID)
	l.Lock()
	defer l.Unlock()

	if _, err := s.DB.ExecContext(ctx, "DELETE FROM pending_recordings WHERE meeting_id = ?", meetingID); err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}

func (s *SqliteStore) List(ctx context.Context) ([]meeting.LocalRecording, error) {
	recs := []meeting.LocalRecording{}
	err := s.DB.SelectContext(ctx, &recs,
		"SELECT meeting_id, blob, filename, mime_type, size_bytes, created_at FROM pending_recordings ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return recs, nil
}

func (s *SqliteStore) Close() error {
	return s.DB.Close()
}
