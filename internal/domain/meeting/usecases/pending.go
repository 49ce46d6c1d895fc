package usecases

import (
	"context"

	"github.com/santoshjammi/funds-trackon-sub001/internal/domain/meeting"
	"github.com/santoshjammi/funds-trackon-sub001/internal/store"
)

// ListPending reports recordings saved locally but not yet uploaded.
type ListPending struct {
	Store store.Store
}

func (l *ListPending) Execute(ctx context.Context) ([]meeting.LocalRecording, error) {
	return l.Store.List(ctx)
}
