package app

import "context"

type SyncUseCase interface {
	Sync(ctx context.Context, req SyncRequest) (*SyncResult, error)
}

type ShiftUseCase interface {
	ShiftWindow(ctx context.Context, req ShiftRequest) (*ShiftResult, error)
}

type BulkUpdateUseCase interface {
	BulkUpdate(ctx context.Context, req BulkUpdateRequest) (*BulkUpdateResult, error)
}
