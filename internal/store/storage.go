package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	Uploads interface {
		EnsureSchema(ctx context.Context) error
		Record(ctx context.Context, record *UploadRecord) error
		Latest(ctx context.Context, limit int, datasets ...string) ([]UploadRecord, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Uploads: &UploadHistoryStore{db: db},
	}
}

// NewMemoryStorage is the storage used when no database is configured.
func NewMemoryStorage() *Storage {
	return &Storage{
		Uploads: NewMemoryUploadHistory(),
	}
}
