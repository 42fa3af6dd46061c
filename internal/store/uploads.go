package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	EventUpload  = "upload"
	EventRestore = "restore"
	EventSave    = "save"
	EventReset   = "reset"
)

var (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusIgnored = "ignored"
)

// UploadRecord is one event in a dataset slot's life.
type UploadRecord struct {
	ID         int64     `db:"id" json:"id"`
	Dataset    string    `db:"dataset" json:"dataset"`
	Event      string    `db:"event" json:"event"`
	Status     string    `db:"status" json:"status"`
	FileName   string    `db:"file_name" json:"file_name,omitempty"`
	Checksum   string    `db:"checksum" json:"checksum,omitempty"`
	RowCount   int       `db:"row_count" json:"row_count"`
	Detail     string    `db:"detail" json:"detail,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

const uploadHistorySchema = `CREATE TABLE IF NOT EXISTS upload_history (
	id          BIGSERIAL PRIMARY KEY,
	dataset     TEXT NOT NULL,
	event       TEXT NOT NULL,
	status      TEXT NOT NULL,
	file_name   TEXT NOT NULL DEFAULT '',
	checksum    TEXT NOT NULL DEFAULT '',
	row_count   INTEGER NOT NULL DEFAULT 0,
	detail      TEXT NOT NULL DEFAULT '',
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type UploadHistoryStore struct {
	db *sqlx.DB
}

func (us *UploadHistoryStore) EnsureSchema(ctx context.Context) error {
	_, err := us.db.ExecContext(ctx, uploadHistorySchema)
	return err
}

func (us *UploadHistoryStore) Record(ctx context.Context, record *UploadRecord) error {
	query := `INSERT INTO upload_history (
		dataset,
		event,
		status,
		file_name,
		checksum,
		row_count,
		detail
	) VALUES (
		:dataset,
		:event,
		:status,
		:file_name,
		:checksum,
		:row_count,
		:detail
	) RETURNING id, recorded_at`

	rows, err := sqlx.NamedQueryContext(ctx, us.db, query, record)
	if err != nil {
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&record.ID, &record.RecordedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Latest returns the newest records first. With datasets given, only those
// slots are listed.
func (us *UploadHistoryStore) Latest(ctx context.Context, limit int, datasets ...string) ([]UploadRecord, error) {
	query := `SELECT id, dataset, event, status, file_name, checksum, row_count, detail, recorded_at
		FROM upload_history
		WHERE ($1::text[] IS NULL OR dataset = ANY($1::text[]))
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2`

	var filter, rowLimit interface{}
	if len(datasets) > 0 {
		filter = pq.Array(datasets)
	}
	// LIMIT NULL means no limit
	if limit > 0 {
		rowLimit = limit
	}

	records := []UploadRecord{}
	if err := us.db.SelectContext(ctx, &records, query, filter, rowLimit); err != nil {
		return nil, err
	}
	return records, nil
}
