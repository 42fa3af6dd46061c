package store

import (
	"context"
	"sync"
	"time"
)

// MemoryUploadHistory keeps the upload history in process memory. It is used
// when no database is configured.
type MemoryUploadHistory struct {
	mu      sync.Mutex
	records []UploadRecord
	nextID  int64
	now     func() time.Time
}

func NewMemoryUploadHistory() *MemoryUploadHistory {
	return &MemoryUploadHistory{now: time.Now}
}

func (m *MemoryUploadHistory) EnsureSchema(ctx context.Context) error {
	return nil
}

func (m *MemoryUploadHistory) Record(ctx context.Context, record *UploadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	record.ID = m.nextID
	record.RecordedAt = m.now()
	m.records = append(m.records, *record)
	return nil
}

func (m *MemoryUploadHistory) Latest(ctx context.Context, limit int, datasets ...string) ([]UploadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wanted := make(map[string]bool, len(datasets))
	for _, d := range datasets {
		wanted[d] = true
	}

	out := []UploadRecord{}
	for i := len(m.records) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		r := m.records[i]
		if len(wanted) > 0 && !wanted[r.Dataset] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
