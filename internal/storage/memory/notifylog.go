package memory

import (
	"context"
	"sync"

	"barzinhos/internal/domain"
)

// NotificationLog is a capped, newest-first record list.
type NotificationLog struct {
	mu   sync.Mutex
	size int
	recs []domain.NotificationRecord
}

func NewNotificationLog(size int) *NotificationLog {
	if size <= 0 {
		size = 200
	}
	return &NotificationLog{size: size}
}

func (l *NotificationLog) Append(ctx context.Context, rec domain.NotificationRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs = append([]domain.NotificationRecord{rec}, l.recs...)
	if len(l.recs) > l.size {
		l.recs = l.recs[:l.size]
	}
	return nil
}

func (l *NotificationLog) Recent(ctx context.Context, limit int) ([]domain.NotificationRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 || limit > len(l.recs) {
		limit = len(l.recs)
	}
	return append([]domain.NotificationRecord{}, l.recs[:limit]...), nil
}
