package redisad

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"barzinhos/internal/domain"
)

const notifyLogKey = "notifications:log"

// NotificationLog keeps the newest dispatch records in a capped list.
type NotificationLog struct {
	c    *redis.Client
	size int64
}

func NewNotificationLog(c *redis.Client, size int) *NotificationLog {
	if size <= 0 {
		size = 200
	}
	return &NotificationLog{c: c, size: int64(size)}
}

func (l *NotificationLog) Append(ctx context.Context, rec domain.NotificationRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = l.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, notifyLogKey, b)
		p.LTrim(ctx, notifyLogKey, 0, l.size-1)
		return nil
	})
	return err
}

// Recent returns up to limit records, newest first.
func (l *NotificationLog) Recent(ctx context.Context, limit int) ([]domain.NotificationRecord, error) {
	if limit <= 0 || int64(limit) > l.size {
		limit = int(l.size)
	}
	raw, err := l.c.LRange(ctx, notifyLogKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.NotificationRecord, 0, len(raw))
	for _, s := range raw {
		var rec domain.NotificationRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
