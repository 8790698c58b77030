package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"barzinhos/internal/adapters/observability"
	"barzinhos/internal/domain"
)

// NotificationService hands payloads to the sender and keeps a dispatch log.
type NotificationService struct {
	sender domain.NotificationSender
	log    domain.NotificationLog
	now    func() time.Time
}

// NewNotificationService accepts a nil log; records are then only returned.
func NewNotificationService(s domain.NotificationSender, l domain.NotificationLog) *NotificationService {
	return &NotificationService{sender: s, log: l, now: func() time.Time { return time.Now().UTC() }}
}

// Dispatch sends n and records the attempt. The record is returned even when sending fails.
func (s *NotificationService) Dispatch(ctx context.Context, n domain.Notification) (domain.NotificationRecord, error) {
	rec := domain.NotificationRecord{
		ID:                uuid.NewString(),
		Kind:              n.Kind,
		Phone:             n.Phone,
		EstablishmentID:   n.EstablishmentID,
		EstablishmentName: n.EstablishmentName,
		Message:           n.Message,
		Status:            domain.StatusSent,
		Timestamp:         s.now(),
	}
	sendErr := s.sender.Send(ctx, n)
	if sendErr != nil {
		rec.Status = domain.StatusFailed
		rec.Error = sendErr.Error()
	}
	observability.ObserveNotification(string(n.Kind), rec.Status)

	if s.log != nil {
		if err := s.log.Append(ctx, rec); err != nil {
			log.Warn().Err(err).Str("notification_id", rec.ID).Msg("notification log append failed")
		}
	}
	if sendErr != nil {
		return rec, fmt.Errorf("send %s notification: %w", n.Kind, sendErr)
	}
	return rec, nil
}

// notifyBestEffort dispatches n when it has a recipient and only logs failures.
func (s *NotificationService) notifyBestEffort(ctx context.Context, n domain.Notification) {
	if s == nil || n.Phone == "" {
		return
	}
	if _, err := s.Dispatch(ctx, n); err != nil {
		log.Warn().Err(err).Int64("establishment_id", n.EstablishmentID).Msg("notification dispatch failed")
	}
}

func (s *NotificationService) Recent(ctx context.Context, limit int) ([]domain.NotificationRecord, error) {
	if s.log == nil {
		return []domain.NotificationRecord{}, nil
	}
	return s.log.Recent(ctx, limit)
}
