package domain

import "time"

type NotificationKind string

const (
	NotifyCustom    NotificationKind = "custom"
	NotifyWelcome   NotificationKind = "welcome"
	NotifyApproval  NotificationKind = "approval"
	NotifyRejection NotificationKind = "rejection"
	NotifyRenewal   NotificationKind = "renewal"
	NotifyUpsell    NotificationKind = "upsell"
)

// Notification is an outbound WhatsApp message payload. Building one does no I/O.
type Notification struct {
	Kind              NotificationKind
	Phone             string
	EstablishmentID   int64
	EstablishmentName string
	Message           string
}

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// NotificationRecord is what the dispatch log keeps for each attempt.
type NotificationRecord struct {
	ID                string           `json:"id"`
	Kind              NotificationKind `json:"type"`
	Phone             string           `json:"phone"`
	EstablishmentID   int64            `json:"establishment_id,omitempty"`
	EstablishmentName string           `json:"establishment"`
	Message           string           `json:"message"`
	Status            string           `json:"status"`
	Error             string           `json:"error,omitempty"`
	Timestamp         time.Time        `json:"timestamp"`
}
