// Package whatsapp holds the outbound message senders.
package whatsapp

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"barzinhos/internal/domain"
)

const previewLen = 100

var ErrNoRecipient = errors.New("whatsapp: recipient phone is required")

// LogSender simulates delivery by writing the message to the log.
type LogSender struct{ l zerolog.Logger }

func NewLogSender(l zerolog.Logger) *LogSender {
	return &LogSender{l: l.With().Str("component", "whatsapp").Logger()}
}

func (s *LogSender) Send(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(n.Phone) == "" {
		return ErrNoRecipient
	}
	s.l.Info().
		Str("kind", string(n.Kind)).
		Str("phone", n.Phone).
		Str("establishment", n.EstablishmentName).
		Str("preview", preview(n.Message)).
		Msg("whatsapp message sent")
	return nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
