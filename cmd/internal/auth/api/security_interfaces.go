package authapi

import (
	"context"

	"callboard/cmd/internal/verification"
)

// CodeMessage is the canonical payload for verification-code delivery.
type CodeMessage struct {
	Email   string
	Purpose verification.Purpose
	Code    string
}

// EmailSender delivers verification codes out of band.
//
// Delivery is best-effort from the auth surface's point of view: a send
// failure is logged but never fails the request that triggered it.
type EmailSender interface {
	SendVerificationCode(ctx context.Context, msg CodeMessage) error
}

// NoopEmailSender is the default sender until a real provider is wired.
type NoopEmailSender struct{}

// SendVerificationCode drops the message.
func (NoopEmailSender) SendVerificationCode(_ context.Context, _ CodeMessage) error { return nil }
