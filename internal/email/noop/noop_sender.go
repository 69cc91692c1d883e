package noop

import (
	"context"

	"go.uber.org/zap"

	"budgetbuddy/internal/port"
)

type noopSender struct {
	frontendURL string
	logger      *zap.Logger
}

// NewNoopSender creates an EmailSender that only logs what it would have sent.
func NewNoopSender(frontendURL string, logger *zap.Logger) port.EmailSender {
	return &noopSender{frontendURL: frontendURL, logger: logger}
}

func (s *noopSender) SendWelcomeEmail(_ context.Context, toEmail, toName string) error {
	s.logger.Info("noop email: welcome",
		zap.String("to", toEmail),
		zap.String("name", toName),
		zap.String("app_url", s.frontendURL),
	)
	return nil
}
