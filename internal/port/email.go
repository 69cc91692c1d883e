package port

import "context"

// EmailSender delivers account emails. Registration sends the only one today.
type EmailSender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}
