package repository

import (
	"context"

	"github.com/user/listings-service/internal/entity"
)

// Mailer delivers plain-text email.
type Mailer interface {
	Send(ctx context.Context, msg entity.MailMessage) error
}
