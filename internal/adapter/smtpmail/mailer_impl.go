package smtpmail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/user/listings-service/internal/entity"
)

// Settings holds the SMTP connection details.
type Settings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends mail through a single SMTP relay.
type Mailer struct {
	settings Settings
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(s Settings) *Mailer {
	if s.Port == 0 {
		s.Port = 587
	}
	return &Mailer{
		settings: s,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Send delivers msg. Relays that do not offer AUTH are retried without it.
func (m *Mailer) Send(ctx context.Context, msg entity.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return errors.New("mail has no recipients")
	}

	mail := email.NewEmail()
	mail.From = m.settings.From
	mail.To = msg.To
	mail.Subject = msg.Subject
	mail.Text = []byte(msg.Text)

	addr := fmt.Sprintf("%s:%d", m.settings.Host, m.settings.Port)
	var auth smtp.Auth
	if m.settings.Username != "" {
		auth = smtp.PlainAuth("", m.settings.Username, m.settings.Password, m.settings.Host)
	}

	err := m.send(mail, addr, auth)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = m.send(mail, addr, nil)
	}
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", strings.Join(msg.To, ","), err)
	}
	return nil
}
