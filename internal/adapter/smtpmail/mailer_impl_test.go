package smtpmail

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/listings-service/internal/entity"
)

type sentMail struct {
	mail *email.Email
	addr string
	auth smtp.Auth
}

func recordingMailer(s Settings, fail func(call int, auth smtp.Auth) error) (*Mailer, *[]sentMail) {
	m := NewMailer(s)
	var sent []sentMail
	m.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		sent = append(sent, sentMail{mail: e, addr: addr, auth: auth})
		if fail != nil {
			return fail(len(sent), auth)
		}
		return nil
	}
	return m, &sent
}

func TestMailer_Send(t *testing.T) {
	m, sent := recordingMailer(Settings{Host: "smtp.example.no", Username: "u", Password: "p", From: "post@bilstudio.no"}, nil)

	err := m.Send(context.Background(), entity.MailMessage{
		To:      []string{"kunde@example.no"},
		Subject: "Vi har mottatt din henvendelse",
		Text:    "Hei",
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	got := (*sent)[0]
	assert.Equal(t, "smtp.example.no:587", got.addr)
	assert.NotNil(t, got.auth)
	assert.Equal(t, "post@bilstudio.no", got.mail.From)
	assert.Equal(t, []string{"kunde@example.no"}, got.mail.To)
	assert.Equal(t, []byte("Hei"), got.mail.Text)
}

func TestMailer_RetriesWithoutAuth(t *testing.T) {
	m, sent := recordingMailer(Settings{Host: "relay", Port: 25, Username: "u"}, func(call int, auth smtp.Auth) error {
		if auth != nil {
			return errors.New("smtp: server doesn't support AUTH")
		}
		return nil
	})

	require.NoError(t, m.Send(context.Background(), entity.MailMessage{To: []string{"a@b.no"}}))
	require.Len(t, *sent, 2)
	assert.Nil(t, (*sent)[1].auth)
}

func TestMailer_Errors(t *testing.T) {
	m, _ := recordingMailer(Settings{Host: "relay"}, func(int, smtp.Auth) error { return errors.New("connection refused") })

	err := m.Send(context.Background(), entity.MailMessage{To: []string{"a@b.no"}})
	assert.ErrorContains(t, err, "connection refused")

	assert.Error(t, m.Send(context.Background(), entity.MailMessage{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, entity.MailMessage{To: []string{"a@b.no"}}), context.Canceled)
}
