package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/user/listings-service/internal/entity"
	"github.com/user/listings-service/internal/repository"
)

// ContactService forwards contact-form submissions by mail.
type ContactService interface {
	Submit(ctx context.Context, req entity.ContactRequest) error
	// SendTest mails the business inbox to verify SMTP settings.
	SendTest(ctx context.Context) error
}

type contactUseCase struct {
	mailer    repository.Mailer
	inbox     string
	signature string
	logger    *zap.Logger
}

// NewContactService builds the service. mailer may be nil when SMTP is not
// configured; every call then fails with ErrConfiguration.
func NewContactService(mailer repository.Mailer, inbox, signature string, logger *zap.Logger) ContactService {
	if signature == "" {
		signature = "Bilstudio"
	}
	return &contactUseCase{mailer: mailer, inbox: inbox, signature: signature, logger: logger}
}

func (uc *contactUseCase) ready() error {
	if uc.mailer == nil || uc.inbox == "" {
		return fmt.Errorf("%w: mail is not set up", ErrConfiguration)
	}
	return nil
}

func (uc *contactUseCase) Submit(ctx context.Context, req entity.ContactRequest) error {
	req = trimContact(req)
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"regnr", req.Regnr},
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	if err := uc.ready(); err != nil {
		return err
	}

	message := req.Message
	if message == "" {
		message = "(Ingen melding)"
	}
	notification := entity.MailMessage{
		To:      []string{uc.inbox},
		Subject: "Ny henvendelse via nettsiden - " + req.Regnr,
		Text: fmt.Sprintf("Registreringsnummer: %s\nNavn: %s\nE-post: %s\nTelefon: %s\nMelding: %s",
			req.Regnr, req.Name, req.Email, req.Phone, message),
	}
	if err := uc.mailer.Send(ctx, notification); err != nil {
		uc.logger.Error("contact notification failed", zap.String("regnr", req.Regnr), zap.Error(err))
		return fmt.Errorf("send notification: %w", err)
	}

	confirmation := entity.MailMessage{
		To:      []string{req.Email},
		Subject: "Vi har mottatt din henvendelse",
		Text: fmt.Sprintf("Hei %s,\n\nTakk for at du kontaktet oss angående bil med registreringsnummer %s.\n"+
			"Vi ser på henvendelsen og svarer fortløpende.\n\nMvh\n%s", req.Name, req.Regnr, uc.signature),
	}
	if err := uc.mailer.Send(ctx, confirmation); err != nil {
		uc.logger.Error("contact confirmation failed", zap.String("regnr", req.Regnr), zap.Error(err))
		return fmt.Errorf("send confirmation: %w", err)
	}

	uc.logger.Info("contact request forwarded", zap.String("regnr", req.Regnr))
	return nil
}

func (uc *contactUseCase) SendTest(ctx context.Context) error {
	if err := uc.ready(); err != nil {
		return err
	}
	return uc.mailer.Send(ctx, entity.MailMessage{
		To:      []string{uc.inbox},
		Subject: "Test fra " + uc.signature + " backend",
		Text:    "Hvis du leser dette, fungerer SMTP.",
	})
}

func trimContact(r entity.ContactRequest) entity.ContactRequest {
	r.Regnr = strings.TrimSpace(r.Regnr)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
	return r
}
