package config

import (
	"errors"
	"os"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ErrEmailDisabled is returned by Send when no Resend credentials are
// configured.
var ErrEmailDisabled = errors.New("email delivery not configured")

type ResendConfig struct {
	APIKey string
	From   string
}

// NewResendConfig reads Resend credentials from the environment. Email is an
// optional channel: with no key configured the service runs disabled and
// in-app delivery carries on alone.
func NewResendConfig(logger *zap.Logger) *ResendConfig {
	apiKey := os.Getenv("RESEND_API_KEY")
	from := os.Getenv("FROM_EMAIL")
	if apiKey == "" || from == "" {
		logger.Info("RESEND_API_KEY or FROM_EMAIL not set, email delivery disabled")
	}
	return &ResendConfig{APIKey: apiKey, From: from}
}

// EmailService sends notification copies through Resend.
type EmailService struct {
	client *resend.Client
	from   string
}

func NewEmailService(config *ResendConfig) *EmailService {
	if config.APIKey == "" || config.From == "" {
		return &EmailService{}
	}
	return &EmailService{client: resend.NewClient(config.APIKey), from: config.From}
}

// Enabled reports whether a delivery channel is configured.
func (e *EmailService) Enabled() bool {
	return e.client != nil
}

func (e *EmailService) Send(to, subject, html string) error {
	if e.client == nil {
		return ErrEmailDisabled
	}
	_, err := e.client.Emails.Send(&resend.SendEmailRequest{
		From:    e.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	return err
}
