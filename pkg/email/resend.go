package email

import (
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// ResendEmailService implements EmailService using Resend
type ResendEmailService struct {
	client *resend.Client
	config *EmailConfig
}

// NewResendEmailService creates a new Resend email service
func NewResendEmailService(config *EmailConfig) (*ResendEmailService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	return &ResendEmailService{
		client: resend.NewClient(config.APIKey),
		config: config,
	}, nil
}

// SendLoginAlert notifies the user that a new session was opened.
func (s *ResendEmailService) SendLoginAlert(to, username, deviceInfo, ipAddress string) error {
	if deviceInfo == "" {
		deviceInfo = "an unrecognized device"
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		To:      []string{to},
		Subject: "New login to your account",
		Html: fmt.Sprintf(
			"<p>Hi %s,</p><p>A new session was just opened on %s (IP %s). "+
				"If this was not you, log out all sessions and change your password.</p>",
			username, deviceInfo, ipAddress,
		),
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		log.Printf("[EMAIL] Failed to send login alert to %s: %v", to, err)
		return fmt.Errorf("failed to send login alert: %w", err)
	}

	log.Printf("[EMAIL] Login alert sent to %s (ID: %s)", to, sent.Id)
	return nil
}
