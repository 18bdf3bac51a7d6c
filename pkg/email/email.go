package email

// EmailService defines the interface for sending account notifications
type EmailService interface {
	// SendLoginAlert notifies the user that a new session was opened on a
	// device. Delivery is best-effort and must never block or fail the login.
	SendLoginAlert(to, username, deviceInfo, ipAddress string) error
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}
