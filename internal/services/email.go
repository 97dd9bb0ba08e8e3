package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/believerchat/backend/internal/config"
)

// EmailService sends account-lifecycle notifications. When SMTP is not
// configured the service stays disabled and sends become no-ops.
type EmailService struct {
	cfg     *config.Config
	dialer  *gomail.Dialer
	enabled bool
}

func NewEmailService(cfg *config.Config) *EmailService {
	svc := &EmailService{cfg: cfg}
	if cfg.SMTPHost != "" {
		svc.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		svc.enabled = true
	}
	return svc
}

func (s *EmailService) Enabled() bool {
	return s.enabled
}

// SendAccountVerified tells a user an admin approved their account.
func (s *EmailService) SendAccountVerified(email, name string) error {
	if !s.enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.FromEmail, s.cfg.FromName))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your account has been verified")
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>An administrator has verified your account. You can now sign in and
		start connecting with other members.</p>
	`, name))

	return s.dialer.DialAndSend(m)
}
