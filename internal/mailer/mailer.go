package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/mento-services/marketplace-api/internal/config"
)

// Mailer sends transactional email. Callers treat every send as
// best-effort; failures are logged, never propagated to requests.
type Mailer interface {
	SendOtpEmail(to, code string) error
	SendWelcomeEmail(to, name string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// New builds an SMTP mailer, or a no-op one when no host is configured.
func New(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		return noopMailer{}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) SendOtpEmail(to, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("<p>Your one-time verification code is <b>%s</b>. It expires in a few minutes.</p>", code)
	return m.send(to, subject, body)
}

func (m *smtpMailer) SendWelcomeEmail(to, name string) error {
	if name == "" {
		name = "there"
	}
	subject := "Welcome aboard"
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Complete your KYC to unlock the full marketplace.</p>", name)
	return m.send(to, subject, body)
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return m.dialer.DialAndSend(msg)
}

type noopMailer struct{}

func (noopMailer) SendOtpEmail(string, string) error     { return nil }
func (noopMailer) SendWelcomeEmail(string, string) error { return nil }
