package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer delivers the generated login password to a new account's inbox.
type Mailer interface {
	SendPassword(to string, password string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username string, password string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
	}
}

func (m *SMTPMailer) SendPassword(to string, password string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Login Password From AMI Video Uploader")
	msg.SetBody("text/plain", fmt.Sprintf("Your Login Password is: %s", password))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send password email: %w", err)
	}

	return nil
}
