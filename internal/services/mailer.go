package services

import (
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"

	"vehicle-insurance-service/internal/config"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	host     string
	port     int
	username string
	password string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		port = 587
	}

	return &Mailer{
		host:     cfg.Host,
		port:     port,
		username: cfg.Username,
		password: cfg.Password,
	}
}

// Send delivers a plain-text message to a single recipient.
func (m *Mailer) Send(to, subject, body string) error {
	if m.username == "" {
		return fmt.Errorf("smtp not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.username)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
