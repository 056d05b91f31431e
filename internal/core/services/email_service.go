package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// EmailService sends plain-text email over SMTP (Gmail STARTTLS by default).
// Delivery is best-effort and decoupled from the core transaction: errors are
// logged, never returned.
type EmailService struct {
	host     string
	port     string
	from     string
	password string
	enabled  bool
}

// NewEmailService creates a new email service. Sending is disabled when
// EMAIL_ADDRESS / EMAIL_PASSWORD are not configured.
func NewEmailService() *EmailService {
	from := os.Getenv("EMAIL_ADDRESS")
	pass := os.Getenv("EMAIL_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &EmailService{
		host:     host,
		port:     port,
		from:     from,
		password: pass,
		enabled:  from != "" && pass != "",
	}
}

// IsEnabled checks if email sending is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// Send sends a plain-text email. Fire-and-forget.
func (s *EmailService) Send(toAddress, subject, body string) {
	if !s.enabled || toAddress == "" {
		return
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.from, toAddress, subject, body))

	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{toAddress}, msg); err != nil {
		log.Printf("❌ Email send error (to %s): %v", toAddress, err)
		return
	}

	log.Printf("📧 Email sent to %s", toAddress)
}
