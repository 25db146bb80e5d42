// Package email delivers contact-form notifications to the site operator
// via SMTP.
package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
	// To is the operator mailbox that receives contact-form messages.
	To string
}

// Service provides email sending
type Service struct {
	config Config
	server string
	auth   smtp.Auth
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewService creates a new email service
func NewService(config Config) *Service {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Host)

	return &Service{
		config: config,
		server: config.Host + ":" + config.Port,
		auth:   auth,
		send:   smtp.SendMail,
	}
}

// IsConfigured returns true if email is configured
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.Port != "" && s.config.From != "" && s.config.To != ""
}

// SendContactNotification forwards a public contact-form submission to the
// operator. replyTo is the visitor's address and is set as Reply-To so the
// operator can answer directly.
func (s *Service) SendContactNotification(name, replyTo, message string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email not configured")
	}
	msg := buildContactMessage(s.config, name, replyTo, message)
	return s.send(s.server, s.auth, s.config.From, []string{s.config.To}, msg)
}

func buildContactMessage(config Config, name, replyTo, message string) []byte {
	from := config.From
	if config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", config.FromName, config.From)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", config.To)
	fmt.Fprintf(&b, "From: %s\r\n", from)
	if replyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", sanitizeHeader(replyTo))
	}
	fmt.Fprintf(&b, "Subject: Website enquiry from %s\r\n", sanitizeHeader(name))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Name: %s\r\n", name)
	if replyTo != "" {
		fmt.Fprintf(&b, "Email: %s\r\n", replyTo)
	}
	b.WriteString("\r\n")
	b.WriteString(message)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// sanitizeHeader strips CR/LF so a form submission cannot inject headers.
func sanitizeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}
