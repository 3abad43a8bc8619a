// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/config"
)

// Message is one outbound email with both plaintext and HTML bodies.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer dispatches messages. Implementations must not retry on their own;
// delivery failures are surfaced to the caller.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer sends mail through a single SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailerFromEnv builds a mailer from SMTP_* environment variables.
func NewSMTPMailerFromEnv() *SMTPMailer {
	return &SMTPMailer{
		host:     config.GetEnvOrDefault("SMTP_HOST", "localhost"),
		port:     config.GetEnvOrDefault("SMTP_PORT", "587"),
		username: config.GetEnvOrDefault("SMTP_USERNAME", ""),
		password: config.GetEnvOrDefault("SMTP_PASSWORD", ""),
		from:     config.GetEnvOrDefault("SMTP_FROM", "no-reply@shelflife.app"),
	}
}

// Send delivers one message. TLS upgrade and auth are handled by net/smtp
// when the relay advertises them.
func (m *SMTPMailer) Send(msg Message) error {
	addr := m.host + ":" + m.port

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	body := buildMIME(m.from, msg)
	if err := smtp.SendMail(addr, auth, m.from, []string{msg.To}, body); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

const mimeBoundary = "shelflife-alt-boundary"

func buildMIME(from string, msg Message) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Text)
	b.WriteString("\r\n")

	if msg.HTML != "" {
		fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(msg.HTML)
		b.WriteString("\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	return []byte(b.String())
}

// ResetPasswordMessage builds the password-reset email containing the one
// reset URL the plaintext token ever appears in.
func ResetPasswordMessage(to, resetURL string) Message {
	text := fmt.Sprintf(
		"You requested a password reset for your ShelfLife account.\n\n"+
			"Open the link below within one hour to choose a new password:\n\n%s\n\n"+
			"If you did not request this, you can safely ignore this email.",
		resetURL,
	)
	html := fmt.Sprintf(
		`<p>You requested a password reset for your ShelfLife account.</p>`+
			`<p><a href="%s">Reset your password</a> (the link expires in one hour).</p>`+
			`<p>If you did not request this, you can safely ignore this email.</p>`,
		resetURL,
	)

	return Message{
		To:      to,
		Subject: "Reset your ShelfLife password",
		Text:    text,
		HTML:    html,
	}
}
