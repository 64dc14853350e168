package contact

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPSettings configures SMTPMailer.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTPMailer delivers submissions to an inbox over SMTP.
type SMTPMailer struct {
	settings SMTPSettings
	dialer   *gomail.Dialer
}

// NewSMTPMailer returns a mailer for the given settings.
func NewSMTPMailer(s SMTPSettings) *SMTPMailer {
	return &SMTPMailer{
		settings: s,
		dialer:   gomail.NewDialer(s.Host, s.Port, s.Username, s.Password),
	}
}

// Message builds the email for f.
func (m *SMTPMailer) Message(f Form) *gomail.Message {
	subject := f.Subject
	if subject == "" {
		subject = "New contact form submission"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.settings.From)
	msg.SetHeader("To", m.settings.To)
	msg.SetAddressHeader("Reply-To", f.Email, f.Name)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", fmt.Sprintf("From: %s <%s>\n\n%s", f.Name, f.Email, f.Message))
	msg.AddAlternative("text/html", fmt.Sprintf("<p><strong>%s</strong> &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(f.Name),
		html.EscapeString(f.Email),
		strings.ReplaceAll(html.EscapeString(f.Message), "\n", "<br>")))
	return msg
}

// Deliver sends the email. gomail has no context support, so ctx is only checked before
// dialing.
func (m *SMTPMailer) Deliver(ctx context.Context, f Form) error {
	if err := ctx.Err(); err != nil {
		return &TransportError{Err: err}
	}
	if err := m.dialer.DialAndSend(m.Message(f)); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}
