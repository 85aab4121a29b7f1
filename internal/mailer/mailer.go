// ABOUTME: Outbound SMTP mail for the contact form
// ABOUTME: Wraps go-mail behind an interface so handlers are testable

package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/amldecoded/amld-site/internal/config"
)

// ContactMessage is one contact-form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// Mailer delivers contact-form submissions. Implementations must not retry.
type Mailer interface {
	SendContact(ctx context.Context, msg *ContactMessage) error
}

// bodyTemplate renders the HTML mail body. User input is escaped by
// html/template; the message keeps its line breaks via white-space pre-wrap.
var bodyTemplate = template.Must(template.New("contact").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">New Contact Form Submission</h2>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Message:</strong></p>
    <p style="white-space: pre-wrap; background: white; padding: 15px; border-radius: 4px;">{{.Message}}</p>
  </div>
  <p style="color: #666; font-size: 12px;">This message was sent from the AMLDecoded contact form.</p>
</div>`))

// SMTP implements Mailer over an authenticated SMTP relay.
type SMTP struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

// NewSMTP creates a mailer using the given relay credentials.
func NewSMTP(cfg config.SMTPConfig) *SMTP {
	return &SMTP{
		cfg:    cfg,
		logger: slog.Default().With("component", "mailer"),
	}
}

// SendContact delivers one submission to the configured inbox, with reply-to
// set to the sender so replies go straight back.
func (s *SMTP) SendContact(ctx context.Context, cm *ContactMessage) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(s.cfg.To); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	if err := msg.ReplyTo(cm.Email); err != nil {
		return fmt.Errorf("setting reply-to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("New Contact Form Message from %s", cm.Name))

	var body bytes.Buffer
	if err := bodyTemplate.Execute(&body, cm); err != nil {
		return fmt.Errorf("rendering mail body: %w", err)
	}
	msg.SetBodyString(mail.TypeTextHTML, body.String())

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending contact mail: %w", err)
	}

	s.logger.Info("contact mail sent", "from", cm.Email)
	return nil
}
