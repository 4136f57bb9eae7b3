// Package mail sends contact-form submissions to the site operator.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inkwell/config"
	"inkwell/models"

	gomail "github.com/wneessen/go-mail"
)

// dialTimeout bounds the whole SMTP session so a dead mail server
// cannot stall the request that triggered the send.
const dialTimeout = 10 * time.Second

// Submission is a contact-form submission. Phone is optional.
type Submission struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Mailer delivers contact submissions over SMTP. The bot address is
// both sender and recipient: the operator inbox is the bot's own.
type Mailer struct {
	host     string
	port     int
	botEmail string
	password string
}

// NewMailer builds a Mailer from application config.
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		botEmail: cfg.BotEmail,
		password: cfg.EmailPassword,
	}
}

// Send formats the submission as plain text and delivers it in a single
// SMTP transaction: dial, STARTTLS, authenticate, send, quit. The
// connection is closed on every exit path. Any failure is reported as a
// DeliveryFailed error; the caller decides how to surface it.
func (m *Mailer) Send(ctx context.Context, sub Submission) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.botEmail); err != nil {
		return models.NewDeliveryFailedError(fmt.Errorf("invalid sender address: %w", err))
	}
	if err := msg.To(m.botEmail); err != nil {
		return models.NewDeliveryFailedError(fmt.Errorf("invalid recipient address: %w", err))
	}
	msg.Subject(fmt.Sprintf("Message from %s, from the blog site", sub.Name))
	msg.SetBodyString(gomail.TypeTextPlain, FormatBody(sub))

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.botEmail),
		gomail.WithPassword(m.password),
		gomail.WithTimeout(dialTimeout),
	)
	if err != nil {
		return models.NewDeliveryFailedError(err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return models.NewDeliveryFailedError(err)
	}

	return nil
}

// FormatBody renders the submission as the plain-text message body.
func FormatBody(sub Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", sub.Name)
	fmt.Fprintf(&b, "Email: %s\n", sub.Email)
	if sub.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", sub.Phone)
	}
	fmt.Fprintf(&b, "\n%s\n", sub.Message)
	return b.String()
}
