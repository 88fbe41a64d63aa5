// Package mail sends the storefront's outbound email.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/hmans/threads/internal/config"
)

// Mailer sends transactional mail. The resolvers depend on this
// interface; tests substitute a recording fake.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetToken string) error
}

// SMTPMailer sends mail through an SMTP relay using go-mail.
type SMTPMailer struct {
	client      *gomail.Client
	from        string
	frontendURL string
}

// NewSMTPMailer builds a mailer from the mail configuration.
func NewSMTPMailer(cfg config.MailConfig, frontendURL string) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.User),
		gomail.WithPassword(cfg.Pass),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mail client: %w", err)
	}
	return &SMTPMailer{
		client:      client,
		from:        cfg.From,
		frontendURL: frontendURL,
	}, nil
}

// SendPasswordReset mails a reset link carrying the token as a query
// parameter.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetToken string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("Your Password Reset")
	msg.SetBodyString(gomail.TypeTextHTML, resetBody(m.frontendURL, resetToken))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending reset mail: %w", err)
	}
	return nil
}

func resetBody(frontendURL, resetToken string) string {
	link := fmt.Sprintf("%s/reset?resetToken=%s", frontendURL, resetToken)
	return fmt.Sprintf(`<div style="border: 1px solid black; padding: 20px; font-family: sans-serif; line-height: 2; font-size: 20px;">
<h2>Hello There!</h2>
<p>Your password reset token is here!</p>
<p><a href="%s">Click here to reset your password</a></p>
</div>`, link)
}
