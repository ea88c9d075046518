package notify

import (
	"context"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// Email is a rendered plain-text message.
type Email struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// MailgunMailer sends through the Mailgun HTTP API.
type MailgunMailer struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgunMailer(domain, apiKey, from string) *MailgunMailer {
	return &MailgunMailer{mg: mailgun.NewMailgun(domain, apiKey), from: from}
}

func (m *MailgunMailer) Send(ctx context.Context, e Email) error {
	msg := m.mg.NewMessage(m.from, e.Subject, e.Body, e.To)
	_, id, err := m.mg.Send(ctx, msg)
	if err != nil {
		return errors.Wrapf(err, "mailgun send to %s", e.To)
	}
	jww.DEBUG.Printf("notify: mailgun accepted %s", id)
	return nil
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, e Email) error {
	jww.INFO.Printf("notify: email to=%s subject=%q\n%s", e.To, e.Subject, e.Body)
	return nil
}
