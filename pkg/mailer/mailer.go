// Package mailer renders and delivers notification emails.
package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Provider delivers a rendered email. Implementations must be safe for
// concurrent use.
type Provider interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Mailer renders templates and hands them to a Provider. Delivery is
// best-effort from the caller's point of view: SendTemplate returns the error
// for logging, but callers are expected not to fail their request on it.
type Mailer struct {
	provider Provider
	log      *logrus.Logger
	baseURL  string
}

func New(provider Provider, log *logrus.Logger, baseURL string) *Mailer {
	return &Mailer{provider: provider, log: log, baseURL: baseURL}
}

// SendTemplate renders the named template with data and sends it.
func (m *Mailer) SendTemplate(ctx context.Context, template, to, subject string, data map[string]string) error {
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["BaseURL"]; !ok {
		data["BaseURL"] = m.baseURL
	}
	body, err := render(template, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", template, err)
	}
	if err := m.provider.Send(ctx, to, subject, body); err != nil {
		return fmt.Errorf("send %s to %s: %w", template, to, err)
	}
	m.log.WithFields(logrus.Fields{"template": template, "to": to}).Debug("email sent")
	return nil
}
