package mailer

import (
	"context"
	"sync"
)

// SentEmail is one email captured by the mock provider.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockProvider records emails instead of sending them. Used in tests and as
// the fallback when no API key is configured.
type MockProvider struct {
	mu   sync.Mutex
	sent []SentEmail
	// Err, when set, is returned by every Send.
	Err error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Send(_ context.Context, to, subject, htmlBody string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Sent returns a copy of the captured emails.
func (m *MockProvider) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}
