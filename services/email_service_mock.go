package services

import (
	"errors"
	"sync"
)

// SentEmail is one email recorded by the mock sender
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockEmailService is a mock implementation of EmailSender for testing
type MockEmailService struct {
	mu       sync.RWMutex
	sent     []SentEmail
	failFor  map[string]bool // recipients whose sends should fail
	failNext bool
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{
		failFor: make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global email service instance for testing
func (m *MockEmailService) SetAsMockForTesting() {
	SetEmailService(m)
}

// FailFor makes every send to the given recipient fail
func (m *MockEmailService) FailFor(recipient string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFor[recipient] = true
}

// FailNext makes the next send fail regardless of recipient
func (m *MockEmailService) FailNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
}

// SendEmail records the email, or fails if configured to
func (m *MockEmailService) SendEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return errors.New("mock email failure")
	}
	if m.failFor[to] {
		return errors.New("mock email failure for " + to)
	}

	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of all recorded emails
func (m *MockEmailService) Sent() []SentEmail {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentTo returns the emails recorded for a single recipient
func (m *MockEmailService) SentTo(recipient string) []SentEmail {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []SentEmail
	for _, e := range m.sent {
		if e.To == recipient {
			out = append(out, e)
		}
	}
	return out
}
