package memory

import (
	"context"
	"sync"
	"time"

	"github.com/davryn/identity-service/internal/application"
	"github.com/davryn/identity-service/internal/domain/event"
)

// Message is a mail captured by the in-memory Mailer.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer records outbound mail instead of sending it.
type Mailer struct {
	mu   sync.Mutex
	Err  error // returned by Send when set
	sent []Message
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Message{To: to, Subject: subject, Body: body})
	return nil
}

func (m *Mailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// EventLog records published events instead of delivering them.
type EventLog struct {
	mu     sync.Mutex
	Err    error // returned by Publish when set
	events []event.UserRegistered
}

func (l *EventLog) PublishUserRegistered(ctx context.Context, evt event.UserRegistered) error {
	if l.Err != nil {
		return l.Err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
	return nil
}

func (l *EventLog) Events() []event.UserRegistered {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]event.UserRegistered, len(l.events))
	copy(out, l.events)
	return out
}

type tokenEntry struct {
	userID    string
	expiresAt time.Time
}

// TokenStore is the in-memory single-use token store double. A Now
// func can be injected to simulate expiry.
type TokenStore struct {
	mu     sync.Mutex
	Now    func() time.Time
	Err    error // returned by Save when set
	tokens map[string]tokenEntry
}

func NewTokenStore() *TokenStore {
	return &TokenStore{Now: time.Now, tokens: make(map[string]tokenEntry)}
}

func (s *TokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = tokenEntry{userID: userID, expiresAt: s.Now().Add(ttl)}
	return nil
}

func (s *TokenStore) Redeem(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok {
		return "", application.ErrResetTokenInvalid
	}
	delete(s.tokens, token)
	if s.Now().After(entry.expiresAt) {
		return "", application.ErrResetTokenInvalid
	}
	return entry.userID, nil
}

var (
	_ application.Mailer         = (*Mailer)(nil)
	_ application.EventPublisher = (*EventLog)(nil)
	_ application.TokenStore     = (*TokenStore)(nil)
)
