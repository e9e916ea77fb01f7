package email

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// FakeSender is a development/testing sender: it logs instead of dialing SMTP
// and records what it sent.
type FakeSender struct {
	lg zerolog.Logger

	mu   sync.Mutex
	Sent []FakeMessage
}

type FakeMessage struct {
	To       string
	Kind     string // "welcome" or "password_changed"
	Username string
}

func NewFakeSender(lg zerolog.Logger) *FakeSender {
	return &FakeSender{
		lg: lg.With().Str("component", "fake_sender").Logger(),
	}
}

func (s *FakeSender) SendWelcome(ctx context.Context, toEmail, username string) error {
	s.record(FakeMessage{To: toEmail, Kind: "welcome", Username: username})
	s.lg.Info().Str("to", toEmail).Str("username", username).Msg("FAKE send welcome email")
	return nil
}

func (s *FakeSender) SendPasswordChanged(ctx context.Context, toEmail, username string) error {
	s.record(FakeMessage{To: toEmail, Kind: "password_changed", Username: username})
	s.lg.Info().Str("to", toEmail).Str("username", username).Msg("FAKE send password changed email")
	return nil
}

func (s *FakeSender) record(m FakeMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, m)
}
