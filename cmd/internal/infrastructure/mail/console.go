package mail

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// ConsoleSender writes messages to the log instead of delivering them. Used in development.
type ConsoleSender struct {
	mu   sync.Mutex
	sent []Message
}

func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{}
}

func (s *ConsoleSender) Send(_ context.Context, msg *Message) (string, error) {
	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "From: %s\r\n", msg.From)
	_, _ = fmt.Fprintf(body, "To: %s\r\n", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		_, _ = fmt.Fprintf(body, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n\r\n", msg.Subject)
	body.WriteString(msg.Text)

	log.Infof("console mail:\n%s", body.String())

	s.mu.Lock()
	s.sent = append(s.sent, *msg)
	s.mu.Unlock()
	return uuid.NewString(), nil
}

// Sent returns a copy of every message sent so far.
func (s *ConsoleSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func (s *ConsoleSender) Configured() bool { return true }

func (s *ConsoleSender) KeyName() string { return "" }

func (s *ConsoleSender) Name() string { return "Console" }
