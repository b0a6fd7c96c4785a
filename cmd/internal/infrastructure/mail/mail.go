package mail

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotConfigured = errors.New("mail provider not configured")

type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers one message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg *Message) (string, error)

	// Configured is false when the credentials the provider needs are missing.
	Configured() bool

	// KeyName is the environment variable holding the provider credentials, or "".
	KeyName() string

	Name() string
}

// ProviderError is a rejection reported by the provider. Message is what the provider said, possibly empty.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s rejected the message: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// New returns the sender named by provider: resend, sendgrid or console.
func New(provider, resendKey, sendgridKey string) (Sender, error) {
	switch provider {
	case "resend":
		return NewResendSender(resendKey), nil
	case "sendgrid":
		return NewSendGridSender(sendgridKey), nil
	case "console":
		return NewConsoleSender(), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", provider)
	}
}
