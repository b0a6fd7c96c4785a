package mail

import (
	"context"
	"strings"

	"github.com/resend/resend-go/v2"
)

type ResendSender struct {
	key    string
	client *resend.Client
}

func NewResendSender(key string) *ResendSender {
	s := &ResendSender{key: strings.TrimSpace(key)}
	if s.key != "" {
		s.client = resend.NewClient(s.key)
	}
	return s
}

func (s *ResendSender) Send(ctx context.Context, msg *Message) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", &ProviderError{Provider: s.Name(), Message: err.Error(), Err: err}
	}
	return sent.Id, nil
}

func (s *ResendSender) Configured() bool { return s.client != nil }

func (s *ResendSender) KeyName() string { return "RESEND_API_KEY" }

func (s *ResendSender) Name() string { return "Resend" }
