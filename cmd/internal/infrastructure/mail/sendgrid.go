package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	netmail "net/mail"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type SendGridSender struct {
	key string
}

func NewSendGridSender(key string) *SendGridSender {
	return &SendGridSender{key: strings.TrimSpace(key)}
}

func (s *SendGridSender) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(sgEmail(to))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgEmail(msg.From))
	m.Subject = msg.Subject
	m.AddPersonalizations(p)
	if msg.ReplyTo != "" {
		m.SetReplyTo(sgEmail(msg.ReplyTo))
	}

	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (s *SendGridSender) Send(ctx context.Context, msg *Message) (string, error) {
	if s.key == "" {
		return "", ErrNotConfigured
	}

	// sendgrid.API has no context parameter.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return "", fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return "", &ProviderError{Provider: s.Name(), Message: sendgridMessage(res.Body)}
	}
	return firstHeader(res.Headers, "X-Message-Id"), nil
}

func (s *SendGridSender) Configured() bool { return s.key != "" }

func (s *SendGridSender) KeyName() string { return "SENDGRID_API_KEY" }

func (s *SendGridSender) Name() string { return "SendGrid" }

// sgEmail accepts both "Name <addr>" and bare addresses.
func sgEmail(addr string) *sgmail.Email {
	if parsed, err := netmail.ParseAddress(addr); err == nil {
		return sgmail.NewEmail(parsed.Name, parsed.Address)
	}
	return sgmail.NewEmail("", addr)
}

func sendgridMessage(body string) string {
	var payload struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil || len(payload.Errors) == 0 {
		return ""
	}
	return payload.Errors[0].Message
}

func firstHeader(headers map[string][]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
