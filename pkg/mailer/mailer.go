// Package mailer sends the transactional breach-check email.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vit0-9/breachsignal_api/pkg/logger"
	"github.com/vit0-9/breachsignal_api/pkg/utils"
)

const DefaultResendURL = "https://api.resend.com/emails"

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendError is returned when the mail service rejects a message.
type SendError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *SendError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("resend: status %d: %s: %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("resend: status %d: %s", e.StatusCode, e.Message)
}

// ResendSender delivers mail through the Resend HTTP API.
type ResendSender struct {
	url    string
	apiKey string
	from   string
	client *http.Client
}

func NewResendSender(apiKey, from string, client *http.Client) *ResendSender {
	return &ResendSender{url: DefaultResendURL, apiKey: apiKey, from: from, client: client}
}

// WithURL points the sender at a different endpoint, e.g. a test server.
func (s *ResendSender) WithURL(u string) *ResendSender {
	s.url = u
	return s
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(resendRequest{From: s.from, To: []string{msg.To}, Subject: msg.Subject, HTML: msg.HTML})
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := utils.Do(s.client, req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var re resendError
		_ = json.Unmarshal(res.Body, &re)
		if re.Message == "" {
			re.Message = http.StatusText(res.StatusCode)
		}
		return &SendError{StatusCode: res.StatusCode, Name: re.Name, Message: re.Message}
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them. It is
// used when no mail API key is configured.
type LogSender struct {
	log logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("email not delivered: no mail provider configured",
		logger.String("to", msg.To),
		logger.String("subject", msg.Subject),
		logger.Int("html_bytes", len(msg.HTML)),
	)
	return nil
}
