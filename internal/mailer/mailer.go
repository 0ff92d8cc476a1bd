// Package mailer sends transactional email such as password reset links.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"devcamper/internal/config"
	"devcamper/internal/observability"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the mailer named by MAIL_PROVIDER.
func New(cfg *config.Config, logger *slog.Logger) (Mailer, error) {
	switch cfg.MailProvider {
	case "", "log":
		return NewLogMailer(logger), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, errors.New("SENDGRID_API_KEY is required for MAIL_PROVIDER=sendgrid")
		}
		return NewSendGrid(cfg.SendGridAPIKey, cfg.MailFromEmail, cfg.MailFromName, nil), nil
	default:
		return nil, fmt.Errorf("unsupported MAIL_PROVIDER %q", cfg.MailProvider)
	}
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "email (not sent)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("text", msg.Text),
	)
	observability.EmailsSent.WithLabelValues("log", observability.ResultSuccess).Inc()
	return nil
}

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGrid posts messages to the SendGrid v3 mail API.
type SendGrid struct {
	endpoint string
	apiKey   string
	from     string
	fromName string
	client   *http.Client
}

// NewSendGrid creates a SendGrid mailer. A nil client gets a 10s timeout.
func NewSendGrid(apiKey, from, fromName string, client *http.Client) *SendGrid {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SendGrid{
		endpoint: sendGridEndpoint,
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
		client:   client,
	}
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

func (s *SendGrid) body(msg Message) sendGridRequest {
	return sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: msg.To}}}},
		From:             sendGridAddress{Email: s.from, Name: s.fromName},
		Subject:          msg.Subject,
		Content:          []sendGridContent{{Type: "text/plain", Value: msg.Text}},
	}
}

// Send implements Mailer.
func (s *SendGrid) Send(ctx context.Context, msg Message) (err error) {
	defer func() {
		observability.EmailsSent.WithLabelValues("sendgrid", observability.ResultLabel(err)).Inc()
	}()

	ctx, span := observability.GetTraceLayer().TraceExternalCall(ctx, "sendgrid", "mail.send")
	defer span.End()

	payload, err := json.Marshal(s.body(msg))
	if err != nil {
		return fmt.Errorf("sendgrid: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sendgrid: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("sendgrid: request failed: %w", err)
	}
	defer resp.Body.Close()

	// SendGrid answers 202 Accepted on success.
	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err = fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		span.RecordError(err)
		return err
	}
	return nil
}
