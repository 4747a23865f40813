package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"storagemarket/web/internal/config"
	"storagemarket/web/internal/logging"
)

// Kinds of email recognised by RedisSender, used in the mock key.
const (
	KindListingConfirmation = "listing_confirmation"
	KindUnknown             = "unknown"
)

// MockEmailTTL is how long a mock email stays readable in Redis.
const MockEmailTTL = 5 * time.Minute

// MockEmailKey returns the Redis key under which RedisSender stores an email.
func MockEmailKey(to, kind string) string {
	return fmt.Sprintf("mockemail:%s:%s", to, kind)
}

// MockEmail is the JSON document RedisSender stores.
type MockEmail struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	SentAt  string `json:"sent_at"`
	Kind    string `json:"kind"`
}

// RedisSender implements the Sender interface by storing emails in Redis
type RedisSender struct {
	client *redis.Client
	cfg    *config.Config
}

// NewRedisSender creates a new RedisSender
func NewRedisSender(client *redis.Client, cfg *config.Config) Sender {
	return &RedisSender{
		client: client,
		cfg:    cfg,
	}
}

func kindOf(subject string) string {
	if strings.Contains(subject, "Your listing is live") {
		return KindListingConfirmation
	}
	return KindUnknown
}

// Send stores the email in Redis instead of sending it via SMTP.
// The key uses the first recipient.
func (s *RedisSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	primaryTo := ""
	if len(to) > 0 {
		primaryTo = to[0]
	}
	kind := kindOf(subject)

	jsonData, err := json.Marshal(MockEmail{
		To:      strings.Join(to, ", "),
		From:    s.cfg.SmtpFromAddress,
		Subject: subject,
		Body:    string(rawMessage),
		SentAt:  time.Now().UTC().Format(time.RFC3339Nano),
		Kind:    kind,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email data: %w", err)
	}

	key := MockEmailKey(primaryTo, kind)
	if err := s.client.Set(ctx, key, jsonData, MockEmailTTL).Err(); err != nil {
		return fmt.Errorf("failed to store email in Redis key '%s': %w", key, err)
	}

	logging.Logger.WithFields(logrus.Fields{
		"key":     key,
		"to":      to,
		"subject": subject,
	}).Info("Mock email stored in Redis")
	return nil
}
