package email

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storagemarket/web/internal/config"
	"storagemarket/web/internal/utils"
)

type recordingSender struct {
	calls int
	err   error
}

func (r *recordingSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	r.calls++
	return r.err
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg := string(BuildMessage("from@x.com", "to@y.com", "Hello", "line one\nline two\n", now))

	assert.True(t, strings.HasPrefix(msg, "To: to@y.com\r\nFrom: from@x.com\r\nSubject: Hello\r\n"))
	assert.Contains(t, msg, "Date: Wed, 01 May 2024 12:00:00 +0000\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nline one\r\nline two\r\n"))
}

func TestNewSMTPSender_FallsBackToLogging(t *testing.T) {
	s := NewSMTPSender(&config.Config{})
	_, ok := s.(*LoggingSender)
	assert.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), []string{"a@b.com"}, "s", []byte("body")))

	s = NewSMTPSender(&config.Config{SmtpHost: "smtp.example.com", SmtpPort: 587})
	smtpSender, ok := s.(*SMTPSender)
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com:587", smtpSender.addr)
}

func TestCompositeEmailSender(t *testing.T) {
	ctx := context.Background()

	empty := NewCompositeEmailSender()
	assert.Error(t, empty.Send(ctx, []string{"a@b.com"}, "s", nil))

	ok := &recordingSender{}
	failing := &recordingSender{err: errors.New("smtp down")}
	cs := NewCompositeEmailSender(failing)
	cs.AddSender(ok)
	cs.AddSender(nil)
	assert.Equal(t, 2, cs.Len())

	err := cs.Send(ctx, []string{"a@b.com"}, "s", []byte("m"))
	assert.ErrorContains(t, err, "smtp down")
	assert.ErrorIs(t, err, failing.err)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls, "later senders still run after a failure")
}

func TestFileEmailSender(t *testing.T) {
	_, err := NewFileEmailSender("  ")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "nested", "emails.log")
	s, err := NewFileEmailSender(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Send(ctx, []string{"a@b.com"}, "First", []byte("one")))
	require.NoError(t, s.Send(ctx, []string{"a@b.com"}, "Second", []byte("two")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Subject: First")
	assert.Contains(t, string(content), "two")
	assert.Equal(t, 2, strings.Count(string(content), "--- End Logged Email ---"))
}

func TestRedisSender(t *testing.T) {
	rdb := utils.SetupTestRedis(t)
	s := NewRedisSender(rdb, &config.Config{SmtpFromAddress: "noreply@example.com"})
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, []string{"owner@example.com"}, "Your listing is live on Storage Marketplace", []byte("raw")))

	raw, err := rdb.Get(ctx, MockEmailKey("owner@example.com", KindListingConfirmation)).Bytes()
	require.NoError(t, err)
	var stored MockEmail
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, "noreply@example.com", stored.From)
	assert.Equal(t, "raw", stored.Body)
	assert.Equal(t, KindListingConfirmation, stored.Kind)

	ttl, err := rdb.TTL(ctx, MockEmailKey("owner@example.com", KindListingConfirmation)).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, MockEmailTTL)
}
