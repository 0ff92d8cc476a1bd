package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"devcamper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendGrid_Send(t *testing.T) {
	var got sendGridRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sg := NewSendGrid("sg-key", "noreply@devcamper.io", "DevCamper", srv.Client())
	sg.endpoint = srv.URL

	err := sg.Send(context.Background(), Message{To: "john@gmail.com", Subject: "Password reset token", Text: "reset"})
	require.NoError(t, err)

	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, "john@gmail.com", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "noreply@devcamper.io", got.From.Email)
	assert.Equal(t, "Password reset token", got.Subject)
	assert.Equal(t, "reset", got.Content[0].Value)
}

func TestSendGrid_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad key"}]}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	sg := NewSendGrid("bad", "noreply@devcamper.io", "", srv.Client())
	sg.endpoint = srv.URL

	err := sg.Send(context.Background(), Message{To: "a@b.co"})
	assert.ErrorContains(t, err, "401")
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, m.Send(context.Background(), Message{To: "a@b.co", Subject: "hi"}))
	assert.Contains(t, buf.String(), "a@b.co")
}

func TestNew(t *testing.T) {
	m, err := New(&config.Config{MailProvider: "log"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	_, err = New(&config.Config{MailProvider: "sendgrid"}, nil)
	assert.Error(t, err)

	m, err = New(&config.Config{MailProvider: "sendgrid", SendGridAPIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SendGrid{}, m)

	_, err = New(&config.Config{MailProvider: "pigeon"}, nil)
	assert.Error(t, err)
}
