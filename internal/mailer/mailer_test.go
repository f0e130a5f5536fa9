package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/intlakaa/internal/config"
	"github.com/intlakaa/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentMail is the part of a v3 mail/send body the tests look at.
type sentMail struct {
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	From struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"from"`
	Subject string `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func testConfig(baseURL, key string) config.MailConfig {
	return config.MailConfig{
		APIKey:   key,
		BaseURL:  baseURL,
		From:     "hazem@intlakaa.com",
		FromName: "انطلاقة",
		Timeout:  time.Second,
	}
}

func TestSendInvite(t *testing.T) {
	var got sentMail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGrid(testConfig(srv.URL+"/", "sg-key"), logging.NewNoopLogger())
	err := m.SendInvite(context.Background(), Invite{
		To:         "new@intlakaa.com",
		Link:       "https://www.intlakaa.com/admin/accept-invite?token=abc",
		ValidHours: 48,
	})
	require.NoError(t, err)

	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, "new@intlakaa.com", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "hazem@intlakaa.com", got.From.Email)
	assert.Equal(t, "انطلاقة", got.From.Name)
	assert.Equal(t, inviteSubject, got.Subject)
	require.Len(t, got.Content, 1)
	assert.Equal(t, "text/html", got.Content[0].Type)
	assert.Contains(t, got.Content[0].Value, `dir="rtl"`)
	assert.Contains(t, got.Content[0].Value, "accept-invite?token=abc")
	assert.Contains(t, got.Content[0].Value, "48")
}

func TestSendInviteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad key"}]}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewSendGrid(testConfig(srv.URL, "bad"), logging.NewNoopLogger())
	err := m.SendInvite(context.Background(), Invite{To: "x@intlakaa.com", Link: "https://x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendInviteWithoutKeyDoesNotCallOut(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	m := NewSendGrid(testConfig(srv.URL, ""), logging.NewNoopLogger())
	require.NoError(t, m.SendInvite(context.Background(), Invite{To: "x@intlakaa.com", Link: "https://x"}))
	assert.False(t, called)
}
