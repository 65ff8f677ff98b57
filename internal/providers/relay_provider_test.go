package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayProvider_SendActionEmail_Success(t *testing.T) {
	var got relayEmailReq
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/mail", r.URL.Path)
		assert.Equal(t, "Bearer relay-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	provider := NewRelayProvider(server.URL+"/mail", "", "relay-key")
	err := provider.SendActionEmail(context.Background(), "ann@example.org", ActionEmail{
		Subject:     "Your consent",
		Name:        "Ann",
		ButtonURL:   "https://gabber.example/consent/abc",
		ButtonLabel: "Review",
	})

	require.NoError(t, err)
	assert.Equal(t, "ann@example.org", got.To)
	assert.Equal(t, "Your consent", got.Subject)
	assert.Equal(t, "https://gabber.example/consent/abc", got.ButtonURL)
}

func TestRelayProvider_SendPush_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer server.Close()

	provider := NewRelayProvider("", server.URL, "relay-key")
	err := provider.SendPush(context.Background(), "device-1", "New reply", "Bob replied", nil)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrCodeRateLimited, perr.Code)
	assert.Equal(t, "slow down", perr.Details)
}

func TestRelayProvider_NotConfigured(t *testing.T) {
	provider := NewRelayProvider("", "", "")

	err := provider.SendPush(context.Background(), "device-1", "t", "b", nil)
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrCodeNotConfigured, perr.Code)

	err = provider.SendActionEmail(context.Background(), "a@b.c", ActionEmail{})
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrCodeNotConfigured, perr.Code)
}

func TestLogNotifier(t *testing.T) {
	var n Notifier = LogNotifier{}
	assert.NoError(t, n.SendActionEmail(context.Background(), "a@b.c", ActionEmail{Subject: "hi"}))
	assert.NoError(t, n.SendPush(context.Background(), "tok", "t", "b", map[string]string{"k": "v"}))
}
