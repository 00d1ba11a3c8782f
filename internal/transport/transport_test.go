package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryTransport(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.Send(context.Background(), "+15551234567", "hello"))

	sent := m.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "+15551234567", sent[0].Recipient)
	assert.Equal(t, "hello", sent[0].Body)
}

func TestMemoryTransportFailNext(t *testing.T) {
	m := NewMemory()
	m.FailNext()

	assert.Error(t, m.Send(context.Background(), "+15551234567", "hello"))
	assert.NoError(t, m.Send(context.Background(), "+15551234567", "hello"))
	assert.Len(t, m.Sent(), 1)
}

func TestMemoryTransportRespectsContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, m.Send(ctx, "+15551234567", "hello"))
	assert.Empty(t, m.Sent())
}

func TestSMSSend(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sms := NewSMS(SMSConfig{
		GatewayURL: server.URL,
		APIKey:     "test-key",
		Sender:     "rxguard",
		Timeout:    time.Second,
	}, zap.NewNop())

	require.NoError(t, sms.Send(context.Background(), "+15551234567", "take your medication"))
	assert.Equal(t, "+15551234567", received["to"])
	assert.Equal(t, "rxguard", received["from"])
	assert.Equal(t, "take your medication", received["body"])
}

func TestSMSSendGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rejected", http.StatusBadGateway)
	}))
	defer server.Close()

	sms := NewSMS(SMSConfig{GatewayURL: server.URL, Timeout: time.Second}, zap.NewNop())

	err := sms.Send(context.Background(), "+15551234567", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSMSBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	sms := NewSMS(SMSConfig{GatewayURL: server.URL, Timeout: time.Second}, zap.NewNop())

	for i := 0; i < 5; i++ {
		assert.Error(t, sms.Send(context.Background(), "+15551234567", "body"))
	}

	// Breaker is open now: sends fail fast without reaching the gateway.
	err := sms.Send(context.Background(), "+15551234567", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}
