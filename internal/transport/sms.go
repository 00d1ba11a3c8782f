package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	apperrors "github.com/rxguard/rxguard/internal/errors"
)

// SMSConfig holds SMS gateway settings.
type SMSConfig struct {
	GatewayURL string
	APIKey     string
	Sender     string
	Timeout    time.Duration
}

// SMS sends messages through an HTTP SMS gateway. A circuit breaker shields
// the pipeline when the gateway is down: once it opens, sends fail fast
// until the gateway recovers.
type SMS struct {
	config  SMSConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *zap.Logger
}

// NewSMS creates an SMS gateway transport.
func NewSMS(config SMSConfig, logger *zap.Logger) *SMS {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "sms-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("SMS gateway breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &SMS{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		breaker: breaker,
		logger:  logger,
	}
}

func (s *SMS) Name() string {
	return "sms"
}

func (s *SMS) Send(ctx context.Context, recipient, body string) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.post(ctx, recipient, body)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return apperrors.Wrap(err, apperrors.ErrTransportFailure.Code, "sms gateway unavailable")
	}
	return err
}

func (s *SMS) post(ctx context.Context, recipient, body string) error {
	payload, err := json.Marshal(map[string]string{
		"to":   recipient,
		"from": s.config.Sender,
		"body": body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrTransportFailure.Code, "sms gateway request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.New(apperrors.ErrTransportFailure.Code,
			fmt.Sprintf("sms gateway returned %d: %s", resp.StatusCode, string(snippet)))
	}
	return nil
}
