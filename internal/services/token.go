package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/sirupsen/logrus"
)

// TokenService obtains the bearer token used for every upstream call
type TokenService struct {
	cfg    config.UpstreamConfig
	client *UpstreamClient
	logger *logrus.Logger
}

// NewTokenService creates a new token service
func NewTokenService(cfg config.UpstreamConfig, client *UpstreamClient, logger *logrus.Logger) *TokenService {
	return &TokenService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Obter fetches a token, retrying transient failures with exponential backoff.
// Every failure is reported as *AuthError.
func (s *TokenService) Obter(ctx context.Context) (string, error) {
	var tentativa int

	operation := func() (string, error) {
		tentativa++

		body, status, err := s.client.Get(ctx, endpointToken, s.cfg.TokenURL, "", s.cfg.TokenTimeout)
		if err != nil {
			return "", err
		}
		if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: token endpoint returned HTTP %d", ErrUpstreamUnavailable, status)
		}
		if !sucesso(status) {
			return "", backoff.Permanent(fmt.Errorf("%w: token endpoint returned HTTP %d", ErrUpstreamUnavailable, status))
		}

		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", backoff.Permanent(fmt.Errorf("%w: token body: %v", ErrMalformedResponse, err))
		}
		token := strings.TrimSpace(payload.Token)
		if token == "" {
			return "", backoff.Permanent(fmt.Errorf("%w: token field missing", ErrMalformedResponse))
		}
		return token, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.cfg.TokenRetryDelay
	policy.MaxInterval = 10 * time.Second

	retries := s.cfg.TokenMaxRetries
	if retries < 0 {
		retries = 0
	}

	notify := func(err error, wait time.Duration) {
		s.logger.WithFields(logrus.Fields{
			"attempt": tentativa,
			"wait":    wait.String(),
			"error":   err.Error(),
		}).Warn("Token request failed, retrying")
	}

	token, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(retries+1)),
		backoff.WithNotify(notify),
	)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"attempts": tentativa,
			"error":    err.Error(),
		}).Error("Failed to obtain token")
		return "", &AuthError{Attempts: tentativa, Err: err}
	}

	s.logger.WithField("attempts", tentativa).Info("Token obtained")
	return token, nil
}
