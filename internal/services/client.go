package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxBodySize caps how much of an upstream body is read into memory
const maxBodySize = 16 << 20

// Endpoint labels used in logs and metrics
const (
	endpointToken     = "token"
	endpointLista     = "lista"
	endpointDetalhe   = "detalhe"
	endpointHistorico = "historico"
)

// UpstreamClient performs GET requests against the authorization API.
// Bodies are always read as raw bytes; callers decide how to parse them.
type UpstreamClient struct {
	http    *http.Client
	limiter *rate.Limiter
	metrics *Metrics
	logger  *logrus.Logger
}

// NewUpstreamClient creates a client. A positive RequestsPerSec paces every
// outbound call through a shared limiter.
func NewUpstreamClient(cfg config.UpstreamConfig, metrics *Metrics, logger *logrus.Logger) *UpstreamClient {
	var limiter *rate.Limiter
	if cfg.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1)
	}

	return &UpstreamClient{
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
	}
}

// Get fetches rawURL with an optional bearer token and a per-call timeout.
// Transport failures and timeouts are wrapped in ErrUpstreamUnavailable; any
// HTTP status is returned to the caller along with the body.
func (c *UpstreamClient) Get(ctx context.Context, endpoint, rawURL, token string, timeout time.Duration) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("%w: rate limiter: %v", ErrUpstreamUnavailable, err)
		}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		c.metrics.upstreamCall(endpoint, outcome, time.Since(start))
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.upstreamCall(endpoint, "error", elapsed)
		return nil, resp.StatusCode, fmt.Errorf("%w: read %s body: %v", ErrUpstreamUnavailable, endpoint, err)
	}

	c.metrics.upstreamCall(endpoint, strconv.Itoa(resp.StatusCode), elapsed)
	c.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": elapsed.String(),
	}).Debug("Upstream request completed")

	return body, resp.StatusCode, nil
}

// CloseIdleConnections releases pooled connections
func (c *UpstreamClient) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

func sucesso(status int) bool {
	return status >= 200 && status < 300
}
