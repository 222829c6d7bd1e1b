package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/sirupsen/logrus"
)

// DetalheService fetches the detail of one guide
type DetalheService struct {
	cfg    config.UpstreamConfig
	client *UpstreamClient
	logger *logrus.Logger
}

// NewDetalheService creates a new detail service
func NewDetalheService(cfg config.UpstreamConfig, client *UpstreamClient, logger *logrus.Logger) *DetalheService {
	return &DetalheService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Buscar fetches and decodes the detail of id. subtipo, when set, is
// appended as an extra path segment. Non-success statuses and timeouts
// return ErrUpstreamUnavailable; empty or invalid bodies return
// ErrMalformedResponse.
func (s *DetalheService) Buscar(ctx context.Context, id, token, subtipo string) (*models.DetalheGuia, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty guide id", ErrMalformedResponse)
	}

	rawURL := s.cfg.BaseURL + s.cfg.DetailPath + "/" + url.PathEscape(id)
	if subtipo != "" {
		rawURL += "/" + url.PathEscape(subtipo)
	}

	log := s.logger.WithFields(logrus.Fields{
		"id_guia": id,
		"subtipo": subtipo,
	})

	body, status, err := s.client.Get(ctx, endpointDetalhe, rawURL, token, s.cfg.RequestTimeout)
	if err != nil {
		log.WithError(err).Warn("Detail request failed")
		return nil, err
	}
	if !sucesso(status) {
		log.WithField("status", status).Warn("Detail returned non-success status")
		return nil, fmt.Errorf("%w: detail %s returned HTTP %d", ErrUpstreamUnavailable, id, status)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		log.Warn("Detail returned an empty body")
		return nil, fmt.Errorf("%w: detail %s has an empty body", ErrMalformedResponse, id)
	}

	detalhe, err := models.DecodificarDetalhe(body)
	if err != nil {
		log.WithError(err).Warn("Detail body could not be decoded")
		return nil, fmt.Errorf("%w: detail %s: %v", ErrMalformedResponse, id, err)
	}

	return detalhe, nil
}
