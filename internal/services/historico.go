package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/sirupsen/logrus"
)

// HistoricoService reads the current status of a guide from the status-history service
type HistoricoService struct {
	cfg    config.UpstreamConfig
	client *UpstreamClient
	logger *logrus.Logger
}

// NewHistoricoService creates a new status-history service
func NewHistoricoService(cfg config.UpstreamConfig, client *UpstreamClient, logger *logrus.Logger) *HistoricoService {
	return &HistoricoService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// SituacaoAtual returns the raw status of the most recent history entry for
// numeroGuia. An empty history yields "" and no error.
func (s *HistoricoService) SituacaoAtual(ctx context.Context, numeroGuia, token string) (string, error) {
	query := url.Values{}
	query.Set("numeroGuia", strings.TrimSpace(numeroGuia))
	rawURL := s.cfg.EventsBaseURL + "/historico/prestador?" + query.Encode()

	body, status, err := s.client.Get(ctx, endpointHistorico, rawURL, token, s.cfg.RequestTimeout)
	if err != nil {
		return "", err
	}
	if !sucesso(status) {
		return "", fmt.Errorf("%w: history for %s returned HTTP %d", ErrUpstreamUnavailable, numeroGuia, status)
	}

	var pagina models.HistoricoPagina
	if err := json.Unmarshal(body, &pagina); err != nil {
		return "", fmt.Errorf("%w: history for %s: %v", ErrMalformedResponse, numeroGuia, err)
	}
	if len(pagina.Content) == 0 {
		s.logger.WithField("numero_guia", numeroGuia).Debug("Empty status history")
		return "", nil
	}

	// newest entry first
	return pagina.Content[0].SituacaoAtual.String(), nil
}
