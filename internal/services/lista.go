package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/sirupsen/logrus"
)

// ListaService pages through the OPME listing
type ListaService struct {
	upstream config.UpstreamConfig
	pipeline config.PipelineConfig
	client   *UpstreamClient
	logger   *logrus.Logger
}

// NewListaService creates a new listing service
func NewListaService(upstream config.UpstreamConfig, pipeline config.PipelineConfig, client *UpstreamClient, logger *logrus.Logger) *ListaService {
	return &ListaService{
		upstream: upstream,
		pipeline: pipeline,
		client:   client,
		logger:   logger,
	}
}

// BuscarTodas returns every listed guide it could fetch. Upstream failures
// end pagination early and keep what was accumulated; it never fails.
func (s *ListaService) BuscarTodas(ctx context.Context, token string) []models.GuiaResumo {
	guias := make([]models.GuiaResumo, 0, s.pipeline.PageSize)

	for page := 0; page < s.pipeline.MaxPages; page++ {
		if page > 0 && !aguardar(ctx, s.pipeline.PageDelay) {
			break
		}

		log := s.logger.WithField("page", page)

		body, status, err := s.client.Get(ctx, endpointLista, s.paginaURL(page), token, s.upstream.RequestTimeout)
		if err != nil {
			log.WithError(err).Warn("Listing request failed, stopping pagination")
			break
		}
		if !sucesso(status) {
			log.WithField("status", status).Warn("Listing returned non-success status, stopping pagination")
			break
		}

		var pagina models.PaginaGuias
		if err := json.Unmarshal(body, &pagina); err != nil {
			log.WithError(err).Warn("Listing body is not valid JSON, stopping pagination")
			break
		}
		if len(pagina.Content) == 0 {
			log.Debug("Empty page, pagination finished")
			break
		}

		guias = append(guias, pagina.Content...)
		log.WithFields(logrus.Fields{
			"records": len(pagina.Content),
			"total":   len(guias),
		}).Debug("Listing page fetched")

		if pagina.Last != nil && *pagina.Last {
			break
		}
		if len(pagina.Content) < s.pipeline.PageSize {
			break
		}
		if page == s.pipeline.MaxPages-1 {
			log.WithField("max_pages", s.pipeline.MaxPages).Warn("Page cap reached, stopping pagination")
		}
	}

	return guias
}

func (s *ListaService) paginaURL(page int) string {
	query, err := url.ParseQuery(s.upstream.ListQuery)
	if err != nil {
		s.logger.WithError(err).Warn("Ignoring invalid LIST_QUERY")
		query = url.Values{}
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(s.pipeline.PageSize))

	return s.upstream.BaseURL + s.upstream.ListPath + "?" + query.Encode()
}
