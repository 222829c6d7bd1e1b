package services

import (
	"context"
	"iter"

	"github.com/nexconsult/guias-opme/internal/models"
)

// TokenServiceInterface defines the interface for token acquisition
type TokenServiceInterface interface {
	// Obter returns a bearer token or an *AuthError
	Obter(ctx context.Context) (string, error)
}

// ListaServiceInterface defines the interface for the paged OPME listing
type ListaServiceInterface interface {
	// BuscarTodas returns every guide it could fetch; it never fails
	BuscarTodas(ctx context.Context, token string) []models.GuiaResumo
}

// DetalheServiceInterface defines the interface for guide details
type DetalheServiceInterface interface {
	// Buscar fetches the detail of a guide, optionally for a sub-type
	Buscar(ctx context.Context, id, token, subtipo string) (*models.DetalheGuia, error)
}

// HistoricoServiceInterface defines the interface for the status-history service
type HistoricoServiceInterface interface {
	// SituacaoAtual returns the most recent raw status, or "" for an empty history
	SituacaoAtual(ctx context.Context, numeroGuia, token string) (string, error)
}

// CorrelatorInterface defines the interface for resolving one listed guide
type CorrelatorInterface interface {
	// Correlacionar always returns exactly one result
	Correlacionar(ctx context.Context, guia models.GuiaResumo, token string) models.ResultadoGuia
}

// PipelineInterface defines the interface for one aggregation run
type PipelineInterface interface {
	// Executar yields progress events and ends with exactly one complete or error event
	Executar(ctx context.Context) iter.Seq[models.Evento]

	// Health returns pipeline health status
	Health() map[string]interface{}
}
