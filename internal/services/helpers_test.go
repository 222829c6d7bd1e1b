package services

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/nexconsult/guias-opme/internal/logger"
	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

func testUpstreamConfig(base string) config.UpstreamConfig {
	return config.UpstreamConfig{
		TokenURL:        base + "/token",
		BaseURL:         base,
		ListPath:        "/v2/cotacao-opme/em-analise",
		DetailPath:      "/v2/buscar-guia/detalhamento-guia",
		OPMESubtype:     "OPME",
		TokenTimeout:    time.Second,
		TokenMaxRetries: 2,
		TokenRetryDelay: time.Millisecond,
		RequestTimeout:  time.Second,
	}
}

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		PageSize: 10,
		MaxPages: 10,
	}
}

func testClient(cfg config.UpstreamConfig) *UpstreamClient {
	return NewUpstreamClient(cfg, NewMetrics(prometheus.NewRegistry()), logger.Discard())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func coletar(seq iter.Seq[models.Evento]) []models.Evento {
	var eventos []models.Evento
	for ev := range seq {
		eventos = append(eventos, ev)
	}
	return eventos
}

// stubToken is a TokenServiceInterface returning fixed values
type stubToken struct {
	token string
	err   error
}

func (s stubToken) Obter(context.Context) (string, error) {
	return s.token, s.err
}

// stubLista is a ListaServiceInterface returning a fixed listing
type stubLista struct {
	guias     []models.GuiaResumo
	gotTokens []string
}

func (s *stubLista) BuscarTodas(_ context.Context, token string) []models.GuiaResumo {
	s.gotTokens = append(s.gotTokens, token)
	return s.guias
}

// stubDetalhes is a DetalheServiceInterface keyed by id
type stubDetalhes struct {
	mu       sync.Mutex
	detalhes map[string]*models.DetalheGuia
	erros    map[string]error
	panicos  map[string]string
	chamadas []string
}

func (s *stubDetalhes) Buscar(_ context.Context, id, _ string, subtipo string) (*models.DetalheGuia, error) {
	s.mu.Lock()
	s.chamadas = append(s.chamadas, id+"|"+subtipo)
	s.mu.Unlock()

	if msg, ok := s.panicos[id]; ok {
		panic(msg)
	}
	if err, ok := s.erros[id]; ok {
		return nil, err
	}
	if d, ok := s.detalhes[id]; ok {
		return d, nil
	}
	return nil, ErrUpstreamUnavailable
}

// stubHistorico is a HistoricoServiceInterface keyed by guide number
type stubHistorico struct {
	situacoes map[string]string
	err       error
	chamadas  atomic.Int32
}

func (s *stubHistorico) SituacaoAtual(_ context.Context, numeroGuia, _ string) (string, error) {
	s.chamadas.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return s.situacoes[numeroGuia], nil
}

// stubCorrelator returns a canned result per guide id
type stubCorrelator struct {
	resultados map[string]models.ResultadoGuia
	chamadas   []string
}

func (s *stubCorrelator) Correlacionar(_ context.Context, guia models.GuiaResumo, _ string) models.ResultadoGuia {
	s.chamadas = append(s.chamadas, guia.IDGuia.String())
	if r, ok := s.resultados[guia.IDGuia.String()]; ok {
		return r
	}
	return models.ResultadoGuia{GuiaOPME: guia.IDGuia.String(), GuiaOrigem: models.OrigemNaoInformada}
}
