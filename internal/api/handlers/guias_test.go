package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/guias-opme/internal/api/middleware"
	"github.com/nexconsult/guias-opme/internal/logger"
	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPipeline struct {
	eventos   []models.Evento
	entregues int
}

func (s *stubPipeline) Executar(context.Context) iter.Seq[models.Evento] {
	return func(yield func(models.Evento) bool) {
		for _, ev := range s.eventos {
			s.entregues++
			if !yield(ev) {
				return
			}
		}
	}
}

func (s *stubPipeline) Health() map[string]interface{} {
	return map[string]interface{}{"active_runs": 0}
}

func resultadosExemplo() *models.Resultados {
	r := models.NovosResultados()
	r.Adicionar(models.BucketAutorizadas, models.ResultadoGuia{
		GuiaOPME:     "OPME-1",
		StatusOPME:   "Em Análise",
		GuiaOrigem:   "A1",
		StatusOrigem: "Autorizada",
	})
	return r
}

func newGuiasRouter(p *stubPipeline) *gin.Engine {
	h := NewGuiasHandler(p, logger.Discard())
	r := gin.New()
	r.GET("/api/guias-opme-progress", h.StreamProgress)
	r.GET("/api/guias-opme", h.GetGuias)
	return r
}

// frames splits an SSE body into the decoded JSON payload of each frame
func frames(t *testing.T, body string) []map[string]interface{} {
	t.Helper()

	require.True(t, strings.HasSuffix(body, "\n\n"), "stream must end with a complete frame")
	var out []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSuffix(body, "\n\n"), "\n\n") {
		require.True(t, strings.HasPrefix(raw, "data: "), "frame %q", raw)
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(raw, "data: ")), &payload))
		out = append(out, payload)
	}
	return out
}

func TestStreamProgress_WritesFramesInOrder(t *testing.T) {
	p := &stubPipeline{eventos: []models.Evento{
		models.Progresso(5, "Token de autenticação obtido"),
		models.Progresso(25, "Encontradas 1 guias OPME. Iniciando processamento..."),
		models.Progresso(98, "Finalizando processamento..."),
		models.Concluido(resultadosExemplo()),
	}}
	router := newGuiasRouter(p)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/guias-opme-progress", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", w.Header().Get("Connection"))
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))
	assert.True(t, w.Flushed)

	got := frames(t, w.Body.String())
	require.Len(t, got, 4)
	assert.Equal(t, 4, p.entregues)

	assert.Equal(t, map[string]interface{}{
		"type":    "progress",
		"percent": float64(5),
		"message": "Token de autenticação obtido",
	}, got[0])
	assert.Equal(t, float64(25), got[1]["percent"])
	assert.Equal(t, float64(98), got[2]["percent"])

	assert.Equal(t, "complete", got[3]["type"])
	resultados, ok := got[3]["resultados"].(map[string]interface{})
	require.True(t, ok)
	for _, b := range models.Buckets {
		assert.Contains(t, resultados, string(b))
	}
	autorizadas := resultados["autorizadas"].([]interface{})
	require.Len(t, autorizadas, 1)
	assert.Equal(t, "A1", autorizadas[0].(map[string]interface{})["guiaOrigem"])
}

func TestStreamProgress_ErrorEvent(t *testing.T) {
	p := &stubPipeline{eventos: []models.Evento{
		models.Falha("Falha ao obter token de autenticação após 3 tentativa(s): boom"),
	}}
	router := newGuiasRouter(p)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/guias-opme-progress", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	got := frames(t, w.Body.String())
	require.Len(t, got, 1)
	assert.Equal(t, map[string]interface{}{
		"type":    "error",
		"message": "Falha ao obter token de autenticação após 3 tentativa(s): boom",
	}, got[0])
}

func TestGetGuias_ReturnsResultSet(t *testing.T) {
	p := &stubPipeline{eventos: []models.Evento{
		models.Progresso(5, "Token de autenticação obtido"),
		models.Concluido(resultadosExemplo()),
	}}
	router := newGuiasRouter(p)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/guias-opme", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var body models.Resultados
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Autorizadas, 1)
	assert.Equal(t, "OPME-1", body.Autorizadas[0].GuiaOPME)
	assert.Empty(t, body.Negadas)
	assert.NotNil(t, body.SemGuiaOrigem)
}

func TestGetGuias_Failure(t *testing.T) {
	p := &stubPipeline{eventos: []models.Evento{
		models.Progresso(5, "Token de autenticação obtido"),
		models.Progresso(15, "Buscando lista de guias OPME..."),
		models.Falha("Nenhuma guia OPME encontrada. A API de origem pode estar indisponível."),
	}}
	router := newGuiasRouter(p)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/guias-opme", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Falha ao buscar guias OPME", body.Error)
	assert.Equal(t, "Nenhuma guia OPME encontrada. A API de origem pode estar indisponível.", body.Message)
}

func TestGetGuias_FailureCarriesRequestID(t *testing.T) {
	p := &stubPipeline{eventos: []models.Evento{models.Falha("Execução cancelada pelo cliente")}}
	h := NewGuiasHandler(p, logger.Discard())
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/api/guias-opme", h.GetGuias)

	req := httptest.NewRequest(http.MethodGet, "/api/guias-opme", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "req-42", body.RequestID)
}

func TestGetGuias_NoTerminalEvent(t *testing.T) {
	p := &stubPipeline{eventos: []models.Evento{models.Progresso(5, "Token de autenticação obtido")}}
	router := newGuiasRouter(p)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/guias-opme", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "A execução terminou sem resultado")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriteFrame(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, writeFrame(&sb, []byte(`{"type":"progress","percent":5,"message":"x"}`)))
	assert.Equal(t, "data: {\"type\":\"progress\",\"percent\":5,\"message\":\"x\"}\n\n", sb.String())

	err := writeFrame(failingWriter{}, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}
