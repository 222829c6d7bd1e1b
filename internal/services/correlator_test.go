package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nexconsult/guias-opme/internal/logger"
	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/nexconsult/guias-opme/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detalheComOrigem(id, autorizacao string) *models.DetalheGuia {
	return &models.DetalheGuia{
		Origem: &models.GuiaOrigemRef{
			ID:          models.Identificador(id),
			Autorizacao: models.Identificador(autorizacao),
		},
	}
}

func detalheOrigem(status string, itens models.FonteItens) *models.DetalheGuia {
	return &models.DetalheGuia{
		Status: status,
		Tipo:   "SOLICITACAO_INTERNACAO",
		Fonte:  itens,
	}
}

func newTestCorrelator(d *stubDetalhes, h HistoricoServiceInterface) *Correlator {
	return NewCorrelator(testUpstreamConfig("http://upstream.test"), d, h, logger.Discard())
}

func TestCorrelator_NoOriginLink(t *testing.T) {
	detalhes := &stubDetalhes{detalhes: map[string]*models.DetalheGuia{
		"G1": {},
	}}
	c := newTestCorrelator(detalhes, nil)

	r := c.Correlacionar(context.Background(), models.GuiaResumo{IDGuia: "G1"}, "t1")

	assert.Equal(t, models.OrigemNaoInformada, r.GuiaOrigem)
	assert.Equal(t, MotivoSemOrigem, r.Motivo)
	assert.Equal(t, models.BucketSemGuiaOrigem, utils.ClassificarResultado(r))
	assert.Equal(t, []string{"G1|OPME"}, detalhes.chamadas, "OPME detail requested with sub-type")
}

func TestCorrelator_OriginWithoutAuthorization(t *testing.T) {
	detalhes := &stubDetalhes{detalhes: map[string]*models.DetalheGuia{
		"G1": detalheComOrigem("O1", ""),
	}}
	c := newTestCorrelator(detalhes, nil)

	r := c.Correlacionar(context.Background(), models.GuiaResumo{IDGuia: "G1"}, "t1")

	assert.Equal(t, MotivoOrigemSemAut, r.Motivo)
	assert.Equal(t, models.BucketSemGuiaOrigem, utils.ClassificarResultado(r))
	assert.Len(t, detalhes.chamadas, 1, "origin detail not fetched")
}

func TestCorrelator_OPMEDetailUnavailable(t *testing.T) {
	detalhes := &stubDetalhes{erros: map[string]error{"G1": ErrMalformedResponse}}
	c := newTestCorrelator(detalhes, nil)

	r := c.Correlacionar(context.Background(), models.GuiaResumo{IDGuia: "G1"}, "t1")

	assert.Equal(t, MotivoDetalheIndisponivel, r.Motivo)
	assert.Equal(t, models.BucketSemGuiaOrigem, utils.ClassificarResultado(r))
}

func TestCorrelator_StatusFromOriginDetail(t *testing.T) {
	detalhes := &stubDetalhes{detalhes: map[string]*models.DetalheGuia{
		"G1": detalheComOrigem("O1", "A1"),
		"O1": detalheOrigem("AUTORIZADA", models.ItensGuiaShape{
			{Codigo: "C1", Descricao: "Placa", QuantSolicitada: 2},
		}),
	}}
	c := newTestCorrelator(detalhes, nil)

	guia := models.GuiaResumo{
		IDGuia:          "G1",
		AutorizacaoGuia: "OPME-1",
		Beneficiario:    json.RawMessage(`{"nome":"Maria"}`),
		StatusRegulacao: "EM_ANALISE",
	}
	r := c.Correlacionar(context.Background(), guia, "t1")

	assert.Equal(t, "OPME-1", r.GuiaOPME)
	assert.Equal(t, "A1", r.GuiaOrigem)
	assert.Equal(t, "Autorizada", r.StatusOrigem)
	assert.Equal(t, "Em Análise", r.StatusOPME)
	assert.Equal(t, "Internação", r.TipoGuiaOrigem)
	assert.JSONEq(t, `{"nome":"Maria"}`, string(r.Beneficiario))
	assert.Empty(t, r.Motivo)
	assert.Equal(t, []models.ItemOrigem{
		{Codigo: "C1", Descricao: "Placa", QuantSolicitada: 2, QuantAutorizada: 0},
	}, r.ItensOrigem)
	assert.Equal(t, models.BucketAutorizadas, utils.ClassificarResultado(r))
	assert.Equal(t, []string{"G1|OPME", "O1|"}, detalhes.chamadas)
}

func TestCorrelator_StatusFromHistory(t *testing.T) {
	detalhes := &stubDetalhes{detalhes: map[string]*models.DetalheGuia{
		"G1": detalheComOrigem("O1", "A1"),
		"O1": detalheOrigem("EM_ANALISE", nil),
	}}
	historico := &stubHistorico{situacoes: map[string]string{"A1": "NEGADA"}}
	c := newTestCorrelator(detalhes, historico)

	r := c.Correlacionar(context.Background(), models.GuiaResumo{IDGuia: "G1"}, "t1")

	assert.Equal(t, "Negada", r.StatusOrigem, "history wins over origin detail")
	assert.Equal(t, models.BucketNegadas, utils.ClassificarResultado(r))
	assert.EqualValues(t, 1, historico.chamadas.Load())
}

func TestCorrelator_EmptyHistoryIsNotFound(t *testing.T) {
	detalhes := &stubDetalhes{detalhes: map[string]*models.DetalheGuia{
		"G1": detalheComOrigem("O1", "A1"),
		"O1": detalheOrigem("AUTORIZADA", nil),
	}}
	c := newTestCorrelator(detalhes, &stubHistorico{situacoes: map[string]string{}})

	r := c.Correlacionar(context.Background(), models.GuiaResumo{IDGuia: "G1"}, "t1")

	assert.Equal(t, models.StatusNaoEncontrado, r.StatusOrigem)
	assert.Equal(t, MotivoStatusNaoEncontrado, r.Motivo)
	assert.Equal(t, models.BucketSemGuiaOrigem, utils.ClassificarResultado(r))
}

func TestCorrelator_HistoryFailureFallsBackToDetail(t *testing.T) {
	detalhes := &stubDetalhes{detalhes: map[string]*models.DetalheGuia{
		"G1": detalheComOrigem("O1", "A1"),
		"O1": detalheOrigem("AUTORIZADA_PARCIALMENTE", nil),
	}}
	c := newTestCorrelator(detalhes, &stubHistorico{err: ErrUpstreamUnavailable})

	r := c.Correlacionar(context.Background(), models.GuiaResumo{IDGuia: "G1"}, "t1")

	assert.Equal(t, "Autorizada Parcialmente", r.StatusOrigem)
	assert.Equal(t, models.BucketParcialmenteAutorizadas, utils.ClassificarResultado(r))
}

func TestCorrelator_OriginDetailFailureKeepsStatus(t *testing.T) {
	detalhes := &stubDetalhes{
		detalhes: map[string]*models.DetalheGuia{"G1": detalheComOrigem("O1", "A1")},
		erros:    map[string]error{"O1": ErrUpstreamUnavailable},
	}
	historico := &stubHistorico{situacoes: map[string]string{"A1": "AUTORIZADA"}}
	c := newTestCorrelator(detalhes, historico)

	r := c.Correlacionar(context.Background(), models.GuiaResumo{IDGuia: "G1"}, "t1")

	assert.Equal(t, "Autorizada", r.StatusOrigem)
	assert.NotNil(t, r.ItensOrigem)
	assert.Empty(t, r.ItensOrigem)
	assert.Equal(t, models.BucketAutorizadas, utils.ClassificarResultado(r))
}

func TestCorrelator_RecoversFromPanic(t *testing.T) {
	detalhes := &stubDetalhes{panicos: map[string]string{
		"G1": strings.Repeat("x", 80),
	}}
	c := newTestCorrelator(detalhes, nil)

	var r models.ResultadoGuia
	require.NotPanics(t, func() {
		r = c.Correlacionar(context.Background(), models.GuiaResumo{IDGuia: "G1"}, "t1")
	})

	assert.Equal(t, models.OrigemErroAPI, r.GuiaOrigem)
	assert.Equal(t, "ERRO: "+strings.Repeat("x", 50)+"...", r.StatusOrigem)
	assert.Equal(t, MotivoErroProcessamento, r.Motivo)
	assert.Equal(t, models.BucketSemGuiaOrigem, utils.ClassificarResultado(r))
}

func TestTruncar(t *testing.T) {
	assert.Equal(t, "abc", truncar("abc", 50))
	assert.Equal(t, "ãé", truncar("ãéí", 2))
}
