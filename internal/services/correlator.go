package services

import (
	"context"
	"fmt"

	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/nexconsult/guias-opme/internal/utils"
	"github.com/sirupsen/logrus"
)

// Reasons attached to results that could not be correlated
const (
	MotivoSemOrigem           = "Guia OPME sem guia de origem"
	MotivoOrigemSemAut        = "Guia de origem sem número de autorização"
	MotivoDetalheIndisponivel = "Detalhe da guia OPME indisponível"
	MotivoStatusNaoEncontrado = "Status da guia de origem não encontrado"
	MotivoErroProcessamento   = "Erro ao processar guia"
)

const maxMensagemErro = 50

// Correlator resolves the origin guide of a listed OPME guide
type Correlator struct {
	detalhes  DetalheServiceInterface
	historico HistoricoServiceInterface
	subtipo   string
	logger    *logrus.Logger
}

// NewCorrelator creates a correlator. historico may be nil, in which case
// the origin detail is the source of the origin status.
func NewCorrelator(cfg config.UpstreamConfig, detalhes DetalheServiceInterface, historico HistoricoServiceInterface, logger *logrus.Logger) *Correlator {
	return &Correlator{
		detalhes:  detalhes,
		historico: historico,
		subtipo:   cfg.OPMESubtype,
		logger:    logger,
	}
}

// Correlacionar builds the result of one listed guide. Failures never
// escape: a panic is turned into an error result.
func (c *Correlator) Correlacionar(ctx context.Context, guia models.GuiaResumo, token string) (resultado models.ResultadoGuia) {
	resultado = models.ResultadoGuia{
		GuiaOPME:       guia.Rotulo(),
		Beneficiario:   guia.Beneficiario,
		Prestador:      guia.Prestador,
		StatusOPME:     utils.FormatarStatus(guia.StatusRegulacao.String()),
		GuiaOrigem:     models.OrigemNaoInformada,
		TipoGuiaOrigem: utils.FormatarTipoGuia(guia.TipoDeGuia.String()),
		StatusOrigem:   utils.FormatarStatus(guia.StatusRegulacao.String()),
		ItensOrigem:    []models.ItemOrigem{},
	}

	log := c.logger.WithField("id_guia", guia.IDGuia.String())

	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("panic", rec).Error("Recovered while correlating guide")
			resultado.GuiaOrigem = models.OrigemErroAPI
			resultado.StatusOrigem = "ERRO: " + truncar(fmt.Sprint(rec), maxMensagemErro) + "..."
			resultado.ItensOrigem = []models.ItemOrigem{}
			resultado.Motivo = MotivoErroProcessamento
		}
	}()

	detalheOPME, err := c.detalhes.Buscar(ctx, guia.IDGuia.String(), token, c.subtipo)
	if err != nil || detalheOPME == nil {
		resultado.Motivo = MotivoDetalheIndisponivel
		return resultado
	}

	origem := detalheOPME.Origem
	if origem == nil || (origem.ID.Vazio() && origem.Autorizacao.Vazio()) {
		resultado.Motivo = MotivoSemOrigem
		return resultado
	}
	if origem.Autorizacao.Vazio() {
		resultado.Motivo = MotivoOrigemSemAut
		return resultado
	}

	resultado.GuiaOrigem = origem.Autorizacao.String()
	log = log.WithField("guia_origem", resultado.GuiaOrigem)

	// Origin detail serves the line items and, without a history service, the status
	var detalheOrigem *models.DetalheGuia
	if !origem.ID.Vazio() {
		detalheOrigem, err = c.detalhes.Buscar(ctx, origem.ID.String(), token, "")
		if err != nil {
			log.WithError(err).Warn("Origin detail unavailable, keeping status without items")
			detalheOrigem = nil
		}
	}

	status, resolvido := c.resolverStatus(ctx, origem.Autorizacao.String(), token, detalheOrigem, log)
	if resolvido {
		resultado.StatusOrigem = utils.FormatarStatus(status)
	} else {
		resultado.StatusOrigem = models.StatusNaoEncontrado
		resultado.Motivo = MotivoStatusNaoEncontrado
	}

	if detalheOrigem != nil {
		if detalheOrigem.Tipo != "" {
			resultado.TipoGuiaOrigem = utils.FormatarTipoGuia(detalheOrigem.Tipo)
		}
		resultado.ItensOrigem = detalheOrigem.Itens()
	}

	return resultado
}

// resolverStatus prefers the status-history service and falls back to the
// origin detail. It reports false when neither yields a status.
func (c *Correlator) resolverStatus(ctx context.Context, numeroGuia, token string, detalheOrigem *models.DetalheGuia, log *logrus.Entry) (string, bool) {
	if c.historico != nil {
		situacao, err := c.historico.SituacaoAtual(ctx, numeroGuia, token)
		switch {
		case err != nil:
			log.WithError(err).Warn("Status history unavailable, falling back to origin detail")
		case situacao == "":
			return "", false
		default:
			return situacao, true
		}
	}

	if detalheOrigem != nil && detalheOrigem.Status != "" {
		return detalheOrigem.Status, true
	}
	return "", false
}

func truncar(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
