package services

import (
	"context"
	"fmt"
	"iter"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nexconsult/guias-opme/internal/config"
	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/nexconsult/guias-opme/internal/utils"
	"github.com/sirupsen/logrus"
)

// User-facing messages of a run
const (
	MsgTokenObtido       = "Token de autenticação obtido"
	MsgBuscandoLista     = "Buscando lista de guias OPME..."
	MsgFinalizando       = "Finalizando e organizando resultados..."
	MsgNenhumaGuia       = "Nenhuma guia OPME encontrada. A API de origem pode estar indisponível."
	MsgExecucaoCancelada = "Execução cancelada pelo cliente"
	MsgErroInterno       = "Erro interno ao processar guias OPME"
)

// Run outcomes used as metric labels
const (
	resultadoConcluido = "complete"
	resultadoErro      = "error"
	resultadoCancelado = "canceled"
)

// Pipeline runs one aggregation: token, listing, per-guide correlation and
// classification. It produces events and knows nothing about transports.
type Pipeline struct {
	tokens     TokenServiceInterface
	lista      ListaServiceInterface
	correlator CorrelatorInterface
	cfg        config.PipelineConfig
	metrics    *Metrics
	logger     *logrus.Logger

	ativas atomic.Int64
}

// NewPipeline creates a new pipeline
func NewPipeline(cfg config.PipelineConfig, tokens TokenServiceInterface, lista ListaServiceInterface, correlator CorrelatorInterface, metrics *Metrics, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		tokens:     tokens,
		lista:      lista,
		correlator: correlator,
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// Executar returns the event sequence of a fresh run. The sequence always
// ends with exactly one complete or error event unless the consumer stops
// early, in which case the run stops before the next guide.
func (p *Pipeline) Executar(ctx context.Context) iter.Seq[models.Evento] {
	return func(yield func(models.Evento) bool) {
		r := &execucao{
			pipeline: p,
			ctx:      ctx,
			yield:    yield,
			log:      p.logger.WithField("run_id", uuid.NewString()),
			inicio:   time.Now(),
			estado:   models.EstadoInicial,
		}

		p.ativas.Add(1)
		p.metrics.runStarted()
		defer p.ativas.Add(-1)

		defer r.recuperar()

		r.log.Info("Run started")
		r.executar()
	}
}

// Health returns pipeline health status
func (p *Pipeline) Health() map[string]interface{} {
	return map[string]interface{}{
		"status":      "healthy",
		"active_runs": p.ativas.Load(),
	}
}

// execucao is the state of a single run
type execucao struct {
	pipeline *Pipeline
	ctx      context.Context
	yield    func(models.Evento) bool
	log      *logrus.Entry
	inicio   time.Time
	estado   models.Estado

	emitindo  bool
	encerrada bool
}

func (r *execucao) executar() {
	p := r.pipeline

	token, err := p.tokens.Obter(r.ctx)
	if err != nil {
		r.falhar(err.Error())
		return
	}
	r.transicao(models.EstadoTokenObtido, nil)
	if !r.progresso(5, MsgTokenObtido) || !r.progresso(15, MsgBuscandoLista) {
		return
	}

	guias := p.lista.BuscarTodas(r.ctx, token)
	total := len(guias)
	if total == 0 {
		r.falhar(MsgNenhumaGuia)
		return
	}
	r.transicao(models.EstadoListado, logrus.Fields{"total": total})
	if !r.progresso(25, fmt.Sprintf("Encontradas %d guias OPME. Iniciando processamento...", total)) {
		return
	}

	resultados := models.NovosResultados()
	r.transicao(models.EstadoProcessando, nil)

	for i, guia := range guias {
		if r.ctx.Err() != nil {
			r.cancelar()
			return
		}

		percentual := int(math.Round(25 + float64(i+1)/float64(total)*70))
		if !r.progresso(percentual, fmt.Sprintf("Processando guia %d de %d: %s", i+1, total, guia.Rotulo())) {
			return
		}

		resultado := p.correlator.Correlacionar(r.ctx, guia, token)
		bucket := utils.ClassificarResultado(resultado)
		resultados.Adicionar(bucket, resultado)
		p.metrics.recordClassified(bucket)

		r.log.WithFields(logrus.Fields{
			"id_guia": guia.IDGuia.String(),
			"index":   i + 1,
			"total":   total,
			"bucket":  bucket,
			"status":  resultado.StatusOrigem,
			"motivo":  resultado.Motivo,
			"percent": percentual,
		}).Debug("Guide classified")

		if !aguardar(r.ctx, p.cfg.RecordDelay) {
			r.cancelar()
			return
		}
	}

	r.transicao(models.EstadoFinalizando, logrus.Fields{"classified": resultados.Total()})
	if !r.progresso(98, MsgFinalizando) {
		return
	}
	if !aguardar(r.ctx, p.cfg.FinalizeDelay) {
		r.cancelar()
		return
	}

	r.transicao(models.EstadoConcluido, logrus.Fields{"counts": resultados.Contagem()})
	p.metrics.runFinished(resultadoConcluido, time.Since(r.inicio))
	r.emitir(models.Concluido(resultados))
}

// emitir hands one event to the consumer and tracks whether the run is over
func (r *execucao) emitir(ev models.Evento) bool {
	r.emitindo = true
	ok := r.yield(ev)
	r.emitindo = false
	if !ok || ev.Terminal() {
		r.encerrada = true
	}
	return ok
}

// recuperar turns a panic of the run into its final error event. Panics
// raised by the consumer while handling an event are not ours to report.
func (r *execucao) recuperar() {
	rec := recover()
	if rec == nil {
		return
	}
	if r.emitindo || r.encerrada {
		panic(rec)
	}
	r.log.WithFields(logrus.Fields{
		"state": r.estado.String(),
		"panic": rec,
	}).Error("Recovered while running aggregation")
	r.falhar(MsgErroInterno)
}

func (r *execucao) transicao(novo models.Estado, fields logrus.Fields) {
	r.log.WithFields(fields).WithFields(logrus.Fields{
		"from":     r.estado.String(),
		"to":       novo.String(),
		"duration": time.Since(r.inicio).String(),
	}).Info("Run state changed")
	r.estado = novo
}

// progresso emits a progress event; false means the consumer is gone
func (r *execucao) progresso(percentual int, mensagem string) bool {
	if r.emitir(models.Progresso(percentual, mensagem)) {
		return true
	}
	r.log.WithField("state", r.estado.String()).Info("Consumer stopped, abandoning run")
	r.pipeline.metrics.runFinished(resultadoCancelado, time.Since(r.inicio))
	return false
}

func (r *execucao) falhar(mensagem string) {
	r.log.WithField("state", r.estado.String()).WithField("error", mensagem).Error("Run failed")
	r.estado = models.EstadoFalhou
	r.pipeline.metrics.runFinished(resultadoErro, time.Since(r.inicio))
	r.emitir(models.Falha(mensagem))
}

func (r *execucao) cancelar() {
	r.log.WithField("state", r.estado.String()).Info("Run context canceled")
	r.estado = models.EstadoFalhou
	r.pipeline.metrics.runFinished(resultadoCancelado, time.Since(r.inicio))
	r.emitir(models.Falha(MsgExecucaoCancelada))
}

// aguardar sleeps for d unless ctx ends first; false means ctx ended
func aguardar(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
