package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/guias-opme/internal/api/middleware"
	"github.com/nexconsult/guias-opme/internal/models"
	"github.com/nexconsult/guias-opme/internal/services"
	"github.com/sirupsen/logrus"
)

// GuiasHandler exposes aggregation runs over SSE and plain JSON
type GuiasHandler struct {
	pipeline services.PipelineInterface
	logger   *logrus.Logger
}

// NewGuiasHandler creates a new guias handler
func NewGuiasHandler(pipeline services.PipelineInterface, logger *logrus.Logger) *GuiasHandler {
	return &GuiasHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// StreamProgress runs the aggregation and streams its events
// @Summary Stream aggregation progress
// @Description Runs one aggregation and streams progress, complete and error events as server-sent events. Each frame is "data: <json>" followed by a blank line; the server closes the stream after the complete or error event.
// @Tags Guias
// @Produce text/event-stream
// @Success 200 {string} string "data: {\"type\":\"progress\",\"percent\":5,\"message\":\"Token de autenticação obtido\"}"
// @Failure 429 {object} models.ErrorResponse
// @Router /api/guias-opme-progress [get]
func (h *GuiasHandler) StreamProgress(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString(middleware.RequestIDKey)
	log := h.logger.WithField("request_id", requestID)

	// streams outlive the server write timeout
	rc := http.NewResponseController(c.Writer)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.WithError(err).Debug("Could not clear write deadline")
	}

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	log.Info("Progress stream opened")

	eventos := 0
	var ultimo models.Evento
	for ev := range h.pipeline.Executar(c.Request.Context()) {
		if err := escreverEvento(c.Writer, ev); err != nil {
			log.WithError(err).WithField("events", eventos).Info("Client disconnected, stopping stream")
			return
		}
		eventos++
		ultimo = ev
	}

	log.WithFields(logrus.Fields{
		"events":   eventos,
		"result":   ultimo.Tipo,
		"duration": time.Since(start).String(),
	}).Info("Progress stream closed")
}

// GetGuias runs the aggregation and returns the final result set
// @Summary Get classified OPME guides
// @Description Runs one aggregation synchronously and returns the five result groups
// @Tags Guias
// @Produce json
// @Success 200 {object} models.Resultados
// @Failure 429 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/guias-opme [get]
func (h *GuiasHandler) GetGuias(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString(middleware.RequestIDKey)

	var final models.Evento
	for ev := range h.pipeline.Executar(c.Request.Context()) {
		if ev.Terminal() {
			final = ev
		}
	}

	log := h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"duration":   time.Since(start).String(),
	})

	switch final.Tipo {
	case models.EventoConcluido:
		log.WithField("total", final.Resultados.Total()).Info("Guides aggregated")
		c.JSON(http.StatusOK, final.Resultados)
	case models.EventoErro:
		log.WithField("error", final.Mensagem).Error("Aggregation failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Falha ao buscar guias OPME",
			Message:   final.Mensagem,
			RequestID: requestID,
		})
	default:
		log.Error("Aggregation ended without a result")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Falha ao buscar guias OPME",
			Message:   "A execução terminou sem resultado",
			RequestID: requestID,
		})
	}
}

// escreverEvento writes one SSE frame and flushes it
func escreverEvento(w gin.ResponseWriter, ev models.Evento) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := writeFrame(w, payload); err != nil {
		return err
	}
	w.Flush()
	return nil
}

func writeFrame(w io.Writer, payload []byte) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
