package models

// ErrorResponse is the error body of the JSON endpoints
// @Description Resposta de erro
type ErrorResponse struct {
	// Categoria do erro
	// @example "Falha ao buscar guias"
	Error string `json:"error" example:"Falha ao buscar guias"`
	// Mensagem detalhada
	// @example "Nenhuma guia OPME encontrada. A API de origem pode estar indisponível."
	Message string `json:"message" example:"Nenhuma guia OPME encontrada. A API de origem pode estar indisponível."`
	// ID da requisição, quando disponível
	RequestID string `json:"request_id,omitempty" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
}

// HealthResponse is the body of GET /health
// @Description Estado do serviço
type HealthResponse struct {
	// @example "OK"
	Status string `json:"status" example:"OK"`
	// Timestamp ISO 8601
	// @example "2025-08-25T17:25:30.468Z"
	Timestamp string `json:"timestamp" example:"2025-08-25T17:25:30.468Z"`
}

// LivenessResponse is the body of GET /health/live
type LivenessResponse struct {
	Status string `json:"status" example:"alive"`
	Uptime string `json:"uptime" example:"1h2m3s"`
}
