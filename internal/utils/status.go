package utils

import (
	"strings"

	"github.com/nexconsult/guias-opme/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	SemStatus = "S/ Status"
	SemTipo   = "S/ Tipo"
)

var statusLabels = map[string]string{
	"AUTORIZADA":               "Autorizada",
	"EXECUTADA":                "Executada",
	"AUTORIZADA_PARCIALMENTE":  "Autorizada Parcialmente",
	"PARCIALMENTE_AUTORIZADA":  "Autorizada Parcialmente",
	"NEGADA":                   "Negada",
	"NEGADA_PARCIALMENTE":      "Negada",
	"EM_ANALISE":               "Em Análise",
	"EM_REANALISE":             "Em Análise",
	"DOCUMENTACAO_EM_ANALISE":  "Em Análise",
	"AGUARDANDO_NO_PRAZO":      "Em Análise",
	"PENDENTE":                 "Em Análise",
	"CANCELADA":                "Cancelada",
	"AGUARDANDO_DOCUMENTACAO":  "Aguardando Documentação",
	"AGUARDANDO_JUSTIFICATIVA": "Aguardando Justificativa",
}

var tipoLabels = map[string]string{
	"SOLICITACAO_DE_OPME":    "OPME",
	"SOLICITACAO_INTERNACAO": "Internação",
	"SOLICITACAO_SADT":       "SP/SADT",
	"CONSULTA":               "Consulta",
	"PRORROGACAO":            "Prorrogação",
}

// FormatarStatus maps a raw status code to its display label
func FormatarStatus(raw string) string {
	return formatar(raw, statusLabels, SemStatus)
}

// FormatarTipoGuia maps a raw guide type code to its display label
func FormatarTipoGuia(raw string) string {
	return formatar(raw, tipoLabels, SemTipo)
}

func formatar(raw string, tabela map[string]string, vazio string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return vazio
	}
	if label, ok := tabela[strings.ToUpper(raw)]; ok {
		return label
	}
	// a Caser keeps state between calls and cannot be shared across goroutines
	return cases.Title(language.BrazilianPortuguese).String(strings.ReplaceAll(raw, "_", " "))
}

// SemOrigemResolvida reports whether a result must go to semGuiaOrigem
// before the status matcher runs: the origin label is unresolved or the
// status label signals an error or a not-found condition.
func SemOrigemResolvida(origem, status string) bool {
	switch strings.TrimSpace(origem) {
	case "", models.OrigemNaoInformada, models.OrigemErroAPI:
		return true
	}

	s := strings.ToUpper(status)
	return strings.Contains(s, "ERRO") ||
		strings.Contains(s, "NÃO ENCONTRAD") ||
		strings.Contains(s, "NAO ENCONTRAD")
}

// Classificar picks the bucket for a normalized status label
func Classificar(status string) models.Bucket {
	s := strings.ToUpper(status)
	switch {
	case strings.Contains(s, "AUTORIZADA") && !strings.Contains(s, "PARCIALMENTE"):
		return models.BucketAutorizadas
	case strings.Contains(s, "EXECUTADA"):
		return models.BucketAutorizadas
	case strings.Contains(s, "PARCIALMENTE"):
		return models.BucketParcialmenteAutorizadas
	case strings.Contains(s, "NEGADA"):
		return models.BucketNegadas
	default:
		return models.BucketEmAnalise
	}
}

// ClassificarResultado applies the pre-check and then the status matcher
func ClassificarResultado(r models.ResultadoGuia) models.Bucket {
	if SemOrigemResolvida(r.GuiaOrigem, r.StatusOrigem) {
		return models.BucketSemGuiaOrigem
	}
	return Classificar(r.StatusOrigem)
}
