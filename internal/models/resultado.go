package models

import "encoding/json"

// Bucket names one of the five result groups
type Bucket string

// Result groups, in the order clients render them
const (
	BucketAutorizadas             Bucket = "autorizadas"
	BucketParcialmenteAutorizadas Bucket = "parcialmenteAutorizadas"
	BucketNegadas                 Bucket = "negadas"
	BucketEmAnalise               Bucket = "emAnalise"
	BucketSemGuiaOrigem           Bucket = "semGuiaOrigem"
)

// Buckets lists every result group
var Buckets = []Bucket{
	BucketAutorizadas,
	BucketParcialmenteAutorizadas,
	BucketNegadas,
	BucketEmAnalise,
	BucketSemGuiaOrigem,
}

// Labels used when the origin guide cannot be resolved
const (
	OrigemNaoInformada  = "N/A"
	OrigemErroAPI       = "ERRO API"
	StatusNaoEncontrado = "Status não encontrado"
)

// ResultadoGuia is the classified view of one OPME guide and its origin guide
// @Description Guia OPME correlacionada com sua guia de origem
type ResultadoGuia struct {
	// Número de autorização (ou id) da guia OPME
	GuiaOPME     string          `json:"guiaOPME" example:"OPME-2025-0001"`
	Beneficiario json.RawMessage `json:"beneficiario,omitempty" swaggertype:"object"`
	Prestador    json.RawMessage `json:"prestador,omitempty" swaggertype:"object"`
	StatusOPME   string          `json:"statusOPME" example:"Em Análise"`
	// Número de autorização da guia de origem
	GuiaOrigem     string       `json:"guiaOrigem" example:"A1"`
	TipoGuiaOrigem string       `json:"tipoGuiaOrigem" example:"Internação"`
	StatusOrigem   string       `json:"statusOrigem" example:"Autorizada"`
	ItensOrigem    []ItemOrigem `json:"itensOrigem"`
	// Motivo is set when the guide could not be correlated
	Motivo string `json:"motivo,omitempty" example:"Guia OPME sem guia de origem"`
}

// Resultados holds every classified guide of a run, grouped by bucket
// @Description Resultado completo de uma execução
type Resultados struct {
	Autorizadas             []ResultadoGuia `json:"autorizadas"`
	ParcialmenteAutorizadas []ResultadoGuia `json:"parcialmenteAutorizadas"`
	Negadas                 []ResultadoGuia `json:"negadas"`
	EmAnalise               []ResultadoGuia `json:"emAnalise"`
	SemGuiaOrigem           []ResultadoGuia `json:"semGuiaOrigem"`
}

// NovosResultados returns a result set whose groups marshal as empty arrays
func NovosResultados() *Resultados {
	return &Resultados{
		Autorizadas:             []ResultadoGuia{},
		ParcialmenteAutorizadas: []ResultadoGuia{},
		Negadas:                 []ResultadoGuia{},
		EmAnalise:               []ResultadoGuia{},
		SemGuiaOrigem:           []ResultadoGuia{},
	}
}

func (r *Resultados) grupo(b Bucket) *[]ResultadoGuia {
	switch b {
	case BucketAutorizadas:
		return &r.Autorizadas
	case BucketParcialmenteAutorizadas:
		return &r.ParcialmenteAutorizadas
	case BucketNegadas:
		return &r.Negadas
	case BucketEmAnalise:
		return &r.EmAnalise
	default:
		return &r.SemGuiaOrigem
	}
}

// Adicionar appends a result to the given group. Unknown buckets go to semGuiaOrigem.
func (r *Resultados) Adicionar(b Bucket, res ResultadoGuia) {
	if res.ItensOrigem == nil {
		res.ItensOrigem = []ItemOrigem{}
	}
	g := r.grupo(b)
	*g = append(*g, res)
}

// Grupo returns the results of one bucket
func (r *Resultados) Grupo(b Bucket) []ResultadoGuia {
	return *r.grupo(b)
}

// Total counts results across all groups
func (r *Resultados) Total() int {
	total := 0
	for _, b := range Buckets {
		total += len(r.Grupo(b))
	}
	return total
}

// Contagem returns the number of results per bucket
func (r *Resultados) Contagem() map[Bucket]int {
	out := make(map[Bucket]int, len(Buckets))
	for _, b := range Buckets {
		out[b] = len(r.Grupo(b))
	}
	return out
}
