package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SemCodigo is the code reported for line items the API sent without one
const SemCodigo = "S/C"

// ErrSemGuia means a detail body parsed as JSON but carried no guide payload
var ErrSemGuia = errors.New("detail body has no guia payload")

// GuiaResumo is one entry of the paginated OPME listing
type GuiaResumo struct {
	IDGuia          Identificador   `json:"idGuia"`
	AutorizacaoGuia Identificador   `json:"autorizacaoGuia,omitempty"`
	Beneficiario    json.RawMessage `json:"beneficiario,omitempty"`
	Prestador       json.RawMessage `json:"prestador,omitempty"`
	StatusRegulacao Rotulo          `json:"statusRegulacao,omitempty"`
	TipoDeGuia      Rotulo          `json:"tipoDeGuia,omitempty"`
}

// Rotulo returns the label shown for the OPME guide: its authorization
// number when the listing carries one, otherwise the record id.
func (g GuiaResumo) Rotulo() string {
	if !g.AutorizacaoGuia.Vazio() {
		return g.AutorizacaoGuia.String()
	}
	return g.IDGuia.String()
}

// PaginaGuias is the page envelope of the listing endpoint
type PaginaGuias struct {
	Content    []GuiaResumo `json:"content"`
	Last       *bool        `json:"last,omitempty"`
	TotalPages *int         `json:"totalPages,omitempty"`
	Size       *int         `json:"size,omitempty"`
}

// GuiaOrigemRef links an OPME guide to the hospitalization guide it derives from
type GuiaOrigemRef struct {
	ID          Identificador `json:"id"`
	Autorizacao Identificador `json:"autorizacao"`
}

// ItemOrigem is one line item of the origin guide as reported to clients
type ItemOrigem struct {
	Codigo          string `json:"codigo"`
	Descricao       string `json:"descricao"`
	QuantSolicitada int    `json:"quantSolicitada"`
	QuantAutorizada int    `json:"quantAutorizada"`
}

// FonteItens is the tagged union over the two item schemas served by the
// detail endpoint. Exactly one variant is selected per payload.
type FonteItens interface {
	Itens() []ItemOrigem
	Variante() string
}

// ItemGuia is the "itensGuia" item shape
type ItemGuia struct {
	Codigo               Identificador `json:"codigo"`
	Descricao            string        `json:"descricao"`
	QuantSolicitada      Quantidade    `json:"quantSolicitada"`
	RegulacaoItemGuiaDto *struct {
		QuantidadeAutorizada Quantidade `json:"quantidadeAutorizada"`
	} `json:"regulacaoItemGuiaDto"`
}

// ProcedimentoSolicitado is the "procedimentosSolicitado" item shape
type ProcedimentoSolicitado struct {
	Codigo               Identificador `json:"codigo"`
	CodigoProcedimento   Identificador `json:"codigoProcedimento"`
	Descricao            string        `json:"descricao"`
	QuantidadeSolicitada Quantidade    `json:"quantidadeSolicitada"`
	QuantidadeAutorizada Quantidade    `json:"quantidadeAutorizada"`
}

// ItensGuiaShape selects the itensGuia schema
type ItensGuiaShape []ItemGuia

// Variante implements FonteItens
func (ItensGuiaShape) Variante() string { return "itensGuia" }

// Itens implements FonteItens
func (s ItensGuiaShape) Itens() []ItemOrigem {
	itens := make([]ItemOrigem, 0, len(s))
	for _, item := range s {
		autorizada := 0
		if item.RegulacaoItemGuiaDto != nil {
			autorizada = int(item.RegulacaoItemGuiaDto.QuantidadeAutorizada)
		}
		itens = append(itens, ItemOrigem{
			Codigo:          codigoOuPadrao(item.Codigo),
			Descricao:       item.Descricao,
			QuantSolicitada: int(item.QuantSolicitada),
			QuantAutorizada: autorizada,
		})
	}
	return itens
}

// ProcedimentosShape selects the procedimentosSolicitado schema
type ProcedimentosShape []ProcedimentoSolicitado

// Variante implements FonteItens
func (ProcedimentosShape) Variante() string { return "procedimentosSolicitado" }

// Itens implements FonteItens
func (s ProcedimentosShape) Itens() []ItemOrigem {
	itens := make([]ItemOrigem, 0, len(s))
	for _, proc := range s {
		codigo := proc.Codigo
		if codigo.Vazio() {
			codigo = proc.CodigoProcedimento
		}
		itens = append(itens, ItemOrigem{
			Codigo:          codigoOuPadrao(codigo),
			Descricao:       proc.Descricao,
			QuantSolicitada: int(proc.QuantidadeSolicitada),
			QuantAutorizada: int(proc.QuantidadeAutorizada),
		})
	}
	return itens
}

func codigoOuPadrao(codigo Identificador) string {
	if codigo.Vazio() {
		return SemCodigo
	}
	return codigo.String()
}

// DetalheGuia is the decoded detail of one guide
type DetalheGuia struct {
	ID          Identificador
	Autorizacao Identificador
	Status      string
	Tipo        string
	// Origem is nil when the payload has no guiaOrigem link
	Origem *GuiaOrigemRef
	// Fonte is nil when the payload carries no items
	Fonte FonteItens
}

// Itens maps the payload items to ItemOrigem; never nil
func (d *DetalheGuia) Itens() []ItemOrigem {
	if d == nil || d.Fonte == nil {
		return []ItemOrigem{}
	}
	return d.Fonte.Itens()
}

type guiaPayload struct {
	ID                      Identificador            `json:"id"`
	Autorizacao             Identificador            `json:"autorizacao"`
	StatusGuia              Rotulo                   `json:"statusGuia"`
	Situacao                Rotulo                   `json:"situacao"`
	TipoDeGuia              Rotulo                   `json:"tipoDeGuia"`
	GuiaOrigem              json.RawMessage          `json:"guiaOrigem"`
	ItensGuia               []ItemGuia               `json:"itensGuia"`
	ProcedimentosSolicitado []ProcedimentoSolicitado `json:"procedimentosSolicitado"`
}

type detalheEnvelope struct {
	Guia                    *guiaPayload             `json:"guia"`
	ProcedimentosSolicitado []ProcedimentoSolicitado `json:"procedimentosSolicitado"`
}

// DecodificarDetalhe parses a raw detail body. The body must be a JSON
// object with a "guia" payload or a top-level procedimentosSolicitado list.
func DecodificarDetalhe(body []byte) (*DetalheGuia, error) {
	var env detalheEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode detail: %w", err)
	}
	if env.Guia == nil && env.ProcedimentosSolicitado == nil {
		return nil, ErrSemGuia
	}

	detalhe := &DetalheGuia{}
	procedimentos := env.ProcedimentosSolicitado

	if g := env.Guia; g != nil {
		detalhe.ID = g.ID
		detalhe.Autorizacao = g.Autorizacao
		detalhe.Status = g.StatusGuia.String()
		if detalhe.Status == "" {
			detalhe.Status = g.Situacao.String()
		}
		detalhe.Tipo = g.TipoDeGuia.String()

		origem, err := decodificarOrigem(g.GuiaOrigem)
		if err != nil {
			return nil, err
		}
		detalhe.Origem = origem

		switch {
		case g.ItensGuia != nil:
			detalhe.Fonte = ItensGuiaShape(g.ItensGuia)
		case g.ProcedimentosSolicitado != nil:
			procedimentos = g.ProcedimentosSolicitado
		}
	}

	if detalhe.Fonte == nil && procedimentos != nil {
		detalhe.Fonte = ProcedimentosShape(procedimentos)
	}

	return detalhe, nil
}

func decodificarOrigem(raw json.RawMessage) (*GuiaOrigemRef, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var ref GuiaOrigemRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return nil, fmt.Errorf("decode guiaOrigem: %w", err)
	}
	return &ref, nil
}

// HistoricoPagina is the envelope of the status-history endpoint
type HistoricoPagina struct {
	Content []struct {
		SituacaoAtual Rotulo `json:"situacaoAtual"`
	} `json:"content"`
}
