package models

import (
	"encoding/json"
	"fmt"
)

// TipoEvento discriminates the events of a progress stream
type TipoEvento string

const (
	EventoProgresso TipoEvento = "progress"
	EventoConcluido TipoEvento = "complete"
	EventoErro      TipoEvento = "error"
)

// Evento is one message of a run. Exactly one of the payloads applies,
// selected by Tipo.
type Evento struct {
	Tipo       TipoEvento
	Percentual int
	Mensagem   string
	Resultados *Resultados
}

// Progresso builds a progress event
func Progresso(percentual int, mensagem string) Evento {
	return Evento{Tipo: EventoProgresso, Percentual: percentual, Mensagem: mensagem}
}

// Concluido builds the terminal success event
func Concluido(r *Resultados) Evento {
	if r == nil {
		r = NovosResultados()
	}
	return Evento{Tipo: EventoConcluido, Resultados: r}
}

// Falha builds the terminal error event
func Falha(mensagem string) Evento {
	return Evento{Tipo: EventoErro, Mensagem: mensagem}
}

// Terminal reports whether no event may follow this one
func (e Evento) Terminal() bool {
	return e.Tipo == EventoConcluido || e.Tipo == EventoErro
}

type eventoProgresso struct {
	Type    TipoEvento `json:"type"`
	Percent int        `json:"percent"`
	Message string     `json:"message"`
}

type eventoConcluido struct {
	Type       TipoEvento  `json:"type"`
	Resultados *Resultados `json:"resultados"`
}

type eventoErro struct {
	Type    TipoEvento `json:"type"`
	Message string     `json:"message"`
}

// MarshalJSON writes the wire shape of the event
func (e Evento) MarshalJSON() ([]byte, error) {
	switch e.Tipo {
	case EventoProgresso:
		return json.Marshal(eventoProgresso{Type: e.Tipo, Percent: e.Percentual, Message: e.Mensagem})
	case EventoConcluido:
		r := e.Resultados
		if r == nil {
			r = NovosResultados()
		}
		return json.Marshal(eventoConcluido{Type: e.Tipo, Resultados: r})
	case EventoErro:
		return json.Marshal(eventoErro{Type: e.Tipo, Message: e.Mensagem})
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Tipo)
	}
}

// Estado is the lifecycle state of a run
type Estado int

const (
	EstadoInicial Estado = iota
	EstadoTokenObtido
	EstadoListado
	EstadoProcessando
	EstadoFinalizando
	EstadoConcluido
	EstadoFalhou
)

func (s Estado) String() string {
	switch s {
	case EstadoInicial:
		return "init"
	case EstadoTokenObtido:
		return "token_acquired"
	case EstadoListado:
		return "listed"
	case EstadoProcessando:
		return "processing"
	case EstadoFinalizando:
		return "finalizing"
	case EstadoConcluido:
		return "complete"
	case EstadoFalhou:
		return "failed"
	default:
		return fmt.Sprintf("estado(%d)", int(s))
	}
}
