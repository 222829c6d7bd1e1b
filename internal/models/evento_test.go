package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvento_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Progresso(25, "Encontradas 3 guias"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"progress","percent":25,"message":"Encontradas 3 guias"}`, string(b))

	b, err = json.Marshal(Falha("boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","message":"boom"}`, string(b))

	b, err = json.Marshal(Concluido(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"complete","resultados":{
		"autorizadas":[],"parcialmenteAutorizadas":[],"negadas":[],"emAnalise":[],"semGuiaOrigem":[]
	}}`, string(b))

	_, err = json.Marshal(Evento{Tipo: "outro"})
	assert.Error(t, err)
}

func TestEvento_Terminal(t *testing.T) {
	assert.False(t, Progresso(5, "x").Terminal())
	assert.True(t, Concluido(nil).Terminal())
	assert.True(t, Falha("x").Terminal())
}

func TestResultados_Adicionar(t *testing.T) {
	r := NovosResultados()
	r.Adicionar(BucketNegadas, ResultadoGuia{GuiaOPME: "1"})
	r.Adicionar(Bucket("desconhecido"), ResultadoGuia{GuiaOPME: "2"})

	assert.Equal(t, 2, r.Total())
	assert.Len(t, r.Negadas, 1)
	assert.Len(t, r.SemGuiaOrigem, 1)
	assert.NotNil(t, r.Negadas[0].ItensOrigem, "items default to an empty list")
	assert.Equal(t, 1, r.Contagem()[BucketNegadas])
}
