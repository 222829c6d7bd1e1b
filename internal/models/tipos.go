package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Identificador accepts a JSON string or number and keeps its textual form.
// The authorization API is not consistent about quoting ids and guide numbers.
type Identificador string

// UnmarshalJSON implements json.Unmarshaler
func (i *Identificador) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		*i = ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*i = Identificador(strings.TrimSpace(s))
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		*i = Identificador(raw)
	default:
		// objects, arrays and booleans carry no usable id
		*i = ""
	}
	return nil
}

// String returns the identifier text
func (i Identificador) String() string {
	return string(i)
}

// Vazio reports whether no identifier was sent
func (i Identificador) Vazio() bool {
	return strings.TrimSpace(string(i)) == ""
}

// Quantidade is a non-negative item quantity. Numbers, numeric strings and
// null are accepted; anything unparseable or out of range decodes to 0.
type Quantidade int

// UnmarshalJSON implements json.Unmarshaler
func (q *Quantidade) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	text := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			*q = 0
			return nil
		}
		text = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		*q = 0
		return nil
	}
	*q = Quantidade(int(f))
	return nil
}

// Rotulo is a status or type label. The API sends it either as a plain
// string or as an enum object such as {"name": "AUTORIZADA"}.
type Rotulo string

// UnmarshalJSON implements json.Unmarshaler
func (r *Rotulo) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*r = ""
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*r = Rotulo(strings.TrimSpace(s))
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return err
		}
		*r = ""
		for _, key := range []string{"name", "nome", "descricao", "codigo"} {
			var s string
			if v, ok := obj[key]; ok && json.Unmarshal(v, &s) == nil && strings.TrimSpace(s) != "" {
				*r = Rotulo(strings.TrimSpace(s))
				break
			}
		}
	default:
		*r = ""
	}
	return nil
}

// String returns the label text
func (r Rotulo) String() string {
	return string(r)
}
