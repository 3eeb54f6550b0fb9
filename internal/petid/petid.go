// Package petid normaliza los identificadores de mascotas que llegan desde la API.
//
// Según el backend, el id puede venir como string plano ("6650..."), como objeto
// envuelto estilo Mongo ({"$oid": "6650..."}) o como cualquier otro valor JSON
// (número, objeto arbitrario). Todo el cliente compara y usa como llave el string
// que devuelve Normalize.
package petid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifica la forma del identificador crudo.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindWrapped
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindWrapped:
		return "wrapped"
	case KindOpaque:
		return "opaque"
	default:
		return "empty"
	}
}

// wrappedField es la llave del objeto envuelto ({"$oid": "..."}).
const wrappedField = "$oid"

// Raw es la unión etiquetada de las representaciones posibles de un id.
// El valor cero es KindEmpty.
type Raw struct {
	kind   Kind
	str    string // KindString y KindWrapped
	opaque any    // KindOpaque
}

// FromString arma un Raw de tipo string. "" equivale a vacío.
func FromString(s string) Raw {
	if s == "" {
		return Raw{}
	}
	return Raw{kind: KindString, str: s}
}

// Wrapped arma un Raw envuelto ({"$oid": inner}).
func Wrapped(inner string) Raw {
	if inner == "" {
		return Raw{}
	}
	return Raw{kind: KindWrapped, str: inner}
}

// Opaque arma un Raw a partir de un valor sin forma conocida.
func Opaque(v any) Raw {
	if v == nil {
		return Raw{}
	}
	return Raw{kind: KindOpaque, opaque: v}
}

// Of clasifica un valor Go arbitrario en la variante que corresponda.
func Of(v any) Raw {
	switch t := v.(type) {
	case nil:
		return Raw{}
	case Raw:
		return t
	case *Raw:
		if t == nil {
			return Raw{}
		}
		return *t
	case string:
		return FromString(t)
	case map[string]any:
		if inner, ok := t[wrappedField].(string); ok {
			return Wrapped(inner)
		}
		return Opaque(t)
	case map[string]string:
		if inner, ok := t[wrappedField]; ok {
			return Wrapped(inner)
		}
		return Opaque(t)
	default:
		return Opaque(t)
	}
}

func (r Raw) Kind() Kind { return r.kind }

func (r Raw) IsEmpty() bool { return r.kind == KindEmpty }

// String devuelve la forma normalizada.
func (r Raw) String() string { return Normalize(r) }

// Normalize devuelve el id canónico. Es total (nunca falla) e idempotente:
// Normalize(FromString(Normalize(r))) == Normalize(r).
func Normalize(r Raw) string {
	switch r.kind {
	case KindString, KindWrapped:
		return r.str
	case KindOpaque:
		return stringify(r.opaque)
	default:
		return ""
	}
}

// stringify intenta la conversión "natural" a string; para valores compuestos,
// o si la conversión entra en pánico, cae a la serialización JSON del valor.
func stringify(v any) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = structural(v)
		}
	}()

	switch t := v.(type) {
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	case string:
		return t
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(t)
	default:
		return structural(v)
	}
}

func structural(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// Último recurso: representación Go, siempre disponible.
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

// UnmarshalJSON acepta cualquier valor JSON. Nunca devuelve error para
// entradas JSON válidas: lo que no se reconoce queda como KindOpaque.
func (r *Raw) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = Raw{}
		return nil
	}

	var s string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &s); err == nil {
			*r = FromString(s)
			return nil
		}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		// JSON inválido: guardamos el texto tal cual para no perder identidad.
		*r = Opaque(strings.TrimSpace(string(trimmed)))
		return nil
	}
	*r = Of(v)
	return nil
}

// MarshalJSON conserva la forma original del id.
func (r Raw) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case KindString:
		return json.Marshal(r.str)
	case KindWrapped:
		return json.Marshal(map[string]string{wrappedField: r.str})
	case KindOpaque:
		b, err := json.Marshal(r.opaque)
		if err != nil {
			return json.Marshal(stringify(r.opaque))
		}
		return b, nil
	default:
		return []byte("null"), nil
	}
}
