package petstore

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"pawgrammers/internal/petid"
)

// Pet es el registro que maneja el dashboard. ID ya viene normalizado.
type Pet struct {
	ID         string
	Name       string
	Breed      string
	Age        *int
	PictureURL string
}

// Fields son los campos que el operador carga en los formularios.
type Fields struct {
	Name       string
	Breed      string
	Age        *int
	PictureURL string
}

// DeleteResult refleja {"deletedCount": n}. DeletedCount es nil si el server
// no mandó el campo.
type DeleteResult struct {
	DeletedCount *int
}

// Confirmed: 1 o ausente cuentan como borrado (servers viejos no mandan el campo).
func (r DeleteResult) Confirmed() bool {
	return r.DeletedCount == nil || *r.DeletedCount == 1
}

// Check devuelve un *Failure de reconciliación si el borrado no se confirmó.
func (r DeleteResult) Check() error {
	if r.Confirmed() {
		return nil
	}
	return &Failure{Op: "delete", Kind: KindReconciliation, Message: MsgNotDeleted}
}

// wirePet es la forma JSON de la API. El id puede venir en "_id" o "id",
// como string, {"$oid": ...} u otra cosa.
type wirePet struct {
	ID    petid.Raw `json:"_id"`
	AltID petid.Raw `json:"id"`
	Name  string    `json:"name"`
	Breed string    `json:"breed"`
	Age   flexAge   `json:"age"`
	URL   string    `json:"url"`
}

func (w wirePet) toPet() Pet {
	id := w.ID
	if id.IsEmpty() {
		id = w.AltID
	}
	return Pet{
		ID:         petid.Normalize(id),
		Name:       w.Name,
		Breed:      w.Breed,
		Age:        w.Age.v,
		PictureURL: w.URL,
	}
}

type wireFields struct {
	Name  string `json:"name"`
	Breed string `json:"breed"`
	Age   *int   `json:"age,omitempty"`
	URL   string `json:"url,omitempty"`
}

func toWire(f Fields) wireFields {
	return wireFields{
		Name:  f.Name,
		Breed: f.Breed,
		Age:   f.Age,
		URL:   f.PictureURL,
	}
}

type wireDelete struct {
	DeletedCount *int `json:"deletedCount"`
}

// flexAge acepta 3, 3.0, "3" o null. Lo que no es un entero entre 0 y
// MaxInt32 queda en nil.
type flexAge struct {
	v *int
}

func (a *flexAge) UnmarshalJSON(b []byte) error {
	a.v = nil

	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f < 0 || f > math.MaxInt32 || f != math.Trunc(f) {
		return nil
	}
	n := int(f)
	a.v = &n
	return nil
}
