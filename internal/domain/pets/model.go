package pets

import "time"

// Pet representa una mascota del catálogo que administra el dashboard.
type Pet struct {
	ID string

	Name  string
	Breed string

	// Age en años. nil = no informada.
	Age *int

	// PictureURL es opcional; vacío => la UI muestra "No pet picture".
	PictureURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields son los campos editables de una mascota (create y PUT).
type Fields struct {
	Name       string
	Breed      string
	Age        *int
	PictureURL string
}

// Patch aplica sólo los campos presentes (nil = no tocar).
// ClearAge distingue "age": null de "age" ausente.
type Patch struct {
	Name       *string
	Breed      *string
	Age        *int
	ClearAge   bool
	PictureURL *string
}
