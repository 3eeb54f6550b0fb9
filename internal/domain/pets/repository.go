package pets

import (
	"context"
	"errors"
)

// ErrNotFound lo devuelven todos los adapters de storage.
var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	// Delete devuelve cuántas filas borró (0 si no existía).
	Delete(ctx context.Context, id string) (int64, error)
	GetByID(ctx context.Context, id string) (Pet, error)
	// List devuelve todas las mascotas en orden de alta.
	List(ctx context.Context) ([]Pet, error)
}
