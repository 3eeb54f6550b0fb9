// Package auth define el puerto de autenticación de operadores del dashboard.
// La API sólo lo usa para exigir un operador en las rutas que modifican mascotas.
package auth

import "context"

// Claims del operador autenticado.
type Claims struct {
	UserID   string
	Email    string
	TenantID string
}

// Actor es el identificador que queda en los logs de auditoría.
func (c Claims) Actor() string {
	if c.Email != "" {
		return c.UserID + " <" + c.Email + ">"
	}
	return c.UserID
}

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
