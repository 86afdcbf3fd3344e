package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// User es la vista de solo lectura del usuario externo.
// El core lee Name/Phone/Image para mostrar al dueño de la mascota; nunca lo modifica.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Image string `json:"image"`
}

// Directory resuelve usuarios por ID.
type Directory interface {
	Get(ctx context.Context, id string) (User, error)
}
