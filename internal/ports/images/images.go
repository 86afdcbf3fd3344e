package images

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("image not found")

// Store persiste bytes y devuelve una referencia estable (el nombre guardado en Pet.Images).
// La durabilidad depende del driver; el core solo exige Save/Delete.
type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}
