package pets

import (
	"context"
	"sort"
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	ListByAdopter(ctx context.Context, userID string) ([]Pet, error)

	// Mutate hace read-modify-write atómico sobre una mascota: fn corre con el registro
	// bloqueado y, si devuelve error, no se persiste nada y el error vuelve sin envolver.
	// Devuelve ErrNotFound si el ID no existe.
	Mutate(ctx context.Context, id string, fn func(p *Pet) error) (Pet, error)

	// Delete borra la mascota solo si guard(p) == nil, dentro de la misma transacción.
	Delete(ctx context.Context, id string, guard func(p Pet) error) (Pet, error)
}

// SortStable ordena por created_at asc y desempata por id, para listados repetibles.
func SortStable(items []Pet) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
