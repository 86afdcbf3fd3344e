package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"get-a-pet/internal/domain/pets"
)

var ErrDuplicateID = errors.New("pet already exists")

// petRepo guarda clones: nada de lo que sale o entra comparte slices con el mapa.
// Mutate y Delete serializan por mascota; mascotas distintas no se bloquean entre sí.
type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet

	locksMu sync.Mutex
	locks   map[string]*petLock
}

// petLock cuenta quién espera o tiene el mutex; con cero se borra del mapa.
type petLock struct {
	mu   sync.Mutex
	refs int
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID:  make(map[string]pets.Pet),
		locks: make(map[string]*petLock),
	}
}

func (r *petRepo) Create(_ context.Context, p pets.Pet) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return ErrDuplicateID
	}
	r.byID[p.ID] = p.Clone()
	return nil
}

func (r *petRepo) GetByID(_ context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *petRepo) List(_ context.Context) ([]pets.Pet, error) {
	return r.filter(func(pets.Pet) bool { return true }), nil
}

func (r *petRepo) ListByOwner(_ context.Context, ownerID string) ([]pets.Pet, error) {
	return r.filter(func(p pets.Pet) bool { return p.OwnerID == ownerID }), nil
}

func (r *petRepo) ListByAdopter(_ context.Context, userID string) ([]pets.Pet, error) {
	return r.filter(func(p pets.Pet) bool { return p.Adopters.Has(userID) }), nil
}

func (r *petRepo) Mutate(ctx context.Context, id string, fn func(p *pets.Pet) error) (pets.Pet, error) {
	unlock := r.lock(id)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return pets.Pet{}, err
	}

	r.mu.RLock()
	cur, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}

	next := cur.Clone()
	if err := fn(&next); err != nil {
		return pets.Pet{}, err
	}
	next.ID = cur.ID
	next.OwnerID = cur.OwnerID

	r.mu.Lock()
	r.byID[id] = next.Clone()
	r.mu.Unlock()
	return next, nil
}

func (r *petRepo) Delete(ctx context.Context, id string, guard func(p pets.Pet) error) (pets.Pet, error) {
	unlock := r.lock(id)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return pets.Pet{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	if guard != nil {
		if err := guard(cur.Clone()); err != nil {
			return pets.Pet{}, err
		}
	}
	delete(r.byID, id)
	return cur, nil
}

// lock toma el mutex de la mascota id. La entrada vive mientras alguien la use,
// así ids inexistentes o borrados no dejan basura.
func (r *petRepo) lock(id string) func() {
	r.locksMu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &petLock{}
		r.locks[id] = l
	}
	l.refs++
	r.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		r.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, id)
		}
		r.locksMu.Unlock()
	}
}


func (r *petRepo) filter(keep func(pets.Pet) bool) []pets.Pet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.byID))
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	pets.SortStable(out)
	return out
}
