package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"get-a-pet/internal/platform/logger"
	"get-a-pet/internal/ports/images"
	"get-a-pet/internal/ports/users"

	"github.com/google/uuid"
)

// Metrics recibe una observación por operación del ciclo de vida.
type Metrics interface {
	Observe(operation, outcome string)
}

type noopMetrics struct{}

func (noopMetrics) Observe(string, string) {}

type Service struct {
	repo   Repository
	images images.Store
	users  users.Directory

	log     logger.Logger
	metrics Metrics
	policy  ConcludePolicy

	now   func() time.Time
	newID func() string
}

type Option func(*Service)

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithConcludePolicy(p ConcludePolicy) Option {
	return func(s *Service) {
		if p != "" {
			s.policy = p
		}
	}
}

func NewService(repo Repository, imgs images.Store, dir users.Directory, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		images:  imgs,
		users:   dir,
		log:     logger.Nop(),
		metrics: noopMetrics{},
		policy:  ConcludeAnyAuthenticated,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) observe(op Operation, errp *error) {
	s.metrics.Observe(string(op), Outcome(*errp))
}

// Create publica una mascota nueva a nombre de actor.
// Las imágenes se guardan antes del registro; si algo falla no queda nada visible.
func (s *Service) Create(ctx context.Context, actor Identity, in CreateInput) (view PetView, err error) {
	defer s.observe(OpCreate, &err)

	if d := Decide(OpCreate, Pet{}, actor, s.policy); !d.Allowed {
		return PetView{}, d.Err
	}
	if err := in.Fields.Validate(); err != nil {
		return PetView{}, err
	}
	uploads, err := prepareUploads(in.Images)
	if err != nil {
		return PetView{}, err
	}

	owner, err := s.owner(ctx, actor.UserID)
	if err != nil {
		return PetView{}, err
	}

	now := s.now()
	p := Pet{
		ID:          s.newID(),
		OwnerID:     actor.UserID,
		Name:        strings.TrimSpace(in.Name),
		Age:         *in.Age,
		Description: strings.TrimSpace(in.Description),
		Weight:      *in.Weight,
		Color:       strings.TrimSpace(in.Color),
		Available:   true,
		Images:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	refs, err := s.storeImages(ctx, p.ID, uploads)
	if err != nil {
		return PetView{}, err
	}
	p.Images = append(p.Images, refs...)

	if err := s.repo.Create(ctx, p); err != nil {
		s.discardImages(ctx, refs)
		return PetView{}, dependency("create pet", err)
	}

	s.log.Info("pet created", map[string]any{
		"pet_id":   p.ID,
		"owner_id": p.OwnerID,
		"images":   len(p.Images),
	})
	return PetView{Pet: p, Owner: owner}, nil
}

// Get es lectura pública; no requiere identidad.
func (s *Service) Get(ctx context.Context, id string) (view PetView, err error) {
	defer s.observe(OpRead, &err)

	id, err = parseID(id)
	if err != nil {
		return PetView{}, err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return PetView{}, err
	}
	owner, err := s.owner(ctx, p.OwnerID)
	if err != nil {
		return PetView{}, err
	}
	return PetView{Pet: p, Owner: owner}, nil
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, dependency("list pets", err)
	}
	return items, nil
}

// ListOwned son las mascotas publicadas por actor ("mis mascotas").
func (s *Service) ListOwned(ctx context.Context, actor Identity) ([]Pet, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	items, err := s.repo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, dependency("list owned pets", err)
	}
	return items, nil
}

// ListAdopted son las mascotas donde actor agendó visita ("mis adopciones").
func (s *Service) ListAdopted(ctx context.Context, actor Identity) ([]Pet, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	items, err := s.repo.ListByAdopter(ctx, actor.UserID)
	if err != nil {
		return nil, dependency("list adopted pets", err)
	}
	return items, nil
}

// Update reemplaza los campos (solo el dueño). Las imágenes nuevas se agregan
// al final de las existentes; nunca se descartan las anteriores.
func (s *Service) Update(ctx context.Context, id string, actor Identity, in UpdateInput) (p Pet, err error) {
	defer s.observe(OpUpdate, &err)

	id, err = parseID(id)
	if err != nil {
		return Pet{}, err
	}
	if !actor.Authenticated() {
		return Pet{}, ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return Pet{}, err
	}
	uploads, err := prepareUploads(in.Images)
	if err != nil {
		return Pet{}, err
	}

	// Chequeo previo para no subir imágenes de una mascota ajena o inexistente.
	current, err := s.load(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if d := Decide(OpUpdate, current, actor, s.policy); !d.Allowed {
		return Pet{}, d.Err
	}

	refs, err := s.storeImages(ctx, id, uploads)
	if err != nil {
		return Pet{}, err
	}

	updated, err := s.repo.Mutate(ctx, id, func(p *Pet) error {
		if d := Decide(OpUpdate, *p, actor, s.policy); !d.Allowed {
			return d.Err
		}
		now := s.now()
		p.Name = strings.TrimSpace(in.Name)
		p.Age = *in.Age
		p.Description = strings.TrimSpace(in.Description)
		p.Weight = *in.Weight
		p.Color = strings.TrimSpace(in.Color)
		switch {
		case p.Available && !*in.Available:
			p.ConcludedAt = &now
		case !p.Available && *in.Available:
			p.ConcludedAt = nil
		}
		p.Available = *in.Available
		p.Images = append(p.Images, refs...)
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		s.discardImages(ctx, refs)
		return Pet{}, passthrough("update pet", err)
	}

	s.log.Info("pet updated", map[string]any{
		"pet_id":    updated.ID,
		"available": updated.Available,
		"images":    len(updated.Images),
	})
	return updated, nil
}

// Delete borra la mascota (solo el dueño). Las imágenes quedan en el store.
func (s *Service) Delete(ctx context.Context, id string, actor Identity) (err error) {
	defer s.observe(OpDelete, &err)

	id, err = parseID(id)
	if err != nil {
		return err
	}
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	deleted, err := s.repo.Delete(ctx, id, func(p Pet) error {
		if d := Decide(OpDelete, p, actor, s.policy); !d.Allowed {
			return d.Err
		}
		return nil
	})
	if err != nil {
		return passthrough("delete pet", err)
	}

	s.log.Info("pet deleted", map[string]any{
		"pet_id":          deleted.ID,
		"orphaned_images": len(deleted.Images),
	})
	return nil
}

func (s *Service) load(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, passthrough("get pet", err)
	}
	return p, nil
}

// owner resuelve el resumen del dueño. Un usuario ausente del directorio no
// bloquea la operación: se devuelve solo el ID.
func (s *Service) owner(ctx context.Context, userID string) (users.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, users.ErrNotFound) {
		s.log.Warn("owner not found in user directory", map[string]any{"user_id": userID})
		return users.User{ID: userID}, nil
	}
	return users.User{}, dependency("resolve owner", err)
}
