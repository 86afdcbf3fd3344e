package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"get-a-pet/internal/domain/pets"
)

const petColumns = `
	id, owner_id,
	name, age, description, weight, color,
	available, images, adopters,
	created_at, updated_at, concluded_at`

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var _ pets.Repository = (*PetsRepo)(nil)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	images, adopters, err := encodeLists(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		p.Age,
		p.Description,
		p.Weight,
		p.Color,
		p.Available,
		images,
		adopters,
		p.CreatedAt,
		p.UpdatedAt,
		toNullTime(p.ConcludedAt),
	)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	return scanPet(row)
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	return r.query(ctx, `SELECT `+petColumns+` FROM pets ORDER BY created_at ASC, id ASC`)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	return r.query(ctx, `
		SELECT `+petColumns+` FROM pets
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`, strings.TrimSpace(ownerID))
}

// ListByAdopter usa containment jsonb (@>) para aprovechar el índice GIN.
func (r *PetsRepo) ListByAdopter(ctx context.Context, userID string) ([]pets.Pet, error) {
	needle, _ := json.Marshal([]string{strings.TrimSpace(userID)})
	return r.query(ctx, `
		SELECT `+petColumns+` FROM pets
		WHERE adopters @> $1::jsonb
		ORDER BY created_at ASC, id ASC
	`, needle)
}

// Mutate bloquea la fila con SELECT ... FOR UPDATE; dos agendamientos simultáneos
// del mismo usuario se serializan y el segundo ve al primero.
func (r *PetsRepo) Mutate(ctx context.Context, id string, fn func(p *pets.Pet) error) (out pets.Pet, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pets.Pet{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cur, err := scanPet(tx.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return pets.Pet{}, err
	}

	next := cur.Clone()
	if err = fn(&next); err != nil {
		return pets.Pet{}, err
	}
	next.ID, next.OwnerID = cur.ID, cur.OwnerID

	images, adopters, err := encodeLists(next)
	if err != nil {
		return pets.Pet{}, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			age = $3,
			description = $4,
			weight = $5,
			color = $6,
			available = $7,
			images = $8,
			adopters = $9,
			updated_at = $10,
			concluded_at = $11
		WHERE id = $1
	`,
		next.ID,
		next.Name,
		next.Age,
		next.Description,
		next.Weight,
		next.Color,
		next.Available,
		images,
		adopters,
		next.UpdatedAt,
		toNullTime(next.ConcludedAt),
	)
	if err != nil {
		return pets.Pet{}, err
	}
	if err = tx.Commit(); err != nil {
		return pets.Pet{}, err
	}
	return next, nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string, guard func(p pets.Pet) error) (out pets.Pet, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pets.Pet{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cur, err := scanPet(tx.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return pets.Pet{}, err
	}
	if guard != nil {
		if err = guard(cur.Clone()); err != nil {
			return pets.Pet{}, err
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id); err != nil {
		return pets.Pet{}, err
	}
	if err = tx.Commit(); err != nil {
		return pets.Pet{}, err
	}
	return cur, nil
}

func (r *PetsRepo) query(ctx context.Context, q string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p         pets.Pet
		images    []byte
		adopters  []byte
		concluded sql.NullTime
	)
	if err := s.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Age,
		&p.Description,
		&p.Weight,
		&p.Color,
		&p.Available,
		&images,
		&adopters,
		&p.CreatedAt,
		&p.UpdatedAt,
		&concluded,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}

	p.Images = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return pets.Pet{}, fmt.Errorf("decode images: %w", err)
		}
	}
	var ids []string
	if len(adopters) > 0 {
		if err := json.Unmarshal(adopters, &ids); err != nil {
			return pets.Pet{}, fmt.Errorf("decode adopters: %w", err)
		}
	}
	p.Adopters = pets.NewAdopterSet(ids...)
	if concluded.Valid {
		t := concluded.Time
		p.ConcludedAt = &t
	}
	return p, nil
}

func encodeLists(p pets.Pet) (images, adopters []byte, err error) {
	imgs := p.Images
	if imgs == nil {
		imgs = []string{}
	}
	if images, err = json.Marshal(imgs); err != nil {
		return nil, nil, err
	}
	if adopters, err = json.Marshal(p.Adopters.IDs()); err != nil {
		return nil, nil, err
	}
	return images, adopters, nil
}
