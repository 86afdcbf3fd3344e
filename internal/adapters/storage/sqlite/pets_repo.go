package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"get-a-pet/internal/domain/pets"

	_ "modernc.org/sqlite" // driver sqlite en Go puro
)

const schema = `
CREATE TABLE IF NOT EXISTS pets (
	id           TEXT PRIMARY KEY,
	owner_id     TEXT NOT NULL,
	name         TEXT NOT NULL,
	age          INTEGER NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	weight       REAL NOT NULL,
	color        TEXT NOT NULL,
	available    INTEGER NOT NULL DEFAULT 1,
	images       TEXT NOT NULL DEFAULT '[]',
	adopters     TEXT NOT NULL DEFAULT '[]',
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL,
	concluded_at INTEGER
);
CREATE INDEX IF NOT EXISTS pets_owner_idx ON pets (owner_id, created_at);
`

const petColumns = `id, owner_id, name, age, description, weight, color,
	available, images, adopters, created_at, updated_at, concluded_at`

// PetsRepo guarda mascotas en un archivo SQLite. Usa una sola conexión, así cada
// transacción es exclusiva y Mutate/Delete quedan serializados.
type PetsRepo struct {
	db *sql.DB
}

var _ pets.Repository = (*PetsRepo)(nil)

func Open(ctx context.Context, path string) (*PetsRepo, error) {
	if strings.TrimSpace(path) == "" {
		path = "get-a-pet.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PetsRepo{db: db}, nil
}

func (r *PetsRepo) Close() error { return r.db.Close() }

func (r *PetsRepo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	args, err := petArgs(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO pets (`+petColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`, args...)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	return scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id))
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	return r.query(ctx, `SELECT `+petColumns+` FROM pets ORDER BY created_at, id`)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	return r.query(ctx, `SELECT `+petColumns+` FROM pets WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
}

func (r *PetsRepo) ListByAdopter(ctx context.Context, userID string) ([]pets.Pet, error) {
	return r.query(ctx, `
		SELECT `+petColumns+` FROM pets
		WHERE EXISTS (SELECT 1 FROM json_each(pets.adopters) WHERE json_each.value = ?)
		ORDER BY created_at, id
	`, userID)
}

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

	cur, err := scanPet(tx.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id))
	if err != nil {
		return pets.Pet{}, err
	}
	next := cur.Clone()
	if err = fn(&next); err != nil {
		return pets.Pet{}, err
	}
	next.ID, next.OwnerID = cur.ID, cur.OwnerID

	args, err := petArgs(next)
	if err != nil {
		return pets.Pet{}, err
	}
	// args[0] es el id; se mueve al WHERE
	_, err = tx.ExecContext(ctx, `
		UPDATE pets SET
			owner_id = ?, name = ?, age = ?, description = ?, weight = ?, color = ?,
			available = ?, images = ?, adopters = ?, created_at = ?, updated_at = ?, concluded_at = ?
		WHERE id = ?
	`, append(args[1:], args[0])...)
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

	cur, err := scanPet(tx.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id))
	if err != nil {
		return pets.Pet{}, err
	}
	if guard != nil {
		if err = guard(cur.Clone()); err != nil {
			return pets.Pet{}, err
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id); err != nil {
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
	defer func() { _ = rows.Close() }()

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
		p                pets.Pet
		available        int64
		images, adopters string
		created, updated int64
		concluded        sql.NullInt64
	)
	err := s.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Age, &p.Description, &p.Weight, &p.Color,
		&available, &images, &adopters, &created, &updated, &concluded)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	if err != nil {
		return pets.Pet{}, err
	}

	p.Available = available != 0
	p.Images = []string{}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return pets.Pet{}, fmt.Errorf("decode images: %w", err)
	}
	var ids []string
	if err := json.Unmarshal([]byte(adopters), &ids); err != nil {
		return pets.Pet{}, fmt.Errorf("decode adopters: %w", err)
	}
	p.Adopters = pets.NewAdopterSet(ids...)
	p.CreatedAt = time.Unix(0, created).UTC()
	p.UpdatedAt = time.Unix(0, updated).UTC()
	if concluded.Valid {
		t := time.Unix(0, concluded.Int64).UTC()
		p.ConcludedAt = &t
	}
	return p, nil
}

func petArgs(p pets.Pet) ([]any, error) {
	imgs := p.Images
	if imgs == nil {
		imgs = []string{}
	}
	images, err := json.Marshal(imgs)
	if err != nil {
		return nil, err
	}
	adopters, err := json.Marshal(p.Adopters.IDs())
	if err != nil {
		return nil, err
	}
	var concluded sql.NullInt64
	if p.ConcludedAt != nil {
		concluded = sql.NullInt64{Int64: p.ConcludedAt.UnixNano(), Valid: true}
	}
	available := 0
	if p.Available {
		available = 1
	}
	return []any{
		p.ID, p.OwnerID, p.Name, p.Age, p.Description, p.Weight, p.Color,
		available, string(images), string(adopters),
		p.CreatedAt.UnixNano(), p.UpdatedAt.UnixNano(), concluded,
	}, nil
}
