package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"get-a-pet/internal/ports/users"
)

// Directory lee la tabla users que mantiene el servicio de cuentas. Solo lectura.
type Directory struct {
	db *sql.DB
}

func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) Get(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, users.ErrNotFound
	}

	var u users.User
	err := d.db.QueryRowContext(ctx, `
		SELECT id, name, phone, image
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Phone, &u.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, users.ErrNotFound
	}
	if err != nil {
		return users.User{}, err
	}
	return u, nil
}
