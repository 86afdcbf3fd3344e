package memory

import (
	"context"
	"strings"
	"sync"

	"get-a-pet/internal/ports/users"
)

// Directory es un directorio de usuarios en memoria, para dev y tests.
type Directory struct {
	mu   sync.RWMutex
	byID map[string]users.User
}

func NewDirectory(seed ...users.User) *Directory {
	d := &Directory{byID: make(map[string]users.User, len(seed))}
	for _, u := range seed {
		d.Put(u)
	}
	return d
}

func (d *Directory) Put(u users.User) {
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID[u.ID] = u
}

func (d *Directory) Get(_ context.Context, id string) (users.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[strings.TrimSpace(id)]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}
