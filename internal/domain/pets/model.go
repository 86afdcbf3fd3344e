package pets

import (
	"slices"
	"strings"
	"time"

	"get-a-pet/internal/ports/users"
)

// Pet representa una mascota publicada para adopción.
type Pet struct {
	ID      string
	OwnerID string // inmutable, asignado en Create

	Name        string
	Age         int
	Description string
	Weight      float64
	Color       string

	// Available es true mientras la mascota está abierta a adopción.
	// Pasa a false al concluir el ciclo.
	Available bool

	Images   []string // referencias opacas del image store, en orden
	Adopters AdopterSet

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConcludedAt *time.Time
}

// Clone copia en profundidad slices y el índice de adoptantes.
// Los repos devuelven clones para que nadie mute el estado guardado por referencia.
func (p Pet) Clone() Pet {
	out := p
	out.Images = slices.Clone(p.Images)
	out.Adopters = p.Adopters.Clone()
	if p.ConcludedAt != nil {
		t := *p.ConcludedAt
		out.ConcludedAt = &t
	}
	return out
}

// AdopterSet conserva el orden de agendamiento y responde membresía en O(1).
type AdopterSet struct {
	order []string
	index map[string]struct{}
}

func NewAdopterSet(ids ...string) AdopterSet {
	var s AdopterSet
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s AdopterSet) Has(userID string) bool {
	_, ok := s.index[userID]
	return ok
}

// Add inserta userID si no estaba. Devuelve false si ya era adoptante.
func (s *AdopterSet) Add(userID string) bool {
	userID = strings.TrimSpace(userID)
	if userID == "" || s.Has(userID) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[userID] = struct{}{}
	s.order = append(s.order, userID)
	return true
}

func (s AdopterSet) Len() int { return len(s.order) }

// IDs devuelve una copia en orden de inserción.
func (s AdopterSet) IDs() []string {
	if len(s.order) == 0 {
		return []string{}
	}
	return slices.Clone(s.order)
}

func (s AdopterSet) Clone() AdopterSet {
	return NewAdopterSet(s.order...)
}

// Identity es el usuario autenticado que actúa sobre el core.
// Se pasa explícito a cada operación; el servicio no lee el context.
type Identity struct {
	UserID string
}

func (i Identity) Authenticated() bool {
	return strings.TrimSpace(i.UserID) != ""
}

// Upload es un archivo recibido para guardar en el image store.
type Upload struct {
	Filename string
	Data     []byte
}

// PetView es la mascota con el resumen del dueño resuelto (nombre, imagen, teléfono).
type PetView struct {
	Pet   Pet
	Owner users.User
}

// ScheduleResult es la confirmación de agendamiento con el contacto del dueño.
type ScheduleResult struct {
	Pet     Pet
	Owner   users.User
	Message string
}
