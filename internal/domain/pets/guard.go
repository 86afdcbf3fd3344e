package pets

import "strings"

type Operation string

const (
	OpCreate   Operation = "create"
	OpRead     Operation = "read"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
	OpSchedule Operation = "schedule"
	OpConclude Operation = "conclude"
)

// ConcludePolicy define quién puede concluir una adopción.
type ConcludePolicy string

const (
	// ConcludeAnyAuthenticated es el contrato documentado: cualquier usuario autenticado.
	ConcludeAnyAuthenticated ConcludePolicy = "any"
	// ConcludeOwnerOrAdopter restringe a dueño o a quien ya agendó visita.
	ConcludeOwnerOrAdopter ConcludePolicy = "owner_or_adopter"
)

func ParseConcludePolicy(s string) ConcludePolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ConcludeOwnerOrAdopter):
		return ConcludeOwnerOrAdopter
	default:
		return ConcludeAnyAuthenticated
	}
}

type Decision struct {
	Allowed bool
	Err     error // motivo cuando Allowed == false
}

func allow() Decision { return Decision{Allowed: true} }
func deny(err error) Decision { return Decision{Err: err} }

// Decide es la política de autorización del ciclo de vida. Es pura: no hace IO.
// Update/Delete niegan con ErrNotFound para no revelar que la mascota existe.
func Decide(op Operation, p Pet, actor Identity, policy ConcludePolicy) Decision {
	if op == OpRead {
		return allow()
	}
	if !actor.Authenticated() {
		return deny(ErrUnauthenticated)
	}

	isOwner := p.OwnerID == actor.UserID

	switch op {
	case OpCreate:
		return allow()

	case OpUpdate, OpDelete:
		if isOwner {
			return allow()
		}
		return deny(ErrNotFound)

	case OpSchedule:
		if isOwner {
			return deny(conflict(ReasonOwnPet))
		}
		if p.Adopters.Has(actor.UserID) {
			return deny(conflict(ReasonDuplicate))
		}
		if !p.Available {
			return deny(conflict(ReasonUnavailable))
		}
		return allow()

	case OpConclude:
		if policy == ConcludeOwnerOrAdopter && !isOwner && !p.Adopters.Has(actor.UserID) {
			return deny(ErrNotFound)
		}
		return allow()
	}

	return deny(ErrInvalidInput)
}
