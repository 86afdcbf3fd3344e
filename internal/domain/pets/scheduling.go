package pets

import (
	"context"
	"fmt"
	"strings"

	"get-a-pet/internal/ports/users"
)

// Schedule registra a actor como interesado en visitar la mascota.
// No cambia Available: varios usuarios pueden agendar en paralelo.
func (s *Service) Schedule(ctx context.Context, id string, actor Identity) (res ScheduleResult, err error) {
	defer s.observe(OpSchedule, &err)

	id, err = parseID(id)
	if err != nil {
		return ScheduleResult{}, err
	}
	if !actor.Authenticated() {
		return ScheduleResult{}, ErrUnauthenticated
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return ScheduleResult{}, err
	}
	if d := Decide(OpSchedule, current, actor, s.policy); !d.Allowed {
		return ScheduleResult{}, d.Err
	}

	// El contacto del dueño se resuelve antes de escribir: si el directorio falla
	// no queda un agendamiento sin confirmación.
	owner, err := s.owner(ctx, current.OwnerID)
	if err != nil {
		return ScheduleResult{}, err
	}

	// El guard se re-evalúa con el registro bloqueado: dos requests concurrentes
	// del mismo usuario no pueden pasar ambas el chequeo de duplicado.
	updated, err := s.repo.Mutate(ctx, id, func(p *Pet) error {
		if d := Decide(OpSchedule, *p, actor, s.policy); !d.Allowed {
			return d.Err
		}
		p.Adopters.Add(actor.UserID)
		p.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return ScheduleResult{}, passthrough("schedule visit", err)
	}

	s.log.Info("visit scheduled", map[string]any{
		"pet_id":   updated.ID,
		"user_id":  actor.UserID,
		"adopters": updated.Adopters.Len(),
	})
	return ScheduleResult{
		Pet:     updated,
		Owner:   owner,
		Message: scheduleMessage(owner),
	}, nil
}

// Conclude cierra el ciclo de adopción (Available=false). Es terminal e idempotente:
// concluir de nuevo devuelve el estado actual sin error.
// Primero se resuelve la mascota (ErrNotFound) y después la identidad, dentro de Decide.
func (s *Service) Conclude(ctx context.Context, id string, actor Identity) (p Pet, err error) {
	defer s.observe(OpConclude, &err)

	id, err = parseID(id)
	if err != nil {
		return Pet{}, err
	}

	alreadyConcluded := false
	updated, err := s.repo.Mutate(ctx, id, func(p *Pet) error {
		if d := Decide(OpConclude, *p, actor, s.policy); !d.Allowed {
			return d.Err
		}
		if !p.Available {
			alreadyConcluded = true
			return nil
		}
		now := s.now()
		p.Available = false
		p.ConcludedAt = &now
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return Pet{}, passthrough("conclude adoption", err)
	}

	if !alreadyConcluded {
		s.log.Info("adoption concluded", map[string]any{
			"pet_id":  updated.ID,
			"user_id": actor.UserID,
		})
	}
	return updated, nil
}

func scheduleMessage(owner users.User) string {
	name := strings.TrimSpace(owner.Name)
	if name == "" {
		name = "o tutor"
	}
	phone := strings.TrimSpace(owner.Phone)
	if phone == "" {
		return fmt.Sprintf("%s %s", msgScheduledPrefix, name)
	}
	return fmt.Sprintf("%s %s pelo telefone: %s", msgScheduledPrefix, name, phone)
}
