package pets

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("pet not found")
	ErrConflict        = errors.New("business rule conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrDependency      = errors.New("dependency failure")
)

const (
	msgInvalidID       = "ID inválido!"
	msgNotFound        = "Pet não encontrado!"
	msgNameRequired    = "O nome é obrigatório!"
	msgAgeRequired     = "A idade é obrigatória!"
	msgAgeInvalid      = "A idade deve ser um número inteiro maior ou igual a zero!"
	msgWeightRequired  = "O peso é obrigatório!"
	msgWeightInvalid   = "O peso deve ser um número maior ou igual a zero!"
	msgColorRequired   = "A cor é obrigatória!"
	msgStatusRequired  = "O status é obrigatório!"
	msgStatusInvalid   = "O status deve ser true ou false!"
	msgImageType       = "Por favor, envie apenas jpg ou png!"
	msgOwnPet          = "Você não pode agendar uma visita com seu próprio Pet!"
	msgDuplicate       = "Você já agendou uma visita para este Pet!"
	msgUnavailable     = "Este Pet não está mais disponível para adoção!"
	msgCreated         = "Pet cadastrado com sucesso!"
	msgUpdated         = "Pet atualizado com sucesso!"
	msgRemoved         = "Pet removido com sucesso!"
	msgConcluded       = "Parabéns! O ciclo de adoção foi finalizado com sucesso!"
	msgScheduledPrefix = "A visita foi agendada com sucesso, entre em contato com"
)

// ValidationError nombra el primer campo inválido (orden fijo: name, age, weight, color).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

type ConflictReason string

const (
	ReasonOwnPet      ConflictReason = "own_pet"
	ReasonDuplicate   ConflictReason = "duplicate_schedule"
	ReasonUnavailable ConflictReason = "unavailable"
)

// ConflictError es una regla de negocio violada al agendar.
type ConflictError struct {
	Reason  ConflictReason
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict %s: %s", e.Reason, e.Message)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

func conflict(reason ConflictReason) *ConflictError {
	msg := msgUnavailable
	switch reason {
	case ReasonOwnPet:
		msg = msgOwnPet
	case ReasonDuplicate:
		msg = msgDuplicate
	}
	return &ConflictError{Reason: reason, Message: msg}
}

// IsConflict reporta si err es un ConflictError con ese motivo.
func IsConflict(err error, reason ConflictReason) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.Reason == reason
}

func dependency(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDependency, op, err)
}

// passthrough deja pasar los errores del dominio (vienen del guard dentro de Mutate)
// y envuelve el resto como falla de dependencia.
func passthrough(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUnauthenticated):
		return err
	default:
		return dependency(op, err)
	}
}

// Outcome clasifica un error para métricas/logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "error"
	}
}
