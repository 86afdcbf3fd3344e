package pets

import (
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Fields son los datos editables de la mascota, compartidos por Create y Update.
type Fields struct {
	Name        string
	Age         *int
	Description string
	Weight      *float64
	Color       string
}

// Validate revisa en orden fijo (name, age, weight, color) y corta en el primer error.
func (f Fields) Validate() error {
	return firstInvalid(
		check("name", strings.TrimSpace(f.Name), validation.Required.Error(msgNameRequired)),
		check("age", f.Age,
			validation.NotNil.Error(msgAgeRequired),
			validation.Min(0).Error(msgAgeInvalid),
		),
		check("weight", f.Weight,
			validation.NotNil.Error(msgWeightRequired),
			validation.By(finiteWeight),
			validation.Min(0.0).Error(msgWeightInvalid),
		),
		check("color", strings.TrimSpace(f.Color), validation.Required.Error(msgColorRequired)),
	)
}

type CreateInput struct {
	Fields
	Images []Upload
}

type UpdateInput struct {
	Fields
	Available *bool // obligatorio en el update
	Images    []Upload
}

func (in UpdateInput) Validate() error {
	if err := in.Fields.Validate(); err != nil {
		return err
	}
	return firstInvalid(
		check("available", in.Available, validation.NotNil.Error(msgStatusRequired)),
	)
}

type fieldCheck struct {
	field string
	value any
	rules []validation.Rule
}

func check(field string, value any, rules ...validation.Rule) fieldCheck {
	return fieldCheck{field: field, value: value, rules: rules}
}

// firstInvalid evita validation.ValidateStruct: ese devuelve un map sin orden
// y acá necesitamos reportar un único campo, siempre el primero.
func firstInvalid(checks ...fieldCheck) error {
	for _, c := range checks {
		if err := validation.Validate(c.value, c.rules...); err != nil {
			return invalid(c.field, err.Error())
		}
	}
	return nil
}

// parseID normaliza el ID; un ID mal formado es error de validación, no not-found.
func parseID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", invalid("id", msgInvalidID)
	}
	return id.String(), nil
}

// Reglas para valores crudos de formulario (multipart / json), usadas por el handler.

func nonNegativeInt(value any) error {
	s, _ := value.(string)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return validation.NewError("validation_age", msgAgeInvalid)
	}
	return nil
}

func nonNegativeNumber(value any) error {
	s, _ := value.(string)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !isFinite(f) || f < 0 {
		return validation.NewError("validation_weight", msgWeightInvalid)
	}
	return nil
}

// finiteWeight rechaza Inf y NaN, que ParseFloat acepta y JSON no puede codificar.
func finiteWeight(value any) error {
	if w, ok := value.(*float64); ok && w != nil && !isFinite(*w) {
		return validation.NewError("validation_weight", msgWeightInvalid)
	}
	return nil
}

func isFinite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }

func boolean(value any) error {
	s, _ := value.(string)
	if _, err := strconv.ParseBool(strings.TrimSpace(s)); err != nil {
		return validation.NewError("validation_available", msgStatusInvalid)
	}
	return nil
}
