// Package validation valida DTOs con go-playground/validator y traduce los
// errores a mensajes en español con el nombre del campo JSON/form.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError error de un campo.
type FieldError struct {
	Field   string
	Message string
}

// Errors lista de errores de validación.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// Validator envuelve *validator.Validate con etiquetas propias.
type Validator struct {
	v *validator.Validate
}

var (
	defaultOnce sync.Once
	defaultV    *Validator
)

// Default instancia compartida. Las etiquetas de catálogo se registran con RegisterChoices.
func Default() *Validator {
	defaultOnce.Do(func() { defaultV = New() })
	return defaultV
}

// New crea un validador con nombres de campo tomados de las etiquetas json/form
// y la etiqueta "isodate" (YYYY-MM-DD).
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	})
	return &Validator{v: v}
}

// RegisterChoices registra una etiqueta que solo acepta los códigos dados (vacío se permite;
// combinar con required si es obligatorio).
func (val *Validator) RegisterChoices(tag string, codes []string) error {
	allowed := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		allowed[c] = struct{}{}
	}
	return val.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, ok := allowed[s]
		return ok
	})
}

// RegisterFunc registra una validación arbitraria sobre strings.
func (val *Validator) RegisterFunc(tag string, fn func(string) bool) error {
	return val.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
}

// Struct valida s. Devuelve Errors o nil.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Este campo es obligatorio."
	case "email":
		return "Introduce una dirección de correo válida."
	case "min":
		if e.Kind() == reflect.String {
			return "Debe tener al menos " + e.Param() + " caracteres."
		}
		return "Debe ser mayor o igual a " + e.Param() + "."
	case "max":
		if e.Kind() == reflect.String {
			return "Debe tener como máximo " + e.Param() + " caracteres."
		}
		return "Debe ser menor o igual a " + e.Param() + "."
	case "gt":
		return "Debe ser mayor que " + e.Param() + "."
	case "gte":
		return "Debe ser mayor o igual a " + e.Param() + "."
	case "ne":
		return "No puede ser " + e.Param() + "."
	case "uuid", "uuid4":
		return "Identificador inválido."
	case "oneof":
		return "Debe ser uno de: " + e.Param() + "."
	case "isodate":
		return "Fecha inválida (formato AAAA-MM-DD)."
	case "eqfield":
		return "Los valores no coinciden."
	default:
		return "Selecciona una opción válida."
	}
}
