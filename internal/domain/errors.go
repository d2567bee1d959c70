package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrInUse                 = errors.New("el recurso tiene registros asociados")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrInactiveUser          = errors.New("cuenta inactiva")
	ErrWeakPassword          = errors.New("la contraseña no cumple la política de seguridad")
	ErrPasswordMismatch      = errors.New("las contraseñas no coinciden")
	ErrInvalidWeek           = errors.New("la fecha de semana es invalida")
	ErrDeliveriesOutsideWeek = errors.New("las entregas programadas están fuera de la semana")
	ErrDeliveriesMismatch    = errors.New("las entregas programadas deben sumar la misma cantidad que la cantidad total (kg) indicada en la semana")
	ErrSupplierUnavailable   = errors.New("debes seleccionar un proveedor valido y activo")
	ErrMissingCity           = errors.New("el comercial seleccionado no tiene ciudad asignada")
	ErrInvalidStatus         = errors.New("debes seleccionar un estado valido")
	ErrStatusNotAllowed      = errors.New("no tienes permisos para cambiar el pedido a ese estado")
	ErrDescriptionRequired   = errors.New("debes agregar una descripcion para cerrar el pedido")
	ErrSelfDelete            = errors.New("no puedes eliminar tu propio usuario")
	ErrZeroQuantity          = errors.New("la cantidad de materia prima no puede ser 0")
)

// FieldError describe un error de validación asociado a un campo del formulario.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa errores de campo y envuelve un error de dominio
// (p. ej. ErrWeakPassword) para que errors.Is siga funcionando.
type ValidationError struct {
	Kind   error
	Fields []FieldError
}

// NewValidationError construye un ValidationError.
func NewValidationError(kind error, fields ...FieldError) *ValidationError {
	if kind == nil {
		kind = ErrInvalidInput
	}
	return &ValidationError{Kind: kind, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Kind.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return e.Kind.Error() + " (" + strings.Join(msgs, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return e.Kind }
