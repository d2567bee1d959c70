package dto

import (
	"errors"
	"sync"

	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/pkg/validation"
)

var (
	validatorOnce sync.Once
	validator     *validation.Validator
)

func catalogValidator() *validation.Validator {
	validatorOnce.Do(func() {
		v := validation.New()
		roles := append(entity.Codes(entity.Roles), entity.RoleProgramador)
		for tag, codes := range map[string][]string{
			"role":         roles,
			"city":         entity.Codes(entity.Cities),
			"egg_type":     entity.Codes(entity.EggTypes),
			"presentation": entity.Codes(entity.Presentations),
			"order_status": entity.Codes(entity.OrderStatuses),
		} {
			if err := v.RegisterChoices(tag, codes); err != nil {
				panic(err)
			}
		}
		validator = v
	})
	return validator
}

// Validate valida un DTO con sus etiquetas y devuelve *domain.ValidationError
// (envolviendo domain.ErrInvalidInput) si hay errores de campo.
func Validate(in any) error {
	err := catalogValidator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, f := range verrs {
		fields = append(fields, domain.FieldError{Field: f.Field, Message: f.Message})
	}
	return domain.NewValidationError(domain.ErrInvalidInput, fields...)
}
