package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/access"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/ordering"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// RecentRawMaterial registros que muestra el listado.
const RecentRawMaterial = 20

// RawMaterialUseCase registro de materia prima disponible.
type RawMaterialUseCase struct {
	repo repository.RawMaterialRepository
	log  zerolog.Logger
}

// NewRawMaterialUseCase construye el caso de uso.
func NewRawMaterialUseCase(repo repository.RawMaterialRepository, log zerolog.Logger) *RawMaterialUseCase {
	return &RawMaterialUseCase{repo: repo, log: log}
}

// List últimos registros.
func (uc *RawMaterialUseCase) List(ctx context.Context) ([]dto.RawMaterialResponse, error) {
	list, err := uc.repo.ListRecent(ctx, RecentRawMaterial)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RawMaterialResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.NewRawMaterialResponse(r))
	}
	return out, nil
}

// Create registra kg disponibles (negativos para ajustes, nunca 0).
func (uc *RawMaterialUseCase) Create(ctx context.Context, actor access.Actor, in dto.RawMaterialRequest) (*dto.RawMaterialResponse, error) {
	if !access.CanManageOrders(actor) {
		return nil, fmt.Errorf("%w: no tienes permisos para registrar materia prima", domain.ErrForbidden)
	}
	date, ok := ordering.ParseDate(in.Date)
	if !ok {
		return nil, domain.NewValidationError(domain.ErrInvalidInput,
			domain.FieldError{Field: "fecha", Message: "Debes seleccionar una fecha valida."})
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	qty, ok := in.QuantityKg.Int64()
	if !ok {
		return nil, domain.NewValidationError(domain.ErrInvalidInput,
			domain.FieldError{Field: "cantidad_kg", Message: "La cantidad debe ser un numero entero."})
	}
	if qty == 0 {
		return nil, domain.NewValidationError(domain.ErrZeroQuantity,
			domain.FieldError{Field: "cantidad_kg", Message: "La cantidad de materia prima no puede ser 0."})
	}
	r := &entity.RawMaterial{
		Date:       date,
		EggType:    in.EggType,
		QuantityKg: qty,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedBy:  actor.UserID,
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	r.CreatedByName = actor.DisplayName()
	uc.log.Info().Str("egg_type", r.EggType).Int64("kg", qty).Str("by", actor.Username).Msg("materia prima registrada")
	resp := dto.NewRawMaterialResponse(r)
	return &resp, nil
}
