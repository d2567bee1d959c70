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
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// SupplierUseCase gestión de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
	log  zerolog.Logger
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, log zerolog.Logger) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, log: log}
}

func forbidSuppliers(actor access.Actor) error {
	if !access.CanManageSuppliers(actor) {
		return fmt.Errorf("%w: no tienes permisos para gestionar proveedores", domain.ErrForbidden)
	}
	return nil
}

// List página de proveedores filtrada por ciudad y nombre.
func (uc *SupplierUseCase) List(ctx context.Context, actor access.Actor, q dto.SupplierListQuery) (*dto.SupplierListResponse, error) {
	if err := forbidSuppliers(actor); err != nil {
		return nil, err
	}
	q.Normalize()
	f := repository.SupplierFilter{
		City:   strings.TrimSpace(q.City),
		Search: strings.TrimSpace(q.Search),
		Limit:  dto.DefaultPageSize,
		Offset: q.Offset(dto.DefaultPageSize),
	}
	items, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	page := dto.NewPageResponse(q.Page, dto.DefaultPageSize, total)
	if page.Page != q.Page {
		// página fuera de rango: se sirve la última
		f.Offset = (page.Page - 1) * dto.DefaultPageSize
		if items, _, err = uc.repo.List(ctx, f); err != nil {
			return nil, err
		}
	}
	out := &dto.SupplierListResponse{
		Items:  make([]dto.SupplierResponse, 0, len(items)),
		Page:   page,
		City:   f.City,
		Search: f.Search,
	}
	for _, s := range items {
		out.Items = append(out.Items, dto.NewSupplierResponse(s))
	}
	return out, nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.SupplierResponse, error) {
	if err := forbidSuppliers(actor); err != nil {
		return nil, err
	}
	s, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewSupplierResponse(s)
	return &resp, nil
}

func (uc *SupplierUseCase) load(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func applySupplier(s *entity.Supplier, in dto.SupplierRequest) {
	s.Name = strings.TrimSpace(in.Name)
	s.NIT = strings.TrimSpace(in.NIT)
	s.Contact = strings.TrimSpace(in.Contact)
	s.Phone = strings.TrimSpace(in.Phone)
	s.Email = strings.TrimSpace(in.Email)
	s.City = in.City
	s.Presentation = in.Presentation
	if in.Active != nil {
		s.Active = *in.Active
	}
}

// Create registra un proveedor. Nombre duplicado devuelve domain.ErrDuplicate.
func (uc *SupplierUseCase) Create(ctx context.Context, actor access.Actor, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := forbidSuppliers(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	s := &entity.Supplier{Active: true}
	applySupplier(s, in)
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Info().Str("supplier_id", s.ID).Str("by", actor.Username).Msg("proveedor creado")
	resp := dto.NewSupplierResponse(s)
	return &resp, nil
}

// Update edita un proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := forbidSuppliers(actor); err != nil {
		return nil, err
	}
	s, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	applySupplier(s, in)
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	resp := dto.NewSupplierResponse(s)
	return &resp, nil
}

// Delete elimina el proveedor y sus pedidos.
func (uc *SupplierUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if err := forbidSuppliers(actor); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("supplier_id", id).Str("by", actor.Username).Msg("proveedor eliminado")
	return nil
}
