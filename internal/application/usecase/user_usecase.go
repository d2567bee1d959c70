package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/access"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/password"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo administradores).
type UserUseCase struct {
	repo   repository.UserRepository
	media  ports.MediaStore
	policy password.Policy
	cost   int
	log    zerolog.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, media ports.MediaStore, policy password.Policy, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, media: media, policy: policy, cost: bcrypt.DefaultCost, log: log}
}

// WithHashCost cambia el coste de bcrypt (tests).
func (uc *UserUseCase) WithHashCost(cost int) *UserUseCase {
	uc.cost = cost
	return uc
}

func forbidUsers(actor access.Actor) error {
	if !access.CanManageUsers(actor) {
		return fmt.Errorf("%w: solo un administrador puede gestionar usuarios", domain.ErrForbidden)
	}
	return nil
}

// List todos los usuarios ordenados por username.
func (uc *UserUseCase) List(ctx context.Context, actor access.Actor) ([]dto.UserResponse, error) {
	if err := forbidUsers(actor); err != nil {
		return nil, err
	}
	users, err := uc.repo.List(ctx, repository.UserFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u, photoURL(uc.media, u.PhotoKey)))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.UserResponse, error) {
	if err := forbidUsers(actor); err != nil {
		return nil, err
	}
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user, photoURL(uc.media, user.PhotoKey))
	return &resp, nil
}

func (uc *UserUseCase) load(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// checkNewPassword confirma que ambas contraseñas coinciden y cumplen la política.
func checkNewPassword(policy password.Policy, pw1, pw2 string, attrs password.Attributes) error {
	if pw1 != pw2 {
		return domain.NewValidationError(domain.ErrPasswordMismatch,
			domain.FieldError{Field: "password2", Message: "Los dos campos de contraseña no coinciden."})
	}
	return policy.Check(pw1, attrs)
}

// Create da de alta un usuario. Si la contraseña no cumple la política no se persiste nada.
func (uc *UserUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := forbidUsers(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	attrs := password.Attributes{Username: username, Email: in.Email, FirstName: in.FirstName, LastName: in.LastName}
	if err := checkNewPassword(uc.policy, in.Password1, in.Password2, attrs); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), uc.cost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		Role:         in.Role,
		City:         in.City,
		Active:       in.Active == nil || *in.Active,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("username", user.Username).Str("by", actor.Username).Msg("usuario creado")
	resp := dto.NewUserResponse(user, "")
	return &resp, nil
}

// Update edita un usuario; la contraseña solo cambia si se envía.
func (uc *UserUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := forbidUsers(actor); err != nil {
		return nil, err
	}
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user.Username = strings.TrimSpace(in.Username)
	user.Email = strings.TrimSpace(in.Email)
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Role = in.Role
	user.City = in.City
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.Password1 != "" || in.Password2 != "" {
		attrs := password.Attributes{Username: user.Username, Email: user.Email, FirstName: user.FirstName, LastName: user.LastName}
		if err := checkNewPassword(uc.policy, in.Password1, in.Password2, attrs); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), uc.cost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("by", actor.Username).Msg("usuario actualizado")
	resp := dto.NewUserResponse(user, photoURL(uc.media, user.PhotoKey))
	return &resp, nil
}

// Delete elimina un usuario. No se puede eliminar a uno mismo ni a usuarios con pedidos.
func (uc *UserUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if err := forbidUsers(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return domain.ErrSelfDelete
	}
	user, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	removeMedia(ctx, uc.media, uc.log, user.PhotoKey)
	uc.log.Info().Str("user_id", id).Str("by", actor.Username).Msg("usuario eliminado")
	return nil
}
