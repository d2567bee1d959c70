package usecase

import (
	"context"
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

const profileFolder = "perfiles"

// ProfileUseCase "mi perfil": cada usuario edita sus datos, contraseña y foto.
type ProfileUseCase struct {
	repo   repository.UserRepository
	media  ports.MediaStore
	policy password.Policy
	cost   int
	log    zerolog.Logger
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(repo repository.UserRepository, media ports.MediaStore, policy password.Policy, log zerolog.Logger) *ProfileUseCase {
	return &ProfileUseCase{repo: repo, media: media, policy: policy, cost: bcrypt.DefaultCost, log: log}
}

// WithHashCost cambia el coste de bcrypt (tests).
func (uc *ProfileUseCase) WithHashCost(cost int) *ProfileUseCase {
	uc.cost = cost
	return uc
}

func (uc *ProfileUseCase) load(ctx context.Context, actor access.Actor) (*entity.User, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.ApplyProfileDefaults()
	return user, nil
}

// Get perfil del usuario autenticado.
func (uc *ProfileUseCase) Get(ctx context.Context, actor access.Actor) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user, photoURL(uc.media, user.PhotoKey))
	return &resp, nil
}

// Update aplica los cambios del perfil. photo puede ser nil.
func (uc *ProfileUseCase) Update(ctx context.Context, actor access.Actor, in dto.UpdateProfileRequest, photo *ports.Upload) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Email = strings.TrimSpace(in.Email)

	if in.NewPassword1 != "" || in.NewPassword2 != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
			return nil, domain.NewValidationError(domain.ErrInvalidInput,
				domain.FieldError{Field: "current_password", Message: "La contraseña actual no es correcta."})
		}
		attrs := password.Attributes{Username: user.Username, Email: user.Email, FirstName: user.FirstName, LastName: user.LastName}
		if err := checkNewPassword(uc.policy, in.NewPassword1, in.NewPassword2, attrs); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword1), uc.cost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	oldPhoto := user.PhotoKey
	if photo != nil {
		if err := checkImage("foto_perfil", photo); err != nil {
			return nil, err
		}
		key, err := uc.media.Save(ctx, profileFolder, *photo)
		if err != nil {
			return nil, err
		}
		user.PhotoKey = key
	} else if in.DeletePhoto {
		user.PhotoKey = ""
	}

	if err := uc.repo.Update(ctx, user); err != nil {
		if user.PhotoKey != oldPhoto {
			removeMedia(ctx, uc.media, uc.log, user.PhotoKey)
		}
		return nil, err
	}
	if user.PhotoKey != oldPhoto {
		removeMedia(ctx, uc.media, uc.log, oldPhoto)
	}
	uc.log.Info().Str("user_id", user.ID).Msg("perfil actualizado")
	resp := dto.NewUserResponse(user, photoURL(uc.media, user.PhotoKey))
	return &resp, nil
}
