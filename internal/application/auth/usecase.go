package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
	"github.com/jhoicas/forecast-cloud/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login y validación de sesión.
type AuthUseCase struct {
	userRepo repository.UserRepository
	media    ports.MediaStore
	jwtCfg   JWTConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. media puede ser nil.
func NewAuthUseCase(userRepo repository.UserRepository, media ports.MediaStore, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, media: media, jwtCfg: jwtCfg, log: log, now: time.Now}
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// compareDummy iguala el tiempo de respuesta cuando el usuario no existe.
func compareDummy(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("forecast-cloud-dummy"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Credenciales incorrectas devuelven siempre ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		compareDummy(in.Password)
		uc.log.Warn().Str("username", in.Username).Msg("login fallido")
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("username", in.Username).Msg("login fallido")
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrInactiveUser
	}
	user.ApplyProfileDefaults()

	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		City:      user.City,
		Superuser: user.IsSuperuser,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("login")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: uc.now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      dto.NewUserResponse(user, uc.photoURL(user)),
	}, nil
}

// Authenticate valida el token y recarga el usuario. Usuarios eliminados o
// inactivos invalidan la sesión aunque el token siga vigente.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrInactiveUser
	}
	user.ApplyProfileDefaults()
	return user, nil
}

func (uc *AuthUseCase) photoURL(u *entity.User) string {
	if uc.media == nil || u.PhotoKey == "" {
		return ""
	}
	return uc.media.URL(u.PhotoKey)
}
