// Comando createsuperuser: crea un superusuario aplicando la política de contraseñas.
//
//	go run ./cmd/createsuperuser -username admin -email admin@example.com
//
// La contraseña se lee de SUPERUSER_PASSWORD o del flag -password.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/password"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
	"github.com/jhoicas/forecast-cloud/internal/infrastructure/postgres"
	"github.com/jhoicas/forecast-cloud/pkg/config"
	"github.com/jhoicas/forecast-cloud/pkg/logger"
)

type options struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	City      string
}

func main() {
	var opts options
	flag.StringVar(&opts.Username, "username", os.Getenv("SUPERUSER_USERNAME"), "nombre de usuario")
	flag.StringVar(&opts.Email, "email", os.Getenv("SUPERUSER_EMAIL"), "correo")
	flag.StringVar(&opts.FirstName, "first-name", "", "nombres")
	flag.StringVar(&opts.LastName, "last-name", "", "apellidos")
	flag.StringVar(&opts.Password, "password", os.Getenv("SUPERUSER_PASSWORD"), "contraseña")
	flag.StringVar(&opts.City, "ciudad", entity.CityBogota, "ciudad")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Name: "createsuperuser"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	policy := password.Policy{MinLength: cfg.Security.PasswordMinLength}
	if err := run(ctx, opts, postgres.NewUserRepository(pool), policy, bcrypt.DefaultCost, os.Stdout); err != nil {
		printError(os.Stderr, err)
		pool.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, repo repository.UserRepository, policy password.Policy, cost int, out io.Writer) error {
	opts.Username = strings.TrimSpace(opts.Username)
	if opts.Username == "" {
		return errors.New("el nombre de usuario es obligatorio")
	}
	if opts.Password == "" {
		return errors.New("la contraseña es obligatoria (SUPERUSER_PASSWORD o -password)")
	}
	attrs := password.Attributes{Username: opts.Username, Email: opts.Email, FirstName: opts.FirstName, LastName: opts.LastName}
	if err := policy.Check(opts.Password, attrs); err != nil {
		return err
	}
	existing, err := repo.GetByUsername(ctx, opts.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: el usuario %q ya existe", domain.ErrDuplicate, opts.Username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), cost)
	if err != nil {
		return err
	}
	u := &entity.User{
		Username:     opts.Username,
		Email:        strings.TrimSpace(opts.Email),
		FirstName:    strings.TrimSpace(opts.FirstName),
		LastName:     strings.TrimSpace(opts.LastName),
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		City:         opts.City,
		IsSuperuser:  true,
		Active:       true,
	}
	if err := repo.Create(ctx, u); err != nil {
		return err
	}
	fmt.Fprintf(out, "Superusuario %q creado (%s)\n", u.Username, u.ID)
	return nil
}

func printError(w io.Writer, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(w, verr.Kind)
		for _, f := range verr.Fields {
			fmt.Fprintln(w, " -", f.Message)
		}
		return
	}
	fmt.Fprintln(w, "error:", err)
}
