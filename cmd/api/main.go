package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/forecast-cloud/internal/application/analytics"
	"github.com/jhoicas/forecast-cloud/internal/application/auth"
	"github.com/jhoicas/forecast-cloud/internal/application/jobs"
	"github.com/jhoicas/forecast-cloud/internal/application/notifications"
	"github.com/jhoicas/forecast-cloud/internal/application/orders"
	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/application/usecase"
	"github.com/jhoicas/forecast-cloud/internal/domain/password"
	"github.com/jhoicas/forecast-cloud/internal/infrastructure/mail"
	"github.com/jhoicas/forecast-cloud/internal/infrastructure/media"
	"github.com/jhoicas/forecast-cloud/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/forecast-cloud/internal/infrastructure/pdf"
	"github.com/jhoicas/forecast-cloud/internal/infrastructure/postgres"
	"github.com/jhoicas/forecast-cloud/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/forecast-cloud/internal/interfaces/http"
	"github.com/jhoicas/forecast-cloud/pkg/config"
	"github.com/jhoicas/forecast-cloud/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Name:  cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
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

	userRepo := postgres.NewUserRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	statusLogRepo := postgres.NewStatusLogRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	rawMaterialRepo := postgres.NewRawMaterialRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mediaStore, err := media.New(ctx, cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de imágenes")
	}
	mediaRoot := ""
	if local, ok := mediaStore.(*media.LocalStore); ok {
		mediaRoot = local.Root()
	}

	// Sin EMAIL_HOST no se envían correos; los casos de uso lo toleran.
	var mailer ports.Mailer
	if cfg.Mail.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.Mail, log.Component("mail"))
	}

	reg := metrics.NewRegistry()
	policy := password.Policy{MinLength: cfg.Security.PasswordMinLength}

	notifier := notifications.NewService(userRepo, notificationRepo, log.Component("notifications"))
	orderSvc := orders.NewService(orders.Deps{
		Tx:         txRunner,
		Orders:     orderRepo,
		Suppliers:  supplierRepo,
		Users:      userRepo,
		Notifier:   notifier,
		Mailer:     mailer,
		Recipients: cfg.Mail.OrderRecipients,
		Metrics:    reg,
		Log:        log.Component("orders"),
	})
	authUC := auth.NewAuthUseCase(userRepo, mediaStore, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	reportUC := analytics.NewReportUseCase(orderRepo, supplierRepo, rawMaterialRepo, statusLogRepo)

	cron := scheduler.New(time.Local, log.Component("scheduler"), reg)
	if err := cron.Add(cfg.Jobs.DigestCron, jobs.NewDeliveryDigest(orderRepo, mailer, cfg.Mail.OrderRecipients, nil, log.Component("jobs"))); err != nil {
		log.Fatal().Err(err).Msg("programar resumen de entregas")
	}
	if err := cron.Add(cfg.Jobs.PruneCron, jobs.NewPruneNotifications(notifier, log.Component("jobs"))); err != nil {
		log.Fatal().Err(err).Msg("programar limpieza de notificaciones")
	}
	cron.Start()

	app := httpRouter.NewApp(httpRouter.RouterDeps{
		AppName:        cfg.App.Name,
		Debug:          cfg.App.Debug && !cfg.App.IsProduction(),
		CookieSecure:   cfg.HTTP.CookieSecure,
		LoginRateLimit: cfg.HTTP.LoginRateLimit,
		MediaRoot:      mediaRoot,
		SwaggerFile:    "./docs/swagger.json",
		BodyLimit:      usecase.MaxImageSize + 1<<20,

		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(userRepo, mediaStore, policy, log.Component("users")),
		ProfileUC:     usecase.NewProfileUseCase(userRepo, mediaStore, policy, log.Component("profile")),
		ClientUC:      usecase.NewClientUseCase(clientRepo, mediaStore, log.Component("clients")),
		SupplierUC:    usecase.NewSupplierUseCase(supplierRepo, log.Component("suppliers")),
		RawMaterialUC: usecase.NewRawMaterialUseCase(rawMaterialRepo, log.Component("raw_material")),
		Orders:        orderSvc,
		Reports:       reportUC,
		Notifications: notifier,
		PDF:           infrapdf.NewMarotoRenderer(cfg.App.Name),
		Metrics:       reg,
		Health: func() error {
			hctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(hctx)
		},
		Log: log.Component("http"),
	})

	addr := cfg.HTTP.Addr()
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	log.Info().Str("addr", addr).Msg("servidor escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("apagando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	cron.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	log.Info().Msg("aplicación detenida")
}
