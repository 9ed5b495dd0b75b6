package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"

	"github.com/jhoicas/idcr-client/internal/application/auth"
	"github.com/jhoicas/idcr-client/internal/application/usecase"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
	"github.com/jhoicas/idcr-client/internal/infrastructure/memory"
	"github.com/jhoicas/idcr-client/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/idcr-client/internal/interfaces/http"
	"github.com/jhoicas/idcr-client/pkg/config"
	"github.com/jhoicas/idcr-client/pkg/logger"
)

// stores repositorios del backend elegido.
type stores struct {
	users  repository.UserRepository
	docs   repository.DocumentRepository
	notifs repository.NotificationRepository
	stats  repository.StatsRepository
	tx     repository.TxRunner
}

func main() {
	flags := pflag.NewFlagSet("sandbox", pflag.ExitOnError)
	flags.String("log-level", "info", "trace, debug, info, warn, error")
	flags.String("log-file", "", "archivo de log rotado (opcional)")
	flags.String("env", "development", "development | production")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	defer log.Close()

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio para el sandbox")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Sandbox.Store).
		Msg("iniciando sandbox")

	ctx := context.Background()
	st, pool := openStores(ctx, cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.Sandbox.Seed {
		n, err := authUC.Seed(ctx, auth.DefaultSeedUsers)
		if err != nil {
			log.Fatal().Err(err).Msg("crear usuarios de demostración")
		}
		log.Info().Int("created", n).Msg("usuarios de demostración listos")
	}

	app := httpRouter.NewApp("idcr-sandbox", httpRouter.RouterDeps{
		AuthUC:         authUC,
		DocumentUC:     usecase.NewDocumentUseCase(st.docs, st.users, st.tx, log),
		UploadUC:       usecase.NewUploadUseCase(st.docs, st.users, st.notifs, log),
		StatsUC:        usecase.NewStatsUseCase(st.stats),
		NotificationUC: usecase.NewNotificationUseCase(st.notifs),
		SystemUC:       usecase.NewSystemUseCase("idcr-sandbox", st.docs, st.users),
		JWTSecret:      cfg.JWT.Secret,
		Log:            log,
	})

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("escuchando (Swagger UI en /docs)")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("sandbox detenido")
}

// openStores memoria por defecto; postgres aplica el esquema al arrancar.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (stores, *pgxpool.Pool) {
	if cfg.Sandbox.Store != "postgres" {
		users := memory.NewUserRepository()
		docs := memory.NewDocumentRepository()
		notifs := memory.NewNotificationRepository()
		return stores{
			users:  users,
			docs:   docs,
			notifs: notifs,
			stats:  memory.NewStatsRepository(docs),
			tx:     memory.NewTxRunner(docs, notifs),
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("aplicar esquema")
	}
	return stores{
		users:  postgres.NewUserRepository(pool),
		docs:   postgres.NewDocumentRepository(pool),
		notifs: postgres.NewNotificationRepository(pool),
		stats:  postgres.NewStatsRepository(pool),
		tx:     postgres.NewTxRunner(pool),
	}, pool
}
