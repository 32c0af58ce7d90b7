// Package app wires the auth service together and manages its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/teamdeck/auth-service/internal/config"
	"github.com/teamdeck/auth-service/internal/handler"
	"github.com/teamdeck/auth-service/internal/mailer"
	"github.com/teamdeck/auth-service/internal/repository"
	"github.com/teamdeck/auth-service/internal/usecase"
)

// App bundles the HTTP server and its backing resources.
type App struct {
	cfg         *config.Config
	logger      *zerolog.Logger
	server      *http.Server
	mongoClient *mongo.Client
}

// New connects to MongoDB and constructs the full dependency graph:
// repositories, mailer, use cases and the HTTP handler.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, logger, db)
	companyRepo := repository.NewCompanyMongoRepository(db)
	codeRepo := repository.NewOneTimeCodeMongoRepository(ctx, logger, db)
	tokenRepo := repository.NewSetupTokenMongoRepository(ctx, logger, db)

	m := mailer.NewMailer(logger)

	authUsecase := usecase.NewAuthUsecase(userRepo, companyRepo, codeRepo, tokenRepo, m, cfg, logger)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(userRepo, codeRepo, tokenRepo, m, cfg, logger)
	inviteUsecase := usecase.NewInviteUsecase(userRepo, codeRepo, tokenRepo, m, cfg, logger)
	companyUsecase := usecase.NewCompanyUsecase(companyRepo)

	h := handler.NewHandler(authUsecase, passwordResetUsecase, inviteUsecase, companyUsecase, logger)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h.Routes(),
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		server:      server,
		mongoClient: client,
	}, nil
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("failed to shut down HTTP server")
	}

	if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
	}

	return nil
}
