package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"marketcore/internal/adapter/api"
	"marketcore/internal/adapter/api/handler"
	apimiddleware "marketcore/internal/adapter/api/middleware"
	"marketcore/internal/adapter/api/router"
	"marketcore/internal/adapter/repository"
	domainrepo "marketcore/internal/domain/repository"
	"marketcore/internal/infrastructure/firebase"
	"marketcore/internal/infrastructure/ratelimit"
	"marketcore/internal/infrastructure/seed"
	"marketcore/internal/usecase"
	"marketcore/pkg/config"
	"marketcore/pkg/locale"
	"marketcore/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Configure(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		catalogRepo domainrepo.CatalogRepository
		convRepo    domainrepo.ConversationRepository
		threads     usecase.ThreadSource
	)

	if cfg.UseFirestore() {
		firestoreClient, err := firebase.NewFirestoreClient(ctx, cfg.FirebaseProject, firebase.Credentials{
			JSON: cfg.CredentialsJSON,
			Path: cfg.CredentialsPath,
		})
		if err != nil {
			logger.Error("Failed to create Firestore client: %v", err)
			os.Exit(1)
		}
		defer firestoreClient.Close()

		logger.Info("Using Firestore project %s", cfg.FirebaseProject)
		catalogRepo = repository.NewFirestoreCatalogRepository(firestoreClient)
		convRepo = repository.NewFirestoreConversationRepository(firestoreClient)
	} else {
		data, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			logger.Error("Failed to load seed data: %v", err)
			os.Exit(1)
		}

		logger.Info("Using in-memory data with %d products", len(data.Catalog))
		catalogRepo = repository.NewMemoryCatalogRepository(data.Products())
		convRepo = repository.NewMemoryConversationRepository()
		threads = data
	}

	chatLimiter := ratelimit.NewRateLimiter(cfg.SendRatePerMin)
	chatLimiter.StartCleanupRoutine(ctx, 30*time.Minute)
	httpLimiter := ratelimit.NewRateLimiter(0)
	httpLimiter.StartCleanupRoutine(ctx, 30*time.Minute)

	catalogUseCase := usecase.NewCatalogUseCase(catalogRepo)
	conversationUseCase := usecase.NewConversationUseCase(convRepo, threads)
	chatUseCase := usecase.NewChatUseCase(convRepo, chatLimiter)
	dashboardUseCase := usecase.NewDashboardUseCase(catalogRepo, convRepo)

	loc := handler.Localization{
		DefaultLanguage: locale.Parse(cfg.DefaultLanguage, locale.English),
		THBRate:         cfg.THBRate,
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(apimiddleware.RateLimit(httpLimiter))

	e.Validator = api.NewValidator()

	router.Setup(e, router.Handlers{
		Health:    handler.NewHealthHandler(cfg.DataSource),
		Product:   handler.NewProductHandler(catalogUseCase, loc),
		Chat:      handler.NewChatHandler(conversationUseCase, chatUseCase, loc),
		Dashboard: handler.NewDashboardHandler(dashboardUseCase, conversationUseCase, loc),
	}, apimiddleware.NewIdentityMiddleware())

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
