package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/xyz-asif/bloghunt/docs"
	"github.com/xyz-asif/bloghunt/internal/config"
	"github.com/xyz-asif/bloghunt/internal/database"
	"github.com/xyz-asif/bloghunt/internal/features/auth"
	"github.com/xyz-asif/bloghunt/internal/middleware"
	"github.com/xyz-asif/bloghunt/internal/pkg/logger"
	"github.com/xyz-asif/bloghunt/internal/pkg/metrics"
	"github.com/xyz-asif/bloghunt/internal/pkg/response"
	"github.com/xyz-asif/bloghunt/internal/pkg/telemetry"
	"github.com/xyz-asif/bloghunt/internal/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:   cfg.ServiceName,
		Environment:   cfg.AppEnv,
		TraceExporter: cfg.TraceExporter,
		OTLPEndpoint:  cfg.OTLPEndpoint,
		OTLPInsecure:  !cfg.IsProduction(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Trace shutdown: %v", err)
		}
	}()

	deps := routes.Deps{Config: cfg}

	if cfg.StoreBackend == "mongo" {
		db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer db.Disconnect(context.Background())

		if err := routes.EnsureIndexes(ctx, db.Database); err != nil {
			logger.Warn("Failed to ensure indexes: %v", err)
		}
		deps.DB = db.Database
	} else {
		logger.Warn("Using in-memory stores; data is lost on restart")
	}

	if deps.Uploader, err = routes.NewUploader(ctx, cfg); err != nil {
		return err
	}

	revoker, closeRevoker, err := routes.NewRevoker(cfg)
	if err != nil {
		return err
	}
	defer closeRevoker()
	deps.Revoker = revoker

	if cfg.GoogleClientID != "" {
		deps.Google = auth.NewGoogleVerifier(cfg.GoogleClientID)
	}

	done := make(chan struct{})
	defer close(done)
	deps.Done = done

	router, err := newRouter(cfg, deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}

func newRouter(cfg *config.Config, deps routes.Deps) (*gin.Engine, error) {
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	response.SetProduction(cfg.IsProduction())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(metrics.Middleware())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})
	router.GET("/metrics", metrics.Handler())

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	if err := routes.SetupRoutes(router, deps); err != nil {
		return nil, err
	}
	return router, nil
}
