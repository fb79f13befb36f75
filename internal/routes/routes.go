package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xyz-asif/bloghunt/internal/config"
	"github.com/xyz-asif/bloghunt/internal/features/auth"
	"github.com/xyz-asif/bloghunt/internal/features/blogs"
	"github.com/xyz-asif/bloghunt/internal/features/upload"
	"github.com/xyz-asif/bloghunt/internal/pkg/jwt"
	"github.com/xyz-asif/bloghunt/internal/pkg/media"
	"github.com/xyz-asif/bloghunt/internal/pkg/ratelimit"
	"github.com/xyz-asif/bloghunt/internal/pkg/session"
)

// Deps are the collaborators built in main. DB nil selects the in-memory
// stores; the other fields fall back to safe defaults when nil.
type Deps struct {
	Config   *config.Config
	DB       *mongo.Database
	Uploader media.Uploader
	Revoker  session.Revoker
	Google   auth.GoogleVerifier

	// Done stops background cleanup when closed
	Done <-chan struct{}
}

// blogCounterAdapter adapts blogs.Service to the auth.BlogCounter interface
type blogCounterAdapter struct {
	blogs *blogs.Service
}

func (a *blogCounterAdapter) CountByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return a.blogs.CountByAuthor(ctx, authorID)
}

func SetupRoutes(router *gin.Engine, deps Deps) error {
	cfg := deps.Config
	if cfg == nil {
		return fmt.Errorf("routes: config is required")
	}

	if err := blogs.RegisterBindings(); err != nil {
		return fmt.Errorf("register blog bindings: %w", err)
	}

	var (
		userStore auth.Store
		blogStore blogs.Store
	)
	if deps.DB != nil {
		userStore = auth.NewRepository(deps.DB)
		blogStore = blogs.NewRepository(deps.DB)
	} else {
		userStore = auth.NewMemoryStore()
		blogStore = blogs.NewMemoryStore()
	}

	tokens, err := jwt.NewManager(&jwt.Config{
		Secret:       cfg.JWTSecret,
		AccessExpiry: cfg.JWTExpire,
		Issuer:       cfg.ServiceName,
	})
	if err != nil {
		return err
	}

	blogService := blogs.NewService(blogStore, userStore, deps.Uploader)
	authService := auth.NewService(
		userStore,
		auth.NewSessionManager(tokens, deps.Revoker),
		deps.Uploader,
		&blogCounterAdapter{blogs: blogService},
		deps.Google,
	)

	requireAuth := auth.NewAuthMiddleware(authService, cfg.CookieName)

	var limit gin.HandlerFunc
	if cfg.AuthRateLimit > 0 && cfg.AuthRateWindow > 0 {
		limiter := ratelimit.New(cfg.AuthRateLimit, cfg.AuthRateWindow)
		if deps.Done != nil {
			limiter.StartCleanup(cfg.AuthRateWindow, deps.Done)
		}
		limit = ratelimit.Middleware(limiter)
	}

	cookie := session.CookieConfig{
		Name:   cfg.CookieName,
		Secure: cfg.IsProduction(),
		MaxAge: cfg.JWTExpire,
	}

	api := router.Group("/api")

	auth.RegisterRoutes(api, auth.NewHandler(authService, cookie), requireAuth, limit, deps.Google != nil)
	blogs.RegisterRoutes(api, blogs.NewHandler(blogService), requireAuth)
	upload.RegisterRoutes(api, upload.NewHandler(authService, deps.Uploader), requireAuth)

	return nil
}

// EnsureIndexes creates the indexes of every Mongo-backed store
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := auth.NewRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := blogs.NewRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("blog indexes: %w", err)
	}
	return nil
}
