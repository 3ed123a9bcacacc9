package container

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"reviews-web/internal/config"
	reviewHandler "reviews-web/internal/domains/review/handler"
	reviewService "reviews-web/internal/domains/review/service"
	"reviews-web/internal/domains/session"
	sessionHandler "reviews-web/internal/domains/session/handler"
	"reviews-web/internal/infrastructure/apiclient"
	infraKV "reviews-web/internal/infrastructure/kvstore"
	"reviews-web/pkg/kvstore"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the web client
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config    *config.Config
	Storage   kvstore.Store
	APIClient *apiclient.Client // authenticated client, bearer from Sessions

	redis *infraKV.RedisStore // set only when SESSION_STORE=redis

	// ========================================
	// SERVICE LAYER
	// ========================================

	Sessions      *session.Store
	ReviewService reviewService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	SessionHandler *sessionHandler.SessionHandler
	ReviewHandler  *reviewHandler.ReviewHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph from a loaded config, in order:
// 1. Session storage (file or Redis)
// 2. API client
// 3. Session store (rehydrated from storage)
// 4. Services
// 5. Handlers
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Debug().Msg("Initializing container")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: INITIALIZE SESSION STORAGE
	// ========================================
	if err := c.initStorage(); err != nil {
		return nil, err
	}

	// ========================================
	// STEP 2: INITIALIZE API CLIENT
	// ========================================
	// Login/register go out anonymously; every other call takes its bearer
	// token from the session store built next.
	anonymous := apiclient.NewClient(cfg.API.BaseURL, cfg.API.Timeout())

	// ========================================
	// STEP 3: REHYDRATE SESSION
	// ========================================
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sessions, err := session.NewStore(ctx, c.Storage, anonymous)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	c.Sessions = sessions
	c.APIClient = anonymous.WithTokenSource(sessions)

	if current := sessions.Current(); current.Authenticated() {
		log.Info().Str("user", current.User.Username).Msg("Session restored")
	} else {
		log.Info().Msg("Session store ready, signed out")
	}

	// ========================================
	// STEP 4: INITIALIZE SERVICES
	// ========================================
	c.ReviewService = reviewService.NewReviewService(c.APIClient, c.APIClient, sessions)

	// ========================================
	// STEP 5: INITIALIZE HANDLERS
	// ========================================
	c.SessionHandler = sessionHandler.NewSessionHandler(sessions)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	log.Debug().Msg("Container initialized")
	return c, nil
}

func (c *Container) initStorage() error {
	cfg := c.Config.Session

	switch cfg.Store {
	case config.SessionStoreRedis:
		rs := infraKV.NewRedisStore(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB, c.Config.Redis.KeyPrefix)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rs.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect redis: %w", err)
		}
		c.redis = rs
		c.Storage = rs
		log.Info().Str("host", c.Config.Redis.Host).Msg("Redis session storage connected")

	default:
		fs, err := infraKV.NewFileStore(cfg.Dir, cfg.File)
		if err != nil {
			return fmt.Errorf("failed to open session storage: %w", err)
		}
		c.Storage = fs
		log.Info().Str("path", filepath.Join(cfg.Dir, cfg.File)).Msg("File session storage ready")
	}

	return nil
}

// StorageHealth pings Redis when it backs the session; file storage is always ok
func (c *Container) StorageHealth(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.HealthCheck(ctx)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases container resources on shutdown
func (c *Container) Cleanup() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		} else {
			log.Debug().Msg("Redis connections closed")
		}
	}
}
