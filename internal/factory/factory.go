package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/chessrelay/internal/api"
	"github.com/mcoot/chessrelay/internal/dependencies/clock"
	"github.com/mcoot/chessrelay/internal/dependencies/random"
	"github.com/mcoot/chessrelay/internal/realtime"
	"github.com/mcoot/chessrelay/internal/services/auth"
	"github.com/mcoot/chessrelay/internal/services/coordinator"
	"github.com/mcoot/chessrelay/internal/services/directory"
	"github.com/mcoot/chessrelay/internal/services/registry"
	"github.com/mcoot/chessrelay/internal/storage"
	"github.com/mcoot/chessrelay/internal/storage/memory"
	redisstorage "github.com/mcoot/chessrelay/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	AuthService *auth.Service
	Directory   *directory.Directory
	Registry    *registry.Registry
	Coordinator *coordinator.Coordinator

	// Transport
	Hub      *realtime.Hub
	Realtime *realtime.Server
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields fall back to auth.DefaultConfig()
	AuthConfig auth.Config
	// RealtimeConfig holds websocket settings (optional)
	RealtimeConfig realtime.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.AuthConfig, cfg.RealtimeConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	realtimeCfg realtime.Config,
	logger *slog.Logger,
) *App {
	authService := auth.New(store, clk, logger, authCfg)
	dir := directory.New()
	reg := registry.New(clk, rnd, logger)
	hub := realtime.NewHub(logger)
	coord := coordinator.New(authService, dir, reg, hub, logger)
	rt := realtime.NewServer(coord, hub, realtimeCfg, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Logger:      logger,
		AuthService: authService,
		Directory:   dir,
		Registry:    reg,
		Coordinator: coord,
		Hub:         hub,
		Realtime:    rt,
	}
}

// Router builds the HTTP handler serving the JSON API and the websocket endpoint
func (a *App) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:      a.Logger,
		Coordinator: a.Coordinator,
		Realtime:    a.Realtime,
		Connections: a.Hub,
	})
}

// Close releases storage resources that need it
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
