// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	estimatorapp "github.com/macrolog/v1/internal/application/estimator"
	nutritionapp "github.com/macrolog/v1/internal/application/nutrition"
	"github.com/macrolog/v1/internal/infrastructure/ai/gemini"
	"github.com/macrolog/v1/internal/infrastructure/config"
	"github.com/macrolog/v1/internal/infrastructure/http/apiserver"
	gormRepo "github.com/macrolog/v1/internal/infrastructure/persistence/gorm"
	"github.com/macrolog/v1/internal/infrastructure/persistence/sqlite"
	"github.com/macrolog/v1/internal/ports/inbound"
	"github.com/macrolog/v1/internal/ports/outbound"
	"github.com/macrolog/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RepositoryModule,
	EstimatorModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the SQLite database connection
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := sqlite.SetupDatabase(cfg.Database.Path, gormLogLevel(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}

		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
			zap.Bool("in_memory", cfg.Database.Path == ""),
		)

		return db, nil
	},
)

func gormLogLevel(cfg *config.Config) gormLogger.LogLevel {
	if cfg.App.Debug {
		return gormLogger.Info
	}
	switch cfg.Database.LogLevel {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewFoodEntryRepository,
	gormRepo.NewGoalsRepository,
	gormRepo.NewProfileRepository,
)

// EstimatorModule provides the external macro estimation client
var EstimatorModule = fx.Provide(
	fx.Annotate(
		func(cfg *config.Config, log *zap.Logger) *gemini.Client {
			return gemini.NewClient(
				cfg.AI.GeminiKey,
				cfg.AI.GeminiModel,
				time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
				log,
			)
		},
		fx.As(new(outbound.MacroEstimator)),
	),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		entryRepo outbound.FoodEntryRepository,
		goalsRepo outbound.GoalsRepository,
		profileRepo outbound.ProfileRepository,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.NutritionService {
		return nutritionapp.NewNutritionService(
			entryRepo,
			goalsRepo,
			profileRepo,
			cfg.Tracking.SearchLimit,
			cfg.Tracking.QuickSelectLimit,
			log,
		)
	},
	estimatorapp.NewEstimatorService,
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	server *apiserver.APIServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting MacroLog application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down MacroLog application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}
