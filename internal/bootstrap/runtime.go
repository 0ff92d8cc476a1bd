// Package bootstrap prepares the database and Redis for the API and worker binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"devcamper/internal/cache"
	"devcamper/internal/config"
	"devcamper/internal/database"
	"devcamper/internal/middleware"
	"devcamper/internal/models"
	"devcamper/internal/repository"
	"devcamper/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultDevAdminEmail = "admin@devcamper.local"

// Options control runtime initialization behavior.
type Options struct {
	ApplySchema bool
	// ImportFixtures loads the demo data set when the database has no users.
	ImportFixtures bool
}

// InitRuntime connects to DB and Redis, applies the schema and runs the
// development bootstrap steps enabled by cfg and opts.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	// nil when Redis is unreachable; caching degrades to a no-op
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.ImportFixtures {
		if err := importFixturesIfEmpty(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("import fixtures: %w", err)
		}
	}

	if err := EnsureDevAdmin(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	return db, r, nil
}

func importFixturesIfEmpty(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	s, err := seed.NewSeeder(db, seed.Options{Logger: middleware.Logger})
	if err != nil {
		return err
	}
	_, err = s.Import(ctx)
	return err
}

// EnsureDevAdmin creates or promotes the configured admin account. It only
// acts in development with DEV_BOOTSTRAP_ADMIN set.
func EnsureDevAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.DevAdminEmail))
	if email == "" {
		email = defaultDevAdminEmail
	}
	if cfg.DevAdminPassword == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	users := repository.NewUserRepository(db)
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role != models.RoleAdmin {
			if err := users.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
				return err
			}
		}
		middleware.Logger.Info("development admin ensured", slog.String("email", email), slog.Uint64("user_id", uint64(existing.ID)))
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{
		Name:     "Development Admin",
		Email:    email,
		Role:     models.RoleAdmin,
		Password: string(hashed),
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	middleware.Logger.Info("development admin created", slog.String("email", email), slog.Uint64("user_id", uint64(admin.ID)))
	return nil
}
