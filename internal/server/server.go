// Package server contains the HTTP handlers for the DevCamper API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "devcamper/docs" // swagger docs
	"devcamper/internal/auth"
	"devcamper/internal/cache"
	"devcamper/internal/config"
	"devcamper/internal/database"
	"devcamper/internal/events"
	"devcamper/internal/featureflags"
	"devcamper/internal/geocoder"
	"devcamper/internal/mailer"
	"devcamper/internal/middleware"
	"devcamper/internal/models"
	"devcamper/internal/repository"
	"devcamper/internal/service"
	"devcamper/internal/storage"
	"devcamper/internal/tasks"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultJWTExpireHours = 720

// Deps are the external collaborators of the API. Zero fields are built from
// the configuration by NewServerWithDeps.
type Deps struct {
	Geocoder   geocoder.Provider
	PhotoStore storage.PhotoStore
	Mailer     mailer.Mailer
	Publisher  events.Publisher
	RetryQueue tasks.Enqueuer
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	logger         *slog.Logger
	tokens         *auth.TokenIssuer
	featureFlags   *featureflags.Manager
	publisher      events.Publisher
	retryClient    *tasks.Client

	userRepo     repository.UserRepository
	bootcampRepo repository.BootcampRepository
	courseRepo   repository.CourseRepository
	reviewRepo   repository.ReviewRepository

	aggregates      *service.AggregateMaintainer
	bootcampService *service.BootcampService
	courseService   *service.CourseService
	reviewService   *service.ReviewService
	authService     *service.AuthService
	userService     *service.UserService
	photoService    *service.PhotoService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient(), Deps{})
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, deps Deps) (*Server, error) {
	logger := middleware.Logger

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		logger:         logger,
		promMiddleware: middleware.InitMetrics("devcamper-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       repository.NewUserRepository(db),
		bootcampRepo:   repository.NewBootcampRepository(db),
		courseRepo:     repository.NewCourseRepository(db),
		reviewRepo:     repository.NewReviewRepository(db),
	}

	if err := s.fillDeps(&deps); err != nil {
		return nil, err
	}
	s.publisher = deps.Publisher

	ttlHours := cfg.JWTExpireHours
	if ttlHours <= 0 {
		ttlHours = defaultJWTExpireHours
	}
	s.tokens = auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(ttlHours)*time.Hour)
	middleware.InitMiddleware(s.tokens)

	resolver := geocoder.NewResolver(deps.Geocoder,
		geocoder.WithCacheTTL(time.Duration(cfg.GeocoderCacheTTLHours)*time.Hour),
		geocoder.WithCacheToggle(s.flag(featureflags.GeocodeCache)),
		geocoder.WithLogger(logger),
	)

	aggOpts := []service.AggregateOption{service.WithAggregateLogger(logger)}
	if deps.RetryQueue != nil {
		aggOpts = append(aggOpts, service.WithRetryQueue(deps.RetryQueue, s.flag(featureflags.AggregateRetry)))
	}
	s.aggregates = service.NewAggregateMaintainer(repository.NewAggregateRepository(db), aggOpts...)

	s.bootcampService = service.NewBootcampService(s.bootcampRepo, resolver, deps.PhotoStore, deps.Publisher, logger)
	s.courseService = service.NewCourseService(s.courseRepo, s.bootcampRepo, s.aggregates, deps.Publisher, logger)
	s.reviewService = service.NewReviewService(s.reviewRepo, s.bootcampRepo, s.aggregates, deps.Publisher, logger)
	s.authService = service.NewAuthService(s.userRepo, s.tokens, deps.Mailer, service.WithAuthLogger(logger))
	s.userService = service.NewUserService(s.userRepo, s.authService, s.bootcampService)
	s.photoService = service.NewPhotoService(s.bootcampRepo, deps.PhotoStore, cfg.MaxFileUpload,
		s.flag(featureflags.PhotoWebP), logger)

	return s, nil
}

// fillDeps builds every collaborator the caller did not supply.
func (s *Server) fillDeps(deps *Deps) error {
	cfg := s.config
	if deps.Geocoder == nil {
		p, err := geocoder.NewProvider(cfg)
		if err != nil {
			return err
		}
		deps.Geocoder = p
	}
	if deps.PhotoStore == nil {
		store, err := storage.New(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("photo storage: %w", err)
		}
		deps.PhotoStore = store
	}
	if deps.Mailer == nil {
		m, err := mailer.New(cfg, s.logger)
		if err != nil {
			return err
		}
		deps.Mailer = m
	}
	if deps.Publisher == nil {
		if cfg.NATSURL == "" {
			deps.Publisher = events.NopPublisher{}
		} else {
			p, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, s.logger)
			if err != nil {
				// events are best-effort
				s.logger.Warn("NATS unavailable, events disabled", "error", err)
				deps.Publisher = events.NopPublisher{}
			} else {
				deps.Publisher = p
			}
		}
	}
	if deps.RetryQueue == nil && s.redis != nil {
		opt, err := tasks.RedisConnOpt(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("retry queue: %w", err)
		}
		s.retryClient = tasks.NewClient(opt)
		deps.RetryQueue = s.retryClient
	}
	return nil
}

func (s *Server) flag(name string) func() bool {
	return func() bool { return s.featureFlags.On(name) }
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	maxUpload := int(s.config.MaxFileUpload)
	if maxUpload <= 0 {
		maxUpload = service.DefaultMaxPhotoBytes
	}
	app := fiber.New(fiber.Config{
		AppName: "DevCamper API",
		// room for the multipart envelope around the largest accepted photo
		BodyLimit: 2*maxUpload + 64*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, fe)
			}
			return respondError(c, err)
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: !strings.Contains(origins, "*"),
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per 10 minutes per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 10 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || middleware.RateLimitBypassed(s.config.Env)
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests, &models.AppError{
				Code:    models.CodeRateLimited,
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api/v1")

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	protect := middleware.AuthRequired
	publishers := middleware.RolesRequired(s.userRepo, models.RolePublisher, models.RoleAdmin)
	reviewers := middleware.RolesRequired(s.userRepo, models.RoleUser, models.RoleAdmin)
	admins := middleware.RolesRequired(s.userRepo, models.RoleAdmin)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.Register)
	authGroup.Post("/login", middleware.RateLimit(s.redis, middleware.Limit{
		Name:   "login",
		Max:    10,
		Window: 5 * time.Minute,
	}, s.config.Env), s.Login)
	authGroup.Get("/logout", protect, s.Logout)
	authGroup.Get("/me", protect, s.GetMe)
	authGroup.Put("/updatedetails", protect, s.UpdateDetails)
	authGroup.Put("/updatepassword", protect, s.UpdatePassword)
	authGroup.Post("/forgotpassword", middleware.RateLimit(s.redis, middleware.Limit{
		Name:   "forgotpassword",
		Max:    5,
		Window: 10 * time.Minute,
	}, s.config.Env), s.ForgotPassword)
	authGroup.Put("/resetpassword/:resettoken", s.ResetPassword)

	// Bootcamp routes. Specific paths before generic /:id.
	bootcamps := api.Group("/bootcamps")
	bootcamps.Get("/radius/:zipcode/:distance", s.GetBootcampsInRadius)
	bootcamps.Get("/", s.GetBootcamps)
	bootcamps.Post("/", protect, publishers, s.CreateBootcamp)
	bootcamps.Put("/:id/photo", protect, publishers, s.UploadBootcampPhoto)
	bootcamps.Get("/:id", s.GetBootcamp)
	bootcamps.Put("/:id", protect, publishers, s.UpdateBootcamp)
	bootcamps.Delete("/:id", protect, publishers, s.DeleteBootcamp)

	// Nested course and review routes
	bootcamps.Get("/:bootcampId/courses", s.GetBootcampCourses)
	bootcamps.Post("/:bootcampId/courses", protect, publishers, s.CreateCourse)
	bootcamps.Get("/:bootcampId/reviews", s.GetBootcampReviews)
	bootcamps.Post("/:bootcampId/reviews", protect, reviewers, s.CreateReview)

	courses := api.Group("/courses")
	courses.Get("/", s.GetCourses)
	courses.Get("/:id", s.GetCourse)
	courses.Put("/:id", protect, publishers, s.UpdateCourse)
	courses.Delete("/:id", protect, publishers, s.DeleteCourse)

	reviews := api.Group("/reviews")
	reviews.Get("/", s.GetReviews)
	reviews.Get("/:id", s.GetReview)
	reviews.Put("/:id", protect, reviewers, s.UpdateReview)
	reviews.Delete("/:id", protect, reviewers, s.DeleteReview)

	// User routes (admin only)
	users := api.Group("/users", protect, admins)
	users.Get("/", s.GetUsers)
	users.Post("/", s.CreateUser)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	// Admin routes
	admin := api.Group("/admin", protect, admins)
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only backs caches and rate limits, so it never fails readiness
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "DevCamper API",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	s.logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			s.logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Error("error closing event publisher", "error", err)
		}
	}
	if s.retryClient != nil {
		if err := s.retryClient.Close(); err != nil {
			s.logger.Error("error closing retry queue", "error", err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			s.logger.Error("error closing sql DB", "error", cerr)
		}
	}

	// Close Redis connection
	if err := cache.Close(); err != nil {
		s.logger.Error("error closing redis", "error", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}
