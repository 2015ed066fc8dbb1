package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/behavio/config"
	"github.com/lshigami/behavio/database"
	_ "github.com/lshigami/behavio/docs"
	"github.com/lshigami/behavio/internal/cache"
	adminctrl "github.com/lshigami/behavio/internal/controller/admin"
	userctrl "github.com/lshigami/behavio/internal/controller/user"
	"github.com/lshigami/behavio/internal/logger"
	"github.com/lshigami/behavio/internal/middleware"
	"github.com/lshigami/behavio/internal/monitoring"
	"github.com/lshigami/behavio/internal/recommendation"
	"github.com/lshigami/behavio/internal/repository"
	"github.com/lshigami/behavio/internal/service"
	"github.com/lshigami/behavio/internal/tracing"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Behavio Assessment API
// @version 1.0
// @description Behavioural assessment tests: attempts, scoring, results and grader overrides.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			NewTestRepository,
			repository.NewTestAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewBehaviourRepository,
		),

		fx.Provide(
			NewRecommender,
			NewRubricAssistant,
			func(testRepo repository.TestRepository, attemptRepo repository.TestAttemptRepository, rec service.Recommender) service.AssessmentService {
				return service.NewAssessmentService(testRepo, attemptRepo, rec)
			},
			service.NewUserTestService,
			service.NewBehaviourService,
			service.NewAdminAttemptService,
		),

		fx.Provide(
			userctrl.NewUserTestController,
			adminctrl.NewAdminAttemptController,
		),

		fx.Invoke(logger.Configure),
		fx.Invoke(monitoring.Init),
		fx.Invoke(StartTracing),
		fx.Invoke(database.Migrate),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown finished with errors")
	}
}

// NewTestRepository puts the Redis read-through cache in front of the
// database when Redis is enabled and reachable.
func NewTestRepository(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB) repository.TestRepository {
	base := repository.NewTestRepository(db)
	if !cfg.Redis.Enabled {
		return base
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, test definitions will not be cached")
		return base
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return rdb.Close() },
	})
	return cache.NewTestRepository(base, rdb, cfg.Redis.TTL)
}

func NewRecommender(cfg *config.Config) (service.Recommender, error) {
	var (
		engine *recommendation.Engine
		err    error
	)
	if cfg.Recommendation.RulesFile != "" {
		engine, err = recommendation.LoadFromFile(cfg.Recommendation.RulesFile)
	} else {
		engine, err = recommendation.Default()
	}
	if err != nil {
		return nil, err
	}
	log.Info().Int("rules", engine.Len()).Str("file", cfg.Recommendation.RulesFile).Msg("Recommendation rules loaded")
	return engine, nil
}

func NewRubricAssistant(lc fx.Lifecycle, cfg *config.Config) (service.RubricAssistantService, error) {
	assistant, err := service.NewRubricAssistantService(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return assistant.Close() },
	})
	return assistant, nil
}

func StartTracing(lc fx.Lifecycle, cfg *config.Config) error {
	shutdown, err := tracing.InitTracer(cfg.Tracing)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(monitoring.MetricsMiddleware())
	r.Use(tracing.GinMiddleware())

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", monitoring.PrometheusHandler())

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	adminCtrl *adminctrl.AdminAttemptController,
	userCtrl *userctrl.UserTestController,
) {
	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1", middleware.Authenticate(cfg.Auth.JWTSecret))
	userCtrl.RegisterRoutes(api, middleware.RateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	adminGroup := api.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
	adminCtrl.RegisterRoutes(adminGroup)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Behavio API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			return server.Shutdown(ctx)
		},
	})
}
