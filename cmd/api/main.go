package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/application"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/api"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/metrics"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/renderer"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/repository"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/sheets"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/syncstate"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/universal"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/wordpress"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/safewebedit?parseTime=true"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	sheetID := os.Getenv("GOOGLE_SHEET_ID")
	sheetsAPIKey := os.Getenv("GOOGLE_SHEETS_API_KEY")

	renderTimeout := durationEnv("RENDER_TIMEOUT", 15*time.Second)
	syncParallelism := intEnv("SYNC_MAX_PARALLEL", 4)

	// Connect to MySQL and run migrations
	db, err := repository.Connect(context.Background(), dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MySQL")
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to Redis (sync last-value store)
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()

	// Initialize repositories
	orgRepo := repository.NewMySQLOrganizationRepository(db)
	siteRepo := repository.NewMySQLSiteRepository(db)
	slotRepo := repository.NewMySQLSlotRepository(db)
	updateRepo := repository.NewMySQLUpdateRepository(db)

	// Initialize metrics
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	// Initialize platform adapters
	chromeRenderer := renderer.NewChromeRenderer(logger)
	defer chromeRenderer.Close()

	wpAdapter := wordpress.NewAdapter(logger)
	universalAdapter := universal.NewAdapter(chromeRenderer, renderTimeout, logger)

	// Initialize application services
	slotRegistry := application.NewSlotRegistry(slotRepo, logger)
	siteService := application.NewSiteService(
		siteRepo,
		slotRepo,
		updateRepo,
		slotRegistry,
		wpAdapter,
		universalAdapter,
		m,
		logger,
	)

	sheetSource, err := sheets.NewGoogleSheetSource(context.Background(), sheetsAPIKey, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Google Sheets client")
	}
	syncState := syncstate.NewRedisStore(redisClient, 0)
	syncService := application.NewSyncService(
		slotRepo,
		sheetSource,
		syncState,
		siteService,
		sheetID,
		int64(syncParallelism),
		m,
		logger,
	)

	handler := api.NewHandler(siteService, slotRegistry, syncService, orgRepo, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// API routes (organization header required past this point)
	handler.Mount(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
