package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/backend-optima/internal/analytics"
	"github.com/noah-isme/backend-optima/internal/audit"
	"github.com/noah-isme/backend-optima/internal/auth"
	"github.com/noah-isme/backend-optima/internal/catalog"
	"github.com/noah-isme/backend-optima/internal/common"
	"github.com/noah-isme/backend-optima/internal/config"
	"github.com/noah-isme/backend-optima/internal/db"
	dbgen "github.com/noah-isme/backend-optima/internal/db/gen"
	"github.com/noah-isme/backend-optima/internal/health"
	"github.com/noah-isme/backend-optima/internal/inquiry"
	"github.com/noah-isme/backend-optima/internal/lock"
	"github.com/noah-isme/backend-optima/internal/obs"
	"github.com/noah-isme/backend-optima/internal/pricing"
	"github.com/noah-isme/backend-optima/internal/ratelimit"
	"github.com/noah-isme/backend-optima/internal/security"
	"github.com/noah-isme/backend-optima/internal/tasks"
)

const serviceName = "optima-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "optima")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   serviceName,
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()
	queries := dbgen.New(pool)

	redisClient := mustInitRedis(ctx, cfg, logger, metricsEnabled)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	locker := &lock.Locker{R: redisClient, RetryBackoff: cfg.LockRetryBackoff}
	if cfg.MigrateOnStart {
		migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		migrator := db.Migrator{DatabaseURL: cfg.DatabaseURL, Locker: locker, LockTTL: cfg.LockTTL, Logger: logger}
		if err := migrator.Up(migrateCtx); err != nil {
			migrateCancel()
			logger.Fatal().Err(err).Msg("apply migrations")
		}
		migrateCancel()
	}

	catalogCache := catalog.NewCache(redisClient, cfg.CatalogCacheTTL)
	invalidator := tasks.Invalidator{
		Purger: catalogCache,
		Queue:  cfg.TaskQueue,
		Unique: cfg.TaskUniqueTTL,
		Logger: logger.With().Str("component", "catalog-invalidator").Logger(),
	}
	if opt, err := asynq.ParseRedisURI(cfg.RedisURL); err != nil {
		logger.Warn().Err(err).Msg("parse task queue redis uri, purging inline")
	} else {
		taskClient := asynq.NewClient(opt)
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close task client")
			}
		}()
		invalidator.Client = taskClient
	}

	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Queries:      queries,
		Cache:        catalogCache,
		DefaultPage:  cfg.CatalogDefaultPage,
		DefaultLimit: cfg.CatalogDefaultLimit,
		MaxLimit:     cfg.CatalogMaxLimit,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogService})

	tx := db.Transactor{Pool: pool}
	adminCatalog, err := catalog.NewAdminService(catalog.AdminServiceConfig{
		Queries:     queries,
		Edits:       catalog.PgEditStore{Tx: tx},
		Invalidator: invalidator,
		Logger:      logger.With().Str("component", "catalog-admin").Logger(),
		MaxPageSize: cfg.AdminMaxPageSize,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog admin service")
	}
	adminCatalogHandler := catalog.NewAdminHandler(adminCatalog)

	pricingHandler := pricing.NewHandler(pricing.HandlerConfig{Service: mustInitPricing(queries, tx, invalidator, cfg, logger)})

	inquiryService, err := inquiry.NewService(inquiry.ServiceConfig{
		Queries:        queries,
		WhatsAppNumber: cfg.WhatsAppNumber,
		Logger:         logger.With().Str("component", "inquiry").Logger(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise inquiry service")
	}
	inquiryHandler := inquiry.NewHandler(inquiryService)

	auditService := audit.Service{
		Store:        queries,
		Logger:       logger.With().Str("component", "audit").Logger(),
		Enabled:      cfg.AuditEnabled,
		SamplingRate: cfg.AuditSamplingRate,
	}
	auditHandler := audit.Handler{Svc: auditService}
	auditRecorder := audit.HTTPRecorder{
		Service: auditService,
		OnError: func(err error) { logger.Warn().Err(err).Msg("record audit entry") },
	}

	analyticsHandler := &analytics.Handler{Svc: &analytics.Service{
		Q:            queries,
		R:            redisClient,
		TTL:          cfg.AnalyticsCacheTTL,
		DefaultRange: cfg.AnalyticsDefaultRange,
	}}

	authService, err := auth.NewService(auth.Config{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		ClockSkew: cfg.JWTClockSkew,
		AccessTTL: cfg.AdminTokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authMiddleware := auth.Middleware{Service: authService}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	limiterErr := func(err error) { logger.Warn().Err(err).Msg("rate limiter unavailable") }
	inquiryStore, err := ratelimit.NewRedisStore(redisClient, "optima:rl:inquiry")
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise inquiry rate limit store")
	}
	inquiryLimit := ratelimit.Handler{
		Limiter: ratelimit.FixedWindow{Store: inquiryStore},
		Config:  ratelimit.Config{Key: ratelimit.ByClientIP("inquiry"), Window: cfg.InquiryRateWindow, Max: cfg.InquiryRateLimit},
		OnError: limiterErr,
	}
	adminLimit := ratelimit.Handler{
		Limiter: ratelimit.SlidingWindow{Client: redisClient, Prefix: "optima:rl:admin"},
		Config: ratelimit.Config{
			Key: func(r *http.Request) string {
				if id, ok := common.UserID(r.Context()); ok {
					return "admin:" + id
				}
				return "admin:" + common.ClientKey(r)
			},
			Window: cfg.AdminRateWindow,
			Max:    cfg.AdminRateLimit,
		},
		OnError: limiterErr,
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Total-Count", "Idempotent-Replayed"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(security.Headers{
		Enable:                envBool("SECURE_HEADERS_ENABLE", true),
		EnableHSTS:            envBool("SECURE_HSTS_ENABLE", cfg.AppEnv == "production"),
		HSTSMaxAge:            envInt("SECURE_HSTS_MAX_AGE", 31536000),
		HSTSIncludeSubdomains: envBool("SECURE_HSTS_INCLUDE_SUBDOMAINS", true),
		NoStorePrefixes:       []string{"/api/v1/admin"},
	}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", false) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{Checks: []health.Check{
		health.Postgres(pool, envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500)),
		health.Redis(redisClient, envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300)),
	}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/categories", catalogHandler.Categories)
		v.Get("/products", catalogHandler.Products)
		v.Get("/products/{slug}", catalogHandler.ProductDetail)
		v.Get("/products/{slug}/whatsapp", inquiryHandler.ProductLink)
		v.With(inquiryLimit.Middleware).Post("/inquiries", inquiryHandler.Create)

		v.Route("/admin", func(admin chi.Router) {
			admin.Use(authMiddleware.RequireRole(auth.RoleAdmin))
			admin.Use(adminLimit.Middleware)

			admin.Get("/dashboard", analyticsHandler.Dashboard)
			admin.Get("/price-logs", auditHandler.PriceLogs)
			admin.Get("/inquiries", inquiryHandler.List)

			admin.Get("/products", adminCatalogHandler.ListProducts)
			admin.Get("/products/{id}", adminCatalogHandler.GetProduct)
			admin.Get("/categories", adminCatalogHandler.ListCategories)

			admin.Group(func(w chi.Router) {
				w.Use(idem.Middleware)
				w.With(auditRecorder.Middleware(audit.HTTPConfig{Action: "bulk_price", ResourceType: "pricing"})).
					Post("/bulk-price", pricingHandler.BulkPrice)

				w.With(auditRecorder.Middleware(audit.HTTPConfig{Action: "create", ResourceType: "product"})).
					Post("/products", adminCatalogHandler.CreateProduct)
				w.With(auditRecorder.Middleware(audit.HTTPConfig{Action: "update", ResourceType: "product", ResourceIDParam: "id"})).
					Put("/products/{id}", adminCatalogHandler.UpdateProduct)
				w.With(auditRecorder.Middleware(audit.HTTPConfig{Action: "delete", ResourceType: "product", ResourceIDParam: "id"})).
					Delete("/products/{id}", adminCatalogHandler.DeleteProduct)

				w.With(auditRecorder.Middleware(audit.HTTPConfig{Action: "create", ResourceType: "category"})).
					Post("/categories", adminCatalogHandler.CreateCategory)
				w.With(auditRecorder.Middleware(audit.HTTPConfig{Action: "update", ResourceType: "category", ResourceIDParam: "id"})).
					Put("/categories/{id}", adminCatalogHandler.UpdateCategory)
				w.With(auditRecorder.Middleware(audit.HTTPConfig{Action: "delete", ResourceType: "category", ResourceIDParam: "id"})).
					Delete("/categories/{id}", adminCatalogHandler.DeleteCategory)
			})
		})
	})

	var handler http.Handler = r
	if tracingEnabled {
		// extracts inbound trace context; route-named spans come from obs.TracingMiddleware
		handler = otelhttp.NewHandler(r, serviceName)
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}

	health.SetReady(false)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), envDurationMillis("SHUTDOWN_TIMEOUT_MS", 15000))
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = serviceName
	if cfg.DBMaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.DBMaxConns)
	}
	if cfg.DBMinConns > 0 {
		poolConfig.MinConns = int32(cfg.DBMinConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger, metricsEnabled bool) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return client
}

func mustInitPricing(queries *dbgen.Queries, tx db.Transactor, invalidator tasks.Invalidator, cfg *config.Config, logger zerolog.Logger) *pricing.Service {
	planner, err := pricing.NewPlanner(queries)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise pricing planner")
	}
	committer, err := pricing.NewCommitter(pricing.PgStore{Tx: tx})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise pricing committer")
	}
	svc, err := pricing.NewService(pricing.ServiceConfig{
		Planner:        planner,
		Committer:      committer,
		Invalidator:    invalidator,
		Logger:         logger.With().Str("component", "pricing").Logger(),
		DefaultRoundTo: cfg.PricingDefaultRoundTo,
		MaxRoundTo:     cfg.PricingMaxRoundTo,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise pricing service")
	}
	return svc
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
