package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"coursebatch/internal/content"
	"coursebatch/internal/enrollment/certtemplate"
	"coursebatch/internal/enrollment/events"
	"coursebatch/internal/enrollment/handler"
	enrollmentmetrics "coursebatch/internal/enrollment/metrics"
	"coursebatch/internal/enrollment/service"
	"coursebatch/internal/enrollment/store/batch"
	"coursebatch/internal/enrollment/store/cache"
	"coursebatch/internal/enrollment/store/enrolment"
	"coursebatch/internal/enrollment/validator"
	jwttoken "coursebatch/internal/jwt_token"
	"coursebatch/internal/platform/config"
	"coursebatch/internal/platform/kafka"
	"coursebatch/internal/platform/metrics"
	"coursebatch/internal/platform/postgres"
	"coursebatch/internal/platform/redis"
	"coursebatch/pkg/platform/httputil"
	"coursebatch/pkg/platform/middleware/admin"
	authmw "coursebatch/pkg/platform/middleware/auth"
	"coursebatch/pkg/platform/middleware/metadata"
	"coursebatch/pkg/platform/middleware/requesttime"
)

// app holds the wired service graph and the resources to release on exit.
type app struct {
	router    http.Handler
	service   *service.Service
	publisher service.Publisher
	db        *sql.DB
	redis     *redis.Client
	kafka     *kgo.Client
}

// newApp picks Postgres, Redis, Kafka and the content service when they are
// configured and in-memory stand-ins otherwise.
func newApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	a.db = db

	var (
		batches     service.BatchStore
		enrollments service.EnrollmentStore
		templates   certtemplate.BatchStore
	)
	if db != nil {
		if err := postgres.Migrate(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
		pgBatches := batch.NewPostgres(db)
		batches, templates = pgBatches, pgBatches
		enrollments = enrolment.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		memBatches := batch.NewInMemory()
		batches, templates = memBatches, memBatches
		enrollments = enrolment.NewInMemory()
		log.Warn("DATABASE_URL not set; using in-memory stores")
	}

	var listCache service.ListCache = cache.NewInMemory()
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	if rc != nil {
		a.redis = rc
		listCache = cache.NewFallback(cache.NewRedis(rc.Client), cache.NewInMemory(),
			cache.WithFallbackLogger(log),
		)
	}

	var publisher service.Publisher = events.NewLogPublisher(log)
	kc, err := kafka.NewClient(cfg.Kafka)
	if err != nil {
		a.Close()
		return nil, err
	}
	if kc != nil {
		a.kafka = kc
		if err := kafka.EnsureTopic(ctx, kc, cfg.Kafka.Topic); err != nil {
			log.Warn("could not ensure enrollment topic", "topic", cfg.Kafka.Topic, "error", err)
		}
		publisher = events.NewKafkaPublisher(kc, cfg.Kafka.Topic)
	}

	a.publisher = publisher

	var resolver service.ContentResolver
	if cfg.Content.BaseURL != "" {
		resolver = content.NewClient(cfg.Content.BaseURL, cfg.Content.Timeout)
	} else {
		log.Warn("CONTENT_SERVICE_URL not set; using an empty static hierarchy")
		resolver = content.NewStaticResolver()
	}

	a.service = service.New(batches, enrollments, resolver,
		service.WithLogger(log),
		service.WithMetrics(enrollmentmetrics.New(prometheus.DefaultRegisterer)),
		service.WithPublisher(publisher),
		service.WithCache(listCache),
		service.WithListTTL(cfg.Enrollment.ListCacheTTL),
		service.WithListConcurrency(cfg.Enrollment.ListConcurrency),
		service.WithPolicy(validator.Policy{AllowUnenrollAfterCompletion: cfg.Enrollment.AllowUnenrollAfterCompletion}),
	)
	manager := certtemplate.New(templates,
		certtemplate.WithLogger(log),
		certtemplate.WithPublisher(publisher),
	)

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)
	h := handler.New(a.service, manager, log,
		handler.WithIdentity(authmw.RequireIdentity(jwttoken.NewJWTServiceAdapter(jwtService), log)),
		handler.WithAdminGuard(admin.RequireAdminToken(cfg.Server.AdminToken, log)),
	)

	httpMetrics := metrics.NewHTTP(prometheus.DefaultRegisterer)
	r := chi.NewRouter()
	r.Use(metadata.RequestMetadata)
	r.Use(requesttime.Middleware)
	r.Use(httpMetrics.Middleware)
	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	h.Register(r)
	a.router = r

	return a, nil
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := map[string]string{}
	status := http.StatusOK
	if a.db != nil {
		checks["postgres"] = "ok"
		if err := a.db.PingContext(ctx); err != nil {
			checks["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if a.redis != nil {
		checks["redis"] = "ok"
		if err := a.redis.Health(ctx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	httputil.WriteJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": checks})
}

func (a *app) Close() {
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
