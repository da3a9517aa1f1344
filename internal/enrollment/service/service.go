// Package service orchestrates enrollment: it validates through the validator,
// writes enrollment rows and batch participant sets, assembles enrolled course
// lists and repairs participant drift.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"coursebatch/internal/content"
	"coursebatch/internal/enrollment/events"
	"coursebatch/internal/enrollment/metrics"
	"coursebatch/internal/enrollment/models"
	"coursebatch/internal/enrollment/validator"
	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/sentinel"
	"coursebatch/pkg/requestcontext"
)

type BatchStore interface {
	GetBatch(ctx context.Context, key models.BatchKey) (*models.CourseBatch, error)
	UpsertBatch(ctx context.Context, key models.BatchKey, attrs models.BatchAttributes) error
	SetAdd(ctx context.Context, key models.BatchKey, column models.SetColumn, member string) error
	SetRemove(ctx context.Context, key models.BatchKey, column models.SetColumn, member string) error
	DeleteBatch(ctx context.Context, key models.BatchKey) error
	ListBatchKeys(ctx context.Context) ([]models.BatchKey, error)
}

type EnrollmentStore interface {
	GetEnrollment(ctx context.Context, batchID id.BatchID, userID id.UserID) (*models.Enrollment, error)
	UpsertEnrollment(ctx context.Context, w models.EnrollmentWrite) error
	ListActiveEnrollments(ctx context.Context, userID id.UserID) ([]*models.Enrollment, error)
	ListBatchEnrollments(ctx context.Context, batchID id.BatchID) ([]*models.Enrollment, error)
}

// ContentResolver reads the content hierarchy and course attributes.
type ContentResolver interface {
	GetProgramChildren(ctx context.Context, programID string) ([]content.Node, error)
	GetCourse(ctx context.Context, courseID string, fields []string) (map[string]any, error)
}

// ListCache stores serialized enrolled course lists.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

const (
	defaultListTTL         = 5 * time.Minute
	defaultListConcurrency = 8
)

var tracer = otel.Tracer("coursebatch/internal/enrollment/service")

// Service is the enrollment orchestrator. It holds no per-request state; every
// call receives its RequestContext by value.
type Service struct {
	batches         BatchStore
	enrollments     EnrollmentStore
	content         ContentResolver
	validator       *validator.Validator
	policy          validator.Policy
	cache           ListCache
	publisher       Publisher
	logger          *slog.Logger
	metrics         *metrics.Metrics
	listTTL         time.Duration
	listConcurrency int
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithCache(c ListCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithListTTL bounds how long a cached enrolled course list is served.
func WithListTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.listTTL = ttl
		}
	}
}

// WithListConcurrency caps the parallel lookups made while assembling a list.
func WithListConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.listConcurrency = n
		}
	}
}

func WithPolicy(p validator.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func New(batches BatchStore, enrollments EnrollmentStore, resolver ContentResolver, opts ...Option) *Service {
	s := &Service{
		batches:         batches,
		enrollments:     enrollments,
		content:         resolver,
		logger:          slog.Default(),
		listTTL:         defaultListTTL,
		listConcurrency: defaultListConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = validator.New(batches, enrollments, resolver, s.policy)
	return s
}

// startOp opens a span for op. The returned func closes the span and records
// the outcome metric; pass it the operation's final error.
func (s *Service) startOp(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "enrollment."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = string(dErrors.CodeOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		if s.metrics != nil {
			s.metrics.ObserveOperation(op, outcome, start)
		}
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = requestcontext.Now(ctx)
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish enrollment event",
			"event_type", event.Type,
			"batch_id", event.BatchID,
			"error", err,
		)
	}
}

// withRequestID makes the RequestContext's request id visible to stores,
// events and logs.
func withRequestID(ctx context.Context, rc models.RequestContext) context.Context {
	if rc.RequestID != "" && requestcontext.RequestID(ctx) == "" {
		return requestcontext.WithRequestID(ctx, rc.RequestID)
	}
	return ctx
}

func storeErr(err error, msg string) error {
	if dErrors.HasCode(err, dErrors.CodeStore) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeStore, msg)
}

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
