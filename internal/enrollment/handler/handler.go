package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,TemplateManager

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coursebatch/internal/enrollment/models"
	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/httputil"
	"coursebatch/pkg/platform/middleware/version"
	"coursebatch/pkg/requestcontext"
)

// Service is the enrollment orchestration consumed by the HTTP layer.
type Service interface {
	Enroll(ctx context.Context, rc models.RequestContext, courseID id.CourseID, batchID id.BatchID, isAdmin bool) (*models.EnrollmentResult, error)
	Unenroll(ctx context.Context, rc models.RequestContext, courseID id.CourseID, batchID id.BatchID, isAdmin bool) (*models.UnenrollResult, error)
	EnrollProgram(ctx context.Context, rc models.RequestContext, programID id.ProgramID, isAdmin bool) (*models.ProgramEnrollmentResult, error)
	BulkEnrollProgram(ctx context.Context, rc models.RequestContext, programID id.ProgramID, userIDs []string, isAdmin bool) (*models.BulkEnrollmentResult, error)
	ListEnrolledCourses(ctx context.Context, rc models.RequestContext) ([]models.EnrolledCourseView, error)
	GetParticipantsForFixedBatch(ctx context.Context, req models.ParticipantsRequest) (*models.ParticipantsResult, error)
	CreateBatch(ctx context.Context, rc models.RequestContext, courseID id.CourseID, batchID id.BatchID, attrs models.BatchAttributes) (*models.CourseBatch, error)
	UpdateBatch(ctx context.Context, key models.BatchKey, attrs models.BatchAttributes) (*models.CourseBatch, error)
	GetBatch(ctx context.Context, key models.BatchKey) (*models.CourseBatch, error)
	DeleteBatch(ctx context.Context, key models.BatchKey) error
	Reconcile(ctx context.Context, key models.BatchKey) (*models.ReconcileReport, error)
	ReconcileAll(ctx context.Context) ([]models.ReconcileReport, error)
}

// TemplateManager edits batch certificate templates.
type TemplateManager interface {
	AddTemplate(ctx context.Context, key models.BatchKey, templateID string, details models.CertificateTemplate) error
	RemoveTemplate(ctx context.Context, key models.BatchKey, templateID string) error
	ListTemplates(ctx context.Context, key models.BatchKey) (map[string]models.CertificateTemplate, error)
}

// Handler serves the enrollment API.
type Handler struct {
	service   Service
	templates TemplateManager
	logger    *slog.Logger
	identity  func(http.Handler) http.Handler
	adminOnly func(http.Handler) http.Handler
}

type Option func(h *Handler)

// WithIdentity sets the middleware that resolves requestedBy and requestedFor.
func WithIdentity(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.identity = mw
	}
}

// WithAdminGuard sets the middleware that protects /v1/admin routes.
func WithAdminGuard(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.adminOnly = mw
	}
}

func New(service Service, templates TemplateManager, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, templates: templates, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts every enrollment route on r.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.identity != nil {
			r.Use(h.identity)
		}

		r.Route("/v1", func(v1 chi.Router) {
			v1.Use(version.ExtractVersion(id.APIVersionV1))
			v1.Post("/course/enrol", h.handleEnrol)
			v1.Post("/course/unenrol", h.handleUnenrol)
			v1.Get("/user/courses/list/{uid}", h.handleListEnrolled)
			v1.Post("/course/user/enrolment/list", h.handleListEnrolledByBody)
			v1.Post("/program/enrol", h.handleEnrolProgram)
			v1.Post("/course/participants/fixed", h.handleParticipants)

			v1.Route("/admin", func(admin chi.Router) {
				if h.adminOnly != nil {
					admin.Use(h.adminOnly)
				}
				admin.Post("/course/enrol", h.handleAdminEnrol)
				admin.Post("/course/unenrol", h.handleAdminUnenrol)
				admin.Post("/program/enrol", h.handleAdminEnrolProgram)
				admin.Post("/program/enrol/bulk", h.handleBulkEnrolProgram)
				admin.Post("/user/courses/list", h.handleAdminListEnrolled)

				admin.Post("/course/batch", h.handleCreateBatch)
				admin.Get("/course/batch/{courseId}/{batchId}", h.handleGetBatch)
				admin.Patch("/course/batch/{courseId}/{batchId}", h.handleUpdateBatch)
				admin.Delete("/course/batch/{courseId}/{batchId}", h.handleDeleteBatch)
				admin.Post("/course/batch/reconcile", h.handleReconcile)

				admin.Post("/course/batch/cert/template", h.handleAddTemplate)
				admin.Delete("/course/batch/cert/template", h.handleRemoveTemplate)
				admin.Get("/course/batch/{courseId}/{batchId}/cert/templates", h.handleListTemplates)
			})
		})

		r.Route("/v2", func(v2 chi.Router) {
			v2.Use(version.ExtractVersion(id.APIVersionV2))
			v2.Get("/user/courses/list/{uid}", h.handleListEnrolled)
		})
	})
}

// requestContext builds the explicit per-call context from what the
// middleware stored on the request.
func requestContext(ctx context.Context) models.RequestContext {
	rc := models.NewRequestContext(requestcontext.RequestedBy(ctx), requestcontext.RequestedFor(ctx))
	rc.RequestID = requestcontext.RequestID(ctx)
	rc.Version = requestcontext.APIVersion(ctx)
	return rc
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"op", op,
		"error", err,
	}
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "enrollment request failed", attrs...)
	} else {
		h.logger.WarnContext(ctx, "enrollment request rejected", attrs...)
	}
	httputil.WriteError(w, err)
}
