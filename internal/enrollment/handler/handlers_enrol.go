package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"coursebatch/internal/enrollment/models"
	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/httputil"
	pkgstrings "coursebatch/pkg/platform/strings"
	"coursebatch/pkg/requestcontext"
)

func (h *Handler) handleEnrol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CourseEnrolRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	courseID, batchID := req.ids()
	res, err := h.service.Enroll(ctx, requestContext(ctx), courseID, batchID, false)
	if err != nil {
		h.fail(ctx, w, "enrol", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleUnenrol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CourseEnrolRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	courseID, batchID := req.ids()
	res, err := h.service.Unenroll(ctx, requestContext(ctx), courseID, batchID, false)
	if err != nil {
		h.fail(ctx, w, "unenrol", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleEnrolProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ProgramEnrolRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, err := h.service.EnrollProgram(ctx, requestContext(ctx), id.ProgramID(req.ProgramID), false)
	if err != nil {
		h.fail(ctx, w, "enrol_program", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// handleListEnrolled serves GET /v{1,2}/user/courses/list/{uid}. Query
// parameters: fields and batchDetails (comma separated, repeatable) and
// cache=false to bypass the list cache.
func (h *Handler) handleListEnrolled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	rc := requestContext(ctx)
	rc.Fields = pkgstrings.SplitCSV(q["fields"])
	rc.BatchDetails = pkgstrings.SplitCSV(q["batchDetails"])
	if raw := q.Get("cache"); raw != "" {
		useCache, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "cache must be true or false"))
			return
		}
		rc.UseCache = useCache
	}
	h.listEnrolled(w, r, rc, chi.URLParam(r, "uid"))
}

func (h *Handler) handleListEnrolledByBody(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ListEnrolRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.listEnrolled(w, r, listContext(requestContext(ctx), req), req.UserID)
}

// listEnrolled only lets callers list their own courses or those of the
// managed user they act for.
func (h *Handler) listEnrolled(w http.ResponseWriter, r *http.Request, rc models.RequestContext, userID string) {
	ctx := r.Context()
	if id.UserID(userID) != rc.TargetUser() {
		h.fail(ctx, w, "list_enrolled", dErrors.New(dErrors.CodeAuthorization, "cannot list courses of another user"))
		return
	}
	views, err := h.service.ListEnrolledCourses(ctx, rc)
	if err != nil {
		h.fail(ctx, w, "list_enrolled", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"userId":  rc.TargetUser(),
		"courses": views,
		"count":   len(views),
	})
}

func (h *Handler) handleParticipants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ParticipantsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, err := h.service.GetParticipantsForFixedBatch(ctx, req.toModel())
	if err != nil {
		h.fail(ctx, w, "participants", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func listContext(rc models.RequestContext, req *ListEnrolRequest) models.RequestContext {
	rc.Fields = req.Fields
	rc.BatchDetails = req.BatchDetails
	if req.Cache != nil {
		rc.UseCache = *req.Cache
	}
	if req.Version != "" {
		rc.Version = id.APIVersion(req.Version)
	}
	return rc
}
