package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "coursebatch/pkg/domain"
	"coursebatch/pkg/platform/httputil"
	"coursebatch/pkg/requestcontext"
)

// Admin routes act on the user named in the body. The caller stays
// requestedBy; the body user becomes requestedFor.

func (h *Handler) handleAdminEnrol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AdminCourseEnrolRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	rc := requestContext(ctx)
	rc.RequestedFor = id.UserID(req.UserID)
	courseID, batchID := req.ids()
	res, err := h.service.Enroll(ctx, rc, courseID, batchID, true)
	if err != nil {
		h.fail(ctx, w, "admin_enrol", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleAdminUnenrol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AdminCourseEnrolRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	rc := requestContext(ctx)
	rc.RequestedFor = id.UserID(req.UserID)
	courseID, batchID := req.ids()
	res, err := h.service.Unenroll(ctx, rc, courseID, batchID, true)
	if err != nil {
		h.fail(ctx, w, "admin_unenrol", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleAdminEnrolProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AdminProgramEnrolRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	rc := requestContext(ctx)
	rc.RequestedFor = id.UserID(req.UserID)
	res, err := h.service.EnrollProgram(ctx, rc, id.ProgramID(req.ProgramID), true)
	if err != nil {
		h.fail(ctx, w, "admin_enrol_program", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleBulkEnrolProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BulkProgramEnrolRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, err := h.service.BulkEnrollProgram(ctx, requestContext(ctx), id.ProgramID(req.ProgramID), req.UserIDs, true)
	if err != nil {
		h.fail(ctx, w, "bulk_enrol_program", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleAdminListEnrolled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ListEnrolRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	rc := listContext(requestContext(ctx), req)
	rc.RequestedFor = id.UserID(req.UserID)
	h.listEnrolled(w, r, rc, req.UserID)
}

func (h *Handler) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	attrs, err := req.Attributes()
	if err != nil {
		h.fail(ctx, w, "create_batch", err)
		return
	}
	key := batchKey(req.CourseID, req.BatchID)
	batch, err := h.service.CreateBatch(ctx, requestContext(ctx), key.CourseID, key.BatchID, attrs)
	if err != nil {
		h.fail(ctx, w, "create_batch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, batch)
}

func (h *Handler) handleUpdateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	attrs, err := req.Attributes()
	if err != nil {
		h.fail(ctx, w, "update_batch", err)
		return
	}
	batch, err := h.service.UpdateBatch(ctx, batchKey(chi.URLParam(r, "courseId"), chi.URLParam(r, "batchId")), attrs)
	if err != nil {
		h.fail(ctx, w, "update_batch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, batch)
}

func (h *Handler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batch, err := h.service.GetBatch(ctx, batchKey(chi.URLParam(r, "courseId"), chi.URLParam(r, "batchId")))
	if err != nil {
		h.fail(ctx, w, "get_batch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, batch)
}

func (h *Handler) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.DeleteBatch(ctx, batchKey(chi.URLParam(r, "courseId"), chi.URLParam(r, "batchId"))); err != nil {
		h.fail(ctx, w, "delete_batch", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := &ReconcileRequest{}
	if r.ContentLength != 0 {
		var ok bool
		req, ok = httputil.DecodeAndPrepare[ReconcileRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
	}
	if req.BatchID == "" {
		reports, err := h.service.ReconcileAll(ctx)
		if err != nil {
			h.fail(ctx, w, "reconcile_all", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"reconciled": reports})
		return
	}
	report, err := h.service.Reconcile(ctx, batchKey(req.CourseID, req.BatchID))
	if err != nil {
		h.fail(ctx, w, "reconcile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleAddTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AddTemplateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.templates.AddTemplate(ctx, batchKey(req.CourseID, req.BatchID), req.TemplateID, req.Template); err != nil {
		h.fail(ctx, w, "add_template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RemoveTemplateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.templates.RemoveTemplate(ctx, batchKey(req.CourseID, req.BatchID), req.TemplateID); err != nil {
		h.fail(ctx, w, "remove_template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	templates, err := h.templates.ListTemplates(ctx, batchKey(chi.URLParam(r, "courseId"), chi.URLParam(r, "batchId")))
	if err != nil {
		h.fail(ctx, w, "list_templates", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"templates": templates})
}
