package service

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"coursebatch/internal/content"
	"coursebatch/internal/enrollment/models"
	"coursebatch/internal/enrollment/store/cache"
	id "coursebatch/pkg/domain"
	pkgstrings "coursebatch/pkg/platform/strings"
)

// BaselineFields are always fetched for enrolled courses, whatever the caller
// asks for.
var BaselineFields = []string{"name", "description", "leafNodeCount", "appIcon"}

// ListEnrolledCourses returns the target user's active enrollments, newest
// first, each joined with projected course attributes and, when requested,
// batch attributes. Results are cached per user and query shape; with
// rc.UseCache false the cache is not read but is still refreshed.
func (s *Service) ListEnrolledCourses(ctx context.Context, rc models.RequestContext) (views []models.EnrolledCourseView, err error) {
	ctx = withRequestID(ctx, rc)
	userID := rc.TargetUser()
	ctx, done := s.startOp(ctx, "list_enrolled_courses", attribute.Bool("use_cache", rc.UseCache))
	defer func() { done(err) }()

	if err := s.validator.ValidateRequestedBy(userID); err != nil {
		return nil, err
	}

	fields := pkgstrings.SortedUnion(BaselineFields, rc.Fields)
	batchDetails := pkgstrings.SortedUnion(rc.BatchDetails)
	version := rc.Version
	if version.IsNil() {
		version = id.DefaultVersion()
	}
	key := cache.ListKey(userID, fields, batchDetails, version)

	if rc.UseCache {
		if cached, ok := s.readListCache(ctx, key); ok {
			return cached, nil
		}
	}

	rows, err := s.enrollments.ListActiveEnrollments(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "list enrollments")
	}

	views = make([]models.EnrolledCourseView, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.listConcurrency)
	for i, row := range rows {
		g.Go(func() error {
			view, err := s.buildView(gctx, row, fields, batchDetails, version)
			if err != nil {
				return err
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(views, func(a, b models.EnrolledCourseView) int {
		if c := b.EnrollDate.Compare(a.EnrollDate); c != 0 {
			return c
		}
		return cmp.Compare(a.CourseID, b.CourseID)
	})

	s.writeListCache(ctx, key, views)
	return views, nil
}

func (s *Service) buildView(ctx context.Context, row *models.Enrollment, fields, batchDetails []string, version id.APIVersion) (models.EnrolledCourseView, error) {
	view := models.EnrolledCourseView{
		UserID:               row.UserID,
		CourseID:             row.CourseID,
		BatchID:              row.BatchID,
		Active:               row.Active,
		EnrollDate:           row.EnrollDate,
		Progress:             row.Progress,
		Status:               row.Status,
		CompletionPercentage: row.CompletionPercentage,
	}

	attrs, err := s.content.GetCourse(ctx, row.CourseID.String(), fields)
	switch {
	case isNotFound(err):
		s.logger.WarnContext(ctx, "enrolled course missing from content service",
			"course_id", row.CourseID,
			"batch_id", row.BatchID,
		)
		attrs = map[string]any{}
	case err != nil:
		return view, storeErr(err, "read course content")
	}
	view.Content = attrs

	if len(batchDetails) > 0 {
		b, err := s.batches.GetBatch(ctx, models.BatchKey{CourseID: row.CourseID, BatchID: row.BatchID})
		switch {
		case isNotFound(err):
			view.Batch = map[string]any{}
		case err != nil:
			return view, storeErr(err, "read batch")
		default:
			view.Batch = content.Project(batchAttributeMap(b), batchDetails)
		}
	}

	if version == id.APIVersionV1 {
		view.CourseName = stringOf(attrs["name"])
		view.Description = stringOf(attrs["description"])
		view.LeafNodesCount = intOf(attrs["leafNodeCount"])
		view.CourseLogo = stringOf(attrs["appIcon"])
	}
	return view, nil
}

func (s *Service) readListCache(ctx context.Context, key string) ([]models.EnrolledCourseView, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !isNotFound(err) {
			s.logger.WarnContext(ctx, "list cache read failed", "key", key, "error", err)
		}
		s.countCache(false)
		return nil, false
	}
	var views []models.EnrolledCourseView
	if err := json.Unmarshal(raw, &views); err != nil {
		s.logger.WarnContext(ctx, "list cache entry unreadable", "key", key, "error", err)
		s.countCache(false)
		return nil, false
	}
	s.countCache(true)
	return views, true
}

func (s *Service) writeListCache(ctx context.Context, key string, views []models.EnrolledCourseView) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(views)
	if err != nil {
		s.logger.WarnContext(ctx, "list cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.listTTL); err != nil {
		s.logger.WarnContext(ctx, "list cache write failed", "key", key, "error", err)
	}
}

func (s *Service) countCache(hit bool) {
	if s.metrics != nil {
		s.metrics.IncrementListCache(hit)
	}
}

// GetParticipantsForFixedBatch lists the active participants of the batch a
// participants request resolves to.
func (s *Service) GetParticipantsForFixedBatch(ctx context.Context, req models.ParticipantsRequest) (result *models.ParticipantsResult, err error) {
	ctx, done := s.startOp(ctx, "get_participants")
	defer func() { done(err) }()

	key, err := s.validator.ValidateCourseParticipant(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.batches.GetBatch(ctx, key); err != nil {
		if isNotFound(err) {
			return nil, validationErr("invalid course batch id")
		}
		return nil, storeErr(err, "read batch")
	}
	rows, err := s.enrollments.ListBatchEnrollments(ctx, key.BatchID)
	if err != nil {
		return nil, storeErr(err, "list batch enrollments")
	}

	participants := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Active {
			participants = append(participants, row.UserID.String())
		}
	}
	slices.Sort(participants)
	return &models.ParticipantsResult{
		CourseID:     key.CourseID,
		BatchID:      key.BatchID,
		Count:        len(participants),
		Participants: participants,
	}, nil
}

// batchAttributeMap exposes the batch attributes selectable through
// batchDetails, keyed by their API names.
func batchAttributeMap(b *models.CourseBatch) map[string]any {
	m := map[string]any{
		"batchId":         b.BatchID.String(),
		"courseId":        b.CourseID.String(),
		"name":            b.Name,
		"description":     b.Description,
		"enrollmentType":  string(b.EnrollmentType),
		"status":          int(b.Status),
		"startDate":       b.StartDate,
		"createdBy":       b.CreatedBy,
		"maxParticipants": b.MaxParticipants,
	}
	if b.EndDate != nil {
		m["endDate"] = *b.EndDate
	}
	if b.EnrollmentEndDate != nil {
		m["enrollmentEndDate"] = *b.EnrollmentEndDate
	}
	if !b.CreatedDate.IsZero() {
		m["createdDate"] = b.CreatedDate
	}
	return m
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func intOf(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}
