package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"coursebatch/internal/enrollment/handler/mocks"
	"coursebatch/internal/enrollment/models"
	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/middleware/admin"
	"coursebatch/pkg/testutil"
)

const adminToken = "admin-secret"

type HandlerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	service   *mocks.MockService
	templates *mocks.MockTemplateManager
	router    http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.templates = mocks.NewMockTemplateManager(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(s.service, s.templates, logger, WithAdminGuard(admin.RequireAdminToken(adminToken, logger)))
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

// do sends req as requestedBy (and requestedFor when set), the way the
// identity middleware would.
func (s *HandlerSuite) do(req *http.Request, requestedBy, requestedFor string) *httptest.ResponseRecorder {
	req = testutil.WithIdentity(req, requestedBy, requestedFor)
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) adminReq(method, path string, body any) *http.Request {
	req := testutil.NewJSONRequest(s.T(), method, path, body)
	req.Header.Set(admin.HeaderAdminToken, adminToken)
	return req
}

func (s *HandlerSuite) TestEnrol() {
	s.Run("collectionId is accepted for courseId", func() {
		s.service.EXPECT().
			Enroll(gomock.Any(), gomock.Any(), id.CourseID("c1"), id.BatchID("b1"), false).
			DoAndReturn(func(_ context.Context, rc models.RequestContext, courseID id.CourseID, batchID id.BatchID, _ bool) (*models.EnrollmentResult, error) {
				s.Equal(id.UserID("u1"), rc.TargetUser())
				return &models.EnrollmentResult{UserID: "u1", CourseID: courseID, BatchID: batchID}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/course/enrol", map[string]string{"collectionId": "c1", "batchId": "b1"})
		rr := s.do(req, "u1", "")
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "batchId", "b1")
	})

	s.Run("managed user is the target", func() {
		s.service.EXPECT().
			Enroll(gomock.Any(), gomock.Any(), id.CourseID("c1"), id.BatchID("b1"), false).
			DoAndReturn(func(_ context.Context, rc models.RequestContext, _ id.CourseID, _ id.BatchID, _ bool) (*models.EnrollmentResult, error) {
				s.Equal(id.UserID("parent"), rc.RequestedBy)
				s.Equal(id.UserID("child"), rc.TargetUser())
				return &models.EnrollmentResult{UserID: rc.TargetUser()}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/course/enrol", map[string]string{"courseId": "c1", "batchId": "b1"})
		rr := s.do(req, "parent", "child")
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("missing course id", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/course/enrol", map[string]string{"batchId": "b1"})
		rr := s.do(req, "u1", "")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("malformed body", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/course/enrol", `{"courseId":`)
		rr := s.do(req, "u1", "")
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("missing batch id", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/course/enrol", map[string]string{"courseId": "c1"})
		rr := s.do(req, "u1", "")
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("already enrolled maps to 409", func() {
		s.service.EXPECT().Enroll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), false).
			Return(nil, dErrors.New(dErrors.CodeAlreadyEnrolled, "user is already enrolled in batch"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/course/enrol", map[string]string{"courseId": "c1", "batchId": "b1"})
		rr := s.do(req, "u1", "")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeAlreadyEnrolled))
	})

	s.Run("partial failure names the step", func() {
		s.service.EXPECT().Enroll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), false).
			Return(nil, &models.PartialFailureError{
				Step:      models.StepAddParticipant,
				Completed: []string{models.StepUpsertEnrollment},
				Key:       models.BatchKey{CourseID: "c1", BatchID: "b1"},
				UserID:    "u1",
				Err:       dErrors.New(dErrors.CodeStore, "update participants"),
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/course/enrol", map[string]string{"courseId": "c1", "batchId": "b1"})
		rr := s.do(req, "u1", "")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, string(dErrors.CodePartialFailure))
		testutil.AssertJSONContains(s.T(), rr, "failed_step", models.StepAddParticipant)
	})
}

func (s *HandlerSuite) TestUnenrol() {
	s.service.EXPECT().Unenroll(gomock.Any(), gomock.Any(), id.CourseID("c1"), id.BatchID("b1"), false).
		Return(nil, dErrors.New(dErrors.CodeNotEnrolled, "user is not enrolled in batch"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/course/unenrol", map[string]string{"courseId": "c1", "batchId": "b1"})
	rr := s.do(req, "u1", "")
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeNotEnrolled))
}

func (s *HandlerSuite) TestListEnrolled() {
	s.Run("query parameters shape the request context", func() {
		s.service.EXPECT().ListEnrolledCourses(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rc models.RequestContext) ([]models.EnrolledCourseView, error) {
				s.Equal([]string{"subject", "medium"}, rc.Fields)
				s.Equal([]string{"name"}, rc.BatchDetails)
				s.False(rc.UseCache)
				s.Equal(id.APIVersionV2, rc.Version)
				return []models.EnrolledCourseView{{CourseID: "c1", EnrollDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}}, nil
			})

		req := testutil.NewRequest(s.T(), http.MethodGet, "/v2/user/courses/list/u1?fields=subject,medium&batchDetails=name&cache=false")
		rr := s.do(req, "u1", "")
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "count", float64(1))

		body := testutil.UnmarshalResponse[struct {
			UserID  string                      `json:"userId"`
			Courses []models.EnrolledCourseView `json:"courses"`
		}](s.T(), rr)
		s.Equal("u1", body.UserID)
		s.Require().Len(body.Courses, 1)
		s.Equal(id.CourseID("c1"), body.Courses[0].CourseID)
	})

	s.Run("v1 route sets v1", func() {
		s.service.EXPECT().ListEnrolledCourses(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rc models.RequestContext) ([]models.EnrolledCourseView, error) {
				s.Equal(id.APIVersionV1, rc.Version)
				s.True(rc.UseCache)
				return nil, nil
			})

		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/user/courses/list/u1"), "u1", "")
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("another user's list is forbidden", func() {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/user/courses/list/u2"), "u1", "")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, string(dErrors.CodeAuthorization))
	})

	s.Run("managed user's list is allowed", func() {
		s.service.EXPECT().ListEnrolledCourses(gomock.Any(), gomock.Any()).Return([]models.EnrolledCourseView{}, nil)
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/user/courses/list/child"), "parent", "child")
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("invalid cache flag", func() {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/v1/user/courses/list/u1?cache=maybe"), "u1", "")
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("body variant", func() {
		s.service.EXPECT().ListEnrolledCourses(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rc models.RequestContext) ([]models.EnrolledCourseView, error) {
				s.Equal([]string{"subject"}, rc.Fields)
				return nil, nil
			})
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/course/user/enrolment/list", map[string]any{"userId": "u1", "fields": []string{" subject ", "subject"}})
		rr := s.do(req, "u1", "")
		testutil.AssertStatusOK(s.T(), rr)
	})
}

func (s *HandlerSuite) TestParticipants() {
	s.service.EXPECT().
		GetParticipantsForFixedBatch(gomock.Any(), models.ParticipantsRequest{CourseID: "do_1", FixedBatchID: "ekstep"}).
		Return(&models.ParticipantsResult{CourseID: "do_1", BatchID: "ekstep-do_1", Count: 1, Participants: []string{"u1"}}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/course/participants/fixed", map[string]string{"collectionId": "do_1", "fixedBatchId": "ekstep"})
	rr := s.do(req, "u1", "")
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "batchId", "ekstep-do_1")
}

func (s *HandlerSuite) TestAdminRoutes() {
	s.Run("admin token required", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/admin/course/enrol", map[string]string{"userId": "u2", "courseId": "c1", "batchId": "b1"})
		rr := s.do(req, "admin", "")
		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
	})

	s.Run("admin enrol targets the body user", func() {
		s.service.EXPECT().Enroll(gomock.Any(), gomock.Any(), id.CourseID("c1"), id.BatchID("b1"), true).
			DoAndReturn(func(_ context.Context, rc models.RequestContext, _ id.CourseID, _ id.BatchID, _ bool) (*models.EnrollmentResult, error) {
				s.Equal(id.UserID("admin"), rc.RequestedBy)
				s.Equal(id.UserID("u2"), rc.TargetUser())
				return &models.EnrollmentResult{UserID: "u2"}, nil
			})
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/course/enrol", map[string]string{"userId": "u2", "courseId": "c1", "batchId": "b1"}), "admin", "")
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("admin enrol trims the body user", func() {
		s.service.EXPECT().Enroll(gomock.Any(), gomock.Any(), id.CourseID("c1"), id.BatchID("b1"), true).
			DoAndReturn(func(_ context.Context, rc models.RequestContext, _ id.CourseID, _ id.BatchID, _ bool) (*models.EnrollmentResult, error) {
				s.Equal(id.UserID("u2"), rc.TargetUser())
				return &models.EnrollmentResult{UserID: "u2"}, nil
			})
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/course/enrol", map[string]string{"userId": " u2 ", "courseId": "c1", "batchId": "b1"}), "admin", "")
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("admin routes reject malformed user ids", func() {
		cases := []struct {
			path string
			body map[string]string
		}{
			{"/v1/admin/course/enrol", map[string]string{"userId": "u 2", "courseId": "c1", "batchId": "b1"}},
			{"/v1/admin/course/unenrol", map[string]string{"userId": "u 2", "courseId": "c1", "batchId": "b1"}},
			{"/v1/admin/program/enrol", map[string]string{"userId": "u 2", "programId": "do_p"}},
		}
		for _, tc := range cases {
			rr := s.do(s.adminReq(http.MethodPost, tc.path, tc.body), "admin", "")
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
			testutil.AssertJSONContains(s.T(), rr, "error_description", "user id contains invalid characters")
		}
	})

	s.Run("bulk validation failures are listed", func() {
		s.service.EXPECT().BulkEnrollProgram(gomock.Any(), gomock.Any(), id.ProgramID("do_p"), []string{"u1", "", "u3"}, true).
			Return(nil, &models.BulkValidationError{Failures: []models.UserFailure{
				{Index: 1, UserID: "", Code: dErrors.CodeIdentity, Message: "user id is required"},
			}})
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/program/enrol/bulk", map[string]any{"programId": "do_p", "userIds": []string{"u1", "", "u3"}}), "admin", "")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBulkValidation))

		var body struct {
			Failures []models.UserFailure `json:"failures"`
		}
		require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &body))
		s.Require().Len(body.Failures, 1)
		s.Equal(1, body.Failures[0].Index)
	})

	s.Run("empty bulk list is rejected before the service", func() {
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/program/enrol/bulk", map[string]any{"programId": "do_p", "userIds": []string{}}), "admin", "")
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestBatchAdministration() {
	s.Run("create", func() {
		s.service.EXPECT().CreateBatch(gomock.Any(), gomock.Any(), id.CourseID("c1"), id.BatchID(""), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ models.RequestContext, courseID id.CourseID, _ id.BatchID, attrs models.BatchAttributes) (*models.CourseBatch, error) {
				s.Equal("Spring", attrs.Name)
				s.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), attrs.StartDate)
				s.Require().NotNil(attrs.EndDate)
				return &models.CourseBatch{BatchKey: models.BatchKey{CourseID: courseID, BatchID: "generated"}, BatchAttributes: attrs}, nil
			})
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/course/batch", map[string]any{
			"courseId":       "c1",
			"name":           "Spring",
			"enrollmentType": "open",
			"startDate":      "2024-03-01",
			"endDate":        "2024-06-01",
		}), "admin", "")
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "batchId", "generated")
	})

	s.Run("create rejects an unknown enrollment type", func() {
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/course/batch", map[string]any{
			"courseId": "c1", "name": "Spring", "enrollmentType": "closed", "startDate": "2024-03-01",
		}), "admin", "")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("create rejects an end before the start", func() {
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/course/batch", map[string]any{
			"courseId": "c1", "name": "Spring", "enrollmentType": "open", "startDate": "2024-03-01", "endDate": "2024-01-01",
		}), "admin", "")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("get not found", func() {
		s.service.EXPECT().GetBatch(gomock.Any(), models.BatchKey{CourseID: "c1", BatchID: "b9"}).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "batch not found"))
		rr := s.do(s.adminReq(http.MethodGet, "/v1/admin/course/batch/c1/b9", nil), "admin", "")
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})

	s.Run("delete", func() {
		s.service.EXPECT().DeleteBatch(gomock.Any(), models.BatchKey{CourseID: "c1", BatchID: "b1"}).Return(nil)
		rr := s.do(s.adminReq(http.MethodDelete, "/v1/admin/course/batch/c1/b1", nil), "admin", "")
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	})

	s.Run("reconcile all when no batch is named", func() {
		s.service.EXPECT().ReconcileAll(gomock.Any()).Return(nil, nil)
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/course/batch/reconcile", map[string]any{}), "admin", "")
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("reconcile all with an empty body", func() {
		s.service.EXPECT().ReconcileAll(gomock.Any()).Return([]models.ReconcileReport{}, nil)
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/course/batch/reconcile", nil), "admin", "")
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONHasKey(s.T(), rr, "reconciled")
	})

	s.Run("reconcile one batch", func() {
		key := models.BatchKey{CourseID: "c1", BatchID: "b1"}
		s.service.EXPECT().Reconcile(gomock.Any(), key).Return(&models.ReconcileReport{}, nil)
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/course/batch/reconcile", map[string]any{"courseId": "c1", "batchId": "b1"}), "admin", "")
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("reconcile rejects a malformed body", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/admin/course/batch/reconcile", `{"batchId":`)
		req.Header.Set(admin.HeaderAdminToken, adminToken)
		rr := s.do(req, "admin", "")
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestCertificateTemplates() {
	key := models.BatchKey{CourseID: "c1", BatchID: "b1"}

	s.Run("add", func() {
		s.templates.EXPECT().AddTemplate(gomock.Any(), key, "tmpl-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ models.BatchKey, _ string, t models.CertificateTemplate) error {
				s.Equal("Completion", t.Name)
				return nil
			})
		rr := s.do(s.adminReq(http.MethodPost, "/v1/admin/course/batch/cert/template", map[string]any{
			"courseId": "c1", "batchId": "b1", "templateId": "tmpl-1",
			"template": map[string]any{"name": "Completion"},
		}), "admin", "")
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	})

	s.Run("remove", func() {
		s.templates.EXPECT().RemoveTemplate(gomock.Any(), key, "tmpl-1").Return(nil)
		rr := s.do(s.adminReq(http.MethodDelete, "/v1/admin/course/batch/cert/template", map[string]any{
			"courseId": "c1", "batchId": "b1", "templateId": "tmpl-1",
		}), "admin", "")
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	})

	s.Run("list", func() {
		s.templates.EXPECT().ListTemplates(gomock.Any(), key).
			Return(map[string]models.CertificateTemplate{"tmpl-2": {Identifier: "tmpl-2", Name: "Merit"}}, nil)
		rr := s.do(s.adminReq(http.MethodGet, "/v1/admin/course/batch/c1/b1/cert/templates", nil), "admin", "")
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONHasKey(s.T(), rr, "templates")
	})
}

func TestBatchRequestDates(t *testing.T) {
	req := BatchRequest{Name: "x", EnrollmentType: "open", StartDate: "2024-03-01T10:00:00Z", EnrollmentEndDate: "2024-03-05"}
	attrs, err := req.Attributes()
	require.NoError(t, err)
	assert.Equal(t, 10, attrs.StartDate.Hour())
	require.NotNil(t, attrs.EnrollmentEndDate)
	assert.Nil(t, attrs.EndDate)

	req.StartDate = "March 1st"
	_, err = req.Attributes()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
