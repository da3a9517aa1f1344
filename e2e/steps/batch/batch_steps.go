package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	AdminPOST(path string, body interface{}) error
	AdminDELETE(path string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	Scoped(name string) string
}

// RegisterSteps registers batch administration step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &batchSteps{tc: tc}

	ctx.Step(`^an open batch "([^"]*)" exists for course "([^"]*)"$`, steps.openBatchExists)
	ctx.Step(`^an invite-only batch "([^"]*)" exists for course "([^"]*)"$`, steps.inviteOnlyBatchExists)
	ctx.Step(`^an open batch "([^"]*)" with (\d+) seats exists for course "([^"]*)"$`, steps.batchWithSeatsExists)
	ctx.Step(`^a batch "([^"]*)" for course "([^"]*)" whose enrolment closed yesterday$`, steps.closedBatchExists)
	ctx.Step(`^I delete batch "([^"]*)" of course "([^"]*)"$`, steps.deleteBatch)
	ctx.Step(`^I reconcile batch "([^"]*)" of course "([^"]*)"$`, steps.reconcileBatch)
}

type batchSteps struct {
	tc TestContext
}

func (s *batchSteps) openBatchExists(ctx context.Context, batchID, courseID string) error {
	return s.create(batchID, courseID, "open", 0, nil)
}

func (s *batchSteps) inviteOnlyBatchExists(ctx context.Context, batchID, courseID string) error {
	return s.create(batchID, courseID, "invite-only", 0, nil)
}

func (s *batchSteps) batchWithSeatsExists(ctx context.Context, batchID string, seats int, courseID string) error {
	return s.create(batchID, courseID, "open", seats, nil)
}

func (s *batchSteps) closedBatchExists(ctx context.Context, batchID, courseID string) error {
	yesterday := time.Now().AddDate(0, 0, -1)
	return s.create(batchID, courseID, "open", 0, &yesterday)
}

func (s *batchSteps) create(batchID, courseID, enrollmentType string, seats int, enrollmentEnd *time.Time) error {
	body := map[string]interface{}{
		"courseId":        s.tc.Scoped(courseID),
		"batchId":         s.tc.Scoped(batchID),
		"name":            "Batch " + batchID,
		"enrollmentType":  enrollmentType,
		"status":          1,
		"startDate":       time.Now().AddDate(0, 0, -7).Format(time.DateOnly),
		"maxParticipants": seats,
	}
	if enrollmentEnd != nil {
		body["enrollmentEndDate"] = enrollmentEnd.Format(time.DateOnly)
	}
	if err := s.tc.AdminPOST("/v1/admin/course/batch", body); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 201 {
		return fmt.Errorf("create batch %s returned %d: %s", batchID, status, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *batchSteps) deleteBatch(ctx context.Context, batchID, courseID string) error {
	return s.tc.AdminDELETE(fmt.Sprintf("/v1/admin/course/batch/%s/%s", s.tc.Scoped(courseID), s.tc.Scoped(batchID)))
}

func (s *batchSteps) reconcileBatch(ctx context.Context, batchID, courseID string) error {
	return s.tc.AdminPOST("/v1/admin/course/batch/reconcile", map[string]interface{}{
		"courseId": s.tc.Scoped(courseID),
		"batchId":  s.tc.Scoped(batchID),
	})
}
