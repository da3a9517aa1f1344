package enrolment

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	AdminPOST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	GetUserID() string
	Scoped(name string) string
}

// RegisterSteps registers enrolment and course listing step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &enrolmentSteps{tc: tc}

	// Enrolment
	ctx.Step(`^I enrol in batch "([^"]*)" of course "([^"]*)"$`, steps.enrol)
	ctx.Step(`^I unenrol from batch "([^"]*)" of course "([^"]*)"$`, steps.unenrol)
	ctx.Step(`^an admin enrols user "([^"]*)" in batch "([^"]*)" of course "([^"]*)"$`, steps.adminEnrol)
	ctx.Step(`^I POST to "([^"]*)" with an empty body$`, steps.postEmpty)

	// Listing
	ctx.Step(`^I list my enrolled courses$`, steps.listMine)
	ctx.Step(`^I list my enrolled courses with batch details "([^"]*)"$`, steps.listMineWithBatchDetails)
	ctx.Step(`^I list the enrolled courses of "([^"]*)"$`, steps.listOf)
	ctx.Step(`^the list should contain (\d+) courses?$`, steps.listShouldContain)
	ctx.Step(`^the listed course "([^"]*)" should be in batch "([^"]*)"$`, steps.listedCourseInBatch)
	ctx.Step(`^every listed course should have batch detail "([^"]*)"$`, steps.everyCourseHasBatchDetail)
}

type enrolmentSteps struct {
	tc TestContext
}

func (s *enrolmentSteps) enrol(ctx context.Context, batchID, courseID string) error {
	return s.tc.POST("/v1/course/enrol", s.ids(batchID, courseID))
}

func (s *enrolmentSteps) unenrol(ctx context.Context, batchID, courseID string) error {
	return s.tc.POST("/v1/course/unenrol", s.ids(batchID, courseID))
}

func (s *enrolmentSteps) adminEnrol(ctx context.Context, user, batchID, courseID string) error {
	body := s.ids(batchID, courseID)
	body["userId"] = s.tc.Scoped(user)
	return s.tc.AdminPOST("/v1/admin/course/enrol", body)
}

func (s *enrolmentSteps) postEmpty(ctx context.Context, path string) error {
	return s.tc.POST(path, map[string]interface{}{})
}

func (s *enrolmentSteps) listMine(ctx context.Context) error {
	return s.tc.GET("/v2/user/courses/list/"+s.tc.GetUserID()+"?cache=false", nil)
}

func (s *enrolmentSteps) listMineWithBatchDetails(ctx context.Context, details string) error {
	return s.tc.GET(fmt.Sprintf("/v2/user/courses/list/%s?batchDetails=%s&cache=false", s.tc.GetUserID(), details), nil)
}

func (s *enrolmentSteps) listOf(ctx context.Context, user string) error {
	return s.tc.GET("/v2/user/courses/list/"+s.tc.Scoped(user)+"?cache=false", nil)
}

func (s *enrolmentSteps) listShouldContain(ctx context.Context, expected int) error {
	count, err := s.tc.GetResponseField("count")
	if err != nil {
		return err
	}
	if n, ok := count.(float64); !ok || int(n) != expected {
		return fmt.Errorf("expected %d courses, got %v", expected, count)
	}
	return nil
}

func (s *enrolmentSteps) listedCourseInBatch(ctx context.Context, courseID, batchID string) error {
	courses, err := s.courses()
	if err != nil {
		return err
	}
	for _, c := range courses {
		if c["courseId"] == s.tc.Scoped(courseID) {
			if c["batchId"] != s.tc.Scoped(batchID) {
				return fmt.Errorf("course %s listed in batch %v", courseID, c["batchId"])
			}
			return nil
		}
	}
	return fmt.Errorf("course %s not listed", courseID)
}

func (s *enrolmentSteps) everyCourseHasBatchDetail(ctx context.Context, field string) error {
	courses, err := s.courses()
	if err != nil {
		return err
	}
	for _, c := range courses {
		details, _ := c["batch"].(map[string]interface{})
		if _, ok := details[field]; !ok {
			return fmt.Errorf("course %v has no batch detail %q", c["courseId"], field)
		}
	}
	return nil
}

func (s *enrolmentSteps) courses() ([]map[string]interface{}, error) {
	raw, err := s.tc.GetResponseField("courses")
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("courses is not a list: %v", raw)
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		c, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected course entry: %v", item)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *enrolmentSteps) ids(batchID, courseID string) map[string]interface{} {
	return map[string]interface{}{
		"courseId": s.tc.Scoped(strings.TrimSpace(courseID)),
		"batchId":  s.tc.Scoped(strings.TrimSpace(batchID)),
	}
}
