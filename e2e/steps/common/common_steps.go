package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	SignToken(userID, parentID string) (string, error)
	SetUser(userID, token string)
	SetManagedToken(token string)
	Scoped(name string) string
}

// RegisterSteps registers identity, health and generic assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	// Identity
	ctx.Step(`^I am user "([^"]*)"$`, steps.iAmUser)
	ctx.Step(`^I act for managed user "([^"]*)"$`, steps.actForManagedUser)
	ctx.Step(`^I send an invalid user token$`, steps.invalidUserToken)

	// Service
	ctx.Step(`^the service is healthy$`, steps.serviceIsHealthy)

	// Assertions
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.responseFieldShouldEqual)
	ctx.Step(`^the error should be "([^"]*)"$`, steps.errorShouldBe)
}

type commonSteps struct {
	tc     TestContext
	userID string
}

func (s *commonSteps) iAmUser(ctx context.Context, name string) error {
	s.userID = s.tc.Scoped(name)
	token, err := s.tc.SignToken(s.userID, "")
	if err != nil {
		return err
	}
	s.tc.SetUser(s.userID, token)
	return nil
}

func (s *commonSteps) actForManagedUser(ctx context.Context, name string) error {
	if s.userID == "" {
		return fmt.Errorf("no parent user set")
	}
	token, err := s.tc.SignToken(s.tc.Scoped(name), s.userID)
	if err != nil {
		return err
	}
	s.tc.SetManagedToken(token)
	return nil
}

func (s *commonSteps) invalidUserToken(ctx context.Context) error {
	s.tc.SetUser("", "not-a-jwt")
	return nil
}

func (s *commonSteps) serviceIsHealthy(ctx context.Context) error {
	if err := s.tc.GET("/health", nil); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("health check returned %d: %s", status, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) responseStatusShouldBe(ctx context.Context, expected int) error {
	if actual := s.tc.GetLastResponseStatus(); actual != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, actual, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) responseFieldShouldEqual(ctx context.Context, field, expected string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(v) != expected {
		return fmt.Errorf("expected %s=%q, got %v", field, expected, v)
	}
	return nil
}

func (s *commonSteps) errorShouldBe(ctx context.Context, code string) error {
	return s.responseFieldShouldEqual(ctx, "error", code)
}
