package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the scenario context common steps need.
type TestContext interface {
	Authenticate() error
	Do(method, path string, body any) error
	LastStatus() int
	LastJSON() (map[string]any, error)
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	s := &commonSteps{tc: tc}
	ctx.Step(`^I am an authenticated user$`, s.authenticated)
	ctx.Step(`^the server is healthy$`, s.serverHealthy)
	ctx.Step(`^the response status should be (\d+)$`, s.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.fieldShouldBe)
	ctx.Step(`^the response should not contain "([^"]*)"$`, s.responseShouldNotContain)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) authenticated(context.Context) error {
	return s.tc.Authenticate()
}

func (s *commonSteps) serverHealthy(context.Context) error {
	if err := s.tc.Do("GET", "/health", nil); err != nil {
		return err
	}
	return s.statusShouldBe(context.Background(), 200)
}

func (s *commonSteps) statusShouldBe(_ context.Context, want int) error {
	if got := s.tc.LastStatus(); got != want {
		return fmt.Errorf("expected status %d, got %d", want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(_ context.Context, field, want string) error {
	body, err := s.tc.LastJSON()
	if err != nil {
		return err
	}
	got, ok := body[field]
	if !ok {
		return fmt.Errorf("response has no field %q", field)
	}
	if fmt.Sprint(got) != want {
		return fmt.Errorf("expected %s=%q, got %q", field, want, fmt.Sprint(got))
	}
	return nil
}

func (s *commonSteps) responseShouldNotContain(_ context.Context, field string) error {
	body, err := s.tc.LastJSON()
	if err != nil {
		return err
	}
	if _, ok := body[field]; ok {
		return fmt.Errorf("response unexpectedly contains %q", field)
	}
	return nil
}
