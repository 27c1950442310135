package browse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the scenario context browse steps need.
type TestContext interface {
	Do(method, path string, body any) error
	LastStatus() int
	LastJSON() (map[string]any, error)
	SessionID() string
	SetSessionID(id string)
	SessionPath(suffix string) string
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	s := &browseSteps{tc: tc, names: map[string]string{}}
	ctx.Step(`^I open a browse session$`, s.openSession)
	ctx.Step(`^I search for "([^"]*)"$`, s.search)
	ctx.Step(`^the "([^"]*)" section should list (\d+) donations?$`, s.sectionShouldList)
	ctx.Step(`^every "([^"]*)" donation should match "([^"]*)"$`, s.everyDonationShouldMatch)
	ctx.Step(`^I request contact for the (medicine|equipment|blood) donation "([^"]*)"$`, s.requestContact)
	ctx.Step(`^I answer the eligibility screening with "(yes|no)"$`, s.answerScreening)
	ctx.Step(`^I cancel the eligibility screening$`, s.cancelScreening)
	ctx.Step(`^the contact state should be "([^"]*)"$`, s.contactStateShouldBe)
	ctx.Step(`^the revealed email should be "([^"]*)"$`, s.revealedEmailShouldBe)
	ctx.Step(`^I close the browse session$`, s.closeSession)
}

type browseSteps struct {
	tc TestContext
	// names maps display names to donation IDs seen in the last listing.
	names map[string]string
}

func (s *browseSteps) openSession(context.Context) error {
	if err := s.tc.Do("POST", "/browse/sessions", nil); err != nil {
		return err
	}
	if s.tc.LastStatus() != 201 {
		return fmt.Errorf("open session: status %d", s.tc.LastStatus())
	}
	body, err := s.tc.LastJSON()
	if err != nil {
		return err
	}
	sid, _ := body["session_id"].(string)
	if sid == "" {
		return errors.New("open session: no session_id")
	}
	s.tc.SetSessionID(sid)
	return s.remember(body)
}

func (s *browseSteps) search(_ context.Context, query string) error {
	if err := s.tc.Do("PUT", s.tc.SessionPath("/query"), map[string]string{"query": query}); err != nil {
		return err
	}
	body, err := s.tc.LastJSON()
	if err != nil {
		return err
	}
	return s.remember(body)
}

func (s *browseSteps) remember(snapshot map[string]any) error {
	for _, section := range []string{"medicine", "equipment", "blood"} {
		rows, _ := snapshot[section].([]any)
		for _, raw := range rows {
			row, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			idValue, _ := row["id"].(string)
			if name, _ := row["name"].(string); name != "" {
				s.names[name] = idValue
			}
			if bt, _ := row["blood_type"].(string); bt != "" {
				s.names[bt] = idValue
			}
		}
	}
	return nil
}

func (s *browseSteps) section(name string) ([]map[string]any, error) {
	if err := s.tc.Do("GET", s.tc.SessionPath("/donations"), nil); err != nil {
		return nil, err
	}
	body, err := s.tc.LastJSON()
	if err != nil {
		return nil, err
	}
	rows, _ := body[name].([]any)
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		if m, ok := r.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *browseSteps) sectionShouldList(_ context.Context, name string, n int) error {
	rows, err := s.section(name)
	if err != nil {
		return err
	}
	if len(rows) != n {
		return fmt.Errorf("expected %d %s donations, got %d", n, name, len(rows))
	}
	return nil
}

func (s *browseSteps) everyDonationShouldMatch(_ context.Context, name, needle string) error {
	rows, err := s.section(name)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if !containsFold(row, needle) {
			return fmt.Errorf("%s donation %v does not match %q", name, row["id"], needle)
		}
	}
	return nil
}

func containsFold(row map[string]any, needle string) bool {
	for _, key := range []string{"name", "blood_type", "location"} {
		if v, _ := row[key].(string); v != "" && strings.Contains(strings.ToLower(v), strings.ToLower(needle)) {
			return true
		}
	}
	return false
}

func (s *browseSteps) requestContact(_ context.Context, category, name string) error {
	donationID, ok := s.names[name]
	if !ok {
		return fmt.Errorf("no %s donation named %q in the last listing", category, name)
	}
	return s.tc.Do("POST", s.tc.SessionPath("/contact"), map[string]string{
		"category":    category,
		"donation_id": donationID,
	})
}

func (s *browseSteps) answerScreening(_ context.Context, answer string) error {
	return s.tc.Do("POST", s.tc.SessionPath("/contact/eligibility"), map[string]bool{"eligible": answer == "yes"})
}

func (s *browseSteps) cancelScreening(context.Context) error {
	return s.tc.Do("DELETE", s.tc.SessionPath("/contact/eligibility"), nil)
}

func (s *browseSteps) contactState() (map[string]any, error) {
	if err := s.tc.Do("GET", s.tc.SessionPath("/contact"), nil); err != nil {
		return nil, err
	}
	return s.tc.LastJSON()
}

func (s *browseSteps) contactStateShouldBe(_ context.Context, want string) error {
	state, err := s.contactState()
	if err != nil {
		return err
	}
	if got, _ := state["state"].(string); got != want {
		return fmt.Errorf("expected contact state %q, got %q", want, got)
	}
	return nil
}

func (s *browseSteps) revealedEmailShouldBe(_ context.Context, want string) error {
	state, err := s.contactState()
	if err != nil {
		return err
	}
	if got, _ := state["email"].(string); got != want {
		return fmt.Errorf("expected revealed email %q, got %q", want, got)
	}
	return nil
}

func (s *browseSteps) closeSession(context.Context) error {
	if s.tc.SessionID() == "" {
		return nil
	}
	return s.tc.Do("DELETE", s.tc.SessionPath(""), nil)
}
