package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorlink/internal/browse"
	"donorlink/internal/catalog"
	"donorlink/internal/contact/eligibility"
	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
)

func fixtureSession(t *testing.T, screen *eligibility.Async) *browse.Session {
	t.Helper()
	session := browse.NewSession(id.NewBrowseSessionID(), id.UserID{}, screen, time.Now())
	f := session.Filter()
	f.Set(models.CategoryMedicine, []models.DonationRecord{
		{ID: "m1", Category: models.CategoryMedicine, Name: "Insulin", Quantity: 2, ContactEmail: "insulin@example.org"},
		{ID: "m2", Category: models.CategoryMedicine, Name: "Aspirin", Quantity: 10, ContactEmail: "aspirin@example.org"},
		{ID: "m3", Category: models.CategoryMedicine, Name: "Adderall", Quantity: 1, ContactEmail: "adderall@example.org"},
	})
	f.Set(models.CategoryEquipment, []models.DonationRecord{
		{ID: "e1", Category: models.CategoryEquipment, Name: "Wheelchair", Condition: "used", ContactEmail: "chair@example.org"},
	})
	f.Set(models.CategoryBlood, nil)
	return session
}

func fixedAsker(eligible bool) eligibility.Asker {
	return func(context.Context, string) (bool, error) { return eligible, nil }
}

func TestRunContact(t *testing.T) {
	t.Run("unrestricted medicine reveals without a prompt", func(t *testing.T) {
		screen := eligibility.NewAsync(func(context.Context, string) (bool, error) {
			t.Error("asker must not run for unrestricted items")
			return false, nil
		})
		session := fixtureSession(t, screen)
		rec, err := session.Find(models.CategoryMedicine, "m2")
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, runContact(context.Background(), &out, session, screen.Verdicts(), rec))
		assert.Contains(t, out.String(), "aspirin@example.org")
		assert.True(t, session.ContactState().IsRevealedFor("aspirin@example.org"))
	})

	t.Run("eligible answer reveals a restricted medicine", func(t *testing.T) {
		screen := eligibility.NewAsync(fixedAsker(true))
		session := fixtureSession(t, screen)
		rec, err := session.Find(models.CategoryMedicine, "m3")
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, runContact(context.Background(), &out, session, screen.Verdicts(), rec))
		assert.Contains(t, out.String(), "adderall@example.org")
		assert.True(t, session.ContactState().IsRevealedFor("adderall@example.org"))
	})

	t.Run("ineligible answer shows the notice", func(t *testing.T) {
		screen := eligibility.NewAsync(fixedAsker(false))
		session := fixtureSession(t, screen)
		rec, err := session.Find(models.CategoryMedicine, "m3")
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, runContact(context.Background(), &out, session, screen.Verdicts(), rec))
		assert.NotContains(t, out.String(), "adderall@example.org")
		assert.Contains(t, out.String(), "not eligible")
		assert.True(t, session.ContactState().IsIdle())
	})

	t.Run("cancelling dismisses the screening", func(t *testing.T) {
		screen := eligibility.NewAsync(func(ctx context.Context, _ string) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		})
		session := fixtureSession(t, screen)
		rec, err := session.Find(models.CategoryMedicine, "m3")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		var out bytes.Buffer
		require.NoError(t, runContact(ctx, &out, session, screen.Verdicts(), rec))
		assert.Contains(t, out.String(), "cancelled")
		assert.True(t, session.ContactState().IsIdle())
	})

	t.Run("asker failure cancels and reports", func(t *testing.T) {
		screen := eligibility.NewAsync(func(context.Context, string) (bool, error) {
			return false, errors.New("terminal closed")
		})
		session := fixtureSession(t, screen)
		rec, err := session.Find(models.CategoryMedicine, "m3")
		require.NoError(t, err)

		err = runContact(context.Background(), &bytes.Buffer{}, session, screen.Verdicts(), rec)
		require.Error(t, err)
		assert.True(t, session.ContactState().IsIdle())
		assert.False(t, session.ContactState().IsRevealedFor("adderall@example.org"))
	})
}

func TestTerminalAsker(t *testing.T) {
	cases := map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		" yes ":   true,
		"n\n":     false,
		"\n":      false,
		"maybe\n": false,
		"":        false,
	}
	for input, want := range cases {
		var prompt bytes.Buffer
		ask := terminalAsker(strings.NewReader(input), &prompt)
		got, err := ask(context.Background(), "Insulin")
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
		assert.Contains(t, prompt.String(), "Insulin")
	}
}

func TestRenderSections(t *testing.T) {
	session := fixtureSession(t, nil)
	session.SetSearchQuery("r")

	var out bytes.Buffer
	report := catalog.LoadReport{Failed: []models.Category{models.CategoryBlood}}
	require.NoError(t, renderSections(&out, session, report))

	text := out.String()
	assert.Contains(t, text, `Results for "r"`)
	assert.Contains(t, text, "Adderall *")
	assert.Contains(t, text, "Aspirin")
	assert.NotContains(t, text, "Aspirin *")
	assert.NotContains(t, text, "Insulin")
	assert.Contains(t, text, "Wheelchair")
	assert.Contains(t, text, "unavailable")
	assert.NotContains(t, text, "@example.org")
}

func TestSettings(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("postgres_dsn", "postgres://localhost/donorlink")
	v.Set("catalog.fetch_timeout", "3s")

	cfg := settings(v)
	assert.Equal(t, "postgres://localhost/donorlink", cfg.PostgresDSN)
	assert.Equal(t, 3*time.Second, cfg.Catalog.FetchTimeout)
	assert.Equal(t, time.Minute, cfg.Catalog.CacheTTL)
}

func TestSeedDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
medicineDonations:
  k1: {medicineName: Insulin, quantity: "2", email: a@example.org}
bloodDonations:
  k2: {bloodType: O+, age: 30, location: Leeds, email: b@example.org}
`), 0o600))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"seed", "--dry-run", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "medicine")
	assert.Contains(t, out.String(), "blood")
	assert.NotContains(t, out.String(), "imported")
}

func TestSeedRequiresPostgres(t *testing.T) {
	t.Setenv("DONORLINK_POSTGRES_DSN", "")
	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, os.WriteFile(path, []byte("medicineDonations: {}\n"), 0o600))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"seed", path})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}
