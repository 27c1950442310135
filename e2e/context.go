package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TestContext holds per-scenario HTTP state against a running server.
type TestContext struct {
	BaseURL    string
	SigningKey string
	Issuer     string
	Audience   string

	client      *http.Client
	accessToken string
	sessionID   string

	lastStatus int
	lastBody   []byte
}

func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL:    envOr("DONORLINK_E2E_URL", "http://localhost:8080"),
		SigningKey: envOr("DONORLINK_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Issuer:     envOr("DONORLINK_JWT_ISSUER", "donorlink"),
		Audience:   envOr("DONORLINK_JWT_AUDIENCE", "donorlink-api"),
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (tc *TestContext) Reset() {
	tc.accessToken = ""
	tc.sessionID = ""
	tc.lastStatus = 0
	tc.lastBody = nil
}

// Authenticate mints a token for a fresh user, signed like the identity provider would.
func (tc *TestContext) Authenticate() error {
	userID := uuid.NewString()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"sub":     userID,
		"iss":     tc.Issuer,
		"aud":     []string{tc.Audience},
		"iat":     now.Unix(),
		"exp":     now.Add(10 * time.Minute).Unix(),
		"jti":     uuid.NewString(),
	})
	signed, err := token.SignedString([]byte(tc.SigningKey))
	if err != nil {
		return err
	}
	tc.accessToken = signed
	return nil
}

func (tc *TestContext) GetAccessToken() string { return tc.accessToken }

func (tc *TestContext) SessionID() string { return tc.sessionID }

func (tc *TestContext) SetSessionID(id string) { tc.sessionID = id }

// SessionPath prefixes suffix with the current session's resource path.
func (tc *TestContext) SessionPath(suffix string) string {
	return "/browse/sessions/" + tc.sessionID + suffix
}

func (tc *TestContext) Do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, strings.TrimRight(tc.BaseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) LastStatus() int { return tc.lastStatus }

// LastJSON decodes the last response body as an object.
func (tc *TestContext) LastJSON() (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(tc.lastBody, &out); err != nil {
		return nil, fmt.Errorf("decode response %q: %w", tc.lastBody, err)
	}
	return out, nil
}
