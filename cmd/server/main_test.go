package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorlink/internal/browse"
	"donorlink/internal/catalog"
	"donorlink/internal/donation/store"
	jwttoken "donorlink/internal/jwt_token"
	"donorlink/internal/platform/config"
	"donorlink/pkg/platform/middleware/operator"
	"donorlink/pkg/testutil"
)

var (
	routerOnce sync.Once
	testRouter http.Handler
	testJWT    *jwttoken.JWTService
)

// sharedRouter builds the router once; its HTTP metrics register globally.
func sharedRouter() (http.Handler, *jwttoken.JWTService) {
	routerOnce.Do(func() {
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		cfg := config.FromEnv()
		cfg.OperatorToken = "op-token"

		deps := &infra{source: store.NewInMemoryStore()}
		loader := catalog.NewLoader(deps.source, catalog.WithLogger(log))
		svc := browse.NewService(browse.NewMemorySessionStore(time.Minute, nil), loader, browse.WithLogger(log))

		testJWT = jwttoken.NewJWTService("test-key", "donorlink", "donorlink-api")
		testRouter = newRouter(cfg, log, deps, svc, jwttoken.NewJWTServiceAdapter(testJWT))
	})
	return testRouter, testJWT
}

func TestRouter(t *testing.T) {
	router, jwtService := sharedRouter()

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	testutil.Given(t, "the donorlink router", func(t *testing.T) {
		testutil.When(t, "calling GET /health without backends", func(t *testing.T) {
			rec := serve(httptest.NewRequest(http.MethodGet, "/health", nil))

			testutil.Then(t, "it reports ok", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), `"status":"ok"`)
				assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			})
		})

		testutil.When(t, "calling GET /metrics", func(t *testing.T) {
			serve(httptest.NewRequest(http.MethodGet, "/health", nil))
			rec := serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))

			testutil.Then(t, "HTTP metrics are exposed", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), "donorlink_http_requests_total")
			})
		})

		testutil.When(t, "opening a session without a token", func(t *testing.T) {
			rec := serve(httptest.NewRequest(http.MethodPost, "/browse/sessions", nil))

			testutil.Then(t, "it is unauthorized", func(t *testing.T) {
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
			})
		})

		testutil.When(t, "opening a session with a valid token", func(t *testing.T) {
			token, err := jwtService.GenerateAccessToken(uuid.New(), time.Minute)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/browse/sessions", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := serve(req)

			testutil.Then(t, "an empty catalog session is created", func(t *testing.T) {
				assert.Equal(t, http.StatusCreated, rec.Code)
				assert.Contains(t, rec.Body.String(), `"session_id"`)
			})
		})

		testutil.When(t, "invalidating the cache with the operator token", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/catalog/invalidate", strings.NewReader("{}"))
			req.Header.Set(operator.HeaderOperatorToken, "op-token")
			rec := serve(req)

			testutil.Then(t, "it reports the missing cache", func(t *testing.T) {
				assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			})
		})
	})
}
