// Package operator guards maintenance endpoints behind a shared operator token.
package operator

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/platform/httputil"
	request "donorlink/pkg/platform/middleware/request"
)

// HeaderOperatorToken carries the operator token.
const HeaderOperatorToken = "X-Operator-Token"

// RequireToken rejects requests whose operator token does not match expected.
// An empty expected token disables the guarded routes entirely.
func RequireToken(expected string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if expected == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "operator endpoints are disabled"))
				return
			}
			token := r.Header.Get(HeaderOperatorToken)
			if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
				logger.WarnContext(ctx, "operator token mismatch",
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "operator token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
