package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/httputil"
	"coursebatch/pkg/requestcontext"
)

// HeaderAdminToken carries the shared operator token for /admin routes.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken guards admin-only enrollment routes (enrolling other users,
// bulk program enrollment, batch and certificate template administration).
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderAdminToken)
			// Constant-time comparison; an unset expected token rejects everything.
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin token required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
