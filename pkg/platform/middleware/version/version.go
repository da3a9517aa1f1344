// Package version provides middleware for API version extraction.
package version

import (
	"net/http"

	id "coursebatch/pkg/domain"
	"coursebatch/pkg/requestcontext"
)

// ExtractVersion creates middleware that records the API version of a Chi subrouter.
// When using Chi's r.Route("/v2", ...), the version is already determined by the route match.
//
// Usage:
//
//	r.Route("/v2", func(v2 chi.Router) {
//	    v2.Use(version.ExtractVersion(id.APIVersionV2))
//	    // ... routes
//	})
func ExtractVersion(version id.APIVersion) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithAPIVersion(r.Context(), version)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
