package testutil

import (
	"net/http"

	id "coursebatch/pkg/domain"
	"coursebatch/pkg/requestcontext"
)

// WithIdentity sets both the caller and the managed user it acts for.
func WithIdentity(req *http.Request, requestedBy, requestedFor string) *http.Request {
	ctx := requestcontext.WithRequestedBy(req.Context(), id.UserID(requestedBy))
	if requestedFor != "" {
		ctx = requestcontext.WithRequestedFor(ctx, id.UserID(requestedFor))
	}
	return req.WithContext(ctx)
}
