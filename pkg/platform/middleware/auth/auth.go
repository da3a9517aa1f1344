// Package auth resolves caller identity for enrollment routes.
//
// The caller's own token arrives in x-authenticated-user-token (or an
// Authorization bearer header) and becomes requestedBy. A managed-user token in
// x-authenticated-for names the user the caller acts for and becomes
// requestedFor; it is only honoured when its parent is the caller.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "coursebatch/pkg/domain"
	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/httputil"
	"coursebatch/pkg/requestcontext"
)

const (
	HeaderUserToken = "X-Authenticated-User-Token"
	HeaderFor       = "X-Authenticated-For"
)

// TokenValidator validates a user token and returns its identity claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*TokenClaims, error)
}

// TokenClaims is the identity carried by a validated token.
type TokenClaims struct {
	UserID   string
	ParentID string
}

// RequireIdentity rejects requests without a valid user token and stores
// requestedBy / requestedFor in the request context.
func RequireIdentity(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token := userToken(r)
			if token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing user token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			ctx = requestcontext.WithRequestedBy(ctx, id.UserID(claims.UserID))

			if forToken := strings.TrimSpace(r.Header.Get(HeaderFor)); forToken != "" {
				managed, err := validator.ValidateToken(forToken)
				if err != nil || managed.ParentID != claims.UserID {
					logger.WarnContext(ctx, "unauthorized access - invalid managed user token",
						"request_id", requestID,
						"requested_by", claims.UserID,
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid managed user token"))
					return
				}
				ctx = requestcontext.WithRequestedFor(ctx, id.UserID(managed.UserID))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userToken(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(HeaderUserToken)); t != "" {
		return t
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
