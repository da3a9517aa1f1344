package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"coursebatch/pkg/requestcontext"
)

// tokenTable validates tokens by lookup.
type tokenTable map[string]*TokenClaims

func (t tokenTable) ValidateToken(token string) (*TokenClaims, error) {
	if c, ok := t[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

type RequireIdentitySuite struct {
	suite.Suite
	handler http.Handler
	reached bool
	by      string
	forUser string
}

func TestRequireIdentitySuite(t *testing.T) {
	suite.Run(t, new(RequireIdentitySuite))
}

func (s *RequireIdentitySuite) SetupTest() {
	tokens := tokenTable{
		"parent-token":   {UserID: "parent"},
		"stranger-token": {UserID: "stranger"},
		"child-token":    {UserID: "child", ParentID: "parent"},
		"orphan-token":   {UserID: "orphan"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.reached, s.by, s.forUser = false, "", ""
	s.handler = RequireIdentity(tokens, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.reached = true
		s.by = requestcontext.RequestedBy(r.Context()).String()
		s.forUser = requestcontext.RequestedFor(r.Context()).String()
		w.WriteHeader(http.StatusOK)
	}))
}

func (s *RequireIdentitySuite) serve(headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/user/courses/list/child", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *RequireIdentitySuite) TestCallerToken() {
	s.Run("missing token", func() {
		s.SetupTest()
		rr := s.serve(nil)
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.False(s.reached)
	})

	s.Run("invalid token", func() {
		s.SetupTest()
		rr := s.serve(map[string]string{HeaderUserToken: "forged"})
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.False(s.reached)
	})

	s.Run("bearer header is accepted", func() {
		s.SetupTest()
		rr := s.serve(map[string]string{"Authorization": "Bearer parent-token"})
		s.Equal(http.StatusOK, rr.Code)
		s.Equal("parent", s.by)
		s.Empty(s.forUser)
	})
}

func (s *RequireIdentitySuite) TestManagedUser() {
	s.Run("parent acts for its managed user", func() {
		s.SetupTest()
		rr := s.serve(map[string]string{HeaderUserToken: "parent-token", HeaderFor: "child-token"})
		s.Equal(http.StatusOK, rr.Code)
		s.Equal("parent", s.by)
		s.Equal("child", s.forUser)
	})

	s.Run("managed token of another parent is rejected", func() {
		s.SetupTest()
		rr := s.serve(map[string]string{HeaderUserToken: "stranger-token", HeaderFor: "child-token"})
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.Contains(rr.Body.String(), "invalid managed user token")
		s.False(s.reached)
	})

	s.Run("managed token without a parent is rejected", func() {
		s.SetupTest()
		rr := s.serve(map[string]string{HeaderUserToken: "parent-token", HeaderFor: "orphan-token"})
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.False(s.reached)
	})

	s.Run("invalid managed token is rejected", func() {
		s.SetupTest()
		rr := s.serve(map[string]string{HeaderUserToken: "parent-token", HeaderFor: "forged"})
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.False(s.reached)
	})
}
