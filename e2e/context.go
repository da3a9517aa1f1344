package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestContext holds the state shared by the steps of one scenario: the
// identity the requests are sent as and the last response received.
type TestContext struct {
	BaseURL    string
	AdminToken string
	signingKey []byte
	issuer     string
	client     *http.Client
	runID      string

	userID    string
	userToken string
	forToken  string

	lastStatus int
	lastBody   []byte
	lastJSON   map[string]any
}

// NewTestContext reads the target server settings from the environment.
func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL:    envOr("E2E_BASE_URL", "http://localhost:8080"),
		AdminToken: envOr("E2E_ADMIN_TOKEN", "e2e-admin-token"),
		signingKey: []byte(envOr("E2E_JWT_SIGNING_KEY", "dev-secret-key-change-in-production")),
		issuer:     envOr("E2E_JWT_ISSUER", "coursebatch"),
		client:     &http.Client{Timeout: 10 * time.Second},
		runID:      strconv.FormatInt(time.Now().UnixNano(), 36),
	}
}

// Scoped suffixes a feature-level id with the run id so repeated runs against
// the same store do not collide.
func (tc *TestContext) Scoped(name string) string {
	return name + "-" + tc.runID
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.userID, tc.userToken, tc.forToken = "", "", ""
	tc.lastStatus, tc.lastBody, tc.lastJSON = 0, nil, nil
}

func (tc *TestContext) SignToken(userID, parentID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": tc.issuer,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if parentID != "" {
		claims["parentId"] = parentID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.signingKey)
}

func (tc *TestContext) SetUser(userID, token string) {
	tc.userID = userID
	tc.userToken = token
	tc.forToken = ""
}

func (tc *TestContext) SetManagedToken(token string) { tc.forToken = token }

func (tc *TestContext) GetUserID() string { return tc.userID }

func (tc *TestContext) POST(path string, body interface{}) error {
	return tc.do(http.MethodPost, path, body, nil)
}

func (tc *TestContext) AdminPOST(path string, body interface{}) error {
	return tc.do(http.MethodPost, path, body, map[string]string{"X-Admin-Token": tc.AdminToken})
}

func (tc *TestContext) AdminDELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil, map[string]string{"X-Admin-Token": tc.AdminToken})
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers)
}

func (tc *TestContext) do(method, path string, body interface{}, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, strings.TrimRight(tc.BaseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.userToken != "" {
		req.Header.Set("X-Authenticated-User-Token", tc.userToken)
	}
	if tc.forToken != "" {
		req.Header.Set("X-Authenticated-For", tc.forToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastJSON = nil
	if len(tc.lastBody) > 0 {
		var decoded map[string]any
		if json.Unmarshal(tc.lastBody, &decoded) == nil {
			tc.lastJSON = decoded
		}
	}
	return nil
}

func (tc *TestContext) GetLastResponseStatus() int { return tc.lastStatus }

func (tc *TestContext) GetLastResponseBody() []byte { return tc.lastBody }

func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	if tc.lastJSON == nil {
		return nil, fmt.Errorf("response is not a JSON object: %s", tc.lastBody)
	}
	v, ok := tc.lastJSON[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response: %s", field, tc.lastBody)
	}
	return v, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
