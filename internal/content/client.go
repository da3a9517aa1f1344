package content

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	dErrors "coursebatch/pkg/domain-errors"
	"coursebatch/pkg/platform/sentinel"
)

// Client reads the content hierarchy service over HTTP.
type Client struct {
	http *resty.Client
}

type childrenResponse struct {
	Result struct {
		Children []Node `json:"children"`
	} `json:"result"`
}

type courseResponse struct {
	Result struct {
		Content map[string]any `json:"content"`
	} `json:"result"`
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetRetryCount(2).
			SetRetryWaitTime(100 * time.Millisecond),
	}
}

// GetProgramChildren returns the direct children of programID.
func (c *Client) GetProgramChildren(ctx context.Context, programID string) ([]Node, error) {
	var out childrenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("programId", programID).
		SetResult(&out).
		Get("/program/v1/children/{programId}")
	if err := checkResponse("program children", resp, err); err != nil {
		return nil, err
	}
	return out.Result.Children, nil
}

// GetCourse returns the course attributes restricted to fields.
func (c *Client) GetCourse(ctx context.Context, courseID string, fields []string) (map[string]any, error) {
	var out courseResponse
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("courseId", courseID).
		SetResult(&out)
	if len(fields) > 0 {
		req.SetQueryParam("fields", strings.Join(fields, ","))
	}
	resp, err := req.Get("/course/v1/read/{courseId}")
	if err := checkResponse("course read", resp, err); err != nil {
		return nil, err
	}
	return Project(out.Result.Content, fields), nil
}

func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return dErrors.Wrap(fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err), dErrors.CodeStore, op+" failed")
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	case resp.IsError():
		return dErrors.Wrap(fmt.Errorf("%w: status %d", sentinel.ErrUnavailable, resp.StatusCode()), dErrors.CodeStore, op+" failed")
	}
	return nil
}
