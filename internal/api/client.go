package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Error is returned by the client for non-2xx responses.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client provides typed access to the daemon HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for baseURL (e.g. http://127.0.0.1:7488).
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Status retrieves the daemon status.
func (c *Client) Status(ctx context.Context) (*DaemonStatus, error) {
	var resp DaemonStatus
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListProjects returns projects, newest first.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var resp ProjectListResponse
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// CreateProject creates a project and queues its first job.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*ProjectCreated, error) {
	var resp ProjectCreated
	if err := c.do(ctx, http.MethodPost, "/api/projects", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProject returns a project with its jobs and media.
func (c *Client) GetProject(ctx context.Context, id int64) (*ProjectDetail, error) {
	var resp ProjectDetail
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteProject removes a project and its jobs and media records.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+strconv.FormatInt(id, 10), nil, nil)
}

// CreateProjectJob queues a new job using the project's inputs.
func (c *Client) CreateProjectJob(ctx context.Context, projectID int64) (*Job, error) {
	var resp Job
	path := "/api/projects/" + strconv.FormatInt(projectID, 10) + "/jobs"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateJob queues a job with explicit inputs.
func (c *Client) CreateJob(ctx context.Context, req CreateJobRequest) (*Job, error) {
	var resp Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListJobs returns up to limit jobs, newest first. A non-positive limit uses
// the server default.
func (c *Client) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	path := "/api/jobs"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var resp JobListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// GetJob returns a single job.
func (c *Client) GetJob(ctx context.Context, id int64) (*Job, error) {
	var resp Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListMedia returns media records, newest first.
func (c *Client) ListMedia(ctx context.Context) ([]Media, error) {
	var resp MediaListResponse
	if err := c.do(ctx, http.MethodGet, "/api/media", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Media, nil
}

// MediaFileURL returns the download URL for a media record.
func (c *Client) MediaFileURL(id int64) string {
	return c.baseURL + "/api/media/" + strconv.FormatInt(id, 10) + "/file"
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contact daemon at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload errorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if json.Unmarshal(data, &payload) != nil || payload.Error == "" {
			payload.Error = strings.TrimSpace(string(data))
		}
		return &Error{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
