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

	"github.com/kutbudev/tracker/internal/engine"
	"github.com/kutbudev/tracker/internal/models"
)

// Client talks to a running trackerd. It implements engine.Service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ engine.Service = (*Client)(nil)

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError is the server's error body.
type apiError struct {
	Detail  string `json:"detail"`
	Kind    string `json:"kind"`
	Model   string `json:"model"`
	Ref     string `json:"ref"`
	Project string `json:"project"`
	Task    string `json:"task"`
}

// makeRequest sends body as JSON and decodes the reply into out.
// It returns the status code so callers can tell 204 from 200.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body, out interface{}) (int, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, models.StorageError(fmt.Errorf("failed to make request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, models.StorageError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode >= 400 {
		return resp.StatusCode, decodeError(resp.StatusCode, respBody)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, models.StorageError(fmt.Errorf("failed to unmarshal response: %w", err))
		}
	}
	return resp.StatusCode, nil
}

// decodeError rebuilds a typed error from the server's reply.
func decodeError(status int, body []byte) error {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil || e.Detail == "" {
		return models.StorageError(fmt.Errorf("API error (status %d): %s", status, string(body)))
	}
	kind := models.KindFromName(e.Kind)
	if kind == nil {
		kind = models.ErrStorage
	}
	return &models.Error{
		Kind:    kind,
		Model:   e.Model,
		Ref:     e.Ref,
		Project: e.Project,
		Task:    e.Task,
		Message: e.Detail,
	}
}

func path(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return "/" + strings.Join(escaped, "/")
}

// Projects

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	_, err := c.makeRequest(ctx, http.MethodGet, "/projects", nil, &projects)
	return projects, err
}

func (c *Client) CreateProject(ctx context.Context, in engine.CatalogInput) (*models.Project, error) {
	var project models.Project
	if _, err := c.makeRequest(ctx, http.MethodPost, "/projects", in, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) GetProject(ctx context.Context, ref string) (*models.Project, error) {
	var project models.Project
	if _, err := c.makeRequest(ctx, http.MethodGet, path("projects", ref), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) UpdateProject(ctx context.Context, ref string, up engine.CatalogUpdate) (*models.Project, error) {
	var project models.Project
	if _, err := c.makeRequest(ctx, http.MethodPatch, path("projects", ref), up, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, ref string) (bool, error) {
	return c.delete(ctx, path("projects", ref))
}

// Tasks

func (c *Client) ListTasks(ctx context.Context, projectRef string) ([]models.Task, error) {
	if projectRef == "" {
		return c.listAllTasks(ctx)
	}
	var tasks []models.Task
	_, err := c.makeRequest(ctx, http.MethodGet, path("projects", projectRef, "tasks"), nil, &tasks)
	return tasks, err
}

// listAllTasks has no route of its own; it walks every project.
func (c *Client) listAllTasks(ctx context.Context) ([]models.Task, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	for _, p := range projects {
		pt, err := c.ListTasks(ctx, p.ID.String())
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, pt...)
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, projectRef string, in engine.TaskInput) (*models.Task, error) {
	var task models.Task
	if _, err := c.makeRequest(ctx, http.MethodPost, path("projects", projectRef, "tasks"), in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) GetTask(ctx context.Context, projectRef, ref string) (*models.Task, error) {
	var task models.Task
	if _, err := c.makeRequest(ctx, http.MethodGet, path("projects", projectRef, "tasks", ref), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, projectRef, ref string, up engine.TaskUpdate) (*models.Task, error) {
	var task models.Task
	if _, err := c.makeRequest(ctx, http.MethodPatch, path("projects", projectRef, "tasks", ref), up, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, projectRef, ref string) (bool, error) {
	return c.delete(ctx, path("projects", projectRef, "tasks", ref))
}

// Tags

func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	_, err := c.makeRequest(ctx, http.MethodGet, "/tags", nil, &tags)
	return tags, err
}

func (c *Client) CreateTag(ctx context.Context, in engine.CatalogInput) (*models.Tag, error) {
	var tag models.Tag
	if _, err := c.makeRequest(ctx, http.MethodPost, "/tags", in, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) GetTag(ctx context.Context, ref string) (*models.Tag, error) {
	var tag models.Tag
	if _, err := c.makeRequest(ctx, http.MethodGet, path("tags", ref), nil, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) UpdateTag(ctx context.Context, ref string, up engine.CatalogUpdate) (*models.Tag, error) {
	var tag models.Tag
	if _, err := c.makeRequest(ctx, http.MethodPatch, path("tags", ref), up, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) DeleteTag(ctx context.Context, ref string) (bool, error) {
	return c.delete(ctx, path("tags", ref))
}

// delete maps 404 to (false, nil) like the engine does.
func (c *Client) delete(ctx context.Context, endpoint string) (bool, error) {
	status, err := c.makeRequest(ctx, http.MethodDelete, endpoint, nil, nil)
	if status == http.StatusNotFound && errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Timer

func (c *Client) Start(ctx context.Context, req engine.StartRequest) (*models.Entry, error) {
	endpoint := path("timer", "start", req.Project)
	if req.Task != "" {
		endpoint = path("timer", "start", req.Project, req.Task)
	}
	body := map[string]interface{}{
		"description": req.Description,
		"notes":       req.Notes,
		"tags":        req.Tags,
	}
	var entry models.Entry
	if _, err := c.makeRequest(ctx, http.MethodPost, endpoint, body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) Stop(ctx context.Context) (*models.Entry, error) {
	var entry models.Entry
	if _, err := c.makeRequest(ctx, http.MethodPost, "/timer/stop", nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) Status(ctx context.Context) (*models.Entry, error) {
	var entry models.Entry
	status, err := c.makeRequest(ctx, http.MethodGet, "/timer/status", nil, &entry)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &entry, nil
}

func (c *Client) Today(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	_, err := c.makeRequest(ctx, http.MethodGet, "/timer/today", nil, &reports)
	return reports, err
}

func (c *Client) Report(ctx context.Context, days int) ([]models.Report, error) {
	var reports []models.Report
	_, err := c.makeRequest(ctx, http.MethodGet, "/timer/report?days="+strconv.Itoa(days), nil, &reports)
	return reports, err
}
