// Package engine implements the tracking engine: the catalog of projects,
// tasks and tags, the single global timer and the report aggregator.
package engine

import (
	"context"
	"time"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/repository"
)

// Service is the surface every front end (CLI, HTTP, MCP) drives.
// *Engine implements it against the store, api.Client against a remote server.
type Service interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, in CatalogInput) (*models.Project, error)
	GetProject(ctx context.Context, ref string) (*models.Project, error)
	UpdateProject(ctx context.Context, ref string, up CatalogUpdate) (*models.Project, error)
	DeleteProject(ctx context.Context, ref string) (bool, error)

	ListTasks(ctx context.Context, projectRef string) ([]models.Task, error)
	CreateTask(ctx context.Context, projectRef string, in TaskInput) (*models.Task, error)
	GetTask(ctx context.Context, projectRef, ref string) (*models.Task, error)
	UpdateTask(ctx context.Context, projectRef, ref string, up TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, projectRef, ref string) (bool, error)

	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, in CatalogInput) (*models.Tag, error)
	GetTag(ctx context.Context, ref string) (*models.Tag, error)
	UpdateTag(ctx context.Context, ref string, up CatalogUpdate) (*models.Tag, error)
	DeleteTag(ctx context.Context, ref string) (bool, error)

	Start(ctx context.Context, req StartRequest) (*models.Entry, error)
	Stop(ctx context.Context) (*models.Entry, error)
	Status(ctx context.Context) (*models.Entry, error)
	Today(ctx context.Context) ([]models.Report, error)
	Report(ctx context.Context, days int) ([]models.Report, error)
}

// CatalogInput creates a project or a tag.
type CatalogInput struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color,omitempty"`
}

// CatalogUpdate changes a project or a tag; nil fields are left alone.
type CatalogUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// TaskInput creates a task.
type TaskInput struct {
	Name    string `json:"name" binding:"required"`
	Color   string `json:"color,omitempty"`
	Default bool   `json:"default"`
}

// TaskUpdate changes a task; nil fields are left alone.
type TaskUpdate struct {
	Name    *string `json:"name,omitempty"`
	Color   *string `json:"color,omitempty"`
	Default *bool   `json:"default,omitempty"`
}

// StartRequest starts the timer. An empty Task selects the project's default task.
type StartRequest struct {
	Project     string   `json:"project"`
	Task        string   `json:"task,omitempty"`
	Description string   `json:"description,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Engine is the store-backed Service.
type Engine struct {
	db  *repository.Database
	loc *time.Location
	now func() time.Time
}

var _ Service = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the zone used to find "today" for reports.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an Engine over db.
func New(db *repository.Database, opts ...Option) *Engine {
	e := &Engine{db: db, loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Health reports whether the store is reachable.
func (e *Engine) Health() error {
	return e.db.Health()
}

// clock is the current instant as stored: UTC, whole seconds.
func (e *Engine) clock() time.Time {
	return e.now().UTC().Truncate(time.Second)
}
