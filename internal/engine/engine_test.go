package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/repository"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *fakeClock) {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "tracker.db"), false)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := &fakeClock{now: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now), WithLocation(time.UTC)}, opts...)
	return New(db, opts...), clock
}

// seed creates project "acme" with default task "dev".
func seed(t *testing.T, e *Engine) (*models.Project, *models.Task) {
	t.Helper()
	ctx := context.Background()
	project, err := e.CreateProject(ctx, CatalogInput{Name: "acme"})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	task, err := e.CreateTask(ctx, "acme", TaskInput{Name: "dev", Default: true})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	return project, task
}

func TestHealth(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Health(); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}
