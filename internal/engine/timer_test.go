package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kutbudev/tracker/internal/models"
)

func TestStartWithDefaultTask(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	seed(t, e)

	entry, err := e.Start(ctx, StartRequest{Project: "acme", Description: "fix login", Notes: "ticket 42"})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if entry.Task.Name != "dev" || entry.Project.Name != "acme" {
		t.Errorf("Start() entry = %s/%s, want acme/dev", entry.Project.Name, entry.Task.Name)
	}
	if !entry.Running() || entry.Duration != 0 {
		t.Errorf("Start() entry running = %v duration = %d", entry.Running(), entry.Duration)
	}
	if entry.Description != "fix login" || entry.Notes != "ticket 42" {
		t.Errorf("Start() description/notes = %q/%q", entry.Description, entry.Notes)
	}

	_, err = e.Start(ctx, StartRequest{Project: "acme", Task: "dev"})
	if !errors.Is(err, models.ErrTimerAlreadyRunning) {
		t.Fatalf("second Start() error = %v, want ErrTimerAlreadyRunning", err)
	}
	var merr *models.Error
	if !errors.As(err, &merr) || merr.Project != "acme" || merr.Task != "dev" {
		t.Errorf("TimerAlreadyRunning carries %+v, want acme/dev", merr)
	}
}

func TestStartUnknownReferences(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	seed(t, e)

	tests := []struct {
		name string
		req  StartRequest
		want error
	}{
		{"missing project", StartRequest{Project: "nope"}, models.ErrNotFound},
		{"missing task", StartRequest{Project: "acme", Task: "nope"}, models.ErrNotFound},
		{"missing tag", StartRequest{Project: "acme", Tags: []string{"nope"}}, models.ErrNotFound},
		{"empty project", StartRequest{}, models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Start(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Start(%+v) error = %v, want %v", tt.req, err, tt.want)
			}
		})
	}

	status, err := e.Status(ctx)
	if err != nil || status != nil {
		t.Errorf("Status() after failed starts = %v, %v, want nil, nil", status, err)
	}
}

func TestStopComputesDuration(t *testing.T) {
	e, clock := newTestEngine(t)
	ctx := context.Background()
	seed(t, e)

	if _, err := e.Start(ctx, StartRequest{Project: "acme"}); err != nil {
		t.Fatal(err)
	}
	clock.Advance(90*time.Second + 700*time.Millisecond)

	entry, err := e.Stop(ctx)
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if entry.Running() {
		t.Error("Stop() entry still running")
	}
	if entry.Duration != 90 {
		t.Errorf("Duration = %d, want 90", entry.Duration)
	}
	if entry.Project == nil || entry.Task == nil {
		t.Error("Stop() entry should carry project and task")
	}

	if _, err := e.Stop(ctx); !errors.Is(err, models.ErrTimerIsNotRunning) {
		t.Errorf("second Stop() error = %v, want ErrTimerIsNotRunning", err)
	}
}

func TestStopClampsNegativeDuration(t *testing.T) {
	e, clock := newTestEngine(t)
	ctx := context.Background()
	seed(t, e)

	if _, err := e.Start(ctx, StartRequest{Project: "acme"}); err != nil {
		t.Fatal(err)
	}
	// wall clock stepped backwards
	clock.Advance(-time.Hour)

	entry, err := e.Stop(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Duration != 0 {
		t.Errorf("Duration = %d, want 0", entry.Duration)
	}
}

func TestStatus(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	seed(t, e)

	status, err := e.Status(ctx)
	if err != nil || status != nil {
		t.Fatalf("Status() idle = %v, %v", status, err)
	}

	started, err := e.Start(ctx, StartRequest{Project: "acme"})
	if err != nil {
		t.Fatal(err)
	}
	status, err = e.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if status == nil || status.ID != started.ID {
		t.Errorf("Status() = %v, want entry %s", status, started.ID)
	}

	// status does not stop the timer
	if again, _ := e.Status(ctx); again == nil {
		t.Error("Status() changed timer state")
	}
}

func TestConcurrentStart(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	seed(t, e)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Start(ctx, StartRequest{Project: "acme"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	started := 0
	for err := range errs {
		switch {
		case err == nil:
			started++
		case errors.Is(err, models.ErrTimerAlreadyRunning):
		default:
			t.Errorf("Start() unexpected error = %v", err)
		}
	}
	if started != 1 {
		t.Errorf("%d concurrent starts succeeded, want exactly 1", started)
	}
}
