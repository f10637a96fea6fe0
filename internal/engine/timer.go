package engine

import (
	"context"
	"errors"
	"time"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/repository"
	"github.com/kutbudev/tracker/internal/slug"
	"gorm.io/gorm"
)

var entryPreload = []string{"Project", "Task", "Tags"}

// running returns the entry with no end time, or nil when the timer is idle.
func running(tx *gorm.DB) (*models.Entry, error) {
	entry, err := repository.First[models.Entry](tx, repository.Query{
		Where:   []repository.Clause{repository.Where("end_time IS NULL")},
		Preload: entryPreload,
	})
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	return entry, err
}

// Start opens a new entry. It fails with TimerAlreadyRunning, naming the
// running entry's project and task, when another entry is open.
func (e *Engine) Start(ctx context.Context, req StartRequest) (*models.Entry, error) {
	var entry *models.Entry
	err := e.db.Transaction(ctx, func(tx *gorm.DB) error {
		current, err := running(tx)
		if err != nil {
			return err
		}
		if current != nil {
			return models.TimerAlreadyRunning(current.Project.Name, current.Task.Name)
		}

		project, err := resolve[models.Project](tx, projectModel, req.Project)
		if err != nil {
			return err
		}
		var task *models.Task
		if req.Task == "" {
			task, err = defaultTask(tx, project)
		} else {
			task, err = resolveTask(tx, project, req.Task)
		}
		if err != nil {
			return err
		}

		tags := make([]models.Tag, 0, len(req.Tags))
		for _, ref := range req.Tags {
			tag, err := resolve[models.Tag](tx, tagModel, ref)
			if err != nil {
				return err
			}
			tags = append(tags, *tag)
		}

		entry = &models.Entry{
			ID:          slug.NewID(),
			ProjectID:   project.ID,
			TaskID:      task.ID,
			Description: req.Description,
			Notes:       req.Notes,
			StartTime:   e.clock(),
			Tags:        tags,
		}
		if err := repository.Create(tx, entry); err != nil {
			// another writer won the race for the running slot
			if errors.Is(err, models.ErrAlreadyExists) {
				return models.TimerAlreadyRunning(project.Name, task.Name)
			}
			return err
		}
		entry.Project = project
		entry.Task = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Stop closes the running entry and fixes its duration.
func (e *Engine) Stop(ctx context.Context) (*models.Entry, error) {
	var entry *models.Entry
	err := e.db.Transaction(ctx, func(tx *gorm.DB) error {
		current, err := running(tx)
		if err != nil {
			return err
		}
		if current == nil {
			return models.TimerIsNotRunning()
		}

		end := e.clock()
		current.EndTime = &end
		current.Duration = models.ElapsedSeconds(current.StartTime, end)
		if err := repository.Save(tx, current); err != nil {
			return err
		}
		entry = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Status returns the running entry, or nil when idle.
func (e *Engine) Status(ctx context.Context) (*models.Entry, error) {
	return running(e.db.Session(ctx))
}

// Entries lists entries started at or after since, oldest first.
// A zero since lists everything.
func (e *Engine) Entries(ctx context.Context, since time.Time) ([]models.Entry, error) {
	return entriesSince(e.db.Session(ctx), since)
}

func entriesSince(tx *gorm.DB, since time.Time) ([]models.Entry, error) {
	q := repository.Query{Sort: []string{"start_time", "created_at"}, Preload: entryPreload}
	if !since.IsZero() {
		q.Where = []repository.Clause{repository.Where("start_time >= ?", since.UTC())}
	}
	return repository.Filter[models.Entry](tx, q)
}
