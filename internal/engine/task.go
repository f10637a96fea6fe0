package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/repository"
	"github.com/kutbudev/tracker/internal/slug"
	"gorm.io/gorm"
)

const taskModel = "task"

// ListTasks lists the tasks of one project, or of every project when projectRef is empty.
func (e *Engine) ListTasks(ctx context.Context, projectRef string) ([]models.Task, error) {
	tx := e.db.Session(ctx)
	q := repository.Query{Sort: []string{"name"}, Preload: []string{"Project"}}
	if strings.TrimSpace(projectRef) != "" {
		project, err := resolve[models.Project](tx, projectModel, projectRef)
		if err != nil {
			return nil, err
		}
		q.Where = []repository.Clause{repository.Where("project_id = ?", project.ID)}
	}
	return repository.Filter[models.Task](tx, q)
}

// CreateTask adds a task to a project, optionally making it the default.
func (e *Engine) CreateTask(ctx context.Context, projectRef string, in TaskInput) (*models.Task, error) {
	name, s, err := validName(taskModel, in.Name)
	if err != nil {
		return nil, err
	}
	color, err := models.ParseColor(in.Color)
	if err != nil {
		return nil, err
	}

	var task *models.Task
	err = e.db.Transaction(ctx, func(tx *gorm.DB) error {
		project, err := resolve[models.Project](tx, projectModel, projectRef)
		if err != nil {
			return err
		}
		if err := ensureUnique[models.Task](tx, taskModel, name,
			repository.Where("project_id = ?", project.ID), repository.Where("slug = ?", s)); err != nil {
			return err
		}
		task = &models.Task{ID: slug.NewID(), ProjectID: project.ID, Name: name, Slug: s, Color: color}
		if err := conflict(repository.Create(tx, task), taskModel, name); err != nil {
			return err
		}
		if in.Default {
			if err := setDefault(tx, task, true); err != nil {
				return err
			}
		}
		task.Project = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (e *Engine) GetTask(ctx context.Context, projectRef, ref string) (*models.Task, error) {
	tx := e.db.Session(ctx)
	project, err := resolve[models.Project](tx, projectModel, projectRef)
	if err != nil {
		return nil, err
	}
	return resolveTask(tx, project, ref)
}

// UpdateTask renames, recolors and/or changes the default flag in one transaction.
func (e *Engine) UpdateTask(ctx context.Context, projectRef, ref string, up TaskUpdate) (*models.Task, error) {
	color, err := optionalColor(up.Color)
	if err != nil {
		return nil, err
	}

	var task *models.Task
	err = e.db.Transaction(ctx, func(tx *gorm.DB) error {
		project, err := resolve[models.Project](tx, projectModel, projectRef)
		if err != nil {
			return err
		}
		t, err := resolveTask(tx, project, ref)
		if err != nil {
			return err
		}
		if up.Name != nil {
			name, s, err := validName(taskModel, *up.Name)
			if err != nil {
				return err
			}
			if err := ensureUnique[models.Task](tx, taskModel, name,
				repository.Where("project_id = ?", project.ID),
				repository.Where("slug = ?", s),
				repository.Where("id <> ?", t.ID)); err != nil {
				return err
			}
			t.Name, t.Slug = name, s
		}
		if color != "" {
			t.Color = color
		}
		if up.Default != nil {
			if err := setDefault(tx, t, *up.Default); err != nil {
				return err
			}
		}
		if err := conflict(repository.Save(tx, t), taskModel, t.Name); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (e *Engine) RenameTask(ctx context.Context, projectRef, ref, name string) (*models.Task, error) {
	return e.UpdateTask(ctx, projectRef, ref, TaskUpdate{Name: &name})
}

func (e *Engine) SetTaskColor(ctx context.Context, projectRef, ref, color string) (*models.Task, error) {
	return e.UpdateTask(ctx, projectRef, ref, TaskUpdate{Color: &color})
}

// SetDefaultTask makes the task its project's default (clearing any other),
// or clears its flag when value is false.
func (e *Engine) SetDefaultTask(ctx context.Context, projectRef, ref string, value bool) (*models.Task, error) {
	return e.UpdateTask(ctx, projectRef, ref, TaskUpdate{Default: &value})
}

// DeleteTask removes the task and its entries.
func (e *Engine) DeleteTask(ctx context.Context, projectRef, ref string) (bool, error) {
	deleted := false
	err := e.db.Transaction(ctx, func(tx *gorm.DB) error {
		project, err := resolve[models.Project](tx, projectModel, projectRef)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		t, err := resolveTask(tx, project, ref)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := repository.Exec(tx,
			"DELETE FROM entry_tags WHERE entry_id IN (SELECT id FROM entries WHERE task_id = ?)", t.ID); err != nil {
			return err
		}
		if _, err := repository.Delete[models.Entry](tx, repository.Query{Where: []repository.Clause{repository.Where("task_id = ?", t.ID)}}); err != nil {
			return err
		}
		n, err := repository.Delete[models.Task](tx, repository.Query{Where: []repository.Clause{repository.Where("id = ?", t.ID)}})
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

// defaultTask returns the project's default task or NoDefaultTask.
func defaultTask(tx *gorm.DB, project *models.Project) (*models.Task, error) {
	task, err := repository.First[models.Task](tx, repository.Query{Where: []repository.Clause{
		repository.Where("project_id = ?", project.ID),
		repository.Where("is_default = ?", true),
	}})
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NoDefaultTask(project.Name)
	}
	if err != nil {
		return nil, err
	}
	task.Project = project
	return task, nil
}

func resolveTask(tx *gorm.DB, project *models.Project, ref string) (*models.Task, error) {
	task, err := resolve[models.Task](tx, taskModel, ref, repository.Where("project_id = ?", project.ID))
	if err != nil {
		return nil, err
	}
	task.Project = project
	return task, nil
}

// setDefault locks the owning project row, clears the flag on its other
// tasks and then sets it on task.
func setDefault(tx *gorm.DB, task *models.Task, value bool) error {
	if _, err := repository.First[models.Project](tx, repository.Query{
		Where: []repository.Clause{repository.Where("id = ?", task.ProjectID)},
		Lock:  true,
	}); err != nil {
		return err
	}
	if value {
		if _, err := repository.Update[models.Task](tx, repository.Query{Where: []repository.Clause{
			repository.Where("project_id = ?", task.ProjectID),
			repository.Where("id <> ?", task.ID),
			repository.Where("is_default = ?", true),
		}}, map[string]interface{}{"is_default": false}); err != nil {
			return err
		}
	}
	if _, err := repository.Update[models.Task](tx, repository.Query{Where: []repository.Clause{
		repository.Where("id = ?", task.ID),
	}}, map[string]interface{}{"is_default": value}); err != nil {
		return err
	}
	task.IsDefault = value
	return nil
}
