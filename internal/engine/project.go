package engine

import (
	"context"
	"errors"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/repository"
	"github.com/kutbudev/tracker/internal/slug"
	"gorm.io/gorm"
)

const projectModel = "project"

func (e *Engine) ListProjects(ctx context.Context) ([]models.Project, error) {
	return repository.All[models.Project](e.db.Session(ctx), "name")
}

func (e *Engine) CreateProject(ctx context.Context, in CatalogInput) (*models.Project, error) {
	name, s, err := validName(projectModel, in.Name)
	if err != nil {
		return nil, err
	}
	color, err := models.ParseColor(in.Color)
	if err != nil {
		return nil, err
	}

	project := &models.Project{ID: slug.NewID(), Name: name, Slug: s, Color: color}
	err = e.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUnique[models.Project](tx, projectModel, name, repository.Where("slug = ?", s)); err != nil {
			return err
		}
		return conflict(repository.Create(tx, project), projectModel, name)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (e *Engine) GetProject(ctx context.Context, ref string) (*models.Project, error) {
	return resolve[models.Project](e.db.Session(ctx), projectModel, ref)
}

// UpdateProject renames and/or recolors a project in one transaction.
func (e *Engine) UpdateProject(ctx context.Context, ref string, up CatalogUpdate) (*models.Project, error) {
	color, err := optionalColor(up.Color)
	if err != nil {
		return nil, err
	}

	var project *models.Project
	err = e.db.Transaction(ctx, func(tx *gorm.DB) error {
		p, err := resolve[models.Project](tx, projectModel, ref)
		if err != nil {
			return err
		}
		if up.Name != nil {
			name, s, err := validName(projectModel, *up.Name)
			if err != nil {
				return err
			}
			if err := ensureUnique[models.Project](tx, projectModel, name,
				repository.Where("slug = ?", s), repository.Where("id <> ?", p.ID)); err != nil {
				return err
			}
			p.Name, p.Slug = name, s
		}
		if color != "" {
			p.Color = color
		}
		project = p
		return conflict(repository.Save(tx, p), projectModel, p.Name)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// RenameProject changes the name and therefore the slug.
func (e *Engine) RenameProject(ctx context.Context, ref, name string) (*models.Project, error) {
	return e.UpdateProject(ctx, ref, CatalogUpdate{Name: &name})
}

func (e *Engine) SetProjectColor(ctx context.Context, ref, color string) (*models.Project, error) {
	return e.UpdateProject(ctx, ref, CatalogUpdate{Color: &color})
}

// DeleteProject removes the project with its tasks and entries.
// A reference that matches nothing reports false without error.
func (e *Engine) DeleteProject(ctx context.Context, ref string) (bool, error) {
	deleted := false
	err := e.db.Transaction(ctx, func(tx *gorm.DB) error {
		p, err := resolve[models.Project](tx, projectModel, ref)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := repository.Exec(tx,
			"DELETE FROM entry_tags WHERE entry_id IN (SELECT id FROM entries WHERE project_id = ?)", p.ID); err != nil {
			return err
		}
		byProject := repository.Query{Where: []repository.Clause{repository.Where("project_id = ?", p.ID)}}
		if _, err := repository.Delete[models.Entry](tx, byProject); err != nil {
			return err
		}
		if _, err := repository.Delete[models.Task](tx, byProject); err != nil {
			return err
		}
		n, err := repository.Delete[models.Project](tx, repository.Query{Where: []repository.Clause{repository.Where("id = ?", p.ID)}})
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func optionalColor(color *string) (string, error) {
	if color == nil {
		return "", nil
	}
	return models.ParseColor(*color)
}
