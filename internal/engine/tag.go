package engine

import (
	"context"
	"errors"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/repository"
	"github.com/kutbudev/tracker/internal/slug"
	"gorm.io/gorm"
)

const tagModel = "tag"

func (e *Engine) ListTags(ctx context.Context) ([]models.Tag, error) {
	return repository.All[models.Tag](e.db.Session(ctx), "name")
}

func (e *Engine) CreateTag(ctx context.Context, in CatalogInput) (*models.Tag, error) {
	name, s, err := validName(tagModel, in.Name)
	if err != nil {
		return nil, err
	}
	color, err := models.ParseColor(in.Color)
	if err != nil {
		return nil, err
	}

	tag := &models.Tag{ID: slug.NewID(), Name: name, Slug: s, Color: color}
	err = e.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUnique[models.Tag](tx, tagModel, name, repository.Where("slug = ?", s)); err != nil {
			return err
		}
		return conflict(repository.Create(tx, tag), tagModel, name)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (e *Engine) GetTag(ctx context.Context, ref string) (*models.Tag, error) {
	return resolve[models.Tag](e.db.Session(ctx), tagModel, ref)
}

func (e *Engine) UpdateTag(ctx context.Context, ref string, up CatalogUpdate) (*models.Tag, error) {
	color, err := optionalColor(up.Color)
	if err != nil {
		return nil, err
	}

	var tag *models.Tag
	err = e.db.Transaction(ctx, func(tx *gorm.DB) error {
		t, err := resolve[models.Tag](tx, tagModel, ref)
		if err != nil {
			return err
		}
		if up.Name != nil {
			name, s, err := validName(tagModel, *up.Name)
			if err != nil {
				return err
			}
			if err := ensureUnique[models.Tag](tx, tagModel, name,
				repository.Where("slug = ?", s), repository.Where("id <> ?", t.ID)); err != nil {
				return err
			}
			t.Name, t.Slug = name, s
		}
		if color != "" {
			t.Color = color
		}
		tag = t
		return conflict(repository.Save(tx, t), tagModel, t.Name)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (e *Engine) RenameTag(ctx context.Context, ref, name string) (*models.Tag, error) {
	return e.UpdateTag(ctx, ref, CatalogUpdate{Name: &name})
}

func (e *Engine) SetTagColor(ctx context.Context, ref, color string) (*models.Tag, error) {
	return e.UpdateTag(ctx, ref, CatalogUpdate{Color: &color})
}

// DeleteTag detaches the tag from its entries and removes it.
func (e *Engine) DeleteTag(ctx context.Context, ref string) (bool, error) {
	deleted := false
	err := e.db.Transaction(ctx, func(tx *gorm.DB) error {
		t, err := resolve[models.Tag](tx, tagModel, ref)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := repository.Exec(tx, "DELETE FROM entry_tags WHERE tag_id = ?", t.ID); err != nil {
			return err
		}
		n, err := repository.Delete[models.Tag](tx, repository.Query{Where: []repository.Clause{repository.Where("id = ?", t.ID)}})
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}
