package engine

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/repository"
	"github.com/kutbudev/tracker/internal/slug"
	"gorm.io/gorm"
)

type identified interface {
	Identity() uuid.UUID
}

// resolve finds the entity named by ref, which is either an id or a slug.
// An id is tried first; a ref that is an id of one row and the slug of
// another is ambiguous.
func resolve[T any](tx *gorm.DB, model, ref string, scope ...repository.Clause) (*T, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, models.Validation("%s reference must not be empty", model)
	}

	lookup := func(c repository.Clause) (*T, error) {
		where := append(append([]repository.Clause{}, scope...), c)
		found, err := repository.First[T](tx, repository.Query{Where: where})
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return found, err
	}

	var byID *T
	if id, ok := slug.ParseID(ref); ok {
		found, err := lookup(repository.Where("id = ?", id))
		if err != nil {
			return nil, err
		}
		byID = found
	}

	bySlug, err := lookup(repository.Where("slug = ?", slug.Make(ref)))
	if err != nil {
		return nil, err
	}

	switch {
	case byID != nil && bySlug != nil:
		if any(*byID).(identified).Identity() != any(*bySlug).(identified).Identity() {
			return nil, models.Ambiguous(model, ref)
		}
		return byID, nil
	case byID != nil:
		return byID, nil
	case bySlug != nil:
		return bySlug, nil
	}
	return nil, models.NotFound(model, ref)
}

// ensureUnique fails with AlreadyExists when a row matches where.
func ensureUnique[T any](tx *gorm.DB, model, name string, where ...repository.Clause) error {
	n, err := repository.Count[T](tx, repository.Query{Where: where})
	if err != nil {
		return err
	}
	if n > 0 {
		return models.AlreadyExists(model, name)
	}
	return nil
}

// validName trims name and derives its slug.
func validName(model, name string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", models.Validation("%s name must not be empty", model)
	}
	s := slug.Make(name)
	if s == "" {
		return "", "", models.Validation("%s name %q must contain a letter or digit", model, name)
	}
	return name, s, nil
}

// conflict names the entity in a uniqueness violation raised by the store.
func conflict(err error, model, name string) error {
	if errors.Is(err, models.ErrAlreadyExists) {
		return models.AlreadyExists(model, name)
	}
	return err
}
