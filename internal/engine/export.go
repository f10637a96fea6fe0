package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/repository"
	"gorm.io/gorm"
)

const dumpVersion = 1

// Dump is the JSON document written by Export and read by Import.
type Dump struct {
	Version  int              `json:"version"`
	Projects []models.Project `json:"projects"`
	Tags     []models.Tag     `json:"tags"`
	Tasks    []models.Task    `json:"tasks"`
	Entries  []models.Entry   `json:"entries"`
}

// Export writes the whole store to w.
func (e *Engine) Export(ctx context.Context, w io.Writer) (*Dump, error) {
	dump := &Dump{Version: dumpVersion}
	err := e.db.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if dump.Projects, err = repository.All[models.Project](tx, "created_at", "name"); err != nil {
			return err
		}
		if dump.Tags, err = repository.All[models.Tag](tx, "created_at", "name"); err != nil {
			return err
		}
		if dump.Tasks, err = repository.All[models.Task](tx, "created_at", "name"); err != nil {
			return err
		}
		dump.Entries, err = repository.Filter[models.Entry](tx, repository.Query{
			Sort:    []string{"start_time", "created_at"},
			Preload: []string{"Tags"},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return dump, nil
}

// Import loads a document produced by Export. Ids, slugs and timestamps are
// kept; any conflict with existing rows aborts the whole import.
func (e *Engine) Import(ctx context.Context, r io.Reader) (*Dump, error) {
	var dump Dump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, models.Validation("invalid export file: %v", err)
	}
	if dump.Version != dumpVersion {
		return nil, models.Validation("unsupported export version %d", dump.Version)
	}

	err := e.db.Transaction(ctx, func(tx *gorm.DB) error {
		for i := range dump.Projects {
			p := &dump.Projects[i]
			if err := normalize(&p.Color); err != nil {
				return err
			}
			if err := conflict(repository.Create(tx, p), projectModel, p.Name); err != nil {
				return err
			}
		}
		for i := range dump.Tags {
			t := &dump.Tags[i]
			if err := normalize(&t.Color); err != nil {
				return err
			}
			if err := conflict(repository.Create(tx, t), tagModel, t.Name); err != nil {
				return err
			}
		}
		for i := range dump.Tasks {
			t := &dump.Tasks[i]
			t.Project = nil
			if err := normalize(&t.Color); err != nil {
				return err
			}
			if err := conflict(repository.Create(tx, t), taskModel, t.Name); err != nil {
				return err
			}
		}
		for i := range dump.Entries {
			entry := &dump.Entries[i]
			entry.Project, entry.Task = nil, nil
			entry.StartTime = entry.StartTime.UTC().Truncate(time.Second)
			if entry.EndTime != nil {
				end := entry.EndTime.UTC().Truncate(time.Second)
				entry.EndTime = &end
			}
			if err := conflict(repository.Create(tx, entry), "entry", entry.ID.String()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dump, nil
}

func normalize(color *string) error {
	c, err := models.ParseColor(*color)
	if err != nil {
		return err
	}
	*color = c
	return nil
}
