package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/slug"
	"gorm.io/gorm"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newProject(name string) *models.Project {
	return &models.Project{ID: slug.NewID(), Name: name, Slug: slug.Make(name), Color: models.DefaultColor}
}

func TestCreateAndFirst(t *testing.T) {
	db := newTestDatabase(t)
	tx := db.Session(context.Background())

	p := newProject("Acme")
	if err := Create(tx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := GetByID[models.Project](tx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Acme" || got.Slug != "acme" {
		t.Errorf("GetByID() = %+v", got)
	}

	_, err = First[models.Project](tx, Query{Where: []Clause{Where("slug = ?", "missing")}})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("First() error = %v, want ErrNotFound", err)
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	db := newTestDatabase(t)
	tx := db.Session(context.Background())

	if err := Create(tx, newProject("Acme")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	dup := newProject("acme")
	dup.Name = "ACME"
	err := Create(tx, dup)
	if !errors.Is(err, models.ErrAlreadyExists) {
		t.Errorf("Create() duplicate error = %v, want ErrAlreadyExists", err)
	}
}

func TestFilterSortAndCount(t *testing.T) {
	db := newTestDatabase(t)
	tx := db.Session(context.Background())

	for _, name := range []string{"Charlie", "Alpha", "Bravo"} {
		if err := Create(tx, newProject(name)); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	all, err := All[models.Project](tx, "name")
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	want := []string{"Alpha", "Bravo", "Charlie"}
	for i, p := range all {
		if p.Name != want[i] {
			t.Errorf("All()[%d] = %s, want %s", i, p.Name, want[i])
		}
	}

	n, err := Count[models.Project](tx, Query{Where: []Clause{Where("name <> ?", "Alpha")}})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}

	removed, err := Delete[models.Project](tx, Query{Where: []Clause{Where("slug = ?", "bravo")}})
	if err != nil || removed != 1 {
		t.Errorf("Delete() = %d, %v, want 1, nil", removed, err)
	}
}

func TestSingleRunningEntryIndex(t *testing.T) {
	db := newTestDatabase(t)
	tx := db.Session(context.Background())

	p := newProject("Acme")
	if err := Create(tx, p); err != nil {
		t.Fatal(err)
	}
	task := &models.Task{ID: slug.NewID(), ProjectID: p.ID, Name: "Dev", Slug: "dev", Color: models.DefaultColor}
	if err := Create(tx, task); err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	first := &models.Entry{ID: slug.NewID(), ProjectID: p.ID, TaskID: task.ID, StartTime: now}
	if err := Create(tx, first); err != nil {
		t.Fatalf("Create() first running entry error = %v", err)
	}
	second := &models.Entry{ID: slug.NewID(), ProjectID: p.ID, TaskID: task.ID, StartTime: now}
	if err := Create(tx, second); !errors.Is(err, models.ErrAlreadyExists) {
		t.Fatalf("Create() second running entry error = %v, want ErrAlreadyExists", err)
	}

	end := now.Add(time.Minute)
	first.EndTime = &end
	first.Duration = 60
	if err := Save(tx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := Create(tx, second); err != nil {
		t.Errorf("Create() after stop error = %v", err)
	}
}

func TestSingleDefaultTaskIndex(t *testing.T) {
	db := newTestDatabase(t)
	tx := db.Session(context.Background())

	p := newProject("Acme")
	if err := Create(tx, p); err != nil {
		t.Fatal(err)
	}
	a := &models.Task{ID: slug.NewID(), ProjectID: p.ID, Name: "A", Slug: "a", Color: models.DefaultColor, IsDefault: true}
	b := &models.Task{ID: slug.NewID(), ProjectID: p.ID, Name: "B", Slug: "b", Color: models.DefaultColor, IsDefault: true}
	if err := Create(tx, a); err != nil {
		t.Fatal(err)
	}
	if err := Create(tx, b); !errors.Is(err, models.ErrAlreadyExists) {
		t.Errorf("Create() second default task error = %v, want ErrAlreadyExists", err)
	}
}

func TestTransactionRollback(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := Create(tx, newProject("Acme")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, models.ErrStorage) || !errors.Is(err, boom) {
		t.Fatalf("Transaction() error = %v, want storage error wrapping boom", err)
	}

	n, err := Count[models.Project](db.Session(ctx), Query{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Count() after rollback = %d, want 0", n)
	}

	err = db.Transaction(ctx, func(tx *gorm.DB) error {
		return models.TimerIsNotRunning()
	})
	if !errors.Is(err, models.ErrTimerIsNotRunning) {
		t.Errorf("Transaction() error = %v, want ErrTimerIsNotRunning passed through", err)
	}
}

func TestHealth(t *testing.T) {
	db := newTestDatabase(t)
	if err := db.Health(); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}
