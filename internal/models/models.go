package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Project groups tasks and the entries recorded against them
type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Slug      string    `gorm:"not null;uniqueIndex" json:"slug"`
	Color     string    `gorm:"size:7;not null" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is a unit of work inside a project. Slugs are unique per project.
type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tasks_project_slug,priority:1" json:"project_id"`
	Project   *Project  `gorm:"constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"not null;uniqueIndex:idx_tasks_project_slug,priority:2" json:"slug"`
	Color     string    `gorm:"size:7;not null" json:"color"`
	IsDefault bool      `gorm:"column:is_default;not null;default:false" json:"default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag labels entries across projects
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Slug      string    `gorm:"not null;uniqueIndex" json:"slug"`
	Color     string    `gorm:"size:7;not null" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry is one tracked interval. EndTime is nil while the timer runs.
type Entry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project     *Project   `gorm:"constraint:OnDelete:CASCADE" json:"project,omitempty"`
	TaskID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"task_id"`
	Task        *Task      `gorm:"constraint:OnDelete:CASCADE" json:"task,omitempty"`
	Description string     `json:"description"`
	Notes       string     `json:"notes"`
	StartTime   time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Duration    int64      `gorm:"not null;default:0" json:"duration"`
	Tags        []Tag      `gorm:"many2many:entry_tags;constraint:OnDelete:CASCADE" json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Running reports whether the entry has not been stopped yet.
func (e *Entry) Running() bool {
	return e.EndTime == nil
}

// Elapsed returns the stored duration, or the live duration for a running entry.
func (e *Entry) Elapsed(now time.Time) int64 {
	if !e.Running() {
		return e.Duration
	}
	return ElapsedSeconds(e.StartTime, now)
}

// ElapsedSeconds is the whole number of seconds from start to end, never negative.
func ElapsedSeconds(start, end time.Time) int64 {
	d := int64(end.Sub(start) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}

// Report is one aggregated (project, task) bucket.
type Report struct {
	Project  string `json:"project"`
	Task     string `json:"task"`
	Duration int64  `json:"duration"`
}

// RunningTime renders the duration as HH:MM:SS.
func (r Report) RunningTime() string {
	return HumanizeDuration(r.Duration)
}

// HumanizeDuration formats seconds as HH:MM:SS; hours are not capped at 24.
func HumanizeDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func (p Project) Identity() uuid.UUID { return p.ID }
func (t Task) Identity() uuid.UUID    { return t.ID }
func (t Tag) Identity() uuid.UUID     { return t.ID }
