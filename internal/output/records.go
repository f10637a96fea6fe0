package output

import (
	"strings"
	"time"

	"github.com/kutbudev/tracker/internal/config"
	"github.com/kutbudev/tracker/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// Field is one labelled value of a record.
type Field struct {
	Key   string
	Value string
}

// Record is a flat, ordered view of an entity.
type Record []Field

func (r Record) keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

func (r Record) values() []string {
	values := make([]string, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// Get returns the value stored under key.
func (r Record) Get(key string) string {
	for _, f := range r {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

func ProjectRecord(p models.Project) Record {
	return Record{
		{"id", p.ID.String()},
		{"name", p.Name},
		{"slug", p.Slug},
		{"color", p.Color},
	}
}

func TaskRecord(t models.Task) Record {
	project := ""
	if t.Project != nil {
		project = t.Project.Name
	}
	def := ""
	if t.IsDefault {
		def = "yes"
	}
	return Record{
		{"id", t.ID.String()},
		{"project", project},
		{"name", t.Name},
		{"slug", t.Slug},
		{"color", t.Color},
		{"default", def},
	}
}

func TagRecord(t models.Tag) Record {
	return Record{
		{"id", t.ID.String()},
		{"name", t.Name},
		{"slug", t.Slug},
		{"color", t.Color},
	}
}

// EntryRecord shows times in loc; a running entry's time is measured up to now.
func EntryRecord(e models.Entry, loc *time.Location, now time.Time) Record {
	project, task := "", ""
	if e.Project != nil {
		project = e.Project.Name
	}
	if e.Task != nil {
		task = e.Task.Name
	}
	end := ""
	if e.EndTime != nil {
		end = e.EndTime.In(loc).Format(timeLayout)
	}
	tags := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		tags[i] = t.Name
	}
	return Record{
		{"project", project},
		{"task", task},
		{"description", e.Description},
		{"start_time", e.StartTime.In(loc).Format(timeLayout)},
		{"end_time", end},
		{"running_time", models.HumanizeDuration(e.Elapsed(now))},
		{"tags", strings.Join(tags, ", ")},
	}
}

func ReportRecord(r models.Report) Record {
	return Record{
		{"project", r.Project},
		{"task", r.Task},
		{"running_time", r.RunningTime()},
	}
}

func SettingRecord(s config.Setting) Record {
	return Record{
		{"key", s.Key},
		{"value", s.Value},
	}
}

// TotalRecord sums a report into a final row.
func TotalRecord(reports []models.Report) Record {
	var total int64
	for _, r := range reports {
		total += r.Duration
	}
	return ReportRecord(models.Report{Project: "Total", Duration: total})
}
