package engine

import (
	"context"
	"time"

	"github.com/kutbudev/tracker/internal/models"
)

type reportKey struct {
	project, task string
}

// Aggregate sums entry durations per (project, task). Rows come out in the
// order their key first appears; callers pass entries sorted by start time.
// Running entries contribute their stored duration, which is zero.
func Aggregate(entries []models.Entry) []models.Report {
	reports := []models.Report{}
	index := make(map[reportKey]int)
	for _, entry := range entries {
		r := models.Report{Duration: entry.Duration}
		if entry.Project != nil {
			r.Project = entry.Project.Name
		}
		if entry.Task != nil {
			r.Task = entry.Task.Name
		}
		key := reportKey{r.Project, r.Task}
		if i, ok := index[key]; ok {
			reports[i].Duration += r.Duration
			continue
		}
		index[key] = len(reports)
		reports = append(reports, r)
	}
	return reports
}

// Today reports entries started since local midnight.
func (e *Engine) Today(ctx context.Context) ([]models.Report, error) {
	return e.reportSince(ctx, e.midnight(0))
}

// Report covers the last days days counted from local midnight; 0 means all time.
func (e *Engine) Report(ctx context.Context, days int) ([]models.Report, error) {
	if days < 0 {
		return nil, models.Validation("days must not be negative, got %d", days)
	}
	if days == 0 {
		return e.reportSince(ctx, time.Time{})
	}
	return e.reportSince(ctx, e.midnight(days))
}

func (e *Engine) reportSince(ctx context.Context, since time.Time) ([]models.Report, error) {
	entries, err := entriesSince(e.db.Session(ctx), since)
	if err != nil {
		return nil, err
	}
	return Aggregate(entries), nil
}

// midnight is the start of the local day daysBack days ago, in UTC.
func (e *Engine) midnight(daysBack int) time.Time {
	now := e.now().In(e.loc)
	return time.Date(now.Year(), now.Month(), now.Day()-daysBack, 0, 0, 0, 0, e.loc).UTC()
}
