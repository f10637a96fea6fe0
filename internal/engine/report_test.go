package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kutbudev/tracker/internal/models"
)

func TestAggregate(t *testing.T) {
	acme := &models.Project{Name: "acme"}
	beta := &models.Project{Name: "beta"}
	dev := &models.Task{Name: "dev"}
	ops := &models.Task{Name: "ops"}

	entries := []models.Entry{
		{Project: beta, Task: ops, Duration: 30},
		{Project: acme, Task: dev, Duration: 60},
		{Project: beta, Task: ops, Duration: 15},
		{Project: acme, Task: dev, Duration: 90},
		{Project: acme, Task: ops, Duration: 0},
	}

	got := Aggregate(entries)
	want := []models.Report{
		{Project: "beta", Task: "ops", Duration: 45},
		{Project: "acme", Task: "dev", Duration: 150},
		{Project: "acme", Task: "ops", Duration: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate() = %+v, want %+v", got, want)
	}

	if empty := Aggregate(nil); len(empty) != 0 {
		t.Errorf("Aggregate(nil) = %+v, want empty", empty)
	}
}

func TestAggregateKeepsSlashedNamesApart(t *testing.T) {
	entries := []models.Entry{
		{Project: &models.Project{Name: "a/b"}, Task: &models.Task{Name: "c"}, Duration: 60},
		{Project: &models.Project{Name: "a"}, Task: &models.Task{Name: "b/c"}, Duration: 90},
	}

	got := Aggregate(entries)
	want := []models.Report{
		{Project: "a/b", Task: "c", Duration: 60},
		{Project: "a", Task: "b/c", Duration: 90},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate() = %+v, want %+v", got, want)
	}
}

func TestReportAllTime(t *testing.T) {
	e, clock := newTestEngine(t)
	ctx := context.Background()
	seed(t, e)

	for _, d := range []time.Duration{60 * time.Second, 90 * time.Second} {
		if _, err := e.Start(ctx, StartRequest{Project: "acme", Task: "dev"}); err != nil {
			t.Fatal(err)
		}
		clock.Advance(d)
		if _, err := e.Stop(ctx); err != nil {
			t.Fatal(err)
		}
		clock.Advance(24 * time.Hour)
	}

	reports, err := e.Report(ctx, 0)
	if err != nil {
		t.Fatalf("Report(0) error = %v", err)
	}
	want := []models.Report{{Project: "acme", Task: "dev", Duration: 150}}
	if !reflect.DeepEqual(reports, want) {
		t.Errorf("Report(0) = %+v, want %+v", reports, want)
	}
}

func TestReportWindows(t *testing.T) {
	e, clock := newTestEngine(t)
	ctx := context.Background()
	seed(t, e)
	if _, err := e.CreateTask(ctx, "acme", TaskInput{Name: "ops"}); err != nil {
		t.Fatal(err)
	}

	track := func(task string, d time.Duration) {
		t.Helper()
		if _, err := e.Start(ctx, StartRequest{Project: "acme", Task: task}); err != nil {
			t.Fatal(err)
		}
		clock.Advance(d)
		if _, err := e.Stop(ctx); err != nil {
			t.Fatal(err)
		}
	}

	// 2024-03-12 10:00 UTC, three days back
	clock.now = time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	track("ops", 10*time.Minute)
	// 2024-03-14 23:00 UTC, yesterday
	clock.now = time.Date(2024, 3, 14, 23, 0, 0, 0, time.UTC)
	track("dev", 20*time.Minute)
	// 2024-03-15 09:00 UTC, today
	clock.now = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	track("dev", 30*time.Minute)

	clock.now = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

	today, err := e.Today(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []models.Report{{Project: "acme", Task: "dev", Duration: 1800}}; !reflect.DeepEqual(today, want) {
		t.Errorf("Today() = %+v, want %+v", today, want)
	}

	one, err := e.Report(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if want := []models.Report{{Project: "acme", Task: "dev", Duration: 3000}}; !reflect.DeepEqual(one, want) {
		t.Errorf("Report(1) = %+v, want %+v", one, want)
	}

	three, err := e.Report(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.Report{
		{Project: "acme", Task: "ops", Duration: 600},
		{Project: "acme", Task: "dev", Duration: 3000},
	}
	if !reflect.DeepEqual(three, want) {
		t.Errorf("Report(3) = %+v, want %+v", three, want)
	}

	if _, err := e.Report(ctx, -1); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Report(-1) error = %v, want ErrValidation", err)
	}
}

func TestTodayUsesConfiguredZone(t *testing.T) {
	// UTC-5 all year
	zone := time.FixedZone("EST", -5*3600)
	e, clock := newTestEngine(t, WithLocation(zone))
	ctx := context.Background()
	seed(t, e)

	// 2024-03-15 03:00 UTC is still 2024-03-14 22:00 local
	clock.now = time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC)
	if _, err := e.Start(ctx, StartRequest{Project: "acme"}); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Minute)
	if _, err := e.Stop(ctx); err != nil {
		t.Fatal(err)
	}

	// local 2024-03-15 08:00
	clock.now = time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)
	today, err := e.Today(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(today) != 0 {
		t.Errorf("Today() = %+v, want no rows for yesterday's local entry", today)
	}

	// local 2024-03-14 23:30
	clock.now = time.Date(2024, 3, 15, 4, 30, 0, 0, time.UTC)
	today, err = e.Today(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(today) != 1 || today[0].Duration != 60 {
		t.Errorf("Today() = %+v, want one 60s row", today)
	}
}

func TestReportIncludesRunningEntryAsZero(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	seed(t, e)

	if _, err := e.Start(ctx, StartRequest{Project: "acme"}); err != nil {
		t.Fatal(err)
	}
	reports, err := e.Today(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []models.Report{{Project: "acme", Task: "dev", Duration: 0}}; !reflect.DeepEqual(reports, want) {
		t.Errorf("Today() = %+v, want %+v", reports, want)
	}
}
