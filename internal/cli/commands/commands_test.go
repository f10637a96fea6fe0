package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/zalando/go-keyring"
)

type cliHarness struct {
	t      *testing.T
	config string
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	keyring.MockInit()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timezone: UTC\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return &cliHarness{t: t, config: path}
}

// run executes the CLI with --format json and returns stdout.
func (h *cliHarness) run(args ...string) (string, error) {
	h.t.Helper()
	app := NewApp("test")
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	full := append([]string{"tracker", "--config", h.config, "--format", "json"}, args...)
	err := app.Run(full)
	return out.String(), err
}

func (h *cliHarness) records(args ...string) []map[string]string {
	h.t.Helper()
	out, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("tracker %s error = %v", strings.Join(args, " "), err)
	}
	var records []map[string]string
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		h.t.Fatalf("tracker %s output is not JSON: %q", strings.Join(args, " "), out)
	}
	return records
}

func TestCatalogCommands(t *testing.T) {
	h := newHarness(t)

	created := h.records("project", "create", "--color", "#00FF00", "Acme Corp")
	if len(created) != 1 || created[0]["slug"] != "acme-corp" || created[0]["color"] != "#00ff00" {
		t.Fatalf("project create = %v", created)
	}

	task := h.records("task", "create", "--default", "acme-corp", "Development")
	if task[0]["default"] != "yes" || task[0]["project"] != "Acme Corp" {
		t.Errorf("task create = %v", task)
	}
	h.records("task", "create", "acme-corp", "Review")

	tasks := h.records("task", "list", "acme-corp")
	if len(tasks) != 2 {
		t.Errorf("task list returned %d tasks, want 2", len(tasks))
	}

	moved := h.records("task", "default", "acme-corp", "review")
	if moved[0]["default"] != "yes" {
		t.Errorf("task default = %v", moved)
	}
	dev := h.records("task", "show", "acme-corp", "development")
	if dev[0]["default"] != "" {
		t.Errorf("previous default still set: %v", dev)
	}

	renamed := h.records("project", "update", "--name", "Acme Inc", "acme-corp")
	if renamed[0]["slug"] != "acme-inc" {
		t.Errorf("project update = %v", renamed)
	}

	if _, err := h.run("project", "update", "acme-inc"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("project update without flags error = %v, want ErrValidation", err)
	}

	h.records("tag", "create", "urgent")
	if _, err := h.run("tag", "create", "Urgent"); !errors.Is(err, models.ErrAlreadyExists) {
		t.Errorf("duplicate tag error = %v, want ErrAlreadyExists", err)
	}

	if _, err := h.run("project", "delete", "--yes", "acme-inc"); err != nil {
		t.Fatalf("project delete error = %v", err)
	}
	if projects := h.records("project", "list"); len(projects) != 0 {
		t.Errorf("project list after delete = %v", projects)
	}
	if _, err := h.run("project", "delete", "--yes", "acme-inc"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestTimerCommands(t *testing.T) {
	h := newHarness(t)
	h.records("project", "create", "acme")
	h.records("tag", "create", "urgent")

	if _, err := h.run("start", "acme"); !errors.Is(err, models.ErrNoDefaultTask) {
		t.Fatalf("start without default task error = %v, want ErrNoDefaultTask", err)
	}
	h.records("task", "create", "--default", "acme", "dev")

	started := h.records("start", "--description", "standup", "--tag", "urgent", "acme")
	if started[0]["task"] != "dev" || started[0]["tags"] != "urgent" || started[0]["end_time"] != "" {
		t.Errorf("start = %v", started)
	}

	if _, err := h.run("start", "acme"); !errors.Is(err, models.ErrTimerAlreadyRunning) {
		t.Errorf("second start error = %v, want ErrTimerAlreadyRunning", err)
	}

	status := h.records("status")
	if len(status) != 1 || status[0]["project"] != "acme" {
		t.Errorf("status = %v", status)
	}

	stopped := h.records("stop")
	if stopped[0]["end_time"] == "" {
		t.Errorf("stop = %v, want end_time", stopped)
	}
	if _, err := h.run("stop"); !errors.Is(err, models.ErrTimerIsNotRunning) {
		t.Errorf("second stop error = %v, want ErrTimerIsNotRunning", err)
	}

	if idle := h.records("status"); len(idle) != 0 {
		t.Errorf("status when idle = %v", idle)
	}

	today := h.records("today")
	if len(today) != 1 || today[0]["project"] != "acme" || today[0]["task"] != "dev" {
		t.Errorf("today = %v", today)
	}
	if week := h.records("report", "7"); len(week) != 1 {
		t.Errorf("report 7 = %v", week)
	}
	if _, err := h.run("report", "abc"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("report abc error = %v, want ErrValidation", err)
	}
	if _, err := h.run("report", "-1"); err == nil {
		t.Error("report -1 error = nil")
	}
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run("config", "set", "format", "yaml"); !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Errorf("config set format yaml error = %v, want ErrInvalidConfiguration", err)
	}
	if _, err := h.run("config", "set", "timezone", "Local"); err != nil {
		t.Fatalf("config set timezone error = %v", err)
	}

	settings := h.records("config", "list")
	values := map[string]string{}
	for _, s := range settings {
		values[s["key"]] = s["value"]
	}
	if values["timezone"] != "Local" {
		t.Errorf("timezone = %q, want Local", values["timezone"])
	}
	if values["format"] != "table" {
		t.Errorf("format = %q, want table", values["format"])
	}
}

func TestDBExportImport(t *testing.T) {
	h := newHarness(t)
	h.records("project", "create", "acme")
	h.records("task", "create", "--default", "acme", "dev")
	h.records("start", "acme")
	h.records("stop")

	dump := filepath.Join(t.TempDir(), "dump.json")
	if _, err := h.run("db", "export", dump); err != nil {
		t.Fatalf("db export error = %v", err)
	}

	// importing into the same store conflicts and changes nothing
	if _, err := h.run("db", "import", dump); !errors.Is(err, models.ErrAlreadyExists) {
		t.Errorf("db import into same store error = %v, want ErrAlreadyExists", err)
	}

	fresh := newHarness(t)
	if _, err := fresh.run("db", "import", dump); err != nil {
		t.Fatalf("db import error = %v", err)
	}
	if tasks := fresh.records("task", "list", "acme"); len(tasks) != 1 || tasks[0]["default"] != "yes" {
		t.Errorf("imported tasks = %v", tasks)
	}
	if today := fresh.records("report"); len(today) != 1 {
		t.Errorf("imported report = %v", today)
	}
}

func TestRemoteRejectsDBCommands(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run("--remote", "db", "export", filepath.Join(t.TempDir(), "x.json")); err == nil {
		t.Error("db export with --remote error = nil")
	}
}

func TestReportUsage(t *testing.T) {
	usage := NewReportCommand().Usage
	if !strings.Contains(usage, "0 = whole history") {
		t.Errorf("report usage = %q, want it to say 0 is the whole history", usage)
	}
}
