package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/kutbudev/tracker/internal/engine"
	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/output"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers every tool. Input schemas are inferred from the
// handler input structs; fields without omitempty are required.
func (s *Server) registerTools() {
	// ============================================================================
	// Catalog
	// ============================================================================
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List all projects with their slugs and colors.",
	}, s.handleListProjects)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks. Pass project (id or slug) to limit to one project.",
	}, s.handleListTasks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_tags",
		Description: "List all tags.",
	}, s.handleListTags)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_project",
		Description: "Create a project. color is #rrggbb and optional.",
	}, s.handleCreateProject)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_task",
		Description: "Create a task inside a project. default=true makes it the project's default task.",
	}, s.handleCreateTask)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_tag",
		Description: "Create a tag. color is #rrggbb and optional.",
	}, s.handleCreateTag)

	// ============================================================================
	// Timer
	// ============================================================================
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "start_timer",
		Description: "Start the timer on a project. task defaults to the project's default task. Fails if a timer is already running.",
	}, s.handleStartTimer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stop_timer",
		Description: "Stop the running timer and return the finished entry.",
	}, s.handleStopTimer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "timer_status",
		Description: "Show the running entry, if any, with its elapsed time.",
	}, s.handleTimerStatus)

	// ============================================================================
	// Reports
	// ============================================================================
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "today_report",
		Description: "Time per project/task for entries started since local midnight. A running entry counts once it is stopped.",
	}, s.handleTodayReport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "time_report",
		Description: "Time per project/task for entries started since local midnight `days` days ago. days=0 covers the whole history.",
	}, s.handleTimeReport)
}

type EmptyInput struct{}

type ListTasksInput struct {
	Project string `json:"project,omitempty"`
}

type CreateCatalogInput struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type CreateTaskInput struct {
	Project string `json:"project"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
	Default bool   `json:"default,omitempty"`
}

type StartTimerInput struct {
	Project     string   `json:"project"`
	Task        string   `json:"task,omitempty"`
	Description string   `json:"description,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type TimeReportInput struct {
	Days int `json:"days,omitempty"`
}

func (s *Server) handleListProjects(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	projects, err := s.service.ListProjects(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, formatMCPResponse(projects, ""), nil
}

func (s *Server) handleListTasks(ctx context.Context, req *mcp.CallToolRequest, input ListTasksInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	tasks, err := s.service.ListTasks(ctx, strings.TrimSpace(input.Project))
	if err != nil {
		return nil, nil, s.suggest(ctx, err)
	}
	return nil, formatMCPResponse(tasks, ""), nil
}

func (s *Server) handleListTags(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	tags, err := s.service.ListTags(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, formatMCPResponse(tags, ""), nil
}

func (s *Server) handleCreateProject(ctx context.Context, req *mcp.CallToolRequest, input CreateCatalogInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, errors.New("name is required")
	}
	project, err := s.service.CreateProject(ctx, engine.CatalogInput{Name: name, Color: input.Color})
	if err != nil {
		return nil, nil, err
	}
	return nil, formatMCPResponse(project, "Project created. Add tasks with create_task."), nil
}

func (s *Server) handleCreateTask(ctx context.Context, req *mcp.CallToolRequest, input CreateTaskInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project := strings.TrimSpace(input.Project)
	name := strings.TrimSpace(input.Name)
	if project == "" || name == "" {
		return nil, nil, errors.New("project and name are required")
	}
	task, err := s.service.CreateTask(ctx, project, engine.TaskInput{
		Name:    name,
		Color:   input.Color,
		Default: input.Default,
	})
	if err != nil {
		return nil, nil, s.suggest(ctx, err)
	}
	return nil, formatMCPResponse(task, ""), nil
}

func (s *Server) handleCreateTag(ctx context.Context, req *mcp.CallToolRequest, input CreateCatalogInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, errors.New("name is required")
	}
	tag, err := s.service.CreateTag(ctx, engine.CatalogInput{Name: name, Color: input.Color})
	if err != nil {
		return nil, nil, err
	}
	return nil, formatMCPResponse(tag, ""), nil
}

func (s *Server) handleStartTimer(ctx context.Context, req *mcp.CallToolRequest, input StartTimerInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project := strings.TrimSpace(input.Project)
	if project == "" {
		return nil, nil, errors.New("project is required")
	}
	entry, err := s.service.Start(ctx, engine.StartRequest{
		Project:     project,
		Task:        strings.TrimSpace(input.Task),
		Description: input.Description,
		Notes:       input.Notes,
		Tags:        input.Tags,
	})
	if err != nil {
		if errors.Is(err, models.ErrTimerAlreadyRunning) {
			return nil, nil, errors.New(err.Error() + ". Call stop_timer first.")
		}
		return nil, nil, s.suggest(ctx, err)
	}
	return nil, formatMCPResponse(s.entryRecord(entry), "Timer started."), nil
}

func (s *Server) handleStopTimer(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	entry, err := s.service.Stop(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, formatMCPResponse(s.entryRecord(entry), "Timer stopped."), nil
}

func (s *Server) handleTimerStatus(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	entry, err := s.service.Status(ctx)
	if err != nil {
		return nil, nil, err
	}
	if entry == nil {
		return nil, map[string]interface{}{"running": false, "_message": "No timer is running."}, nil
	}
	out := s.entryRecord(entry)
	out["running"] = true
	return nil, out, nil
}

func (s *Server) handleTodayReport(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	reports, err := s.service.Today(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, reportResponse(reports), nil
}

func (s *Server) handleTimeReport(ctx context.Context, req *mcp.CallToolRequest, input TimeReportInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if input.Days < 0 {
		return nil, nil, errors.New("days must be zero or positive")
	}
	reports, err := s.service.Report(ctx, input.Days)
	if err != nil {
		return nil, nil, err
	}
	out := reportResponse(reports)
	out["days"] = input.Days
	return nil, out, nil
}

// entryRecord flattens an entry the same way the CLI prints it.
func (s *Server) entryRecord(e *models.Entry) map[string]interface{} {
	out := map[string]interface{}{}
	for _, f := range output.EntryRecord(*e, s.loc, s.now()) {
		out[f.Key] = f.Value
	}
	return out
}

func reportResponse(reports []models.Report) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(reports))
	var total int64
	for _, r := range reports {
		items = append(items, map[string]interface{}{
			"project":      r.Project,
			"task":         r.Task,
			"duration":     r.Duration,
			"running_time": r.RunningTime(),
		})
		total += r.Duration
	}
	return map[string]interface{}{
		"items":      items,
		"count":      len(items),
		"total":      total,
		"total_time": models.HumanizeDuration(total),
	}
}
