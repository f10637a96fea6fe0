package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "tracker://"

// registerResources adds read-only views of the catalog, timer and today's report.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "projects",
		Name:        "projects",
		Description: "All projects",
		MIMEType:    "application/json",
	}, s.handleProjectsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tags",
		Name:        "tags",
		Description: "All tags",
		MIMEType:    "application/json",
	}, s.handleTagsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "timer/status",
		Name:        "timer-status",
		Description: "The running entry, or running=false",
		MIMEType:    "application/json",
	}, s.handleTimerResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "report/today",
		Name:        "today-report",
		Description: "Time per project/task since local midnight",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// Template: tasks of one project
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{ref}/tasks",
		Name:        "project-tasks",
		Description: "Tasks of a project, by id or slug",
		MIMEType:    "application/json",
	}, s.handleProjectTasksResource)
}

// extractIDFromURI extracts the {ref} portion from a resource URI
func extractIDFromURI(uri, prefix, suffix string) string {
	s := strings.TrimPrefix(uri, prefix)
	if suffix != "" {
		s = strings.TrimSuffix(s, suffix)
	}
	return s
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	text, err := jsonText(v)
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}

func (s *Server) handleProjectsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	projects, err := s.service.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, projects)
}

func (s *Server) handleTagsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	tags, err := s.service.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, tags)
}

func (s *Server) handleTimerResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	entry, err := s.service.Status(ctx)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return jsonResource(req.Params.URI, map[string]interface{}{"running": false})
	}
	out := s.entryRecord(entry)
	out["running"] = true
	return jsonResource(req.Params.URI, out)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	reports, err := s.service.Today(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, reportResponse(reports))
}

func (s *Server) handleProjectTasksResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ref := extractIDFromURI(req.Params.URI, uriScheme+"projects/", "/tasks")
	if ref == "" || strings.Contains(ref, "/") {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	tasks, err := s.service.ListTasks(ctx, ref)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, tasks)
}
