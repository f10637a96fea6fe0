package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kutbudev/tracker/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const instructions = `TRACKER - personal time tracking

There is exactly one timer. Starting it while it runs is an error, so check
timer_status first when unsure.

## Quick Reference
- LIST: list_projects, list_tasks(project), list_tags
- TRACK: start_timer(project, task?, description?, tags?) then stop_timer
- REPORT: today_report, time_report(days); days=0 is the whole history

Projects, tasks and tags are referenced by id or by slug ("Acme Corp" -> "acme-corp").
Omitting task on start_timer uses the project's default task.`

// Server exposes an engine.Service as MCP tools, resources and prompts.
type Server struct {
	service engine.Service
	loc     *time.Location
	now     func() time.Time
	server  *mcp.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLocation sets the zone entry times are shown in.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now for running-time display.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer registers every tool, resource and prompt against service.
func NewServer(service engine.Service, version string, opts ...Option) (*Server, error) {
	if service == nil {
		return nil, errors.New("tracker service is required")
	}
	if version == "" {
		version = "dev"
	}

	s := &Server{service: service, loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "tracker",
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: instructions,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s, nil
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// ServeStdio starts the MCP server over stdio
func ServeStdio(ctx context.Context, service engine.Service, version string, opts ...Option) error {
	s, err := NewServer(service, version, opts...)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// wrapResultAsObject ensures the result is always an object (not array or null)
func wrapResultAsObject(result interface{}) map[string]interface{} {
	if result == nil {
		return map[string]interface{}{"items": []interface{}{}, "count": 0, "message": "No results"}
	}

	switch v := result.(type) {
	case []interface{}:
		return map[string]interface{}{"items": v, "count": len(v)}
	case map[string]interface{}:
		return v
	default:
		b, err := json.Marshal(result)
		if err != nil {
			return map[string]interface{}{"data": result}
		}

		if len(b) > 0 && b[0] == '[' {
			var arr []interface{}
			if err := json.Unmarshal(b, &arr); err == nil {
				return map[string]interface{}{"items": arr, "count": len(arr)}
			}
		}

		if len(b) > 0 && b[0] == '{' {
			var obj map[string]interface{}
			if err := json.Unmarshal(b, &obj); err == nil {
				return obj
			}
		}

		if string(b) == "null" {
			return map[string]interface{}{"items": []interface{}{}, "count": 0, "message": "No results"}
		}
		return map[string]interface{}{"data": result}
	}
}

// formatMCPResponse wraps data as an object and attaches a short hint for the agent.
func formatMCPResponse(data interface{}, message string) map[string]interface{} {
	wrapped := wrapResultAsObject(data)
	if message != "" {
		wrapped["_message"] = message
	}
	return wrapped
}

// jsonText renders v the way resources and prompts embed it.
func jsonText(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}
	return string(b), nil
}
