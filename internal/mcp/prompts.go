package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/output"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerPrompts adds MCP prompt templates to the server
func (s *Server) registerPrompts() {
	// Daily Summary - today's report as a standup note
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "daily_summary",
		Title:       "Daily Summary",
		Description: "Summarize today's tracked time as a short standup note",
	}, s.handleDailySummaryPrompt)

	// Weekly Review - report over the last N days
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "weekly_review",
		Title:       "Weekly Review",
		Description: "Review where time went over the last few days",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "days",
				Description: "How many days back to include; 0 means the whole history (default 7)",
				Required:    false,
			},
		},
	}, s.handleWeeklyReviewPrompt)
}

// reportTable renders reports plus a total row as a markdown table.
func reportTable(reports []models.Report) string {
	if len(reports) == 0 {
		return "_No time tracked in this period._"
	}
	records := make([]output.Record, 0, len(reports)+1)
	for _, r := range reports {
		records = append(records, output.ReportRecord(r))
	}
	records = append(records, output.TotalRecord(reports))
	return output.Markdown(records)
}

func (s *Server) handleDailySummaryPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	reports, err := s.service.Today(ctx)
	if err != nil {
		return nil, err
	}

	var running string
	entry, err := s.service.Status(ctx)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		rec := output.EntryRecord(*entry, s.loc, s.now())
		running = fmt.Sprintf("\n\nA timer is still running on %s/%s (%s so far).",
			rec.Get("project"), rec.Get("task"), rec.Get("running_time"))
	}

	promptText := fmt.Sprintf(`Write a short standup note from today's tracked time.

## Today
%s%s

## Guidelines
- Group by project, largest first
- Mention anything that took surprisingly long
- Keep it under five bullet points`, reportTable(reports), running)

	return &mcp.GetPromptResult{
		Description: "Standup note for today",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}

func (s *Server) handleWeeklyReviewPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	days := 7
	if raw := strings.TrimSpace(req.Params.Arguments["days"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("days must be a non-negative integer, got %q", raw)
		}
		days = n
	}

	reports, err := s.service.Report(ctx, days)
	if err != nil {
		return nil, err
	}

	window := fmt.Sprintf("the last %d day(s) plus today", days)
	if days == 0 {
		window = "the whole history"
	}

	promptText := fmt.Sprintf(`Review how my time was spent over %s.

## Time per project/task
%s

## Review Steps
1. Name the projects that took the most time
2. Point out tasks that look fragmented or unusually long
3. Suggest one change for next week`, window, reportTable(reports))

	return &mcp.GetPromptResult{
		Description: "Time review for " + window,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}
