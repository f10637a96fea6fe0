package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/tracker/internal/engine"
	"github.com/kutbudev/tracker/internal/models"
)

// reportRow adds the rendered duration to a report row.
type reportRow struct {
	models.Report
	RunningTime string `json:"running_time"`
}

func reportRows(reports []models.Report) []reportRow {
	rows := make([]reportRow, len(reports))
	for i, r := range reports {
		rows[i] = reportRow{Report: r, RunningTime: r.RunningTime()}
	}
	return rows
}

func (s *Server) deleted(c *gin.Context, model, ref string, ok bool, err error) {
	if err != nil {
		s.fail(c, err)
		return
	}
	if !ok {
		s.fail(c, models.NotFound(model, ref))
		return
	}
	c.Status(http.StatusNoContent)
}

// Projects

func (s *Server) listProjects(c *gin.Context) {
	projects, err := s.service.ListProjects(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) createProject(c *gin.Context) {
	var input engine.CatalogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.badRequest(c, err)
		return
	}
	project, err := s.service.CreateProject(c.Request.Context(), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (s *Server) getProject(c *gin.Context) {
	project, err := s.service.GetProject(c.Request.Context(), c.Param("project"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) updateProject(c *gin.Context) {
	var input engine.CatalogUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		s.badRequest(c, err)
		return
	}
	project, err := s.service.UpdateProject(c.Request.Context(), c.Param("project"), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) deleteProject(c *gin.Context) {
	ref := c.Param("project")
	ok, err := s.service.DeleteProject(c.Request.Context(), ref)
	s.deleted(c, "project", ref, ok, err)
}

// Tasks

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.service.ListTasks(c.Request.Context(), c.Param("project"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c *gin.Context) {
	var input engine.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.badRequest(c, err)
		return
	}
	task, err := s.service.CreateTask(c.Request.Context(), c.Param("project"), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) getTask(c *gin.Context) {
	task, err := s.service.GetTask(c.Request.Context(), c.Param("project"), c.Param("task"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) updateTask(c *gin.Context) {
	var input engine.TaskUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		s.badRequest(c, err)
		return
	}
	task, err := s.service.UpdateTask(c.Request.Context(), c.Param("project"), c.Param("task"), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	ref := c.Param("task")
	ok, err := s.service.DeleteTask(c.Request.Context(), c.Param("project"), ref)
	s.deleted(c, "task", ref, ok, err)
}

// Tags

func (s *Server) listTags(c *gin.Context) {
	tags, err := s.service.ListTags(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (s *Server) createTag(c *gin.Context) {
	var input engine.CatalogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.badRequest(c, err)
		return
	}
	tag, err := s.service.CreateTag(c.Request.Context(), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (s *Server) getTag(c *gin.Context) {
	tag, err := s.service.GetTag(c.Request.Context(), c.Param("tag"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (s *Server) updateTag(c *gin.Context) {
	var input engine.CatalogUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		s.badRequest(c, err)
		return
	}
	tag, err := s.service.UpdateTag(c.Request.Context(), c.Param("tag"), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (s *Server) deleteTag(c *gin.Context) {
	ref := c.Param("tag")
	ok, err := s.service.DeleteTag(c.Request.Context(), ref)
	s.deleted(c, "tag", ref, ok, err)
}

// Timer

// startBody is the optional JSON body of POST /timer/start/...
type startBody struct {
	Description string   `json:"description"`
	Notes       string   `json:"notes"`
	Tags        []string `json:"tags"`
}

func (s *Server) startTimer(c *gin.Context) {
	var body startBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		s.badRequest(c, err)
		return
	}
	entry, err := s.service.Start(c.Request.Context(), engine.StartRequest{
		Project:     c.Param("project"),
		Task:        c.Param("task"),
		Description: body.Description,
		Notes:       body.Notes,
		Tags:        body.Tags,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) stopTimer(c *gin.Context) {
	entry, err := s.service.Stop(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) timerStatus(c *gin.Context) {
	entry, err := s.service.Status(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if entry == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) today(c *gin.Context) {
	reports, err := s.service.Today(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reportRows(reports))
}

func (s *Server) report(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "0"))
	if err != nil {
		s.fail(c, models.Validation("days must be an integer"))
		return
	}
	reports, err := s.service.Report(c.Request.Context(), days)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reportRows(reports))
}
