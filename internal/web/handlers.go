package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/domain"
)

// respondError writes err as {"success": false, "error": {...}}. Errors that
// are not *app.Error are reported as internal failures.
func (s *Server) respondError(c *gin.Context, err error) {
	appErr, ok := app.AsError(err)
	if !ok {
		s.logger.ErrorContext(c.Request.Context(), "unclassified_error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"kind": "INTERNAL", "message": "internal error"},
		})
		return
	}
	c.JSON(appErr.HTTPStatus(), gin.H{
		"success": false,
		"error":   gin.H{"kind": appErr.Kind, "message": appErr.Message},
	})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.respondError(c, app.Validationf("request body exceeds %d bytes", maxErr.Limit))
		return
	}
	s.respondError(c, app.Validationf("%s", err.Error()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Reports

func (s *Server) bindReportRequest(c *gin.Context) (app.ReportRequest, bool) {
	var body reportRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, err)
		return app.ReportRequest{}, false
	}
	req, err := body.toRequest()
	if err != nil {
		s.respondError(c, err)
		return app.ReportRequest{}, false
	}
	return req, true
}

func (s *Server) handleGenerateReport(c *gin.Context) {
	req, ok := s.bindReportRequest(c)
	if !ok {
		return
	}
	resp, err := s.svc.Reports.Generate(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	status := http.StatusOK
	if resp.ReportID != "" {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"success": true,
		"report":  toReportJSON(resp),
	})
}

func (s *Server) handlePreviewReport(c *gin.Context) {
	req, ok := s.bindReportRequest(c)
	if !ok {
		return
	}
	resp, err := s.svc.Reports.Preview(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  toReportJSON(resp),
	})
}

func (s *Server) handleListReports(c *gin.Context) {
	owner, repo := c.Query("owner"), c.Query("repo")
	if owner == "" || repo == "" {
		s.respondError(c, app.Validationf("owner and repo query parameters are required"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		s.respondError(c, app.Validationf("limit must be a positive integer"))
		return
	}

	reports, err := s.svc.Reports.History(c.Request.Context(), owner, repo, limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]savedReportJSON, 0, len(reports))
	for _, r := range reports {
		out = append(out, toSavedReportJSON(r))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reports": out,
		"count":   len(out),
	})
}

func (s *Server) handleGetReport(c *gin.Context) {
	rep, err := s.svc.Reports.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  toSavedReportJSON(rep),
	})
}

// Commits

func (s *Server) handleListCommits(c *gin.Context) {
	weekly, _ := strconv.ParseBool(c.DefaultQuery("weekly", "false"))
	resp, err := s.svc.Commits.ListCommits(c.Request.Context(), app.CommitsRequest{
		Owner:     c.Param("owner"),
		Repo:      c.Param("repo"),
		Branch:    c.Query("branch"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Weekly:    weekly,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"repository": resp.Repository,
		"branch":     resp.Branch,
		"window":     toWindowJSON(resp.Window),
		"commits":    resp.Commits,
		"count":      len(resp.Commits),
	})
}

// Work time

func (s *Server) handleListWorkTime(c *gin.Context) {
	window, err := s.resolver.Resolve(domain.ReportDaily, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		s.respondError(c, app.Validationf("%s", err.Error()))
		return
	}
	entries, err := s.svc.WorkTime.List(c.Request.Context(), window)
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]workTimeJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toWorkTimeJSON(e))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"window":  toWindowJSON(window),
		"entries": out,
		"count":   len(out),
	})
}

func (s *Server) handleCurrentWorkTime(c *gin.Context) {
	entry, err := s.svc.WorkTime.Current(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "recording": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"recording": true,
		"entry":     toWorkTimeJSON(entry),
	})
}

// bindOptionalMemo accepts an empty body.
func (s *Server) bindOptionalMemo(c *gin.Context) (string, bool) {
	var body memoBody
	if c.Request.ContentLength == 0 {
		return "", true
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, err)
		return "", false
	}
	return body.Memo, true
}

func (s *Server) handleStartWorkTime(c *gin.Context) {
	memo, ok := s.bindOptionalMemo(c)
	if !ok {
		return
	}
	entry, err := s.svc.WorkTime.Start(c.Request.Context(), memo)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"entry":   toWorkTimeJSON(entry),
	})
}

func (s *Server) handleStopWorkTime(c *gin.Context) {
	memo, ok := s.bindOptionalMemo(c)
	if !ok {
		return
	}
	entry, state, err := s.svc.WorkTime.Stop(c.Request.Context(), memo)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"state":   state,
		"entry":   toWorkTimeJSON(entry),
	})
}

func (s *Server) handleEditWorkTime(c *gin.Context) {
	var body editWorkTimeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, err)
		return
	}
	if body.Start.IsZero() || body.End.IsZero() {
		s.respondError(c, app.Validationf("start and end are required (RFC3339)"))
		return
	}
	entry, err := s.svc.WorkTime.Edit(c.Request.Context(), c.Param("id"), body.Start, body.End, body.Memo)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entry":   toWorkTimeJSON(entry),
	})
}

func (s *Server) handleDeleteWorkTime(c *gin.Context) {
	if err := s.svc.WorkTime.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Templates

func (s *Server) reportTypeParam(c *gin.Context) (domain.ReportType, bool) {
	t, err := domain.ParseReportType(c.Param("type"))
	if err != nil {
		s.respondError(c, app.Validationf("%s", err.Error()))
		return "", false
	}
	return t, true
}

func (s *Server) handleShowTemplate(c *gin.Context) {
	t, ok := s.reportTypeParam(c)
	if !ok {
		return
	}
	text, err := s.svc.Templates.Show(c.Request.Context(), t)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "type": t, "template": text})
}

func (s *Server) handleListVariables(c *gin.Context) {
	t, ok := s.reportTypeParam(c)
	if !ok {
		return
	}
	vars, err := s.svc.Templates.Variables(c.Request.Context(), t)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "type": t, "variables": vars})
}

func (s *Server) handleSetVariable(c *gin.Context) {
	t, ok := s.reportTypeParam(c)
	if !ok {
		return
	}
	var body variableBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, err)
		return
	}
	if err := s.svc.Templates.SetVariable(c.Request.Context(), t, c.Param("name"), body.Value); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleDeleteVariable(c *gin.Context) {
	t, ok := s.reportTypeParam(c)
	if !ok {
		return
	}
	if err := s.svc.Templates.DeleteVariable(c.Request.Context(), t, c.Param("name")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
