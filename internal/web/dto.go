package web

import (
	"time"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/domain"
)

type reportRequestBody struct {
	Type               string            `json:"type"`
	Owner              string            `json:"owner"`
	Repo               string            `json:"repo"`
	Branch             string            `json:"branch"`
	StartDate          string            `json:"startDate"`
	EndDate            string            `json:"endDate"`
	Variables          map[string]string `json:"variables"`
	Model              string            `json:"model"`
	LastMeetingContent string            `json:"lastMeetingContent"`
	DryRun             bool              `json:"dryRun"`
	Save               *bool             `json:"save"`
}

func (b reportRequestBody) toRequest() (app.ReportRequest, error) {
	reportType, err := domain.ParseReportType(b.Type)
	if err != nil {
		return app.ReportRequest{}, app.Validationf("%s", err.Error())
	}
	req := app.NewReportRequest(reportType, b.Owner, b.Repo)
	req.Branch = b.Branch
	req.StartDate = b.StartDate
	req.EndDate = b.EndDate
	req.Variables = b.Variables
	req.Model = b.Model
	req.LastMeetingContent = b.LastMeetingContent
	req.DryRun = b.DryRun
	if b.Save != nil {
		req.Save = *b.Save
	}
	return req, nil
}

type windowJSON struct {
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

func toWindowJSON(w domain.DateWindow) windowJSON {
	return windowJSON{Since: w.Since, Until: w.Until}
}

type reportJSON struct {
	ID          string     `json:"id,omitempty"`
	Type        string     `json:"type"`
	Content     string     `json:"content,omitempty"`
	Prompt      string     `json:"prompt,omitempty"`
	Model       string     `json:"model,omitempty"`
	Window      windowJSON `json:"window"`
	CommitCount int        `json:"commitCount"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

func toReportJSON(r *app.ReportResponse) reportJSON {
	return reportJSON{
		ID:          r.ReportID,
		Type:        string(r.Type),
		Content:     r.Content,
		Prompt:      r.Prompt,
		Model:       r.Model,
		Window:      toWindowJSON(r.Window),
		CommitCount: r.CommitCount,
		GeneratedAt: r.GeneratedAt,
	}
}

type savedReportJSON struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Owner       string    `json:"owner"`
	Repo        string    `json:"repo"`
	Branch      string    `json:"branch"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Content     string    `json:"content"`
	Model       string    `json:"model"`
	CommitCount int       `json:"commitCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toSavedReportJSON(r *domain.Report) savedReportJSON {
	return savedReportJSON{
		ID:          r.ID,
		Type:        string(r.Type),
		Owner:       r.Owner,
		Repo:        r.Repo,
		Branch:      r.Branch,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Content:     r.Content,
		Model:       r.Model,
		CommitCount: r.CommitCount,
		CreatedAt:   r.CreatedAt,
	}
}

type workTimeJSON struct {
	ID        string     `json:"id"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end,omitempty"`
	Minutes   int        `json:"minutes"`
	Memo      string     `json:"memo"`
	Recording bool       `json:"recording"`
}

func toWorkTimeJSON(e *domain.WorkTimeEntry) workTimeJSON {
	return workTimeJSON{
		ID:        e.ID,
		Start:     e.Start,
		End:       e.End,
		Minutes:   e.Minutes(),
		Memo:      e.Memo,
		Recording: e.IsRecording(),
	}
}

type memoBody struct {
	Memo string `json:"memo"`
}

type editWorkTimeBody struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Memo  string    `json:"memo"`
}

type variableBody struct {
	Value string `json:"value"`
}
