package intelligence

import (
	"context"
	"strings"

	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/llm"
)

// Draft is the model's rendition of a report.
type Draft struct {
	Content   string
	Model     string
	LatencyMs int64
}

// ReportWriter turns an assembled prompt into report text.
type ReportWriter interface {
	Write(ctx context.Context, reportType domain.ReportType, prompt, model string) (*Draft, error)
}

type reportWriter struct {
	client llm.LLMClient
}

// NewReportWriter creates a ReportWriter backed by an LLM client.
func NewReportWriter(client llm.LLMClient) ReportWriter {
	return &reportWriter{client: client}
}

func (w *reportWriter) Write(ctx context.Context, reportType domain.ReportType, prompt, model string) (*Draft, error) {
	resp, err := w.client.Generate(ctx, llm.GenerateRequest{
		Task:       TaskFor(reportType),
		Model:      model,
		UserPrompt: prompt,
	})
	if err != nil {
		return nil, err
	}
	return &Draft{
		Content:   StripMarkdownFence(resp.Text),
		Model:     resp.Model,
		LatencyMs: resp.LatencyMs,
	}, nil
}

// TaskFor maps a report type to its model task.
func TaskFor(reportType domain.ReportType) llm.TaskType {
	if reportType == domain.ReportMeeting {
		return llm.TaskMeetingReport
	}
	return llm.TaskDailyReport
}

// StripMarkdownFence removes a single code fence wrapping the whole output,
// e.g. "```markdown\n...\n```". Fences inside the report are kept.
func StripMarkdownFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return trimmed
	}
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return trimmed
	}
	inner := trimmed[nl+1 : len(trimmed)-3]
	if strings.Contains(inner, "```") {
		return trimmed
	}
	return strings.TrimSpace(inner)
}
