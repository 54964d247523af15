package reports

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"onboarding/internal/domain/onboarding"
)

var titleCaser = cases.Title(language.English)

// OnboardingPDF renders the HR onboarding report: headline metrics, one row
// per employee and the survey summary.
func OnboardingPDF(snap onboarding.Snapshot, metrics onboarding.Metrics, analytics onboarding.FeedbackAnalytics, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Onboarding report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Onboarding report")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employees: %d", metrics.TotalEmployees))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("On track: %d%%", metrics.OnTrackPercentage))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Average completion time: %.1f days", metrics.AverageCompletionTime))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Satisfaction: %.1f / 5", metrics.SatisfactionScore))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Employees")
	pdf.Ln(8)
	widths := []float64{22, 50, 45, 28, 20}
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range []string{"ID", "Name", "Department", "Status", "Tasks"} {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, e := range snap.Employees {
		tasks := snap.Tasks[e.ID]
		pdf.CellFormat(widths[0], 7, e.ID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, e.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, e.Department, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%s %d%%", titleCaser.String(string(e.Status)), e.Progress), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 7, taskSummary(tasks), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Feedback")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Surveys completed: %d of %d (%d%%)", analytics.CompletedSurveys, analytics.TotalSurveys, analytics.CompletionRate))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Average satisfaction: %.1f", analytics.AverageSatisfaction))
	pdf.Ln(6)
	for _, line := range categoryLines(analytics.CategoryAverages) {
		pdf.Cell(0, 7, line)
		pdf.Ln(6)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func taskSummary(tasks []onboarding.Task) string {
	if len(tasks) == 0 {
		return "-"
	}
	done := 0
	for _, task := range tasks {
		if task.Status == onboarding.TaskDone {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(tasks))
}

func categoryLines(avg onboarding.CategoryAverages) []string {
	values := map[string]float64{
		"onboarding": avg.Onboarding,
		"manager":    avg.Manager,
		"workplace":  avg.Workplace,
		"resources":  avg.Resources,
		"overall":    avg.Overall,
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %.1f", titleCaser.String(name), values[name]))
	}
	return lines
}
