package reports

import "onboarding/internal/domain/onboarding"

// EmployeeDashboard summarises one new hire's checklist.
func EmployeeDashboard(employee onboarding.Employee, tasks []onboarding.Task, pendingSurveys int) map[string]any {
	counts := map[onboarding.TaskStatus]int{}
	for _, task := range tasks {
		counts[task.Status]++
	}
	return map[string]any{
		"employeeId":     employee.ID,
		"progress":       employee.Progress,
		"status":         employee.Status,
		"tasksTotal":     len(tasks),
		"tasksDone":      counts[onboarding.TaskDone],
		"tasksDoing":     counts[onboarding.TaskDoing],
		"tasksTodo":      counts[onboarding.TaskTodo],
		"pendingSurveys": pendingSurveys,
	}
}

// HRDashboard combines the headline metrics with survey analytics.
func HRDashboard(metrics onboarding.Metrics, analytics onboarding.FeedbackAnalytics, atRisk int) map[string]any {
	return map[string]any{
		"totalEmployees":        metrics.TotalEmployees,
		"onTrackPercentage":     metrics.OnTrackPercentage,
		"averageCompletionTime": metrics.AverageCompletionTime,
		"satisfactionScore":     metrics.SatisfactionScore,
		"atRiskEmployees":       atRisk,
		"surveyCompletionRate":  analytics.CompletionRate,
		"averageSatisfaction":   analytics.AverageSatisfaction,
	}
}
