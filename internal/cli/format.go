package cli

import (
	"github.com/fatih/color"

	"onboarding/internal/domain/onboarding"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

func employeeStatus(status onboarding.EmployeeStatus) string {
	switch status {
	case onboarding.StatusCompleted:
		return green.Sprint(status)
	case onboarding.StatusOnTrack:
		return cyan.Sprint(status)
	case onboarding.StatusAtRisk:
		return red.Sprint(status)
	}
	return string(status)
}

func taskStatus(status onboarding.TaskStatus) string {
	switch status {
	case onboarding.TaskDone:
		return green.Sprint(status)
	case onboarding.TaskDoing:
		return yellow.Sprint(status)
	case onboarding.TaskBlocked:
		return red.Sprint(status)
	}
	return faint.Sprint(status)
}

func surveyStatus(status onboarding.SurveyStatus) string {
	switch status {
	case onboarding.SurveyCompleted:
		return green.Sprint(status)
	case onboarding.SurveyOverdue:
		return red.Sprint(status)
	}
	return yellow.Sprint(status)
}
