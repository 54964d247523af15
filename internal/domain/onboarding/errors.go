package onboarding

import "errors"

var (
	ErrEmployeeNotFound         = errors.New("employee not found")
	ErrSurveyNotFound           = errors.New("survey not found")
	ErrTransitionNotImplemented = errors.New("survey status transition not implemented")
	ErrInvalidTransition        = errors.New("invalid survey status transition")
	ErrInvalidStartDate         = errors.New("invalid start date")
)
