package onboarding

import (
	"context"
	"fmt"
)

// GetFeedbackQuestions seeds the fixed question bank on first use.
func (s *Store) GetFeedbackQuestions(ctx context.Context) []FeedbackQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) == 0 {
		s.questions = defaultSeed.questions()
		s.saveLocked(ctx)
	}
	return append([]FeedbackQuestion{}, s.questions...)
}

// CreateFeedbackSurvey appends a pending survey for a known employee.
func (s *Store) CreateFeedbackSurvey(ctx context.Context, employeeID string, surveyType SurveyType) (FeedbackSurvey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	survey, err := s.createSurveyLocked(employeeID, surveyType)
	if err != nil {
		return FeedbackSurvey{}, err
	}
	s.saveLocked(ctx)
	return cloneSurvey(survey), nil
}

func (s *Store) createSurveyLocked(employeeID string, surveyType SurveyType) (FeedbackSurvey, error) {
	idx := employeeIndex(s.employees, employeeID)
	if idx < 0 {
		return FeedbackSurvey{}, fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
	}
	survey := FeedbackSurvey{
		ID:           s.newID(),
		EmployeeID:   employeeID,
		EmployeeName: s.employees[idx].Name,
		Type:         surveyType,
		Status:       SurveyPending,
		SentDate:     s.now(),
		Responses:    []FeedbackResponse{},
	}
	s.surveys = append(s.surveys, survey)
	return survey, nil
}

func (s *Store) GetFeedbackSurveys() []FeedbackSurvey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterSurveysLocked(func(FeedbackSurvey) bool { return true })
}

func (s *Store) GetEmployeeFeedbackSurveys(employeeID string) []FeedbackSurvey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterSurveysLocked(func(survey FeedbackSurvey) bool { return survey.EmployeeID == employeeID })
}

func (s *Store) GetFeedbackSurvey(surveyID string) (FeedbackSurvey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := surveyIndex(s.surveys, surveyID)
	if idx < 0 {
		return FeedbackSurvey{}, false
	}
	return cloneSurvey(s.surveys[idx]), true
}

func (s *Store) filterSurveysLocked(keep func(FeedbackSurvey) bool) []FeedbackSurvey {
	out := []FeedbackSurvey{}
	for _, survey := range s.surveys {
		if keep(survey) {
			out = append(out, cloneSurvey(survey))
		}
	}
	return out
}

// SubmitFeedbackSurvey completes a survey. A second submission overwrites the
// first one's responses, comments and score.
func (s *Store) SubmitFeedbackSurvey(ctx context.Context, surveyID string, responses []FeedbackResponse, comments string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := surveyIndex(s.surveys, surveyID)
	if idx < 0 {
		return false
	}

	now := s.now()
	score := ScoreResponses(responses)
	survey := &s.surveys[idx]
	survey.Responses = append([]FeedbackResponse{}, responses...)
	survey.Comments = comments
	survey.Status = SurveyCompleted
	survey.CompletedDate = &now
	survey.OverallScore = &score

	s.saveLocked(ctx)
	return true
}

// CheckAndTriggerFeedbackSurveys creates day-30 and day-90 surveys for
// employees whose start date is exactly that many days ago. A missed day is
// not caught up.
func (s *Store) CheckAndTriggerFeedbackSurveys(ctx context.Context) []FeedbackSurvey {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	created := []FeedbackSurvey{}
	for _, employee := range s.employees {
		days, err := DaysSinceStart(employee.StartDate, now)
		if err != nil {
			s.logger.Warn("skip survey check", "employeeId", employee.ID, "startDate", employee.StartDate, "err", err)
			continue
		}
		for _, trigger := range surveyTriggerDays {
			if days != trigger.Days || s.hasSurveyLocked(employee.ID, trigger.Type) {
				continue
			}
			survey, err := s.createSurveyLocked(employee.ID, trigger.Type)
			if err != nil {
				continue
			}
			created = append(created, cloneSurvey(survey))
		}
	}
	if len(created) > 0 {
		s.saveLocked(ctx)
	}
	return created
}

// TransitionSurvey moves a survey between statuses. Completion only happens
// through SubmitFeedbackSurvey, and the sent and overdue states have no
// trigger yet.
func (s *Store) TransitionSurvey(ctx context.Context, surveyID string, status SurveyStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if surveyIndex(s.surveys, surveyID) < 0 {
		return fmt.Errorf("%w: %s", ErrSurveyNotFound, surveyID)
	}
	switch status {
	case SurveySent, SurveyOverdue:
		return fmt.Errorf("%w: %s", ErrTransitionNotImplemented, status)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTransition, status)
	}
}

func (s *Store) hasSurveyLocked(employeeID string, surveyType SurveyType) bool {
	for _, survey := range s.surveys {
		if survey.EmployeeID == employeeID && survey.Type == surveyType {
			return true
		}
	}
	return false
}

func surveyIndex(list []FeedbackSurvey, surveyID string) int {
	for i := range list {
		if list[i].ID == surveyID {
			return i
		}
	}
	return -1
}
