package onboarding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Poster sends a JSON payload to an external integration.
type Poster interface {
	Post(ctx context.Context, payload any) error
}

// Mailer delivers survey invitations.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// EventSink receives counters about integration activity.
type EventSink interface {
	SurveysTriggered(n int)
	WebhookFailed()
}

// Service is the call-through API used by the HTTP and CLI layers. Each call
// forwards to the Store, optionally after a simulated latency or a webhook.
type Service struct {
	Store       *Store
	taskHook    Poster
	newHireHook Poster
	latency     time.Duration
	events      EventSink
	mailer      Mailer
	mailFrom    string
	logger      *slog.Logger
	now         func() time.Time
}

type ServiceOption func(*Service)

func WithTaskWebhook(p Poster) ServiceOption {
	return func(s *Service) { s.taskHook = p }
}

func WithNewHireWebhook(p Poster) ServiceOption {
	return func(s *Service) { s.newHireHook = p }
}

func WithLatency(d time.Duration) ServiceOption {
	return func(s *Service) { s.latency = d }
}

func WithMailer(m Mailer, from string) ServiceOption {
	return func(s *Service) {
		s.mailer = m
		s.mailFrom = from
	}
}

func WithEvents(sink EventSink) ServiceOption {
	return func(s *Service) { s.events = sink }
}

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(store *Store, opts ...ServiceOption) *Service {
	s := &Service{
		Store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) GetEmployeeTasks(ctx context.Context, employeeID string) ([]Task, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Store.GetEmployeeTasks(employeeID), nil
}

type taskUpdateEvent struct {
	EmployeeID string     `json:"employeeId"`
	TaskID     string     `json:"taskId"`
	Status     TaskStatus `json:"status"`
	Timestamp  time.Time  `json:"timestamp"`
}

// UpdateTaskStatus applies the change locally, then notifies the task
// webhook. A webhook failure is logged; the local update stands.
func (s *Service) UpdateTaskStatus(ctx context.Context, employeeID, taskID string, status TaskStatus) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}
	if !s.Store.UpdateTaskStatus(ctx, employeeID, taskID, status) {
		return false, nil
	}
	if s.taskHook != nil {
		event := taskUpdateEvent{EmployeeID: employeeID, TaskID: taskID, Status: status, Timestamp: s.now().UTC()}
		if err := s.taskHook.Post(ctx, event); err != nil {
			s.logger.Warn("task webhook failed", "employeeId", employeeID, "taskId", taskID, "err", err)
			if s.events != nil {
				s.events.WebhookFailed()
			}
		}
	}
	return true, nil
}

func (s *Service) GetEmployees(ctx context.Context) ([]Employee, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Store.GetEmployees(), nil
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (Employee, bool, error) {
	if err := s.wait(ctx); err != nil {
		return Employee{}, false, err
	}
	e, ok := s.Store.GetEmployee(employeeID)
	return e, ok, nil
}

func (s *Service) AddEmployee(ctx context.Context, e Employee) Employee {
	return s.Store.AddEmployee(ctx, e)
}

func (s *Service) AddTask(ctx context.Context, t Task) Task {
	return s.Store.AddTask(ctx, t)
}

func (s *Service) GetMetrics(ctx context.Context) (Metrics, error) {
	if err := s.wait(ctx); err != nil {
		return Metrics{}, err
	}
	return s.Store.GetMetrics(), nil
}

func (s *Service) GetFeedbackQuestions(ctx context.Context) ([]FeedbackQuestion, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Store.GetFeedbackQuestions(ctx), nil
}

func (s *Service) GetFeedbackSurveys(ctx context.Context) ([]FeedbackSurvey, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Store.GetFeedbackSurveys(), nil
}

func (s *Service) GetEmployeeFeedbackSurveys(ctx context.Context, employeeID string) ([]FeedbackSurvey, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Store.GetEmployeeFeedbackSurveys(employeeID), nil
}

func (s *Service) GetFeedbackSurvey(ctx context.Context, surveyID string) (FeedbackSurvey, bool) {
	return s.Store.GetFeedbackSurvey(surveyID)
}

func (s *Service) CreateFeedbackSurvey(ctx context.Context, employeeID string, surveyType SurveyType) (FeedbackSurvey, error) {
	survey, err := s.Store.CreateFeedbackSurvey(ctx, employeeID, surveyType)
	if err != nil {
		return FeedbackSurvey{}, err
	}
	s.invite(ctx, survey)
	return survey, nil
}

func (s *Service) SubmitFeedbackSurvey(ctx context.Context, surveyID string, responses []FeedbackResponse, comments string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}
	return s.Store.SubmitFeedbackSurvey(ctx, surveyID, responses, comments), nil
}

// TriggerFeedbackSurveys runs the day-30/day-90 check and reports how many surveys it created.
func (s *Service) TriggerFeedbackSurveys(ctx context.Context) []FeedbackSurvey {
	created := s.Store.CheckAndTriggerFeedbackSurveys(ctx)
	if len(created) > 0 {
		s.logger.Info("feedback surveys triggered", "count", len(created))
		if s.events != nil {
			s.events.SurveysTriggered(len(created))
		}
	}
	for _, survey := range created {
		s.invite(ctx, survey)
	}
	return created
}

// invite emails the employee that a survey is waiting. Failures are logged
// and never undo the survey.
func (s *Service) invite(ctx context.Context, survey FeedbackSurvey) {
	if s.mailer == nil {
		return
	}
	employee, ok := s.Store.GetEmployee(survey.EmployeeID)
	if !ok || employee.Email == "" {
		return
	}
	subject := fmt.Sprintf("Your %s onboarding survey", survey.Type)
	body := fmt.Sprintf("Hi %s,\n\nPlease take a few minutes to tell us how onboarding is going. Survey id: %s\n", employee.Name, survey.ID)
	if err := s.mailer.Send(ctx, s.mailFrom, employee.Email, subject, body); err != nil {
		s.logger.Warn("survey invitation failed", "surveyId", survey.ID, "employeeId", survey.EmployeeID, "err", err)
	}
}

func (s *Service) TransitionSurvey(ctx context.Context, surveyID string, status SurveyStatus) error {
	return s.Store.TransitionSurvey(ctx, surveyID, status)
}

func (s *Service) GetFeedbackAnalytics(ctx context.Context) (FeedbackAnalytics, error) {
	if err := s.wait(ctx); err != nil {
		return FeedbackAnalytics{}, err
	}
	return s.Store.GetFeedbackAnalytics(), nil
}

// CreateOnboardingWorkflow is a stub; nothing is stored or started.
func (s *Service) CreateOnboardingWorkflow(ctx context.Context, employeeID string) (Workflow, error) {
	if err := s.wait(ctx); err != nil {
		return Workflow{}, err
	}
	return Workflow{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Status:     "created",
		CreatedAt:  s.now().UTC(),
	}, nil
}

// CreateNewHire forwards the hire to the new-hire webhook. There is no retry.
func (s *Service) CreateNewHire(ctx context.Context, hire NewHire) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if s.newHireHook == nil {
		return nil
	}
	if err := s.newHireHook.Post(ctx, hire); err != nil {
		if s.events != nil {
			s.events.WebhookFailed()
		}
		return fmt.Errorf("create new hire: %w", err)
	}
	return nil
}

func (s *Service) Reset(ctx context.Context) {
	s.Store.ClearAllData(ctx)
}
