package onboarding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"onboarding/internal/platform/storage"
)

type recordingPoster struct {
	mu       sync.Mutex
	payloads []any
	err      error
}

func (p *recordingPoster) Post(ctx context.Context, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return p.err
}

type countingSink struct {
	triggered int
	failures  int
}

func (c *countingSink) SurveysTriggered(n int) { c.triggered += n }
func (c *countingSink) WebhookFailed() { c.failures++ }

func newTestService(opts ...ServiceOption) *Service {
	return NewService(newTestStore(storage.NewMemory()), append([]ServiceOption{WithServiceLogger(quietLogger())}, opts...)...)
}

func TestServiceUpdateTaskStatusPostsWebhook(t *testing.T) {
	hook := &recordingPoster{}
	svc := newTestService(WithTaskWebhook(hook))

	ok, err := svc.UpdateTaskStatus(context.Background(), "E-1027", "profile", TaskDone)
	if err != nil || !ok {
		t.Fatalf("expected success, got ok=%v err=%v", ok, err)
	}
	if len(hook.payloads) != 1 {
		t.Fatalf("expected one webhook call, got %d", len(hook.payloads))
	}
	event := hook.payloads[0].(taskUpdateEvent)
	if event.EmployeeID != "E-1027" || event.TaskID != "profile" || event.Status != TaskDone {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestServiceWebhookFailureKeepsLocalUpdate(t *testing.T) {
	hook := &recordingPoster{err: errors.New("placeholder endpoint down")}
	sink := &countingSink{}
	svc := newTestService(WithTaskWebhook(hook), WithEvents(sink))

	ok, err := svc.UpdateTaskStatus(context.Background(), "E-1027", "profile", TaskDone)
	if err != nil || !ok {
		t.Fatalf("expected local success, got ok=%v err=%v", ok, err)
	}
	if got := svc.Store.GetEmployeeTasks("E-1027")[0].Status; got != TaskDone {
		t.Fatalf("expected local update to stand, got %s", got)
	}
	if sink.failures != 1 {
		t.Fatalf("expected failure counted, got %d", sink.failures)
	}
}

func TestServiceUnknownTaskSkipsWebhook(t *testing.T) {
	hook := &recordingPoster{}
	svc := newTestService(WithTaskWebhook(hook))

	ok, err := svc.UpdateTaskStatus(context.Background(), "E-1027", "nope", TaskDone)
	if err != nil || ok {
		t.Fatalf("expected ok=false err=nil, got ok=%v err=%v", ok, err)
	}
	if len(hook.payloads) != 0 {
		t.Fatal("webhook should not fire for a failed update")
	}
}

func TestServiceCreateNewHire(t *testing.T) {
	hook := &recordingPoster{}
	svc := newTestService(WithNewHireWebhook(hook))
	hire := NewHire{Name: "Jamie Fox", Email: "jamie@acme.com", StartDate: "2024-04-01"}

	if err := svc.CreateNewHire(context.Background(), hire); err != nil {
		t.Fatalf("create new hire: %v", err)
	}
	if got := hook.payloads[0].(NewHire); got != hire {
		t.Fatalf("unexpected payload %+v", got)
	}

	failing := &recordingPoster{err: errors.New("status 500")}
	sink := &countingSink{}
	svc = newTestService(WithNewHireWebhook(failing), WithEvents(sink))
	if err := svc.CreateNewHire(context.Background(), hire); err == nil {
		t.Fatal("expected error from failing webhook")
	}
	if len(failing.payloads) != 1 {
		t.Fatalf("expected no retry, got %d attempts", len(failing.payloads))
	}
	if sink.failures != 1 {
		t.Fatalf("expected failure counted, got %d", sink.failures)
	}
}

func TestServiceLatencyHonoursContext(t *testing.T) {
	svc := newTestService(WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.GetEmployees(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestServiceLatencyDelays(t *testing.T) {
	svc := newTestService(WithLatency(20 * time.Millisecond))
	start := time.Now()
	employees, err := svc.GetEmployees(context.Background())
	if err != nil {
		t.Fatalf("get employees: %v", err)
	}
	if len(employees) != 5 {
		t.Fatalf("expected 5 employees, got %d", len(employees))
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected simulated latency, took %v", elapsed)
	}
}

func TestServiceTriggerCountsSurveys(t *testing.T) {
	sink := &countingSink{}
	svc := newTestService(WithEvents(sink))

	created := svc.TriggerFeedbackSurveys(context.Background())
	if len(created) != 1 || sink.triggered != 1 {
		t.Fatalf("expected one survey counted, got %d created, %d counted", len(created), sink.triggered)
	}
}

func TestServiceCreateOnboardingWorkflowStub(t *testing.T) {
	svc := newTestService()
	wf, err := svc.CreateOnboardingWorkflow(context.Background(), "E-1029")
	if err != nil {
		t.Fatalf("workflow: %v", err)
	}
	if wf.ID == "" || wf.EmployeeID != "E-1029" || wf.Status != "created" {
		t.Fatalf("unexpected workflow %+v", wf)
	}
	if len(svc.Store.GetFeedbackSurveys()) != 0 {
		t.Fatal("workflow stub should not change state")
	}
}

type recordingMailer struct {
	to       []string
	subjects []string
	err      error
}

func (m *recordingMailer) Send(ctx context.Context, from, to, subject, body string) error {
	m.to = append(m.to, to)
	m.subjects = append(m.subjects, subject)
	return m.err
}

func TestServiceCreateSurveySendsInvitation(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newTestService(WithMailer(mailer, "onboarding@acme.com"))

	survey, err := svc.CreateFeedbackSurvey(context.Background(), "E-1027", SurveyAdHoc)
	if err != nil {
		t.Fatalf("create survey: %v", err)
	}
	if len(mailer.to) != 1 || mailer.to[0] != "sarah.johnson@acme.com" {
		t.Fatalf("expected one invitation to the employee, got %v", mailer.to)
	}
	if mailer.subjects[0] != "Your ad-hoc onboarding survey" {
		t.Fatalf("unexpected subject %q", mailer.subjects[0])
	}

	mailer.err = errors.New("smtp down")
	if _, err := svc.CreateFeedbackSurvey(context.Background(), "E-1027", SurveyAdHoc); err != nil {
		t.Fatalf("mail failure must not fail survey creation: %v", err)
	}
	if _, ok := svc.GetFeedbackSurvey(context.Background(), survey.ID); !ok {
		t.Fatal("expected survey to be stored")
	}
}

func TestServiceUnknownEmployeeSendsNothing(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newTestService(WithMailer(mailer, "onboarding@acme.com"))

	if _, err := svc.CreateFeedbackSurvey(context.Background(), "E-0000", SurveyAdHoc); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if len(mailer.to) != 0 {
		t.Fatalf("expected no invitations, got %v", mailer.to)
	}
}
