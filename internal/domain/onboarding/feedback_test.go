package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"onboarding/internal/platform/storage"
)

func ratingResponses(onboarding, manager, overall int) []FeedbackResponse {
	return []FeedbackResponse{
		{QuestionID: "q1", Question: "How clear was the onboarding process?", Answer: onboarding, Category: CategoryOnboarding},
		{QuestionID: "q4", Question: "How supported do you feel by your manager?", Answer: manager, Category: CategoryManager},
		{QuestionID: "q10", Question: "How satisfied are you with your onboarding overall?", Answer: overall, Category: CategoryOverall},
	}
}

func TestGetFeedbackQuestionsSeedsLazily(t *testing.T) {
	backend := storage.NewMemory()
	store := newTestStore(backend)
	ctx := context.Background()

	if snap := store.Snapshot(); len(snap.Questions) != 0 {
		t.Fatal("questions should not be seeded at construction")
	}
	questions := store.GetFeedbackQuestions(ctx)
	if len(questions) != 11 {
		t.Fatalf("expected 11 questions, got %d", len(questions))
	}
	last := questions[len(questions)-1]
	if last.Type != QuestionText || last.Category != CategoryOverall {
		t.Fatalf("expected trailing overall text question, got %+v", last)
	}
	for _, q := range questions {
		if !ValidCategory(q.Category) {
			t.Fatalf("invalid category on %s", q.ID)
		}
	}

	reloaded := newTestStore(backend)
	if snap := reloaded.Snapshot(); len(snap.Questions) != 11 {
		t.Fatalf("expected persisted questions, got %d", len(snap.Questions))
	}
}

func TestCreateFeedbackSurvey(t *testing.T) {
	store := newTestStore(storage.NewMemory())
	ctx := context.Background()

	if _, err := store.CreateFeedbackSurvey(ctx, "E-9999", SurveyAdHoc); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	survey, err := store.CreateFeedbackSurvey(ctx, "E-1026", SurveyAdHoc)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if survey.ID != "survey-1" || survey.EmployeeName != "Marcus Chen" || survey.Status != SurveyPending {
		t.Fatalf("unexpected survey %+v", survey)
	}
	if len(survey.Responses) != 0 || survey.OverallScore != nil || survey.CompletedDate != nil {
		t.Fatalf("new survey should be empty: %+v", survey)
	}
	if !survey.SentDate.Equal(fixedNow) {
		t.Fatalf("unexpected sent date %v", survey.SentDate)
	}

	if got := store.GetEmployeeFeedbackSurveys("E-1026"); len(got) != 1 {
		t.Fatalf("expected one survey for E-1026, got %d", len(got))
	}
	if got := store.GetEmployeeFeedbackSurveys("E-1025"); len(got) != 0 {
		t.Fatalf("expected none for E-1025, got %d", len(got))
	}
}

func TestSubmitFeedbackSurveyOverwrites(t *testing.T) {
	store := newTestStore(storage.NewMemory())
	ctx := context.Background()

	if store.SubmitFeedbackSurvey(ctx, "missing", nil, "") {
		t.Fatal("expected false for unknown survey")
	}

	survey, err := store.CreateFeedbackSurvey(ctx, "E-1027", SurveyAdHoc)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !store.SubmitFeedbackSurvey(ctx, survey.ID, ratingResponses(4, 5, 1), "great start") {
		t.Fatal("first submit failed")
	}
	first, _ := store.GetFeedbackSurvey(survey.ID)
	if first.Status != SurveyCompleted || first.CompletedDate == nil {
		t.Fatalf("expected completed survey, got %+v", first)
	}
	if first.OverallScore == nil || *first.OverallScore != 4.5 {
		t.Fatalf("expected score 4.5, got %v", first.OverallScore)
	}

	if !store.SubmitFeedbackSurvey(ctx, survey.ID, ratingResponses(2, 3, 5), "second thoughts") {
		t.Fatal("second submit should also succeed")
	}
	second, _ := store.GetFeedbackSurvey(survey.ID)
	if *second.OverallScore != 2.5 || second.Comments != "second thoughts" {
		t.Fatalf("expected overwrite, got score %v comments %q", *second.OverallScore, second.Comments)
	}
	if len(store.GetFeedbackSurveys()) != 1 {
		t.Fatal("resubmission should not add a survey")
	}
}

func TestSubmitOnlyOverallResponsesScoresZero(t *testing.T) {
	store := newTestStore(storage.NewMemory())
	ctx := context.Background()
	survey, _ := store.CreateFeedbackSurvey(ctx, "E-1027", SurveyAdHoc)

	store.SubmitFeedbackSurvey(ctx, survey.ID, []FeedbackResponse{{QuestionID: "q10", Answer: 5, Category: CategoryOverall}}, "")
	got, _ := store.GetFeedbackSurvey(survey.ID)
	if got.OverallScore == nil || *got.OverallScore != 0 {
		t.Fatalf("expected score 0, got %v", got.OverallScore)
	}
}

func TestCheckAndTriggerFeedbackSurveysExactDay(t *testing.T) {
	store := newTestStore(storage.NewMemory())
	ctx := context.Background()

	// fixedNow is exactly 30 days after E-1027's start date.
	created := store.CheckAndTriggerFeedbackSurveys(ctx)
	if len(created) != 1 {
		t.Fatalf("expected one survey, got %d", len(created))
	}
	if created[0].EmployeeID != "E-1027" || created[0].Type != SurveyDay30 || created[0].Status != SurveyPending {
		t.Fatalf("unexpected survey %+v", created[0])
	}

	again := store.CheckAndTriggerFeedbackSurveys(ctx)
	if len(again) != 0 {
		t.Fatalf("expected no duplicates, got %d", len(again))
	}
	if got := len(store.GetEmployeeFeedbackSurveys("E-1027")); got != 1 {
		t.Fatalf("expected exactly one day-30 survey, got %d", got)
	}
}

func TestCheckAndTriggerFeedbackSurveysDay90AndMissedDays(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	store := newTestStore(storage.NewMemory(), WithClock(func() time.Time { return now }))

	store.AddEmployee(ctx, Employee{ID: "E-3001", Name: "Ninety", StartDate: "2023-12-03"})
	store.AddEmployee(ctx, Employee{ID: "E-3002", Name: "ThirtyOne", StartDate: "2024-01-31"})
	store.AddEmployee(ctx, Employee{ID: "E-3003", Name: "Broken", StartDate: "soon"})

	created := store.CheckAndTriggerFeedbackSurveys(ctx)
	types := map[string]SurveyType{}
	for _, s := range created {
		types[s.EmployeeID] = s.Type
	}
	if types["E-3001"] != SurveyDay90 {
		t.Fatalf("expected day-90 for E-3001, got %v", types)
	}
	if _, ok := types["E-3002"]; ok {
		t.Fatal("day 31 must not trigger a day-30 survey")
	}

	// A day later nothing new fires for anyone.
	now = fixedNow.Add(24 * time.Hour)
	if later := store.CheckAndTriggerFeedbackSurveys(ctx); len(later) != 0 {
		t.Fatalf("expected no surveys on day after, got %d", len(later))
	}
}

func TestAdHocSurveyDoesNotBlockDay30(t *testing.T) {
	store := newTestStore(storage.NewMemory())
	ctx := context.Background()

	if _, err := store.CreateFeedbackSurvey(ctx, "E-1027", SurveyAdHoc); err != nil {
		t.Fatalf("create: %v", err)
	}
	created := store.CheckAndTriggerFeedbackSurveys(ctx)
	if len(created) != 1 || created[0].Type != SurveyDay30 {
		t.Fatalf("expected day-30 survey despite ad-hoc one, got %+v", created)
	}
}

func TestGetFeedbackAnalyticsEmpty(t *testing.T) {
	store := newTestStore(storage.NewMemory())
	ctx := context.Background()
	if _, err := store.CreateFeedbackSurvey(ctx, "E-1027", SurveyAdHoc); err != nil {
		t.Fatalf("create: %v", err)
	}

	analytics := store.GetFeedbackAnalytics()
	if analytics.AverageSatisfaction != 0 || analytics.CompletionRate != 0 || analytics.CompletedSurveys != 0 {
		t.Fatalf("expected zero analytics, got %+v", analytics)
	}
	if analytics.CategoryAverages != (CategoryAverages{}) {
		t.Fatalf("expected zero categories, got %+v", analytics.CategoryAverages)
	}
	if analytics.Trends == nil || len(analytics.Trends) != 0 {
		t.Fatalf("expected empty trends, got %v", analytics.Trends)
	}
}

func TestGetFeedbackAnalytics(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
	store := newTestStore(storage.NewMemory(), WithClock(func() time.Time { return now }))

	a, _ := store.CreateFeedbackSurvey(ctx, "E-1025", SurveyDay30)
	b, _ := store.CreateFeedbackSurvey(ctx, "E-1026", SurveyDay30)
	if _, err := store.CreateFeedbackSurvey(ctx, "E-1027", SurveyAdHoc); err != nil {
		t.Fatalf("create: %v", err)
	}

	store.SubmitFeedbackSurvey(ctx, a.ID, ratingResponses(4, 5, 5), "")
	now = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	store.SubmitFeedbackSurvey(ctx, b.ID, ratingResponses(3, 3, 4), "")

	analytics := store.GetFeedbackAnalytics()
	if analytics.TotalSurveys != 3 || analytics.CompletedSurveys != 2 {
		t.Fatalf("unexpected counts %+v", analytics)
	}
	if analytics.CompletionRate != 67 {
		t.Fatalf("expected 67%% completion, got %d", analytics.CompletionRate)
	}
	// Scores 4.5 and 3.0.
	if analytics.AverageSatisfaction != 3.8 {
		t.Fatalf("expected 3.8, got %v", analytics.AverageSatisfaction)
	}
	want := CategoryAverages{Onboarding: 3.5, Manager: 4, Overall: 4.5}
	if analytics.CategoryAverages != want {
		t.Fatalf("expected %+v, got %+v", want, analytics.CategoryAverages)
	}
	if len(analytics.Trends) != 2 {
		t.Fatalf("expected two months, got %+v", analytics.Trends)
	}
	if analytics.Trends[0] != (TrendPoint{Month: "2024-02", AverageScore: 4.5, ResponseCount: 1}) {
		t.Fatalf("unexpected first trend %+v", analytics.Trends[0])
	}
	if analytics.Trends[1] != (TrendPoint{Month: "2024-03", AverageScore: 3, ResponseCount: 1}) {
		t.Fatalf("unexpected second trend %+v", analytics.Trends[1])
	}
}

func TestTransitionSurvey(t *testing.T) {
	store := newTestStore(storage.NewMemory())
	ctx := context.Background()
	survey, _ := store.CreateFeedbackSurvey(ctx, "E-1027", SurveyAdHoc)

	cases := []struct {
		name   string
		id     string
		status SurveyStatus
		want   error
	}{
		{"unknown survey", "missing", SurveySent, ErrSurveyNotFound},
		{"sent has no trigger", survey.ID, SurveySent, ErrTransitionNotImplemented},
		{"overdue has no trigger", survey.ID, SurveyOverdue, ErrTransitionNotImplemented},
		{"completion goes through submit", survey.ID, SurveyCompleted, ErrInvalidTransition},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if err := store.TransitionSurvey(ctx, tc.id, tc.status); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	got, _ := store.GetFeedbackSurvey(survey.ID)
	if got.Status != SurveyPending {
		t.Fatalf("status should be unchanged, got %s", got.Status)
	}
}
