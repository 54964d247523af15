package onboarding

type TaskStatus string

const (
	TaskTodo    TaskStatus = "todo"
	TaskDoing   TaskStatus = "doing"
	TaskDone    TaskStatus = "done"
	TaskBlocked TaskStatus = "blocked"
)

var TaskStatuses = []TaskStatus{TaskTodo, TaskDoing, TaskDone, TaskBlocked}

type EmployeeStatus string

const (
	StatusOnTrack   EmployeeStatus = "on-track"
	StatusAtRisk    EmployeeStatus = "at-risk"
	StatusCompleted EmployeeStatus = "completed"
)

type SurveyType string

const (
	SurveyDay30 SurveyType = "day-30"
	SurveyDay90 SurveyType = "day-90"
	SurveyAdHoc SurveyType = "ad-hoc"
)

var SurveyTypes = []SurveyType{SurveyDay30, SurveyDay90, SurveyAdHoc}

type SurveyStatus string

const (
	SurveyPending   SurveyStatus = "pending"
	SurveySent      SurveyStatus = "sent"
	SurveyCompleted SurveyStatus = "completed"
	SurveyOverdue   SurveyStatus = "overdue"
)

type FeedbackCategory string

const (
	CategoryOnboarding FeedbackCategory = "onboarding"
	CategoryManager    FeedbackCategory = "manager"
	CategoryWorkplace  FeedbackCategory = "workplace"
	CategoryResources  FeedbackCategory = "resources"
	CategoryOverall    FeedbackCategory = "overall"
)

var FeedbackCategories = []FeedbackCategory{
	CategoryOnboarding,
	CategoryManager,
	CategoryWorkplace,
	CategoryResources,
	CategoryOverall,
}

type QuestionType string

const (
	QuestionRating QuestionType = "rating"
	QuestionText   QuestionType = "text"
)

// Persisted collection keys. They match the browser storage layout.
const (
	KeyTasks             = "acme_tasks"
	KeyEmployees         = "acme_employees"
	KeyFeedbackSurveys   = "acme_feedback_surveys"
	KeyFeedbackQuestions = "acme_feedback_questions"
)

var PersistedKeys = []string{KeyTasks, KeyEmployees, KeyFeedbackSurveys, KeyFeedbackQuestions}

const (
	completedThreshold = 90
	onTrackThreshold   = 60

	// Hardcoded in the dashboard; not derived from survey data.
	placeholderSatisfaction = 4.8

	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// Surveys fire on these exact day offsets from an employee's start date.
var surveyTriggerDays = []struct {
	Days int
	Type SurveyType
}{
	{30, SurveyDay30},
	{90, SurveyDay90},
}

func ValidTaskStatus(status TaskStatus) bool {
	for _, candidate := range TaskStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func ValidSurveyType(surveyType SurveyType) bool {
	for _, candidate := range SurveyTypes {
		if candidate == surveyType {
			return true
		}
	}
	return false
}

func ValidCategory(category FeedbackCategory) bool {
	for _, candidate := range FeedbackCategories {
		if candidate == category {
			return true
		}
	}
	return false
}
