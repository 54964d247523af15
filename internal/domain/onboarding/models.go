package onboarding

import "time"

type Task struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Description   string     `json:"description" yaml:"description"`
	Status        TaskStatus `json:"status" yaml:"status"`
	Category      string     `json:"category" yaml:"category"`
	EstimatedTime string     `json:"estimatedTime" yaml:"estimatedTime"`
	EmployeeID    string     `json:"employeeId" yaml:"employeeId"`
	LastUpdated   time.Time  `json:"lastUpdated" yaml:"-"`
}

type Employee struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Email       string         `json:"email" yaml:"email"`
	Role        string         `json:"role" yaml:"role"`
	Manager     string         `json:"manager" yaml:"manager"`
	StartDate   string         `json:"startDate" yaml:"startDate"`
	Department  string         `json:"department" yaml:"department"`
	Status      EmployeeStatus `json:"status" yaml:"status"`
	Progress    int            `json:"progress" yaml:"progress"`
	LastUpdated time.Time      `json:"lastUpdated" yaml:"-"`
}

type FeedbackResponse struct {
	QuestionID string           `json:"questionId"`
	Question   string           `json:"question"`
	Answer     int              `json:"answer"`
	Category   FeedbackCategory `json:"category"`
}

type FeedbackSurvey struct {
	ID            string             `json:"id"`
	EmployeeID    string             `json:"employeeId"`
	EmployeeName  string             `json:"employeeName"`
	Type          SurveyType         `json:"type"`
	Status        SurveyStatus       `json:"status"`
	SentDate      time.Time          `json:"sentDate"`
	CompletedDate *time.Time         `json:"completedDate,omitempty"`
	Responses     []FeedbackResponse `json:"responses"`
	OverallScore  *float64           `json:"overallScore,omitempty"`
	Comments      string             `json:"comments,omitempty"`
}

type FeedbackQuestion struct {
	ID       string           `json:"id" yaml:"id"`
	Question string           `json:"question" yaml:"question"`
	Category FeedbackCategory `json:"category" yaml:"category"`
	Type     QuestionType     `json:"type" yaml:"type"`
}

type Metrics struct {
	AverageCompletionTime float64 `json:"averageCompletionTime"`
	OnTrackPercentage     int     `json:"onTrackPercentage"`
	SatisfactionScore     float64 `json:"satisfactionScore"`
	TotalEmployees        int     `json:"totalEmployees"`
}

type CategoryAverages struct {
	Onboarding float64 `json:"onboarding"`
	Manager    float64 `json:"manager"`
	Workplace  float64 `json:"workplace"`
	Resources  float64 `json:"resources"`
	Overall    float64 `json:"overall"`
}

type TrendPoint struct {
	Month         string  `json:"month"`
	AverageScore  float64 `json:"averageScore"`
	ResponseCount int     `json:"responseCount"`
}

type FeedbackAnalytics struct {
	AverageSatisfaction float64          `json:"averageSatisfaction"`
	CompletionRate      int              `json:"completionRate"`
	TotalSurveys        int              `json:"totalSurveys"`
	CompletedSurveys    int              `json:"completedSurveys"`
	CategoryAverages    CategoryAverages `json:"categoryAverages"`
	Trends              []TrendPoint     `json:"trends"`
}

// Snapshot holds every persisted collection.
type Snapshot struct {
	Tasks     map[string][]Task  `json:"tasks"`
	Employees []Employee         `json:"employees"`
	Surveys   []FeedbackSurvey   `json:"feedbackSurveys"`
	Questions []FeedbackQuestion `json:"feedbackQuestions"`
}

type NewHire struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Manager    string `json:"manager"`
	StartDate  string `json:"startDate"`
}

type Workflow struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}
