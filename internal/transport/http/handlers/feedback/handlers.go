package feedbackhandler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/auth"
	"onboarding/internal/domain/onboarding"
	"onboarding/internal/transport/http/api"
	onboardinghandler "onboarding/internal/transport/http/handlers/onboarding"
	"onboarding/internal/transport/http/middleware"
	"onboarding/internal/transport/http/shared"
)

type Handler struct {
	Service *onboarding.Service
}

func NewHandler(svc *onboarding.Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/feedback", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/questions", h.handleQuestions)
		r.With(middleware.RequirePermission(auth.PermFeedbackManage)).Get("/analytics", h.handleAnalytics)
		r.Route("/surveys", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", h.handleListSurveys)
			r.With(middleware.RequirePermission(auth.PermFeedbackManage)).Post("/", h.handleCreateSurvey)
			r.With(middleware.RequirePermission(auth.PermFeedbackManage)).Post("/trigger", h.handleTrigger)
			r.Route("/{surveyID}", func(r chi.Router) {
				r.With(middleware.RequireAuth).Get("/", h.handleGetSurvey)
				r.With(middleware.RequirePermission(auth.PermFeedbackSubmit)).Post("/submit", h.handleSubmit)
				r.With(middleware.RequirePermission(auth.PermFeedbackManage)).Post("/transition", h.handleTransition)
			})
		})
	})
}

func canManage(r *http.Request) bool {
	user, ok := middleware.GetUser(r.Context())
	return ok && auth.HasPermission(user.RoleName, auth.PermFeedbackManage)
}

func ownsSurvey(r *http.Request, survey onboarding.FeedbackSurvey) bool {
	if canManage(r) {
		return true
	}
	user, _ := middleware.GetUser(r.Context())
	return user.EmployeeID != "" && user.EmployeeID == survey.EmployeeID
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.Service.GetFeedbackQuestions(r.Context())
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	api.Success(w, questions, middleware.GetRequestID(r.Context()))
}

// handleListSurveys returns every survey for HR. Employees only ever see
// their own, whatever filter they pass.
func (h *Handler) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	if !canManage(r) {
		user, _ := middleware.GetUser(r.Context())
		if user.EmployeeID == "" {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
			return
		}
		employeeID = user.EmployeeID
	}

	var (
		surveys []onboarding.FeedbackSurvey
		err     error
	)
	if employeeID != "" {
		surveys, err = h.Service.GetEmployeeFeedbackSurveys(r.Context(), employeeID)
	} else {
		surveys, err = h.Service.GetFeedbackSurveys(r.Context())
	}
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		filtered := make([]onboarding.FeedbackSurvey, 0, len(surveys))
		for _, s := range surveys {
			if string(s.Status) == status {
				filtered = append(filtered, s)
			}
		}
		surveys = filtered
	}
	page := shared.ParsePagination(r, 50, 200)
	api.Success(w, shared.Page(w, surveys, page), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	survey, ok := h.Service.GetFeedbackSurvey(r.Context(), chi.URLParam(r, "surveyID"))
	if !ok {
		api.Fail(w, http.StatusNotFound, "survey_not_found", "survey not found", middleware.GetRequestID(r.Context()))
		return
	}
	if !ownsSurvey(r, survey) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, survey, middleware.GetRequestID(r.Context()))
}

type createSurveyRequest struct {
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
}

func surveyTypeNames() string {
	names := make([]string, 0, len(onboarding.SurveyTypes))
	for _, t := range onboarding.SurveyTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func (h *Handler) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var payload createSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.Required("type", payload.Type, "is required")
	surveyType := onboarding.SurveyType(strings.ToLower(strings.TrimSpace(payload.Type)))
	if payload.Type != "" && !onboarding.ValidSurveyType(surveyType) {
		v.Add("type", "must be one of "+surveyTypeNames())
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	survey, err := h.Service.CreateFeedbackSurvey(r.Context(), payload.EmployeeID, surveyType)
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	api.Created(w, survey, middleware.GetRequestID(r.Context()))
}

type submitRequest struct {
	Responses []onboarding.FeedbackResponse `json:"responses"`
	Comments  string                        `json:"comments"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "surveyID")
	survey, ok := h.Service.GetFeedbackSurvey(r.Context(), surveyID)
	if !ok {
		api.Fail(w, http.StatusNotFound, "survey_not_found", "survey not found", middleware.GetRequestID(r.Context()))
		return
	}
	if !ownsSurvey(r, survey) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	questions, err := h.Service.GetFeedbackQuestions(r.Context())
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	questionTypes := make(map[string]onboarding.QuestionType, len(questions))
	for _, q := range questions {
		questionTypes[q.ID] = q.Type
	}

	v := shared.NewValidator()
	for i, resp := range payload.Responses {
		field := "responses[" + strconv.Itoa(i) + "]"
		v.Required(field+".questionId", resp.QuestionID, "is required")
		if !onboarding.ValidCategory(resp.Category) {
			v.Add(field+".category", "must be a known feedback category")
		}
		// Ratings are 1-5; text questions carry no score.
		if questionTypes[resp.QuestionID] == onboarding.QuestionText {
			v.Range(field+".answer", resp.Answer, 0, 5)
		} else {
			v.Range(field+".answer", resp.Answer, 1, 5)
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	submitted, err := h.Service.SubmitFeedbackSurvey(r.Context(), surveyID, payload.Responses, payload.Comments)
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	if !submitted {
		api.Fail(w, http.StatusNotFound, "survey_not_found", "survey not found", middleware.GetRequestID(r.Context()))
		return
	}
	updated, _ := h.Service.GetFeedbackSurvey(r.Context(), surveyID)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	created := h.Service.TriggerFeedbackSurveys(r.Context())
	api.Success(w, map[string]any{"created": created, "count": len(created)}, middleware.GetRequestID(r.Context()))
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	var payload transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	err := h.Service.TransitionSurvey(r.Context(), chi.URLParam(r, "surveyID"), onboarding.SurveyStatus(strings.ToLower(strings.TrimSpace(payload.Status))))
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": payload.Status}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.Service.GetFeedbackAnalytics(r.Context())
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	api.Success(w, analytics, middleware.GetRequestID(r.Context()))
}
