package onboardinghandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/auth"
	"onboarding/internal/domain/onboarding"
	"onboarding/internal/platform/webhook"
	"onboarding/internal/transport/http/api"
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
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/", h.handleAddEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", h.handleGetEmployee)
			r.With(middleware.RequirePermission(auth.PermTasksRead)).Get("/tasks", h.handleListTasks)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/tasks", h.handleAddTask)
			r.With(middleware.RequirePermission(auth.PermTasksWrite)).Put("/tasks/{taskID}/status", h.handleUpdateTaskStatus)
		})
	})
	r.With(middleware.RequirePermission(auth.PermMetricsRead)).Get("/metrics/onboarding", h.handleMetrics)
	r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/workflows", h.handleCreateWorkflow)
	r.With(middleware.RequirePermission(auth.PermIntegrations)).Post("/integrations/new-hire", h.handleNewHire)
	r.With(middleware.RequirePermission(auth.PermSystemAdmin)).Post("/admin/reset", h.handleReset)
}

// canAccessEmployee lets HR and admin see every record and employees only their own.
func canAccessEmployee(ctx context.Context, employeeID string) bool {
	user, ok := middleware.GetUser(ctx)
	if !ok {
		return false
	}
	if auth.HasPermission(user.RoleName, auth.PermEmployeesRead) {
		return true
	}
	return user.EmployeeID != "" && user.EmployeeID == employeeID
}

// WriteServiceError maps call-through failures onto HTTP statuses.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		api.Fail(w, http.StatusServiceUnavailable, "request_cancelled", "request cancelled", reqID)
	case errors.Is(err, onboarding.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", err.Error(), reqID)
	case errors.Is(err, onboarding.ErrSurveyNotFound):
		api.Fail(w, http.StatusNotFound, "survey_not_found", err.Error(), reqID)
	case errors.Is(err, onboarding.ErrTransitionNotImplemented):
		api.Fail(w, http.StatusNotImplemented, "not_implemented", err.Error(), reqID)
	case errors.Is(err, onboarding.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), reqID)
	case errors.Is(err, webhook.ErrUnexpectedStatus):
		api.Fail(w, http.StatusBadGateway, "integration_failed", err.Error(), reqID)
	default:
		slog.Warn("onboarding request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "request failed", reqID)
	}
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.GetEmployees(r.Context())
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		filtered := make([]onboarding.Employee, 0, len(employees))
		for _, e := range employees {
			if string(e.Status) == status {
				filtered = append(filtered, e)
			}
		}
		employees = filtered
	}
	page := shared.ParsePagination(r, 50, 200)
	api.Success(w, shared.Page(w, employees, page), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if !canAccessEmployee(r.Context(), employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	employee, ok, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	if !ok {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

type employeeRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Manager    string `json:"manager"`
	StartDate  string `json:"startDate"`
	Department string `json:"department"`
	Status     string `json:"status"`
	Progress   *int   `json:"progress"`
}

func (h *Handler) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("id", payload.ID, "is required")
	v.Enum("status", payload.Status, []string{string(onboarding.StatusOnTrack), string(onboarding.StatusAtRisk), string(onboarding.StatusCompleted)}, "must be on-track, at-risk or completed")
	if strings.TrimSpace(payload.StartDate) != "" {
		v.Date("startDate", payload.StartDate)
	}
	progress := 0
	if payload.Progress != nil {
		progress = *payload.Progress
		v.Range("progress", progress, 0, 100)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	employee := h.Service.AddEmployee(r.Context(), onboarding.Employee{
		ID:         strings.TrimSpace(payload.ID),
		Name:       payload.Name,
		Email:      payload.Email,
		Role:       payload.Role,
		Manager:    payload.Manager,
		StartDate:  strings.TrimSpace(payload.StartDate),
		Department: payload.Department,
		Status:     onboarding.EmployeeStatus(strings.ToLower(payload.Status)),
		Progress:   progress,
	})
	api.Created(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if !canAccessEmployee(r.Context(), employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	tasks, err := h.Service.GetEmployeeTasks(r.Context(), employeeID)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	api.Success(w, tasks, middleware.GetRequestID(r.Context()))
}

type taskRequest struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	Category      string `json:"category"`
	EstimatedTime string `json:"estimatedTime"`
}

func taskStatusNames() []string {
	names := make([]string, 0, len(onboarding.TaskStatuses))
	for _, status := range onboarding.TaskStatuses {
		names = append(names, string(status))
	}
	return names
}

func (h *Handler) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var payload taskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("id", payload.ID, "is required")
	v.Enum("status", payload.Status, taskStatusNames(), "must be one of "+strings.Join(taskStatusNames(), ", "))
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	task := h.Service.AddTask(r.Context(), onboarding.Task{
		ID:            strings.TrimSpace(payload.ID),
		Title:         payload.Title,
		Description:   payload.Description,
		Status:        onboarding.TaskStatus(strings.ToLower(payload.Status)),
		Category:      payload.Category,
		EstimatedTime: payload.EstimatedTime,
		EmployeeID:    chi.URLParam(r, "employeeID"),
	})
	api.Created(w, task, middleware.GetRequestID(r.Context()))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	taskID := chi.URLParam(r, "taskID")
	if !canAccessEmployee(r.Context(), employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "is required")
	v.Enum("status", payload.Status, taskStatusNames(), "must be one of "+strings.Join(taskStatusNames(), ", "))
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Service.UpdateTaskStatus(r.Context(), employeeID, taskID, onboarding.TaskStatus(strings.ToLower(strings.TrimSpace(payload.Status))))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "task_not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	}
	employee, _, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"employeeId": employeeID,
		"taskId":     taskID,
		"status":     strings.ToLower(strings.TrimSpace(payload.Status)),
		"progress":   employee.Progress,
		"employee":   employee,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Service.GetMetrics(r.Context())
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	api.Success(w, metrics, middleware.GetRequestID(r.Context()))
}

type workflowRequest struct {
	EmployeeID string `json:"employeeId"`
}

func (h *Handler) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var payload workflowRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	workflow, err := h.Service.CreateOnboardingWorkflow(r.Context(), payload.EmployeeID)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	api.Created(w, workflow, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleNewHire(w http.ResponseWriter, r *http.Request) {
	var payload onboarding.NewHire
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("email", payload.Email, "is required")
	v.Date("startDate", payload.StartDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	if err := h.Service.CreateNewHire(r.Context(), payload); err != nil {
		WriteServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusAccepted, api.Envelope{Success: true, Data: map[string]string{"status": "forwarded"}, RequestID: middleware.GetRequestID(r.Context())})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.Service.Reset(r.Context())
	if user, ok := middleware.GetUser(r.Context()); ok {
		slog.Info("onboarding data reset", "userId", user.UserID)
	}
	api.Success(w, map[string]string{"status": "reset"}, middleware.GetRequestID(r.Context()))
}
