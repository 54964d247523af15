package reportshandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/auth"
	"onboarding/internal/domain/onboarding"
	"onboarding/internal/domain/reports"
	"onboarding/internal/transport/http/api"
	onboardinghandler "onboarding/internal/transport/http/handlers/onboarding"
	"onboarding/internal/transport/http/middleware"
)

type Handler struct {
	Service *onboarding.Service
	Now     func() time.Time
}

func NewHandler(svc *onboarding.Service) *Handler {
	return &Handler{Service: svc, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/dashboard/employee", h.handleEmployeeDashboard)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/dashboard/hr", h.handleHRDashboard)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/onboarding.pdf", h.handleOnboardingPDF)
	})
}

// handleEmployeeDashboard serves the caller's own checklist. HR may pass
// ?employeeId= to view someone else's.
func (h *Handler) handleEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := user.EmployeeID
	if requested := r.URL.Query().Get("employeeId"); requested != "" && auth.HasPermission(user.RoleName, auth.PermEmployeesRead) {
		employeeID = requested
	}
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "employee_required", "employeeId is required", middleware.GetRequestID(r.Context()))
		return
	}

	employee, ok, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	if !ok {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	tasks, err := h.Service.GetEmployeeTasks(r.Context(), employeeID)
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	surveys, err := h.Service.GetEmployeeFeedbackSurveys(r.Context(), employeeID)
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	pending := 0
	for _, s := range surveys {
		if s.Status != onboarding.SurveyCompleted {
			pending++
		}
	}
	api.Success(w, reports.EmployeeDashboard(employee, tasks, pending), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHRDashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Service.GetMetrics(r.Context())
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	analytics, err := h.Service.GetFeedbackAnalytics(r.Context())
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	employees, err := h.Service.GetEmployees(r.Context())
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	atRisk := 0
	for _, e := range employees {
		if e.Status == onboarding.StatusAtRisk {
			atRisk++
		}
	}
	api.Success(w, reports.HRDashboard(metrics, analytics, atRisk), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOnboardingPDF(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Service.GetMetrics(r.Context())
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	analytics, err := h.Service.GetFeedbackAnalytics(r.Context())
	if err != nil {
		onboardinghandler.WriteServiceError(w, r, err)
		return
	}
	body, err := reports.OnboardingPDF(h.Service.Store.Snapshot(), metrics, analytics, h.Now().UTC())
	if err != nil {
		slog.Warn("onboarding pdf failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="onboarding.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("write pdf failed", "err", err)
	}
}
