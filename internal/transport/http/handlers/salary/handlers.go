package salaryhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/audit"
	"ems/internal/domain/auth"
	"ems/internal/domain/employee"
	"ems/internal/domain/notifications"
	"ems/internal/domain/salary"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service   *salary.Service
	Employees *employee.Service
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(service *salary.Service, employees *employee.Service, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/salaries", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Get("/latest", h.handleLatest)
		r.Get("/{salaryID}", h.handleGet)
		r.Get("/{salaryID}/payslip", h.handlePayslip)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Post("/", h.handleCreate)
			r.Put("/{salaryID}", h.handleUpdate)
			r.Patch("/{salaryID}/status", h.handleSetStatus)
		})
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var in salary.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	created, err := h.Service.Create(r.Context(), in)
	if err != nil {
		failSalary(w, r, err, "salary_create_failed", "failed to create salary record")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "salary.create", "salary", created.SalaryID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, created); err != nil {
		slog.Warn("audit salary.create failed", "err", err)
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 20, 100)
	filter := salary.ListFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		filter.Month, _ = strconv.Atoi(raw)
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		filter.Year, _ = strconv.Atoi(raw)
	}

	if user.Role != auth.RoleAdmin {
		emp, err := h.Employees.GetByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "no_employee_record", "no employee record linked to this account", middleware.GetRequestID(r.Context()))
			return
		}
		filter.EmployeeID = emp.EmployeeID
	} else if employeeID := r.URL.Query().Get("employeeId"); employeeID != "" {
		filter.EmployeeID = employeeID
	}

	result, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "salary_list_failed", "failed to list salary records", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Employees.GetByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "no_employee_record", "no employee record linked to this account", middleware.GetRequestID(r.Context()))
		return
	}
	latest, err := h.Service.Latest(r.Context(), emp.EmployeeID)
	if err != nil {
		failSalary(w, r, err, "salary_latest_failed", "failed to load latest salary")
		return
	}
	api.Success(w, latest, middleware.GetRequestID(r.Context()))
}

// resolve returns the record, enforcing ownership for non-admins.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (salary.Salary, bool) {
	user, _ := middleware.GetUser(r.Context())
	salaryID := chi.URLParam(r, "salaryID")

	if user.Role == auth.RoleAdmin {
		sal, err := h.Service.Get(r.Context(), salaryID)
		if err != nil {
			failSalary(w, r, err, "salary_get_failed", "failed to load salary record")
			return salary.Salary{}, false
		}
		return sal, true
	}

	emp, err := h.Employees.GetByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "no_employee_record", "no employee record linked to this account", middleware.GetRequestID(r.Context()))
		return salary.Salary{}, false
	}
	sal, err := h.Service.GetOwned(r.Context(), salaryID, emp.EmployeeID)
	if err != nil {
		failSalary(w, r, err, "salary_get_failed", "failed to load salary record")
		return salary.Salary{}, false
	}
	return sal, true
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sal, ok := h.resolve(w, r)
	if !ok {
		return
	}
	api.Success(w, sal, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	salaryID := chi.URLParam(r, "salaryID")

	before, err := h.Service.Get(r.Context(), salaryID)
	if err != nil {
		failSalary(w, r, err, "salary_update_failed", "failed to update salary record")
		return
	}

	var in salary.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Service.Update(r.Context(), salaryID, in)
	if err != nil {
		failSalary(w, r, err, "salary_update_failed", "failed to update salary record")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "salary.update", "salary", salaryID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, updated); err != nil {
		slog.Warn("audit salary.update failed", "err", err)
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	salaryID := chi.URLParam(r, "salaryID")

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Service.SetStatus(r.Context(), salaryID, payload.Status)
	if err != nil {
		failSalary(w, r, err, "salary_status_failed", "failed to update salary status")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "salary.status", "salary", salaryID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit salary.status failed", "err", err)
	}

	if updated.Status == salary.StatusPaid {
		if emp, err := h.Employees.Get(r.Context(), updated.EmployeeID); err == nil && emp.UserID != "" {
			title := fmt.Sprintf("Salary %s paid", updated.SalaryID)
			body := fmt.Sprintf("Your salary for %s %d has been paid.", time.Month(updated.Month), updated.Year)
			if err := h.Notify.Create(r.Context(), emp.UserID, notifications.TypeSalaryPaid, title, body); err != nil {
				slog.Warn("salary paid notification failed", "err", err)
			}
		}
	}

	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	sal, ok := h.resolve(w, r)
	if !ok {
		return
	}

	name := sal.EmployeeID
	if emp, err := h.Employees.Get(r.Context(), sal.EmployeeID); err == nil {
		name = emp.Name
	}

	data, err := h.Service.PayslipPDF(r.Context(), sal, name)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", sal.SalaryID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("payslip write failed", "err", err)
	}
}

func failSalary(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, salary.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, salary.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary record not found", requestID)
	case errors.Is(err, salary.ErrDuplicatePeriod):
		api.Fail(w, http.StatusConflict, "duplicate_period", "salary already exists for this employee and period", requestID)
	case errors.Is(err, salary.ErrNotPending):
		api.Fail(w, http.StatusConflict, "not_pending", "salary record was already finalized", requestID)
	case errors.Is(err, salary.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not your salary record", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
