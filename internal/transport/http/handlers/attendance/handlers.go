package attendancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/attendance"
	"ems/internal/domain/audit"
	"ems/internal/domain/auth"
	"ems/internal/domain/employee"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service   *attendance.Service
	Employees *employee.Service
	Audit     *audit.Service
}

func NewHandler(service *attendance.Service, employees *employee.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/check-in", h.handleCheckIn)
		r.Post("/check-out", h.handleCheckOut)
		r.Get("/", h.handleList)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Post("/bulk", h.handleBulkCreate)
			r.Get("/summary", h.handleSummary)
		})
	})
}

func (h *Handler) ownEmployee(w http.ResponseWriter, r *http.Request) (employee.Employee, bool) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Employees.GetByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "no_employee_record", "no employee record linked to this account", middleware.GetRequestID(r.Context()))
		return employee.Employee{}, false
	}
	return emp, true
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.ownEmployee(w, r)
	if !ok {
		return
	}

	var payload struct {
		Location string `json:"location"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	record, err := h.Service.CheckIn(r.Context(), emp.EmployeeID, payload.Location)
	if err != nil {
		failAttendance(w, r, err, "check_in_failed", "failed to check in")
		return
	}
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.ownEmployee(w, r)
	if !ok {
		return
	}

	var payload struct {
		Location string `json:"location"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	record, err := h.Service.CheckOut(r.Context(), emp.EmployeeID, payload.Location)
	if err != nil {
		failAttendance(w, r, err, "check_out_failed", "failed to check out")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 31, 200)

	v := shared.NewValidator()
	from, to := parseRange(r, v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	filter := attendance.ListFilter{From: from, To: to, Limit: page.Limit, Offset: page.Offset}
	if user.Role != auth.RoleAdmin {
		emp, ok := h.ownEmployee(w, r)
		if !ok {
			return
		}
		filter.EmployeeID = emp.EmployeeID
	} else if employeeID := r.URL.Query().Get("employeeId"); employeeID != "" {
		filter.EmployeeID = employeeID
	}

	result, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type bulkPayload struct {
	Entries []struct {
		EmployeeID string `json:"employeeId"`
		Date       string `json:"date"`
		Status     string `json:"status"`
		Notes      string `json:"notes"`
	} `json:"entries"`
}

func (h *Handler) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload bulkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.Entries) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "entries are required", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	entries := make([]attendance.BulkEntry, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		date, ok := v.Date("date", entry.Date)
		if !ok {
			continue
		}
		entries = append(entries, attendance.BulkEntry{
			EmployeeID: entry.EmployeeID,
			Date:       date,
			Status:     entry.Status,
			Notes:      entry.Notes,
		})
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, skipped, err := h.Service.BulkCreate(r.Context(), entries)
	if err != nil {
		failAttendance(w, r, err, "attendance_bulk_failed", "failed to record attendance")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "attendance.bulk", "attendance", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]int{"created": len(created), "skipped": len(skipped)}); err != nil {
		slog.Warn("audit attendance.bulk failed", "err", err)
	}
	api.Created(w, map[string]any{"created": created, "skipped": skipped}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	from, to := parseRange(r, v)
	if from.IsZero() {
		v.Add("from", "from date is required")
	}
	if to.IsZero() {
		v.Add("to", "to date is required")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	summaries, err := h.Service.Summaries(r.Context(), from, to)
	if err != nil {
		failAttendance(w, r, err, "attendance_summary_failed", "failed to build attendance summary")
		return
	}
	api.Success(w, summaries, middleware.GetRequestID(r.Context()))
}

func parseRange(r *http.Request, v *shared.Validator) (from, to time.Time) {
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, _ = v.Date("from", raw)
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, _ = v.Date("to", raw)
	}
	v.DateOrder("from", from, "to", to)
	return from, to
}

func failAttendance(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, attendance.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		api.Fail(w, http.StatusConflict, "already_checked_in", "already checked in today", requestID)
	case errors.Is(err, attendance.ErrAlreadyOut):
		api.Fail(w, http.StatusConflict, "already_checked_out", "already checked out today", requestID)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		api.Fail(w, http.StatusConflict, "not_checked_in", "no open attendance record today", requestID)
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
