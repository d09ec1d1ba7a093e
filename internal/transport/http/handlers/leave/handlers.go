package leavehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/audit"
	"ems/internal/domain/auth"
	"ems/internal/domain/employee"
	"ems/internal/domain/leave"
	"ems/internal/domain/notifications"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service   *leave.Service
	Employees *employee.Service
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(service *leave.Service, employees *employee.Service, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{leaveID}", h.handleGet)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Get("/recent", h.handleRecent)
			r.Post("/{leaveID}/approve", h.handleApprove)
			r.Post("/{leaveID}/reject", h.handleReject)
		})
	})
}

type createPayload struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	StartHalf bool   `json:"startHalf"`
	EndHalf   bool   `json:"endHalf"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Employees.GetByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "no_employee_record", "no employee record linked to this account", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Enum("type", payload.Type, []string{leave.TypeSick, leave.TypeVacation, leave.TypePersonal, leave.TypeOther}, "must be sick, vacation, personal or other")
	v.Required("type", payload.Type, "type is required")
	startDate, _ := v.Date("startDate", payload.StartDate)
	endDate, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", startDate, "endDate", endDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Service.Create(r.Context(), emp.EmployeeID, leave.CreateInput{
		Type:      payload.Type,
		StartDate: startDate,
		EndDate:   endDate,
		StartHalf: payload.StartHalf,
		EndHalf:   payload.EndHalf,
		Reason:    payload.Reason,
	})
	if err != nil {
		failLeave(w, r, err, "leave_create_failed", "failed to create leave request")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 20, 100)
	filter := leave.ListFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  page.Limit,
		Offset: page.Offset,
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
		failLeave(w, r, err, "leave_list_failed", "failed to list leave requests")
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var result leave.Leave
	var err error
	if user.Role == auth.RoleAdmin {
		result, err = h.Service.Get(r.Context(), leaveID)
	} else {
		var emp employee.Employee
		emp, err = h.Employees.GetByUserID(r.Context(), user.UserID)
		if err == nil {
			result, err = h.Service.GetOwned(r.Context(), leaveID, emp.EmployeeID)
		}
	}
	if err != nil {
		failLeave(w, r, err, "leave_get_failed", "failed to load leave request")
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Service.Recent(r.Context(), 5)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_recent_failed", "failed to list recent leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, leaves, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleReview(w, r, true)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleReview(w, r, false)
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request, approve bool) {
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload struct {
		Comment string `json:"comment"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	var result leave.Leave
	var err error
	action := "leave.approve"
	ntype := notifications.TypeLeaveApproved
	if approve {
		result, err = h.Service.Approve(r.Context(), leaveID, payload.Comment, user.UserID)
	} else {
		result, err = h.Service.Reject(r.Context(), leaveID, payload.Comment, user.UserID)
		action = "leave.reject"
		ntype = notifications.TypeLeaveRejected
	}
	if err != nil {
		failLeave(w, r, err, "leave_review_failed", "failed to review leave request")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, action, "leave", leaveID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, result); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}

	if emp, err := h.Employees.Get(r.Context(), result.EmployeeID); err == nil && emp.UserID != "" {
		title := fmt.Sprintf("Leave request %s %s", result.LeaveID, result.Status)
		body := fmt.Sprintf("Your %s leave from %s to %s was %s.", result.Type,
			result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"), result.Status)
		if payload.Comment != "" {
			body += " Comment: " + payload.Comment
		}
		if err := h.Notify.Create(r.Context(), emp.UserID, ntype, title, body); err != nil {
			slog.Warn("leave review notification failed", "err", err)
		}
	}

	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func failLeave(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
	case errors.Is(err, leave.ErrNotPending):
		api.Fail(w, http.StatusConflict, "not_pending", "leave request was already decided", requestID)
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not your leave request", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
