package employeehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/audit"
	"ems/internal/domain/auth"
	"ems/internal/domain/employee"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
	Audit   *audit.Service
}

func NewHandler(service *employee.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", h.handleGetSelf)
		r.Put("/me", h.handleUpdateSelf)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Get("/", h.handleList)
			r.Post("/", h.handleCreate)
			r.Get("/{employeeID}", h.handleGet)
			r.Put("/{employeeID}", h.handleUpdate)
			r.Patch("/{employeeID}/status", h.handleSetStatus)
			r.Post("/{employeeID}/account", h.handleProvisionAccount)
			r.Delete("/{employeeID}", h.handleDelete)
		})
	})
	r.Route("/departments", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListDepartments)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", h.handleCreateDepartment)
	})
}

type createPayload struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	Department  string  `json:"department"`
	Position    string  `json:"position"`
	JoiningDate string  `json:"joiningDate"`
	Salary      float64 `json:"salary"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("email", payload.Email, "email is required")
	v.Required("department", payload.Department, "department is required")
	v.Required("position", payload.Position, "position is required")
	if len(payload.Password) < 8 {
		v.Add("password", "must be at least 8 characters")
	}
	joiningDate, _ := v.Date("joiningDate", payload.JoiningDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	emp, err := h.Service.Create(r.Context(), employee.CreateInput{
		Name:        payload.Name,
		Email:       payload.Email,
		Password:    payload.Password,
		Phone:       payload.Phone,
		Address:     payload.Address,
		Department:  payload.Department,
		Position:    payload.Position,
		JoiningDate: joiningDate,
		Salary:      payload.Salary,
	})
	if err != nil {
		failEmployee(w, r, err, "employee_create_failed", "failed to create employee")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.create", "employee", emp.EmployeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, emp); err != nil {
		slog.Warn("audit employee.create failed", "err", err)
	}
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 20, 100)
	result, err := h.Service.List(r.Context(), employee.ListFilter{
		Department: r.URL.Query().Get("department"),
		Status:     r.URL.Query().Get("status"),
		Search:     r.URL.Query().Get("search"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		failEmployee(w, r, err, "employee_get_failed", "failed to load employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	before, err := h.Service.Get(r.Context(), employeeID)
	if err != nil {
		failEmployee(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}

	var in employee.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.Update(r.Context(), employeeID, in)
	if err != nil {
		failEmployee(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.update", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, emp); err != nil {
		slog.Warn("audit employee.update failed", "err", err)
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.SetStatus(r.Context(), employeeID, payload.Status); err != nil {
		failEmployee(w, r, err, "employee_status_failed", "failed to update employee status")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.status", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit employee.status failed", "err", err)
	}
	api.Success(w, map[string]string{"employeeId": employeeID, "status": payload.Status}, middleware.GetRequestID(r.Context()))
}

// handleProvisionAccount creates a login for an employee that was
// recorded without one, for example through a bulk import.
func (h *Handler) handleProvisionAccount(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.ProvisionAccount(r.Context(), employeeID, payload.Password)
	if err != nil {
		failEmployee(w, r, err, "account_provision_failed", "failed to create login account")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.account", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"userId": emp.UserID}); err != nil {
		slog.Warn("audit employee.account failed", "err", err)
	}
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if err := h.Service.Delete(r.Context(), employeeID); err != nil {
		failEmployee(w, r, err, "employee_delete_failed", "failed to delete employee")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.delete", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit employee.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"employeeId": employeeID, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetSelf(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Service.GetByUserID(r.Context(), user.UserID)
	if err != nil {
		failEmployee(w, r, err, "employee_get_failed", "failed to load employee profile")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

// handleUpdateSelf accepts only the contact fields; everything else is
// admin territory.
func (h *Handler) handleUpdateSelf(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Service.GetByUserID(r.Context(), user.UserID)
	if err != nil {
		failEmployee(w, r, err, "employee_update_failed", "failed to load employee profile")
		return
	}

	var payload struct {
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Service.Update(r.Context(), emp.EmployeeID, employee.UpdateInput{
		Phone:   payload.Phone,
		Address: payload.Address,
	})
	if err != nil {
		failEmployee(w, r, err, "employee_update_failed", "failed to update employee profile")
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Service.CreateDepartment(r.Context(), payload.Name, payload.Description)
	if err != nil {
		failEmployee(w, r, err, "department_create_failed", "failed to create department")
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "department.create", "department", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit department.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func failEmployee(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employee.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	case errors.Is(err, employee.ErrDuplicate):
		api.Fail(w, http.StatusConflict, "duplicate", "a record with these details already exists", requestID)
	case errors.Is(err, employee.ErrAccountLinked):
		api.Fail(w, http.StatusConflict, "account_linked", "employee already has a login account", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
