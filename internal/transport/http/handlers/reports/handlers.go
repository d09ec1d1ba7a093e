package reportshandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/audit"
	"ems/internal/domain/auth"
	"ems/internal/domain/reports"
	"ems/internal/platform/metrics"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service   *reports.Service
	Audit     *audit.Service
	Collector *metrics.Collector
}

func NewHandler(service *reports.Service, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Collector: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth, middleware.RequireRole(auth.RoleAdmin))
		r.Get("/stats", h.handleStats)
		r.Get("/recent", h.handleRecent)
		r.Get("/reports/attendance.xlsx", h.handleAttendanceExport)
		r.Get("/audit", h.handleAuditList)
		if h.Collector != nil {
			r.Get("/metrics", h.handleMetrics)
		}
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "stats_failed", "failed to build dashboard stats", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.Service.Recent(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "recent_failed", "failed to load recent activity", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, recent, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAttendanceExport(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	var from, to time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, _ = v.Date("from", raw)
	} else {
		v.Add("from", "from date is required")
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, _ = v.Date("to", raw)
	} else {
		v.Add("to", "to date is required")
	}
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	data, err := h.Service.AttendanceXLSX(r.Context(), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to build attendance export", middleware.GetRequestID(r.Context()))
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("attendance export write failed", "err", err)
	}
}

func (h *Handler) handleAuditList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorUser:  r.URL.Query().Get("actorId"),
	}
	includeDetails := r.URL.Query().Get("details") == "true"

	total, err := h.Audit.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to load audit log", middleware.GetRequestID(r.Context()))
		return
	}
	events, err := h.Audit.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to load audit log", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"events": events, "total": total}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Collector.Snapshot(), middleware.GetRequestID(r.Context()))
}
