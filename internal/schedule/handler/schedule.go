package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/service"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
	"github.com/shiftboard/shiftboard-backend/pkg/httputil"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// ScheduleHandler serves the shift and schedule view endpoints
type ScheduleHandler struct {
	shifts   *service.ShiftService
	weekly   *service.WeeklyAggregator
	staffing *service.StaffingAggregator
	logger   *logger.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(
	shifts *service.ShiftService,
	weekly *service.WeeklyAggregator,
	staffing *service.StaffingAggregator,
	log *logger.Logger,
) *ScheduleHandler {
	return &ScheduleHandler{
		shifts:   shifts,
		weekly:   weekly,
		staffing: staffing,
		logger:   log,
	}
}

// RegisterRoutes mounts the schedule API on r
func (h *ScheduleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/shifts", func(r chi.Router) {
		r.Get("/", h.ListShifts)
		r.Post("/", h.CreateShift)
		r.Delete("/", h.DeleteDay)
		r.Get("/{id}", h.GetShift)
		r.Patch("/{id}", h.UpdateShift)
		r.Delete("/{id}", h.DeleteShift)
	})

	r.Route("/employees/{employeeID}", func(r chi.Router) {
		r.Put("/days/{date}", h.ReplaceDay)
		r.Get("/business-window", h.GetBusinessWindow)
	})

	r.Get("/weekly", h.GetWeekly)
	r.Get("/staffing", h.GetStaffing)
}

// ============================================================================
// SHIFTS
// ============================================================================

// ListShifts lists shifts filtered by employee and date or date range
func (h *ScheduleHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ShiftFilter{
		EmployeeID: q.Get("employee_id"),
		Date:       q.Get("date"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}

	shifts, err := h.shifts.List(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, shifts, &httputil.Meta{Total: int64(len(shifts))})
}

// GetShift gets a shift by ID
func (h *ScheduleHandler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift, err := h.shifts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, shift)
}

// CreateShift creates a shift after window and conflict checks
func (h *ScheduleHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req createShiftRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	shift, err := h.shifts.Create(r.Context(), req.toInput())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, shift)
}

// UpdateShift applies a partial update
func (h *ScheduleHandler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req updateShiftRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	shift, err := h.shifts.Update(r.Context(), chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, shift)
}

// DeleteShift deletes a single shift
func (h *ScheduleHandler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.shifts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// DeleteDay deletes every shift of an employee on a date.
// delete_all=true must be passed to confirm the bulk delete.
func (h *ScheduleHandler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("delete_all") != "true" {
		httputil.Error(w, errors.BadRequest("bulk delete requires delete_all=true"))
		return
	}

	deleted, err := h.shifts.DeleteDay(r.Context(), q.Get("employee_id"), q.Get("date"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, bulkDeleteResponse{Deleted: deleted})
}

// ============================================================================
// EMPLOYEE DAYS
// ============================================================================

// ReplaceDay replaces an employee's shifts on a date with the given slots
func (h *ScheduleHandler) ReplaceDay(w http.ResponseWriter, r *http.Request) {
	var req replaceDayRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	shifts, removed, err := h.shifts.ReplaceDay(
		r.Context(),
		chi.URLParam(r, "employeeID"),
		chi.URLParam(r, "date"),
		req.toSlots(),
	)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, replaceDayResponse{Removed: removed, Shifts: shifts})
}

// GetBusinessWindow returns the operating hours that apply to an employee
func (h *ScheduleHandler) GetBusinessWindow(w http.ResponseWriter, r *http.Request) {
	window := h.shifts.BusinessWindow(r.Context(), chi.URLParam(r, "employeeID"))
	httputil.JSON(w, http.StatusOK, window)
}

// ============================================================================
// VIEWS
// ============================================================================

// GetWeekly returns the weekly grid for the week containing ?date, today by default
func (h *ScheduleHandler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	week, err := h.weekly.Week(r.Context(), dateOrToday(q.Get("date")), q.Get("field"), q.Get("keyword"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, week)
}

// GetStaffing returns hourly staffing for ?date, today by default
func (h *ScheduleHandler) GetStaffing(w http.ResponseWriter, r *http.Request) {
	staffing, err := h.staffing.Day(r.Context(), dateOrToday(r.URL.Query().Get("date")))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, staffing)
}

func dateOrToday(date string) string {
	if date == "" {
		return time.Now().Format(domain.DateLayout)
	}
	return date
}
