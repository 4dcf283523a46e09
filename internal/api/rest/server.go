package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/chime/internal/domain/alarm"
	"github.com/example/chime/internal/logger"
	"github.com/example/chime/internal/service/scheduler"
	"github.com/example/chime/internal/service/timer"
	"github.com/example/chime/internal/version"
)

// AlarmService abstracts the coordinator operations the transport depends on.
type AlarmService interface {
	List(ctx context.Context) ([]*alarm.Record, error)
	SaveAlarm(ctx context.Context, rec *alarm.Record, isEdit bool) (string, error)
	Dismiss(ctx context.Context, alarmID string) error
	Snooze(ctx context.Context, alarmID string, delay time.Duration) error
	DeleteAlarms(ctx context.Context, ids []string) error
	ToggleActive(ctx context.Context, alarmID string) (bool, error)
}

// TimerService abstracts the countdown operations the transport depends on.
type TimerService interface {
	Start(ctx context.Context, d time.Duration) (time.Time, error)
	Remaining(ctx context.Context) (time.Duration, error)
	Clear(ctx context.Context) error
}

// Server exposes the engine over JSON/HTTP.
type Server struct {
	// alarms provides the alarm business logic.
	alarms AlarmService
	// timers provides the countdown business logic.
	timers TimerService
}

// saveRequest is the body of PUT /v1/alarms.
type saveRequest struct {
	Alarm *alarm.Record `json:"alarm"`
	Edit  bool          `json:"edit"`
}

// saveResponse carries the relative-time confirmation text.
type saveResponse struct {
	Message string `json:"message"`
}

// listResponse carries the stored alarms.
type listResponse struct {
	Alarms []*alarm.Record `json:"alarms"`
}

// deleteRequest is the body of POST /v1/alarms/delete.
type deleteRequest struct {
	IDs []string `json:"ids"`
}

// toggleResponse reports the alarm's new active state.
type toggleResponse struct {
	Active bool `json:"active"`
}

// snoozeRequest is the body of POST /v1/alarms/{id}/snooze.
type snoozeRequest struct {
	Minutes int `json:"minutes"`
}

// timerRequest is the body of POST /v1/timer.
type timerRequest struct {
	Seconds int `json:"seconds"`
}

// timerResponse reports the countdown state.
type timerResponse struct {
	EndsAt           *time.Time `json:"endsAt,omitempty"`
	RemainingSeconds int        `json:"remainingSeconds"`
}

// errorResponse carries a failure description.
type errorResponse struct {
	Error string `json:"error"`
}

// NewServer wires the provided services into an HTTP handler.
func NewServer(alarms AlarmService, timers TimerService) *Server {
	return &Server{
		alarms: alarms,
		timers: timers,
	}
}

// Router builds the chi route tree for the engine API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", s.handleHealth)

		r.Route("/alarms", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Put("/", s.handleSave)
			r.Post("/delete", s.handleDelete)
			r.Post("/{id}/toggle", s.handleToggle)
			r.Post("/{id}/dismiss", s.handleDismiss)
			r.Post("/{id}/snooze", s.handleSnooze)
		})

		r.Route("/timer", func(r chi.Router) {
			r.Get("/", s.handleTimerStatus)
			r.Post("/", s.handleTimerStart)
			r.Delete("/", s.handleTimerClear)
		})
	})

	return r
}

// handleHealth reports liveness and the build version.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Short(),
	})
}

// handleList returns every stored alarm.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.alarms.List(r.Context())
	if err != nil {
		writeError(w, r, err)

		return
	}

	if records == nil {
		records = []*alarm.Record{}
	}

	writeJSON(w, http.StatusOK, listResponse{Alarms: records})
}

// handleSave creates or updates an alarm and returns the confirmation text.
// A booking failure maps to 502: the record is saved but may not fire.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Alarm == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "alarm record is required"})

		return
	}

	msg, err := s.alarms.SaveAlarm(r.Context(), req.Alarm, req.Edit)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, saveResponse{Message: msg})
}

// handleDelete removes the listed alarms.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "alarm ids are required"})

		return
	}

	if err := s.alarms.DeleteAlarms(r.Context(), req.IDs); err != nil {
		writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleToggle flips an alarm's active state.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	active, err := s.alarms.ToggleActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{Active: active})
}

// handleDismiss stops a ringing alarm.
func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	if err := s.alarms.Dismiss(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSnooze books a snooze trigger for an alarm.
func (s *Server) handleSnooze(w http.ResponseWriter, r *http.Request) {
	var req snoozeRequest
	// An empty body means the default snooze delay.
	_ = json.NewDecoder(r.Body).Decode(&req)

	delay := time.Duration(req.Minutes) * time.Minute

	if err := s.alarms.Snooze(r.Context(), chi.URLParam(r, "id"), delay); err != nil {
		writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleTimerStart begins a countdown.
func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Seconds <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "positive seconds value is required"})

		return
	}

	end, err := s.timers.Start(r.Context(), time.Duration(req.Seconds)*time.Second)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, timerResponse{
		EndsAt:           &end,
		RemainingSeconds: req.Seconds,
	})
}

// handleTimerStatus reports the remaining countdown seconds.
func (s *Server) handleTimerStatus(w http.ResponseWriter, r *http.Request) {
	remaining, err := s.timers.Remaining(r.Context())
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, timerResponse{
		RemainingSeconds: int(remaining.Round(time.Second) / time.Second),
	})
}

// handleTimerClear stops the countdown.
func (s *Server) handleTimerClear(w http.ResponseWriter, r *http.Request) {
	if err := s.timers.Clear(r.Context()); err != nil {
		writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps service failures onto HTTP statuses: unknown alarms to
// 404, invalid records to 400, failed bookings to 502 (the record is
// persisted, the trigger is not), everything else to 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, scheduler.ErrAlarmNotFound):
		status = http.StatusNotFound
	case errors.Is(err, alarm.ErrIDRequired),
		errors.Is(err, alarm.ErrTimeOutOfRange),
		errors.Is(err, alarm.ErrDuplicateDay):
		status = http.StatusBadRequest
	case errors.Is(err, scheduler.ErrBookingFailed):
		status = http.StatusBadGateway
	case errors.Is(err, timer.ErrInvalidDuration):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.ErrorKV(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeJSON renders a JSON response body.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(payload)
}
