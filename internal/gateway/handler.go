package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GateSentry/GateSentry/internal/common/logger"
	"github.com/GateSentry/GateSentry/internal/common/middleware"
	"github.com/GateSentry/GateSentry/internal/gatelog"
	"github.com/GateSentry/GateSentry/internal/registry"
)

// Handler is the thin HTTP transport in front of the core. It normalizes
// plates, maps domain errors to status codes, and does nothing else.
type Handler struct {
	gate     *gatelog.Service
	registry *registry.Service
	breaker  *middleware.CircuitBreaker
	log      logger.Logger
}

func NewHandler(gate *gatelog.Service, reg *registry.Service, breaker *middleware.CircuitBreaker, log logger.Logger) *Handler {
	return &Handler{gate: gate, registry: reg, breaker: breaker, log: log}
}

type plateRequest struct {
	PlateNumber string `json:"plate_number"`
}

type vehicleCreateRequest struct {
	PlateNumber string `json:"plate_number"`
	OwnerName   string `json:"owner_name"`
	VehicleType string `json:"vehicle_type"`
}

type entryResponse struct {
	IsRegistered     bool                     `json:"is_registered"`
	PlateNumber      string                   `json:"plate_number"`
	PastEntries      []gatelog.SessionSummary `json:"past_entries"`
	IsSuspicious     bool                     `json:"is_suspicious"`
	Message          string                   `json:"message"`
	SuspiciousReason string                   `json:"suspicious_reason"`
}

type exitResponse struct {
	PlateNumber       string  `json:"plate_number"`
	EntryTime         string  `json:"entry_time"`
	ExitTime          string  `json:"exit_time"`
	DurationMinutes   float64 `json:"duration_minutes"`
	DurationFormatted string  `json:"duration_formatted"`
	IsSuspicious      bool    `json:"is_suspicious"`
	Message           string  `json:"message"`
}

type vehicleResponse struct {
	PlateNumber    string `json:"plate_number"`
	OwnerName      string `json:"owner_name"`
	VehicleType    string `json:"vehicle_type"`
	RegisteredDate string `json:"registered_date,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// CheckEntry handles POST /api/check-entry.
func (h *Handler) CheckEntry(w http.ResponseWriter, r *http.Request) {
	var req plateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	plate := registry.NormalizePlate(req.PlateNumber)
	if plate == "" {
		writeError(w, http.StatusBadRequest, "plate_number required")
		return
	}

	var decision *gatelog.EntryDecision
	err := h.call(r, func() error {
		var callErr error
		decision, callErr = h.gate.RecordEntry(r.Context(), plate)
		return callErr
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	entriesTotal.WithLabelValues(strconv.FormatBool(decision.IsRegistered)).Inc()
	if decision.IsSuspicious {
		suspiciousTotal.WithLabelValues("frequency").Inc()
	}

	past := decision.PastSessions
	if past == nil {
		past = []gatelog.SessionSummary{}
	}
	writeJSON(w, http.StatusOK, entryResponse{
		IsRegistered:     decision.IsRegistered,
		PlateNumber:      decision.PlateNumber,
		PastEntries:      past,
		IsSuspicious:     decision.IsSuspicious,
		Message:          decision.Message,
		SuspiciousReason: decision.SuspicionReason,
	})
}

// CheckExit handles POST /api/check-exit.
func (h *Handler) CheckExit(w http.ResponseWriter, r *http.Request) {
	var req plateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	plate := registry.NormalizePlate(req.PlateNumber)
	if plate == "" {
		writeError(w, http.StatusBadRequest, "plate_number required")
		return
	}

	var decision *gatelog.ExitDecision
	err := h.call(r, func() error {
		var callErr error
		decision, callErr = h.gate.RecordExit(r.Context(), plate)
		return callErr
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	exitsTotal.Inc()
	if decision.DurationSuspicious {
		suspiciousTotal.WithLabelValues("duration").Inc()
	}

	writeJSON(w, http.StatusOK, exitResponse{
		PlateNumber:       decision.PlateNumber,
		EntryTime:         decision.EntryTime.Format(time.RFC3339),
		ExitTime:          decision.ExitTime.Format(time.RFC3339),
		DurationMinutes:   decision.DurationMinutes,
		DurationFormatted: decision.DurationFormatted,
		IsSuspicious:      decision.IsSuspicious,
		Message:           decision.Message,
	})
}

// History handles GET /api/history/{plateNumber}.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	plate := registry.NormalizePlate(chi.URLParam(r, "plateNumber"))
	if plate == "" {
		writeError(w, http.StatusBadRequest, "plate_number required")
		return
	}

	var entries []gatelog.SessionSummary
	err := h.call(r, func() error {
		var callErr error
		entries, callErr = h.gate.History(r.Context(), plate)
		return callErr
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []gatelog.SessionSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plate_number": plate,
		"entries":      entries,
	})
}

// CreateVehicle handles POST /api/vehicles.
func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	plate := registry.NormalizePlate(req.PlateNumber)
	if plate == "" {
		writeError(w, http.StatusBadRequest, "plate_number required")
		return
	}

	var v *registry.Vehicle
	err := h.call(r, func() error {
		var callErr error
		v, callErr = h.registry.Register(r.Context(), plate, req.OwnerName, req.VehicleType)
		return callErr
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Vehicle registered successfully",
		"vehicle": toVehicleResponse(v),
	})
}

// ListVehicles handles GET /api/vehicles.
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	var vehicles []registry.Vehicle
	err := h.call(r, func() error {
		var callErr error
		vehicles, callErr = h.registry.List(r.Context())
		return callErr
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]vehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, toVehicleResponse(&vehicles[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// DeleteVehicle handles DELETE /api/vehicles/{plateNumber}.
func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	plate := registry.NormalizePlate(chi.URLParam(r, "plateNumber"))
	if plate == "" {
		writeError(w, http.StatusBadRequest, "plate_number required")
		return
	}

	err := h.call(r, func() error {
		return h.registry.Remove(r.Context(), plate)
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle removed successfully"})
}

// AllLogs handles GET /api/logs.
func (h *Handler) AllLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	var logs []gatelog.SessionSummary
	err := h.call(r, func() error {
		var callErr error
		logs, callErr = h.gate.AllSessions(r.Context(), limit)
		return callErr
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if logs == nil {
		logs = []gatelog.SessionSummary{}
	}

	writeJSON(w, http.StatusOK, logs)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// call runs a store-backed operation under the circuit breaker. Domain
// errors (not found, duplicate) do not count as downstream failures.
func (h *Handler) call(r *http.Request, fn func() error) error {
	if h.breaker == nil {
		return fn()
	}
	var domainErr error
	err := h.breaker.Call(r.Context(), func() error {
		err := fn()
		if isDomainError(err) {
			// report success to the breaker, surface the error to the caller
			domainErr = err
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return domainErr
}

func isDomainError(err error) bool {
	return errors.Is(err, gatelog.ErrNoOpenSession) ||
		errors.Is(err, registry.ErrVehicleExists) ||
		errors.Is(err, registry.ErrVehicleNotFound)
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gatelog.ErrNoOpenSession):
		writeError(w, http.StatusNotFound, "No active entry found for this vehicle")
	case errors.Is(err, registry.ErrVehicleNotFound):
		writeError(w, http.StatusNotFound, "Vehicle not found")
	case errors.Is(err, registry.ErrVehicleExists):
		writeError(w, http.StatusBadRequest, "Vehicle already registered")
	case errors.Is(err, middleware.ErrBreakerOpen):
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		if h.log != nil {
			h.log.Errorf("request failed: %v", err)
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toVehicleResponse(v *registry.Vehicle) vehicleResponse {
	out := vehicleResponse{
		PlateNumber: v.PlateNumber,
		OwnerName:   v.OwnerName,
		VehicleType: v.VehicleType,
	}
	if !v.RegisteredDate.IsZero() {
		out.RegisteredDate = v.RegisteredDate.Format(time.RFC3339)
	}
	return out
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
