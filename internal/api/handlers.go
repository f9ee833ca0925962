package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/irrigation-dashboard/internal/credentials"
	"github.com/nerrad567/irrigation-dashboard/internal/device"
)

// handleHealth returns liveness plus the broker and database state.
// The broker being down does not make the service unhealthy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":  "ok",
		"version": s.version,
	}

	if st, err := s.core.Status(r.Context()); err == nil {
		body["broker"] = st.State.String()
	} else {
		body["status"] = "degraded"
		body["broker"] = err.Error()
	}

	if s.database != nil {
		if err := s.database.HealthCheck(r.Context()); err != nil {
			body["status"] = "degraded"
			body["database"] = err.Error()
		} else {
			body["database"] = "ok"
		}
	}

	status := http.StatusOK
	if body["status"] != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, body)
}

// handleState returns the rendered dashboard.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	v, err := s.core.View(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleConnect stores new credentials and connects with them.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var cfg credentials.ConnectionConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.core.SaveAndConnect(r.Context(), cfg); err != nil {
		writeCoreError(w, err)
		return
	}
	s.logger.Info("broker credentials updated", "broker", cfg.Normalize().String())
	w.WriteHeader(http.StatusAccepted)
}

// handleDisconnect closes the broker session. With ?forget=1 the stored
// credentials are deleted too.
func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	forget, err := parseFlag(r.URL.Query().Get("forget"))
	if err != nil {
		writeBadRequest(w, "forget must be a boolean")
		return
	}

	if forget {
		err = s.core.Forget(r.Context())
	} else {
		err = s.core.Disconnect(r.Context())
	}
	if err != nil {
		writeCoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseFlag reads an optional boolean query value; empty means false.
func parseFlag(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// actuatorStateRequest is the body of POST /actuators/{id}/state.
type actuatorStateRequest struct {
	On         *bool `json:"on"`
	DurationMs *int  `json:"duration_ms"`
}

// handleSetActuator switches an actuator, optionally for a fixed duration.
func (s *Server) handleSetActuator(w http.ResponseWriter, r *http.Request) {
	id, ok := actuatorID(w, r)
	if !ok {
		return
	}

	var req actuatorStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.On == nil {
		writeBadRequest(w, "field \"on\" is required")
		return
	}

	var err error
	switch {
	case req.DurationMs != nil && !*req.On:
		writeBadRequest(w, "duration_ms is only valid with on=true")
		return
	case req.DurationMs != nil:
		err = s.core.SetActuatorTimed(r.Context(), id, *req.DurationMs)
	default:
		err = s.core.SetActuator(r.Context(), id, *req.On)
	}
	if err != nil {
		writeCoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleUpdateSchedule publishes a new schedule.
func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := actuatorID(w, r)
	if !ok {
		return
	}

	var cfg device.ScheduleConfig
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		writeBadRequest(w, "invalid schedule body: "+err.Error())
		return
	}

	if err := s.core.UpdateSchedule(r.Context(), id, cfg); err != nil {
		writeCoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func actuatorID(w http.ResponseWriter, r *http.Request) (device.ActuatorID, bool) {
	id, err := device.ParseActuatorID(chi.URLParam(r, "id"))
	if err != nil {
		writeCoreError(w, err)
		return 0, false
	}
	return id, true
}
