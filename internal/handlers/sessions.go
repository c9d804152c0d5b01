package handlers

import (
	"errors"
	"net/http"
	"time"

	"roastwatch/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP status codes and logs the ones
// worth investigating.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNothingToApply):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError && h.log != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// CreateSessionRequest is the payload for creating or updating a session.
type CreateSessionRequest struct {
	// Display name of the cook, e.g. "Thanksgiving turkey"
	Name string `json:"name" binding:"required" example:"brisket"`
	// Internal target temperature in °F
	TargetTempF float64 `json:"target_temp_f" binding:"required" example:"203"`
	// Optional desired serve time, RFC3339
	ServeAt *time.Time `json:"serve_at,omitempty"`
}

type updateSessionRequest struct {
	Name        string     `json:"name,omitempty"`
	TargetTempF float64    `json:"target_temp_f,omitempty"`
	ServeAt     *time.Time `json:"serve_at,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

// @Summary      Create cook session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body  CreateSessionRequest  true  "Session payload"
// @Success      200   {object}  roastwatch.CookSession
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/sessions [post]
// @Security     BearerAuth
func (h *Handler) createSession(c *gin.Context) {
	var req CreateSessionRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	session, err := h.services.Sessions.Create(c.Request.Context(), currentUserID(c), service.SessionParams{
		Name:        req.Name,
		TargetTempF: req.TargetTempF,
		ServeAt:     req.ServeAt,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// @Summary      List own sessions
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, sessions"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/sessions [get]
// @Security     BearerAuth
func (h *Handler) listSessions(c *gin.Context) {
	sessions, err := h.services.Sessions.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err, "sessions_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sessions), "sessions": sessions})
}

// @Summary      Get one session
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  roastwatch.CookSession
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id} [get]
// @Security     BearerAuth
func (h *Handler) getSession(c *gin.Context) {
	session, err := h.services.Sessions.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "session_get_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// @Summary      Update a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "Session ID"
// @Param        body  body  CreateSessionRequest  true  "Fields to change"
// @Success      200   {object}  roastwatch.CookSession
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/sessions/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateSession(c *gin.Context) {
	var req updateSessionRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	session, err := h.services.Sessions.Update(c.Request.Context(), currentUserID(c), c.Param("id"), service.SessionParams{
		Name:        req.Name,
		TargetTempF: req.TargetTempF,
		ServeAt:     req.ServeAt,
		Active:      req.Active,
	})
	if err != nil {
		h.respondError(c, err, "session_update_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// AddReadingRequest is the payload for recording a temperature reading.
type AddReadingRequest struct {
	// Internal temperature in °F
	TempF float64 `json:"temp_f" binding:"required" example:"147.5"`
	// Measurement time, RFC3339; defaults to now
	TakenAt *time.Time `json:"taken_at,omitempty"`
}

// @Summary      Record a reading
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Session ID"
// @Param        body  body  AddReadingRequest  true  "Reading payload"
// @Success      200   {object}  roastwatch.Reading
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/sessions/{id}/readings [post]
// @Security     BearerAuth
func (h *Handler) addReading(c *gin.Context) {
	var req AddReadingRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	reading, err := h.services.Sessions.AddReading(c.Request.Context(), currentUserID(c), c.Param("id"),
		readingParams(req))
	if err != nil {
		h.respondError(c, err, "reading_add_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, reading)
}

// @Summary      List readings
// @Tags         readings
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  map[string]interface{}  "count, readings"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/readings [get]
// @Security     BearerAuth
func (h *Handler) listReadings(c *gin.Context) {
	readings, err := h.services.Sessions.Readings(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "readings_list_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(readings), "readings": readings})
}

// @Summary      Edit a reading
// @Description  Derived deltas across the whole ordered set are recomputed.
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        id         path  string             true  "Session ID"
// @Param        readingId  path  string             true  "Reading ID"
// @Param        body       body  AddReadingRequest  true  "New values"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/readings/{readingId} [put]
// @Security     BearerAuth
func (h *Handler) updateReading(c *gin.Context) {
	var req AddReadingRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	err := h.services.Sessions.UpdateReading(c.Request.Context(), currentUserID(c),
		c.Param("id"), c.Param("readingId"), readingParams(req))
	if err != nil {
		h.respondError(c, err, "reading_update_failed", "reading", c.Param("readingId"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// @Summary      Delete a reading
// @Tags         readings
// @Produce      json
// @Param        id         path  string  true  "Session ID"
// @Param        readingId  path  string  true  "Reading ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/readings/{readingId} [delete]
// @Security     BearerAuth
func (h *Handler) deleteReading(c *gin.Context) {
	err := h.services.Sessions.DeleteReading(c.Request.Context(), currentUserID(c),
		c.Param("id"), c.Param("readingId"))
	if err != nil {
		h.respondError(c, err, "reading_delete_failed", "reading", c.Param("readingId"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AddOvenEventRequest is the payload for recording an oven setting change.
type AddOvenEventRequest struct {
	// New oven setting in °F
	SetTempF float64 `json:"set_temp_f" binding:"required" example:"225"`
	// Change time, RFC3339; defaults to now
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// @Summary      Record an oven setting change
// @Tags         oven-events
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "Session ID"
// @Param        body  body  AddOvenEventRequest  true  "Event payload"
// @Success      200   {object}  roastwatch.OvenEvent
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/sessions/{id}/oven-events [post]
// @Security     BearerAuth
func (h *Handler) addOvenEvent(c *gin.Context) {
	var req AddOvenEventRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	params := service.OvenEventParams{SetTempF: req.SetTempF}
	if req.OccurredAt != nil {
		params.OccurredAt = *req.OccurredAt
	}
	event, err := h.services.Sessions.AddOvenEvent(c.Request.Context(), currentUserID(c), c.Param("id"), params)
	if err != nil {
		h.respondError(c, err, "oven_event_add_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, event)
}

// @Summary      List oven setting changes
// @Tags         oven-events
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/oven-events [get]
// @Security     BearerAuth
func (h *Handler) listOvenEvents(c *gin.Context) {
	events, err := h.services.Sessions.OvenEvents(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "oven_events_list_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}

// @Summary      Delete an oven setting change
// @Tags         oven-events
// @Produce      json
// @Param        id       path  string  true  "Session ID"
// @Param        eventId  path  string  true  "Event ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/oven-events/{eventId} [delete]
// @Security     BearerAuth
func (h *Handler) deleteOvenEvent(c *gin.Context) {
	err := h.services.Sessions.DeleteOvenEvent(c.Request.Context(), currentUserID(c),
		c.Param("id"), c.Param("eventId"))
	if err != nil {
		h.respondError(c, err, "oven_event_delete_failed", "event", c.Param("eventId"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func readingParams(req AddReadingRequest) service.ReadingParams {
	p := service.ReadingParams{TempF: req.TempF}
	if req.TakenAt != nil {
		p.TakenAt = *req.TakenAt
	}
	return p
}
