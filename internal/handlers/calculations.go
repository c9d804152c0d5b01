package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"roastwatch/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// @Summary      Get calculations
// @Description  Full calculation result and recommendation for the session's current snapshot.
// @Tags         calculations
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  engine.Result
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/calculations [get]
// @Security     BearerAuth
func (h *Handler) getCalculations(c *gin.Context) {
	result, err := h.services.Calculations.ForSession(
		c.Request.Context(), currentUserID(c), c.Param("id"), time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "calculations_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      Get oven responsiveness analysis
// @Description  Advisory correlation of oven settings against observed heating rates. Returns analysis=null when the session has too little segment data.
// @Tags         calculations
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  map[string]interface{}  "analysis"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/responsiveness [get]
// @Security     BearerAuth
func (h *Handler) getResponsiveness(c *gin.Context) {
	analysis, err := h.services.Calculations.Responsiveness(
		c.Request.Context(), currentUserID(c), c.Param("id"), time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "responsiveness_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// @Summary      Apply the current recommendation
// @Description  One-tap apply: recomputes the recommendation and records the suggested setting as a new oven event.
// @Tags         calculations
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  map[string]interface{}  "status, event"
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string  "nothing applicable"
// @Router       /api/v1/sessions/{id}/recommendations/apply [post]
// @Security     BearerAuth
func (h *Handler) applyRecommendation(c *gin.Context) {
	event, err := h.services.Calculations.ApplyRecommendation(
		c.Request.Context(), currentUserID(c), c.Param("id"), time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "recommendation_apply_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "applied", "event": event})
}

// @Summary      List session activity
// @Description  Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only 'to' is treated as end-of-day inclusive.
// @Tags         activity
// @Produce      json
// @Param        id    path   string  true   "Session ID"
// @Param        from  query  string  false  "Start of range"  example(2025-11-27)
// @Param        to    query  string  false  "End of range"    example(2025-11-28)
// @Param        type  query  string  false  "Entry type"  Enums(STATUS_CHANGE,RECOMMENDATION_APPLIED,SESSION_CREATED)
// @Success      200   {object}  map[string]interface{}  "count, entries"
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/sessions/{id}/activity [get]
// @Security     BearerAuth
func (h *Handler) getActivity(c *gin.Context) {
	var (
		from, to time.Time
		err      error
	)
	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		// A date without a time component means the whole day.
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	entries, err := h.services.Activity.List(c.Request.Context(), currentUserID(c), c.Param("id"),
		service.ActivityFilter{
			From: from,
			To:   to,
			Type: strings.ToUpper(strings.TrimSpace(c.Query("type"))),
		})
	if err != nil {
		h.respondError(c, err, "activity_list_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "entries": entries})
}

// isDateOnly reports whether the query string lacks a time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
