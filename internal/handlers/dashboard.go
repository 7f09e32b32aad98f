package handlers

import (
	"net/http"
	"strconv"
	"time"

	"fieldcrew/internal/db"
	"fieldcrew/internal/db/models"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	db  *db.DB
	loc *time.Location
	now func() time.Time
}

func NewDashboardHandler(database *db.DB, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{db: database, loc: loc, now: time.Now}
}

// Active shows supervisors who is on site and what is running right now.
func (h *DashboardHandler) Active(c *gin.Context) {
	ctx := c.Request.Context()

	active, err := h.db.ActiveAssignments(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	onSite, err := h.db.OnSiteEmployees(ctx, models.Day(h.now(), h.loc))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"activeAssignments": active,
		"onSite":            onSite,
	})
}

// AttendanceReport lists a project's attendance over a date range.
func (h *DashboardHandler) AttendanceReport(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil || projectID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id must be a positive integer"})
		return
	}
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	records, err := h.db.AttendanceReport(c.Request.Context(), projectID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, records)
}

// History lists a worker's completed assignments over a date range.
func (h *DashboardHandler) History(c *gin.Context) {
	employeeID, ok := parseID(c, "employee_id")
	if !ok {
		return
	}
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	history, err := h.db.AssignmentHistory(c.Request.Context(), employeeID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, history)
}

// dateRange parses from/to query params, defaulting to the last week.
func (h *DashboardHandler) dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	today := models.Day(h.now(), h.loc)
	from, err := parseDate(c.Query("from"), h.loc, today.AddDate(0, 0, -7))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	to, err := parseDate(c.Query("to"), h.loc, today)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
