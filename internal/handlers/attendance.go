package handlers

import (
	"net/http"
	"strconv"

	"fieldcrew/internal/attendance"
	"fieldcrew/internal/geofence"
	"fieldcrew/internal/sequencer"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	svc *attendance.Service
	seq *sequencer.Sequencer
}

func NewAttendanceHandler(svc *attendance.Service, seq *sequencer.Sequencer) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, seq: seq}
}

type attendanceRequest struct {
	EmployeeID int64   `json:"employeeId" binding:"required"`
	ProjectID  int64   `json:"projectId" binding:"required"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	rec, err := h.svc.CheckIn(c.Request.Context(), req.EmployeeID, req.ProjectID,
		geofence.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rec)
}

func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	rec, err := h.svc.CheckOut(c.Request.Context(), req.EmployeeID, req.ProjectID,
		geofence.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rec)
}

func (h *AttendanceHandler) ListByEmployee(c *gin.Context) {
	employeeID, ok := parseID(c, "employee_id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	records, err := h.svc.History(c.Request.Context(), employeeID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, records)
}

// Eligibility reports whether the worker may start tasks on the project
// right now.
func (h *AttendanceHandler) Eligibility(c *gin.Context) {
	employeeID, ok := parseID(c, "employee_id")
	if !ok {
		return
	}
	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil || projectID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id must be a positive integer"})
		return
	}

	eligible, err := h.seq.Eligible(c.Request.Context(), employeeID, projectID, h.svc.Today())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"eligible": eligible})
}
