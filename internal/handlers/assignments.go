package handlers

import (
	"net/http"
	"strconv"
	"time"

	"fieldcrew/internal/db/models"
	"fieldcrew/internal/sequencer"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	seq *sequencer.Sequencer
	loc *time.Location
	now func() time.Time
}

func NewAssignmentHandler(seq *sequencer.Sequencer, loc *time.Location) *AssignmentHandler {
	return &AssignmentHandler{seq: seq, loc: loc, now: time.Now}
}

func (h *AssignmentHandler) today() time.Time {
	return models.Day(h.now(), h.loc)
}

type enqueueRequest struct {
	EmployeeID int64   `json:"employeeId" binding:"required"`
	ProjectID  int64   `json:"projectId" binding:"required"`
	TaskIDs    []int64 `json:"taskIds" binding:"required"`
	Date       string  `json:"date"`
}

// Enqueue queues a batch of tasks for a worker's day.
func (h *AssignmentHandler) Enqueue(c *gin.Context) {
	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}
	date, err := parseDate(req.Date, h.loc, h.today())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	created, err := h.seq.Enqueue(c.Request.Context(), req.EmployeeID, req.ProjectID, req.TaskIDs, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "data": created})
}

func (h *AssignmentHandler) Start(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := h.seq.Start(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AssignmentHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := h.seq.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AssignmentHandler) Remove(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.seq.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"removed": id})
}

type updateRequest struct {
	Priority        *int    `json:"priority"`
	WorkArea        *string `json:"workArea"`
	Floor           *string `json:"floor"`
	Zone            *string `json:"zone"`
	EstimateMinutes *int    `json:"estimateMinutes"`
	DailyTarget     *string `json:"dailyTarget"`
	SupervisorID    *int64  `json:"supervisorId"`
}

func (h *AssignmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	a, err := h.seq.Update(c.Request.Context(), id, models.AssignmentChanges{
		Priority:     req.Priority,
		WorkArea:     req.WorkArea,
		Floor:        req.Floor,
		Zone:         req.Zone,
		EstimateMins: req.EstimateMinutes,
		DailyTarget:  req.DailyTarget,
		SupervisorID: req.SupervisorID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, a)
}

// List returns the worker's queue for a project and day.
func (h *AssignmentHandler) List(c *gin.Context) {
	employeeID, err := strconv.ParseInt(c.Query("employee_id"), 10, 64)
	if err != nil || employeeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id must be a positive integer"})
		return
	}
	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil || projectID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id must be a positive integer"})
		return
	}
	date, err := parseDate(c.Query("date"), h.loc, h.today())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	assignments, err := h.seq.Queue(c.Request.Context(), employeeID, projectID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, assignments)
}
