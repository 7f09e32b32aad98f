package handlers

import (
	"net/http"
	"time"

	"fieldcrew/internal/approvals"
	"fieldcrew/internal/db/models"

	"github.com/gin-gonic/gin"
)

type LeaveHandler struct {
	svc *approvals.Service
	loc *time.Location
}

func NewLeaveHandler(svc *approvals.Service, loc *time.Location) *LeaveHandler {
	return &LeaveHandler{svc: svc, loc: loc}
}

type leaveRequest struct {
	EmployeeID int64  `json:"employeeId" binding:"required"`
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

func (h *LeaveHandler) Submit(c *gin.Context) {
	var req leaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}
	start, err := time.ParseInLocation(models.DateFormat, req.StartDate, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be YYYY-MM-DD"})
		return
	}
	end, err := time.ParseInLocation(models.DateFormat, req.EndDate, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be YYYY-MM-DD"})
		return
	}

	lr, err := h.svc.Submit(c.Request.Context(), req.EmployeeID, start, end, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "data": lr})
}

func (h *LeaveHandler) ListPending(c *gin.Context) {
	pending, err := h.svc.Pending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, pending)
}

type decideRequest struct {
	DeciderID int64 `json:"deciderId" binding:"required"`
}

func (h *LeaveHandler) Approve(c *gin.Context) { h.decide(c, true) }
func (h *LeaveHandler) Reject(c *gin.Context)  { h.decide(c, false) }

func (h *LeaveHandler) decide(c *gin.Context, approve bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	lr, err := h.svc.Decide(c.Request.Context(), id, req.DeciderID, approve)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, lr)
}
