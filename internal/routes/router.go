package routes

import (
	"time"

	"fieldcrew/internal/approvals"
	"fieldcrew/internal/attendance"
	"fieldcrew/internal/db"
	"fieldcrew/internal/handlers"
	"fieldcrew/internal/sequencer"

	"github.com/gin-gonic/gin"
)

func NewRouter(database *db.DB, att *attendance.Service, seq *sequencer.Sequencer, leave *approvals.Service, loc *time.Location) *gin.Engine {
	r := gin.Default()

	attH := handlers.NewAttendanceHandler(att, seq)
	asgH := handlers.NewAssignmentHandler(seq, loc)
	leaveH := handlers.NewLeaveHandler(leave, loc)
	dashH := handlers.NewDashboardHandler(database, loc)

	r.GET("/health", handlers.Health)

	api := r.Group("/api/v1")
	{
		api.POST("/attendance/checkin", attH.CheckIn)
		api.POST("/attendance/checkout", attH.CheckOut)
		api.GET("/attendance/:employee_id", attH.ListByEmployee)
		api.GET("/employees/:employee_id/eligibility", attH.Eligibility)

		api.POST("/assignments", asgH.Enqueue)
		api.GET("/assignments", asgH.List)
		api.POST("/assignments/:id/start", asgH.Start)
		api.POST("/assignments/:id/complete", asgH.Complete)
		api.PATCH("/assignments/:id", asgH.Update)
		api.DELETE("/assignments/:id", asgH.Remove)

		api.POST("/leaves", leaveH.Submit)
		api.GET("/leaves/pending", leaveH.ListPending)
		api.POST("/leaves/:id/approve", leaveH.Approve)
		api.POST("/leaves/:id/reject", leaveH.Reject)

		api.GET("/dashboard/active", dashH.Active)
		api.GET("/reports/attendance", dashH.AttendanceReport)
		api.GET("/reports/history/:employee_id", dashH.History)
	}

	return r
}
