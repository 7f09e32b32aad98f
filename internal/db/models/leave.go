package models

import "time"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type LeaveRequest struct {
	ID         int64       `db:"id" json:"id"`
	EmployeeID int64       `db:"employee_id" json:"employeeId"`
	StartDate  time.Time   `db:"start_date" json:"startDate"`
	EndDate    time.Time   `db:"end_date" json:"endDate"`
	Reason     string      `db:"reason" json:"reason"`
	Status     LeaveStatus `db:"status" json:"status"`
	DecidedBy  *int64      `db:"decided_by" json:"decidedBy,omitempty"`
	DecidedAt  *time.Time  `db:"decided_at" json:"decidedAt,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
}
