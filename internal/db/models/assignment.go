package models

import "time"

// AssignmentStatus is the canonical lowercase task assignment state.
type AssignmentStatus string

const (
	StatusQueued     AssignmentStatus = "queued"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed"
)

// IsValid reports whether s is one of the canonical states.
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case StatusQueued, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s AssignmentStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// TaskAssignment is one task queued for one worker on one work day.
// Sequence orders the queue within (employee, project, day); queued
// assignments always hold a contiguous 1..N run.
type TaskAssignment struct {
	ID           int64            `db:"id" json:"id"`
	EmployeeID   int64            `db:"employee_id" json:"employeeId"`
	ProjectID    int64            `db:"project_id" json:"projectId"`
	TaskID       int64            `db:"task_id" json:"taskId"`
	Date         time.Time        `db:"work_date" json:"date"`
	Status       AssignmentStatus `db:"status" json:"status"`
	Sequence     int              `db:"sequence" json:"sequence"`
	Priority     int              `db:"priority" json:"priority"`
	WorkArea     string           `db:"work_area" json:"workArea"`
	Floor        string           `db:"floor" json:"floor"`
	Zone         string           `db:"zone" json:"zone"`
	EstimateMins int              `db:"estimate_minutes" json:"estimateMinutes"`
	DailyTarget  string           `db:"daily_target" json:"dailyTarget"`
	SupervisorID *int64           `db:"supervisor_id" json:"supervisorId,omitempty"`
	StartTime    *time.Time       `db:"start_time" json:"startTime"`
	EndTime      *time.Time       `db:"end_time" json:"endTime"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
}

// AssignmentChanges carries the mutable non-state fields of an
// assignment. Nil fields are left untouched.
type AssignmentChanges struct {
	Priority     *int
	WorkArea     *string
	Floor        *string
	Zone         *string
	EstimateMins *int
	DailyTarget  *string
	SupervisorID *int64
}

// LocationChanged reports whether any location-like field is being set.
func (c AssignmentChanges) LocationChanged() bool {
	return c.WorkArea != nil || c.Floor != nil || c.Zone != nil
}

// Empty reports whether the change set touches nothing.
func (c AssignmentChanges) Empty() bool {
	return c.Priority == nil && c.WorkArea == nil && c.Floor == nil &&
		c.Zone == nil && c.EstimateMins == nil && c.DailyTarget == nil &&
		c.SupervisorID == nil
}
