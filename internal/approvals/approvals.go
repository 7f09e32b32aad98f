// Package approvals handles leave requests: workers submit a date
// range, supervisors approve or reject it exactly once.
package approvals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fieldcrew/internal/apperr"
	"fieldcrew/internal/db/models"
)

type Store interface {
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	CreateLeaveRequest(ctx context.Context, lr *models.LeaveRequest) error
	GetLeaveRequest(ctx context.Context, id int64) (*models.LeaveRequest, error)
	ListPendingLeaveRequests(ctx context.Context) ([]*models.LeaveRequest, error)
	DecideLeaveRequest(ctx context.Context, id, deciderID int64, status models.LeaveStatus, at time.Time) (*models.LeaveRequest, error)
}

type Notifier interface {
	Emit(eventType string, payload map[string]any)
}

type Service struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

func New(store Store, notifier Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit files a new pending leave request.
func (s *Service) Submit(ctx context.Context, employeeID int64, start, end time.Time, reason string) (*models.LeaveRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.Validation("reason is required")
	}
	if end.Before(start) {
		return nil, apperr.Validation("end date must not be before start date")
	}

	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("error getting employee: %w", err)
	}
	if emp == nil {
		return nil, apperr.NotFound("employee not found")
	}

	lr := &models.LeaveRequest{
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     strings.TrimSpace(reason),
		Status:     models.LeavePending,
	}
	if err := s.store.CreateLeaveRequest(ctx, lr); err != nil {
		return nil, fmt.Errorf("error creating leave request: %w", err)
	}
	return lr, nil
}

// Pending lists undecided requests, oldest first.
func (s *Service) Pending(ctx context.Context) ([]*models.LeaveRequest, error) {
	return s.store.ListPendingLeaveRequests(ctx)
}

// Decide approves or rejects a pending request. A request can be
// decided exactly once.
func (s *Service) Decide(ctx context.Context, id, deciderID int64, approve bool) (*models.LeaveRequest, error) {
	lr, err := s.store.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting leave request: %w", err)
	}
	if lr == nil {
		return nil, apperr.NotFound("leave request not found")
	}
	if lr.Status != models.LeavePending {
		return nil, apperr.Conflict("leave request is already decided")
	}

	status := models.LeaveRejected
	if approve {
		status = models.LeaveApproved
	}
	decided, err := s.store.DecideLeaveRequest(ctx, id, deciderID, status, s.now())
	if err != nil {
		return nil, fmt.Errorf("error deciding leave request: %w", err)
	}
	if decided == nil {
		return nil, apperr.Conflict("leave request is already decided")
	}

	s.notifier.Emit("leave.decided", map[string]any{
		"leave_id":    decided.ID,
		"employee_id": decided.EmployeeID,
		"status":      string(decided.Status),
		"decided_by":  deciderID,
	})
	return decided, nil
}
