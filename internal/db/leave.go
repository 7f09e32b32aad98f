package db

import (
	"context"
	"time"

	"fieldcrew/internal/db/models"

	"github.com/jackc/pgx/v5"
)

const leaveColumns = `
	id, employee_id, start_date, end_date, reason, status,
	decided_by, decided_at, created_at`

func scanLeave(row pgx.Row) (*models.LeaveRequest, error) {
	lr := &models.LeaveRequest{}
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Reason,
		&lr.Status,
		&lr.DecidedBy,
		&lr.DecidedAt,
		&lr.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lr, nil
}

// CreateLeaveRequest inserts a new pending leave request
func (db *DB) CreateLeaveRequest(ctx context.Context, lr *models.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (employee_id, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return db.QueryRow(ctx, query,
		lr.EmployeeID,
		lr.StartDate.Format(models.DateFormat),
		lr.EndDate.Format(models.DateFormat),
		lr.Reason,
		lr.Status,
	).Scan(&lr.ID, &lr.CreatedAt)
}

// GetLeaveRequest retrieves a leave request by ID
func (db *DB) GetLeaveRequest(ctx context.Context, id int64) (*models.LeaveRequest, error) {
	query := `
		SELECT` + leaveColumns + `
		FROM leave_requests
		WHERE id = $1`

	lr, err := scanLeave(db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lr, nil
}

// ListPendingLeaveRequests retrieves all pending leave requests, oldest first
func (db *DB) ListPendingLeaveRequests(ctx context.Context) ([]*models.LeaveRequest, error) {
	query := `
		SELECT` + leaveColumns + `
		FROM leave_requests
		WHERE status = 'pending'
		ORDER BY created_at`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.LeaveRequest
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// DecideLeaveRequest moves a pending request to approved or rejected.
// Returns nil if the request is missing or already decided.
func (db *DB) DecideLeaveRequest(ctx context.Context, id, deciderID int64, status models.LeaveStatus, at time.Time) (*models.LeaveRequest, error) {
	query := `
		UPDATE leave_requests
		SET status = $2, decided_by = $3, decided_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING` + leaveColumns

	lr, err := scanLeave(db.QueryRow(ctx, query, id, status, deciderID, at))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lr, nil
}
