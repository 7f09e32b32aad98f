package db

import (
	"context"
	"fmt"
	"time"

	"fieldcrew/internal/apperr"
	"fieldcrew/internal/db/models"

	"github.com/jackc/pgx/v5"
)

const assignmentColumns = `
	id, employee_id, project_id, task_id, work_date, status, sequence,
	priority, work_area, floor, zone, estimate_minutes, daily_target,
	supervisor_id, start_time, end_time, created_at`

func scanAssignment(row pgx.Row) (*models.TaskAssignment, error) {
	a := &models.TaskAssignment{}
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.ProjectID,
		&a.TaskID,
		&a.Date,
		&a.Status,
		&a.Sequence,
		&a.Priority,
		&a.WorkArea,
		&a.Floor,
		&a.Zone,
		&a.EstimateMins,
		&a.DailyTarget,
		&a.SupervisorID,
		&a.StartTime,
		&a.EndTime,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAssignments inserts a batch of assignments in one transaction.
// Either every row is created or none are. IDs and creation times are
// filled in on the way out. A duplicate (employee, project, day, task)
// surfaces as a conflict.
func (db *DB) CreateAssignments(ctx context.Context, assignments []*models.TaskAssignment) error {
	return withRetry(ctx, func() error {
		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("error starting transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		query := `
			INSERT INTO task_assignments
				(employee_id, project_id, task_id, work_date, status, sequence,
				 priority, work_area, floor, zone, estimate_minutes, daily_target,
				 supervisor_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id, created_at`

		for _, a := range assignments {
			err := tx.QueryRow(ctx, query,
				a.EmployeeID,
				a.ProjectID,
				a.TaskID,
				a.Date.Format(models.DateFormat),
				a.Status,
				a.Sequence,
				a.Priority,
				a.WorkArea,
				a.Floor,
				a.Zone,
				a.EstimateMins,
				a.DailyTarget,
				a.SupervisorID,
			).Scan(&a.ID, &a.CreatedAt)
			if err != nil {
				if isUniqueViolation(err) {
					return apperr.Conflict(fmt.Sprintf("task %d is already assigned for this day", a.TaskID))
				}
				return fmt.Errorf("error creating assignment: %w", err)
			}
		}

		// The deferred sequence constraint is checked at commit, so a
		// concurrent enqueue racing this one surfaces here.
		if err := tx.Commit(ctx); err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("assignments conflict with concurrently created rows")
			}
			return fmt.Errorf("error committing assignments: %w", err)
		}
		return nil
	})
}

// GetAssignment retrieves an assignment by its ID
func (db *DB) GetAssignment(ctx context.Context, id int64) (*models.TaskAssignment, error) {
	query := `
		SELECT` + assignmentColumns + `
		FROM task_assignments
		WHERE id = $1`

	a, err := scanAssignment(db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAssignments retrieves all assignments for an employee/project/day
// in queue order
func (db *DB) ListAssignments(ctx context.Context, employeeID, projectID int64, date time.Time) ([]*models.TaskAssignment, error) {
	query := `
		SELECT` + assignmentColumns + `
		FROM task_assignments
		WHERE employee_id = $1 AND project_id = $2 AND work_date = $3
		ORDER BY sequence`

	rows, err := db.Query(ctx, query, employeeID, projectID, date.Format(models.DateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.TaskAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// MaxSequence returns the highest sequence number ever handed out for
// the employee/project/day, across all statuses
func (db *DB) MaxSequence(ctx context.Context, employeeID, projectID int64, date time.Time) (int, error) {
	query := `
		SELECT COALESCE(MAX(sequence), 0)
		FROM task_assignments
		WHERE employee_id = $1 AND project_id = $2 AND work_date = $3`

	var max int
	err := db.QueryRow(ctx, query, employeeID, projectID, date.Format(models.DateFormat)).Scan(&max)
	return max, err
}

// ListAssignedTaskIDs returns the task IDs already assigned to the
// employee/project/day
func (db *DB) ListAssignedTaskIDs(ctx context.Context, employeeID, projectID int64, date time.Time) ([]int64, error) {
	query := `
		SELECT task_id
		FROM task_assignments
		WHERE employee_id = $1 AND project_id = $2 AND work_date = $3`

	rows, err := db.Query(ctx, query, employeeID, projectID, date.Format(models.DateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HasActiveAssignment reports whether the employee already has an
// in-progress assignment on the given day, on any project
func (db *DB) HasActiveAssignment(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM task_assignments
			WHERE employee_id = $1 AND work_date = $2 AND status = 'in_progress'
		)`

	var exists bool
	err := db.QueryRow(ctx, query, employeeID, date.Format(models.DateFormat)).Scan(&exists)
	return exists, err
}

// TransitionAssignment performs a compare-and-swap status change,
// stamping start or end time as appropriate. Returns nil if no row was
// in the expected prior state. The partial unique index on
// (employee_id, work_date) for in-progress rows arbitrates concurrent
// starts; losing that race surfaces as a conflict.
func (db *DB) TransitionAssignment(ctx context.Context, id int64, from, to models.AssignmentStatus, at time.Time) (*models.TaskAssignment, error) {
	var stamp string
	switch to {
	case models.StatusInProgress:
		stamp = "start_time"
	case models.StatusCompleted:
		stamp = "end_time"
	default:
		return nil, fmt.Errorf("unsupported transition target: %s", to)
	}

	query := fmt.Sprintf(`
		UPDATE task_assignments
		SET status = $3, %s = $4
		WHERE id = $1 AND status = $2
		RETURNING`+assignmentColumns, stamp)

	a, err := scanAssignment(db.QueryRow(ctx, query, id, from, to, at))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("worker already has an active task")
		}
		return nil, err
	}
	return a, nil
}

// RemoveQueuedAssignment deletes an assignment if it is still queued
// and renumbers the day's remaining assignments to a contiguous 1..N
// run, preserving relative order. Delete and renumber commit together,
// so no reader ever sees a gapped queue. Returns false when the row is
// missing or no longer queued.
func (db *DB) RemoveQueuedAssignment(ctx context.Context, id, employeeID, projectID int64, date time.Time) (bool, error) {
	resequence := `
		WITH ranked AS (
			SELECT id, ROW_NUMBER() OVER (ORDER BY sequence) AS rn
			FROM task_assignments
			WHERE employee_id = $1 AND project_id = $2 AND work_date = $3
		)
		UPDATE task_assignments t
		SET sequence = ranked.rn
		FROM ranked
		WHERE t.id = ranked.id AND t.sequence <> ranked.rn`

	var removed bool
	err := withRetry(ctx, func() error {
		removed = false
		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("error starting transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		tag, err := tx.Exec(ctx, `
			DELETE FROM task_assignments
			WHERE id = $1 AND status = 'queued'`, id)
		if err != nil {
			return fmt.Errorf("error deleting assignment: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return nil
		}

		_, err = tx.Exec(ctx, resequence, employeeID, projectID, date.Format(models.DateFormat))
		if err != nil {
			return fmt.Errorf("error resequencing queue: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("error committing removal: %w", err)
		}
		removed = true
		return nil
	})
	return removed, err
}

// UpdateAssignmentDetails mutates the non-state fields of an
// assignment. Nil change fields keep their current value.
func (db *DB) UpdateAssignmentDetails(ctx context.Context, id int64, changes models.AssignmentChanges) (*models.TaskAssignment, error) {
	query := `
		UPDATE task_assignments
		SET priority = COALESCE($2, priority),
			work_area = COALESCE($3, work_area),
			floor = COALESCE($4, floor),
			zone = COALESCE($5, zone),
			estimate_minutes = COALESCE($6, estimate_minutes),
			daily_target = COALESCE($7, daily_target),
			supervisor_id = COALESCE($8, supervisor_id)
		WHERE id = $1
		RETURNING` + assignmentColumns

	a, err := scanAssignment(db.QueryRow(ctx, query, id,
		changes.Priority,
		changes.WorkArea,
		changes.Floor,
		changes.Zone,
		changes.EstimateMins,
		changes.DailyTarget,
		changes.SupervisorID,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
