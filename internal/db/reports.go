package db

import (
	"context"
	"time"

	"fieldcrew/internal/db/models"
)

// ActiveAssignments retrieves all in-progress assignments with their
// task, worker and project names
func (db *DB) ActiveAssignments(ctx context.Context) ([]*models.ActiveAssignment, error) {
	query := `
		SELECT` + assignmentPrefixed("a") + `,
			t.name, e.full_name, p.name
		FROM task_assignments a
		JOIN tasks t ON a.task_id = t.id
		JOIN employees e ON a.employee_id = e.id
		JOIN projects p ON a.project_id = p.id
		WHERE a.status = 'in_progress'
		ORDER BY a.start_time`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var active []*models.ActiveAssignment
	for rows.Next() {
		aa := &models.ActiveAssignment{Assignment: &models.TaskAssignment{}}
		a := aa.Assignment
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.ProjectID, &a.TaskID, &a.Date,
			&a.Status, &a.Sequence, &a.Priority, &a.WorkArea, &a.Floor,
			&a.Zone, &a.EstimateMins, &a.DailyTarget, &a.SupervisorID,
			&a.StartTime, &a.EndTime, &a.CreatedAt,
			&aa.TaskName, &aa.EmployeeName, &aa.ProjectName,
		)
		if err != nil {
			return nil, err
		}
		active = append(active, aa)
	}
	return active, rows.Err()
}

// OnSiteEmployees retrieves workers with an open attendance record for
// the given day
func (db *DB) OnSiteEmployees(ctx context.Context, date time.Time) ([]*models.OnSiteEmployee, error) {
	query := `
		SELECT
			r.id, r.employee_id, r.project_id, r.work_date, r.check_in, r.check_out,
			r.checkin_lat, r.checkin_lng, r.checkout_lat, r.checkout_lng,
			r.inside_geofence_at_checkin, r.inside_geofence_at_checkout,
			e.full_name, p.name
		FROM attendance_records r
		JOIN employees e ON r.employee_id = e.id
		JOIN projects p ON r.project_id = p.id
		WHERE r.work_date = $1 AND r.check_out IS NULL
		ORDER BY r.check_in`

	rows, err := db.Query(ctx, query, date.Format(models.DateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var onSite []*models.OnSiteEmployee
	for rows.Next() {
		os := &models.OnSiteEmployee{Record: &models.AttendanceRecord{}}
		r := os.Record
		err := rows.Scan(
			&r.ID, &r.EmployeeID, &r.ProjectID, &r.Date, &r.CheckIn, &r.CheckOut,
			&r.CheckinLat, &r.CheckinLng, &r.CheckoutLat, &r.CheckoutLng,
			&r.InsideGeofenceAtCheckin, &r.InsideGeofenceAtCheckout,
			&os.EmployeeName, &os.ProjectName,
		)
		if err != nil {
			return nil, err
		}
		onSite = append(onSite, os)
	}
	return onSite, rows.Err()
}

// AssignmentHistory retrieves an employee's completed assignments
// within a date range, newest first
func (db *DB) AssignmentHistory(ctx context.Context, employeeID int64, from, to time.Time) ([]*models.HistoryEntry, error) {
	query := `
		SELECT` + assignmentPrefixed("a") + `,
			t.name
		FROM task_assignments a
		JOIN tasks t ON a.task_id = t.id
		WHERE a.employee_id = $1
			AND a.work_date >= $2 AND a.work_date <= $3
			AND a.status = 'completed'
		ORDER BY a.end_time DESC`

	rows, err := db.Query(ctx, query, employeeID,
		from.Format(models.DateFormat), to.Format(models.DateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*models.HistoryEntry
	for rows.Next() {
		he := &models.HistoryEntry{Assignment: &models.TaskAssignment{}}
		a := he.Assignment
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.ProjectID, &a.TaskID, &a.Date,
			&a.Status, &a.Sequence, &a.Priority, &a.WorkArea, &a.Floor,
			&a.Zone, &a.EstimateMins, &a.DailyTarget, &a.SupervisorID,
			&a.StartTime, &a.EndTime, &a.CreatedAt,
			&he.TaskName,
		)
		if err != nil {
			return nil, err
		}
		history = append(history, he)
	}
	return history, rows.Err()
}

// assignmentPrefixed qualifies the assignment column list with a table
// alias for join queries.
func assignmentPrefixed(alias string) string {
	return `
		` + alias + `.id, ` + alias + `.employee_id, ` + alias + `.project_id, ` +
		alias + `.task_id, ` + alias + `.work_date, ` + alias + `.status, ` +
		alias + `.sequence, ` + alias + `.priority, ` + alias + `.work_area, ` +
		alias + `.floor, ` + alias + `.zone, ` + alias + `.estimate_minutes, ` +
		alias + `.daily_target, ` + alias + `.supervisor_id, ` +
		alias + `.start_time, ` + alias + `.end_time, ` + alias + `.created_at`
}
