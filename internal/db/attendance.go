package db

import (
	"context"
	"time"

	"fieldcrew/internal/apperr"
	"fieldcrew/internal/db/models"

	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	id, employee_id, project_id, work_date, check_in, check_out,
	checkin_lat, checkin_lng, checkout_lat, checkout_lng,
	inside_geofence_at_checkin, inside_geofence_at_checkout`

func scanAttendance(row pgx.Row) (*models.AttendanceRecord, error) {
	rec := &models.AttendanceRecord{}
	err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.ProjectID,
		&rec.Date,
		&rec.CheckIn,
		&rec.CheckOut,
		&rec.CheckinLat,
		&rec.CheckinLng,
		&rec.CheckoutLat,
		&rec.CheckoutLng,
		&rec.InsideGeofenceAtCheckin,
		&rec.InsideGeofenceAtCheckout,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateAttendance inserts a new check-in record. The partial unique
// index on open records rejects a second check-in for the same
// employee/project/day; callers translate that to a conflict.
func (db *DB) CreateAttendance(ctx context.Context, rec *models.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records
			(employee_id, project_id, work_date, check_in,
			 checkin_lat, checkin_lng, inside_geofence_at_checkin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := db.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.ProjectID,
		rec.Date.Format(models.DateFormat),
		rec.CheckIn,
		rec.CheckinLat,
		rec.CheckinLng,
		rec.InsideGeofenceAtCheckin,
	).Scan(&rec.ID)
	if isUniqueViolation(err) {
		return apperr.Conflict("worker is already checked in for this project today")
	}
	return err
}

// GetOpenAttendance gets the open attendance record for an employee on
// a project for the given day, if one exists
func (db *DB) GetOpenAttendance(ctx context.Context, employeeID, projectID int64, date time.Time) (*models.AttendanceRecord, error) {
	query := `
		SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND project_id = $2 AND work_date = $3 AND check_out IS NULL
		LIMIT 1`

	rec, err := scanAttendance(db.QueryRow(ctx, query, employeeID, projectID, date.Format(models.DateFormat)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CloseAttendance sets the check-out fields on an open record. Returns
// false if the record no longer exists or is already closed.
func (db *DB) CloseAttendance(ctx context.Context, id int64, at time.Time, lat, lng float64, inside bool) (bool, error) {
	query := `
		UPDATE attendance_records
		SET check_out = $2, checkout_lat = $3, checkout_lng = $4,
			inside_geofence_at_checkout = $5
		WHERE id = $1 AND check_out IS NULL`

	tag, err := db.Exec(ctx, query, id, at, lat, lng, inside)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListAttendanceByEmployee retrieves recent attendance records for an employee
func (db *DB) ListAttendanceByEmployee(ctx context.Context, employeeID int64, limit int) ([]*models.AttendanceRecord, error) {
	query := `
		SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		ORDER BY check_in DESC
		LIMIT $2`

	rows, err := db.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AttendanceReport retrieves a project's attendance records within a date range
func (db *DB) AttendanceReport(ctx context.Context, projectID int64, from, to time.Time) ([]*models.AttendanceRecord, error) {
	query := `
		SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE project_id = $1 AND work_date >= $2 AND work_date <= $3
		ORDER BY work_date, check_in`

	rows, err := db.Query(ctx, query, projectID,
		from.Format(models.DateFormat), to.Format(models.DateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
