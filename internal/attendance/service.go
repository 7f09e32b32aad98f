// Package attendance records check-in and check-out events and the
// geofence-membership flags computed at the moment of each event.
package attendance

import (
	"context"
	"fmt"
	"time"

	"fieldcrew/internal/apperr"
	"fieldcrew/internal/db/models"
	"fieldcrew/internal/geofence"
)

type Store interface {
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
	GetOpenAttendance(ctx context.Context, employeeID, projectID int64, date time.Time) (*models.AttendanceRecord, error)
	CreateAttendance(ctx context.Context, rec *models.AttendanceRecord) error
	CloseAttendance(ctx context.Context, id int64, at time.Time, lat, lng float64, inside bool) (bool, error)
	ListAttendanceByEmployee(ctx context.Context, employeeID int64, limit int) ([]*models.AttendanceRecord, error)
}

type Notifier interface {
	Emit(eventType string, payload map[string]any)
}

type Service struct {
	store    Store
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

func New(store Store, notifier Notifier, loc *time.Location) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// Today returns the current work day in the configured site timezone.
func (s *Service) Today() time.Time {
	return models.Day(s.now(), s.loc)
}

// CheckIn opens today's attendance record for the worker on the
// project. The geofence flag is always computed and stored, even for
// projects with strict mode off.
func (s *Service) CheckIn(ctx context.Context, employeeID, projectID int64, point geofence.Point) (*models.AttendanceRecord, error) {
	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("error getting employee: %w", err)
	}
	if emp == nil {
		return nil, apperr.NotFound("employee not found")
	}

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	if project == nil {
		return nil, apperr.NotFound("project not found")
	}

	date := s.Today()
	open, err := s.store.GetOpenAttendance(ctx, employeeID, projectID, date)
	if err != nil {
		return nil, fmt.Errorf("error getting open attendance: %w", err)
	}
	if open != nil {
		return nil, apperr.Conflict("worker is already checked in for this project today")
	}

	inside := geofence.Resolve(project).Contains(point)
	rec := &models.AttendanceRecord{
		EmployeeID:              employeeID,
		ProjectID:               projectID,
		Date:                    date,
		CheckIn:                 s.now(),
		CheckinLat:              point.Lat,
		CheckinLng:              point.Lng,
		InsideGeofenceAtCheckin: inside,
	}
	if err := s.store.CreateAttendance(ctx, rec); err != nil {
		return nil, err
	}

	s.notifier.Emit("attendance.checked_in", map[string]any{
		"employee_id":     employeeID,
		"project_id":      projectID,
		"date":            date.Format(models.DateFormat),
		"inside_geofence": inside,
	})
	return rec, nil
}

// CheckOut closes today's open attendance record.
func (s *Service) CheckOut(ctx context.Context, employeeID, projectID int64, point geofence.Point) (*models.AttendanceRecord, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	if project == nil {
		return nil, apperr.NotFound("project not found")
	}

	date := s.Today()
	open, err := s.store.GetOpenAttendance(ctx, employeeID, projectID, date)
	if err != nil {
		return nil, fmt.Errorf("error getting open attendance: %w", err)
	}
	if open == nil {
		return nil, apperr.NotFound("no open attendance record for today")
	}

	// Keep check-out chronologically after check-in even with clock skew
	at := s.now()
	if at.Before(open.CheckIn) {
		at = open.CheckIn.Add(time.Second)
	}

	inside := geofence.Resolve(project).Contains(point)
	closed, err := s.store.CloseAttendance(ctx, open.ID, at, point.Lat, point.Lng, inside)
	if err != nil {
		return nil, fmt.Errorf("error closing attendance: %w", err)
	}
	if !closed {
		return nil, apperr.NotFound("no open attendance record for today")
	}

	open.CheckOut = &at
	open.CheckoutLat = &point.Lat
	open.CheckoutLng = &point.Lng
	open.InsideGeofenceAtCheckout = &inside

	s.notifier.Emit("attendance.checked_out", map[string]any{
		"employee_id":     employeeID,
		"project_id":      projectID,
		"date":            date.Format(models.DateFormat),
		"inside_geofence": inside,
	})
	return open, nil
}

// History lists the worker's most recent attendance records.
func (s *Service) History(ctx context.Context, employeeID int64, limit int) ([]*models.AttendanceRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.store.ListAttendanceByEmployee(ctx, employeeID, limit)
}
