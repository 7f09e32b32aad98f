package models

import "time"

// AttendanceRecord is one worker's presence on one project for one day.
// CheckOut stays nil while the worker is on site; at most one open
// record may exist per (employee, project, day).
type AttendanceRecord struct {
	ID                       int64      `db:"id" json:"id"`
	EmployeeID               int64      `db:"employee_id" json:"employeeId"`
	ProjectID                int64      `db:"project_id" json:"projectId"`
	Date                     time.Time  `db:"work_date" json:"date"`
	CheckIn                  time.Time  `db:"check_in" json:"checkIn"`
	CheckOut                 *time.Time `db:"check_out" json:"checkOut"`
	CheckinLat               float64    `db:"checkin_lat" json:"checkinLat"`
	CheckinLng               float64    `db:"checkin_lng" json:"checkinLng"`
	CheckoutLat              *float64   `db:"checkout_lat" json:"checkoutLat,omitempty"`
	CheckoutLng              *float64   `db:"checkout_lng" json:"checkoutLng,omitempty"`
	InsideGeofenceAtCheckin  bool       `db:"inside_geofence_at_checkin" json:"insideGeofenceAtCheckin"`
	InsideGeofenceAtCheckout *bool      `db:"inside_geofence_at_checkout" json:"insideGeofenceAtCheckout,omitempty"`
}

// Open reports whether the worker is still checked in.
func (a *AttendanceRecord) Open() bool {
	return a.CheckOut == nil
}
