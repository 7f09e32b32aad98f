package models

import (
	"time"

	"github.com/lib/pq"
)

// DateFormat is the wire and storage format for work days.
const DateFormat = "2006-01-02"

// Day truncates t to its calendar day in the given location.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

type Employee struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"fullName"`
	Role      string    `db:"role" json:"role"`
	Phone     string    `db:"phone" json:"phone"`
	DiscordID string    `db:"discord_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Project holds the site definition. The geofence columns are nullable
// so a partially configured project still resolves to usable defaults.
type Project struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Address         string    `db:"address" json:"address"`
	GeofenceLat     *float64  `db:"geofence_lat" json:"geofenceLat,omitempty"`
	GeofenceLng     *float64  `db:"geofence_lng" json:"geofenceLng,omitempty"`
	GeofenceRadiusM *float64  `db:"geofence_radius_m" json:"geofenceRadius,omitempty"`
	GeofenceStrict  *bool     `db:"geofence_strict" json:"geofenceStrictMode,omitempty"`
	GeofenceVarM    *float64  `db:"geofence_variance_m" json:"geofenceAllowedVariance,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

type Task struct {
	ID          int64          `db:"id" json:"id"`
	ProjectID   int64          `db:"project_id" json:"projectId"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}
