package attendance

import (
	"context"
	"testing"
	"time"

	"fieldcrew/internal/apperr"
	"fieldcrew/internal/db/models"
	"fieldcrew/internal/geofence"
)

type fakeStore struct {
	employees map[int64]*models.Employee
	projects  map[int64]*models.Project
	records   []*models.AttendanceRecord
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: make(map[int64]*models.Employee),
		projects:  make(map[int64]*models.Project),
	}
}

func (f *fakeStore) GetEmployee(_ context.Context, id int64) (*models.Employee, error) {
	return f.employees[id], nil
}

func (f *fakeStore) GetProject(_ context.Context, id int64) (*models.Project, error) {
	return f.projects[id], nil
}

func (f *fakeStore) GetOpenAttendance(_ context.Context, employeeID, projectID int64, date time.Time) (*models.AttendanceRecord, error) {
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.ProjectID == projectID && r.Date.Equal(date) && r.CheckOut == nil {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateAttendance(_ context.Context, rec *models.AttendanceRecord) error {
	f.nextID++
	rec.ID = f.nextID
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStore) CloseAttendance(_ context.Context, id int64, at time.Time, lat, lng float64, inside bool) (bool, error) {
	for _, r := range f.records {
		if r.ID == id && r.CheckOut == nil {
			r.CheckOut = &at
			r.CheckoutLat = &lat
			r.CheckoutLng = &lng
			r.InsideGeofenceAtCheckout = &inside
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListAttendanceByEmployee(_ context.Context, employeeID int64, limit int) ([]*models.AttendanceRecord, error) {
	var out []*models.AttendanceRecord
	for _, r := range f.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type nopNotifier struct{ events []string }

func (n *nopNotifier) Emit(eventType string, _ map[string]any) {
	n.events = append(n.events, eventType)
}

// Singapore CBD site with a 100m fence.
func siteProject() *models.Project {
	lat, lng, radius, variance := 1.3521, 103.8198, 100.0, 10.0
	return &models.Project{
		ID:              1002,
		Name:            "Marina Tower",
		GeofenceLat:     &lat,
		GeofenceLng:     &lng,
		GeofenceRadiusM: &radius,
		GeofenceVarM:    &variance,
	}
}

var baseTime = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newFixture() (*fakeStore, *nopNotifier, *Service) {
	store := newFakeStore()
	store.employees[7] = &models.Employee{ID: 7, FullName: "Worker Seven"}
	store.projects[1002] = siteProject()
	notifier := &nopNotifier{}
	svc := New(store, notifier, time.UTC)
	svc.now = func() time.Time { return baseTime }
	return store, notifier, svc
}

func TestCheckIn_RecordsGeofenceFlag(t *testing.T) {
	_, notifier, svc := newFixture()
	ctx := context.Background()

	rec, err := svc.CheckIn(ctx, 7, 1002, geofence.Point{Lat: 1.3521, Lng: 103.8198})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.InsideGeofenceAtCheckin {
		t.Fatalf("check-in at the fence center must be inside")
	}
	if rec.CheckOut != nil {
		t.Fatalf("new record must be open")
	}
	if len(notifier.events) != 1 || notifier.events[0] != "attendance.checked_in" {
		t.Fatalf("expected checked_in event, got %v", notifier.events)
	}
}

func TestCheckIn_OutsideGeofenceStillRecorded(t *testing.T) {
	_, _, svc := newFixture()

	// ~1.1km north of the site.
	rec, err := svc.CheckIn(context.Background(), 7, 1002, geofence.Point{Lat: 1.3621, Lng: 103.8198})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.InsideGeofenceAtCheckin {
		t.Fatalf("check-in 1km away must be outside the fence")
	}
}

func TestCheckIn_DoubleCheckInConflicts(t *testing.T) {
	_, _, svc := newFixture()
	ctx := context.Background()
	p := geofence.Point{Lat: 1.3521, Lng: 103.8198}

	if _, err := svc.CheckIn(ctx, 7, 1002, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CheckIn(ctx, 7, 1002, p); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on double check-in, got %v", err)
	}
}

func TestCheckIn_UnknownEmployeeOrProject(t *testing.T) {
	_, _, svc := newFixture()
	ctx := context.Background()
	p := geofence.Point{}

	if _, err := svc.CheckIn(ctx, 99, 1002, p); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown employee, got %v", err)
	}
	if _, err := svc.CheckIn(ctx, 7, 9999, p); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown project, got %v", err)
	}
}

func TestCheckOut_ClosesOpenRecord(t *testing.T) {
	_, notifier, svc := newFixture()
	ctx := context.Background()
	p := geofence.Point{Lat: 1.3521, Lng: 103.8198}

	if _, err := svc.CheckIn(ctx, 7, 1002, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := svc.CheckOut(ctx, 7, 1002, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.CheckOut == nil {
		t.Fatalf("record must be closed")
	}
	if rec.CheckOut.Before(rec.CheckIn) {
		t.Fatalf("check-out %v before check-in %v", rec.CheckOut, rec.CheckIn)
	}
	if rec.InsideGeofenceAtCheckout == nil || !*rec.InsideGeofenceAtCheckout {
		t.Fatalf("check-out flag not recorded")
	}
	if notifier.events[len(notifier.events)-1] != "attendance.checked_out" {
		t.Fatalf("expected checked_out event, got %v", notifier.events)
	}
}

func TestCheckOut_WithoutOpenRecord(t *testing.T) {
	_, _, svc := newFixture()
	if _, err := svc.CheckOut(context.Background(), 7, 1002, geofence.Point{}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckOut_ClampsClockSkew(t *testing.T) {
	_, _, svc := newFixture()
	ctx := context.Background()
	p := geofence.Point{Lat: 1.3521, Lng: 103.8198}

	if _, err := svc.CheckIn(ctx, 7, 1002, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Wind the service clock backwards past the check-in moment.
	svc.now = func() time.Time { return baseTime.Add(-time.Hour) }
	rec, err := svc.CheckOut(ctx, 7, 1002, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.CheckOut.After(rec.CheckIn) {
		t.Fatalf("clamped check-out must stay after check-in")
	}
}
