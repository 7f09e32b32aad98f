package sequencer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fieldcrew/internal/apperr"
	"fieldcrew/internal/db/models"
)

// fakeStore is an in-memory Store honoring the same compare-and-swap
// semantics as the SQL layer.
type fakeStore struct {
	mu           sync.Mutex
	nextID       int64
	projects     map[int64]*models.Project
	projectTasks map[int64]map[int64]bool
	attendance   map[string]*models.AttendanceRecord
	assignments  map[int64]*models.TaskAssignment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:     make(map[int64]*models.Project),
		projectTasks: make(map[int64]map[int64]bool),
		attendance:   make(map[string]*models.AttendanceRecord),
		assignments:  make(map[int64]*models.TaskAssignment),
	}
}

func dayKey(employeeID, projectID int64, date time.Time) string {
	return fmt.Sprintf("%d/%d/%s", employeeID, projectID, date.Format(models.DateFormat))
}

func (f *fakeStore) addProject(id int64, strict bool, taskIDs ...int64) {
	f.projects[id] = &models.Project{ID: id, GeofenceStrict: &strict}
	set := make(map[int64]bool)
	for _, t := range taskIDs {
		set[t] = true
	}
	f.projectTasks[id] = set
}

func (f *fakeStore) checkIn(employeeID, projectID int64, date time.Time, inside bool) {
	f.attendance[dayKey(employeeID, projectID, date)] = &models.AttendanceRecord{
		EmployeeID:              employeeID,
		ProjectID:               projectID,
		Date:                    date,
		CheckIn:                 date,
		InsideGeofenceAtCheckin: inside,
	}
}

func (f *fakeStore) GetProject(_ context.Context, projectID int64) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects[projectID], nil
}

func (f *fakeStore) CountProjectTasks(_ context.Context, projectID int64, taskIDs []int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, id := range taskIDs {
		if f.projectTasks[projectID][id] {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) GetOpenAttendance(_ context.Context, employeeID, projectID int64, date time.Time) (*models.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.attendance[dayKey(employeeID, projectID, date)]
	if rec == nil || rec.CheckOut != nil {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) GetAssignment(_ context.Context, id int64) (*models.TaskAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) ListAssignments(_ context.Context, employeeID, projectID int64, date time.Time) ([]*models.TaskAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.TaskAssignment
	for _, a := range f.assignments {
		if a.EmployeeID == employeeID && a.ProjectID == projectID && a.Date.Equal(date) {
			cp := *a
			out = append(out, &cp)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Sequence < out[i].Sequence {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeStore) ListAssignedTaskIDs(ctx context.Context, employeeID, projectID int64, date time.Time) ([]int64, error) {
	assignments, _ := f.ListAssignments(ctx, employeeID, projectID, date)
	var ids []int64
	for _, a := range assignments {
		ids = append(ids, a.TaskID)
	}
	return ids, nil
}

func (f *fakeStore) MaxSequence(ctx context.Context, employeeID, projectID int64, date time.Time) (int, error) {
	assignments, _ := f.ListAssignments(ctx, employeeID, projectID, date)
	max := 0
	for _, a := range assignments {
		if a.Sequence > max {
			max = a.Sequence
		}
	}
	return max, nil
}

func (f *fakeStore) CreateAssignments(_ context.Context, assignments []*models.TaskAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range assignments {
		f.nextID++
		a.ID = f.nextID
		a.CreatedAt = time.Now()
		cp := *a
		f.assignments[a.ID] = &cp
	}
	return nil
}

func (f *fakeStore) HasActiveAssignment(_ context.Context, employeeID int64, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments {
		if a.EmployeeID == employeeID && a.Date.Equal(date) && a.Status == models.StatusInProgress {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) TransitionAssignment(_ context.Context, id int64, from, to models.AssignmentStatus, at time.Time) (*models.TaskAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok || a.Status != from {
		return nil, nil
	}
	a.Status = to
	switch to {
	case models.StatusInProgress:
		t := at
		a.StartTime = &t
	case models.StatusCompleted:
		t := at
		a.EndTime = &t
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) RemoveQueuedAssignment(_ context.Context, id, employeeID, projectID int64, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok || a.Status != models.StatusQueued {
		return false, nil
	}
	delete(f.assignments, id)

	// Renumber under the same lock: delete and resequence are one
	// atomic step, like the single transaction in the SQL layer.
	var day []*models.TaskAssignment
	for _, b := range f.assignments {
		if b.EmployeeID == employeeID && b.ProjectID == projectID && b.Date.Equal(date) {
			day = append(day, b)
		}
	}
	for i := 0; i < len(day); i++ {
		for j := i + 1; j < len(day); j++ {
			if day[j].Sequence < day[i].Sequence {
				day[i], day[j] = day[j], day[i]
			}
		}
	}
	for i, b := range day {
		b.Sequence = i + 1
	}
	return true, nil
}

func (f *fakeStore) UpdateAssignmentDetails(_ context.Context, id int64, changes models.AssignmentChanges) (*models.TaskAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok {
		return nil, nil
	}
	if changes.Priority != nil {
		a.Priority = *changes.Priority
	}
	if changes.WorkArea != nil {
		a.WorkArea = *changes.WorkArea
	}
	if changes.Floor != nil {
		a.Floor = *changes.Floor
	}
	if changes.Zone != nil {
		a.Zone = *changes.Zone
	}
	if changes.EstimateMins != nil {
		a.EstimateMins = *changes.EstimateMins
	}
	if changes.DailyTarget != nil {
		a.DailyTarget = *changes.DailyTarget
	}
	if changes.SupervisorID != nil {
		a.SupervisorID = changes.SupervisorID
	}
	cp := *a
	return &cp, nil
}

type captureNotifier struct {
	mu     sync.Mutex
	events []string
}

func (c *captureNotifier) Emit(eventType string, _ map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, eventType)
}

func (c *captureNotifier) count(eventType string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e == eventType {
			n++
		}
	}
	return n
}

var testDay = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newFixture() (*fakeStore, *captureNotifier, *Sequencer) {
	store := newFakeStore()
	store.addProject(1002, true, 501, 502, 503, 504)
	notifier := &captureNotifier{}
	return store, notifier, New(store, notifier)
}

func queuedSequences(t *testing.T, store *fakeStore, employeeID, projectID int64) []int {
	t.Helper()
	assignments, err := store.ListAssignments(context.Background(), employeeID, projectID, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var seqs []int
	for _, a := range assignments {
		if a.Status == models.StatusQueued {
			seqs = append(seqs, a.Sequence)
		}
	}
	return seqs
}

func TestEnqueue_AssignsContiguousSequences(t *testing.T) {
	store, notifier, seq := newFixture()
	ctx := context.Background()

	created, err := seq.Enqueue(ctx, 7, 1002, []int64{501, 502}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(created))
	}
	if created[0].Sequence != 1 || created[1].Sequence != 2 {
		t.Fatalf("expected sequences 1,2 got %d,%d", created[0].Sequence, created[1].Sequence)
	}
	if created[0].TaskID != 501 || created[1].TaskID != 502 {
		t.Fatalf("input order not preserved: %d,%d", created[0].TaskID, created[1].TaskID)
	}
	if created[0].Status != models.StatusQueued {
		t.Fatalf("expected queued, got %s", created[0].Status)
	}

	// A second batch continues from the existing maximum.
	more, err := seq.Enqueue(ctx, 7, 1002, []int64{503}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if more[0].Sequence != 3 {
		t.Fatalf("expected sequence 3, got %d", more[0].Sequence)
	}

	if notifier.count("task.assigned") != 2 {
		t.Fatalf("expected 2 task.assigned events, got %d", notifier.count("task.assigned"))
	}
	seqs := queuedSequences(t, store, 7, 1002)
	if len(seqs) != 3 || seqs[0] != 1 || seqs[1] != 2 || seqs[2] != 3 {
		t.Fatalf("expected contiguous 1..3, got %v", seqs)
	}
}

func TestEnqueue_Validation(t *testing.T) {
	_, _, seq := newFixture()
	ctx := context.Background()

	if _, err := seq.Enqueue(ctx, 7, 1002, nil, testDay); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty batch, got %v", err)
	}
	if _, err := seq.Enqueue(ctx, 7, 1002, []int64{501, 501}, testDay); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for repeated input, got %v", err)
	}
	// 999 belongs to no project.
	if _, err := seq.Enqueue(ctx, 7, 1002, []int64{501, 999}, testDay); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for foreign task, got %v", err)
	}
	if _, err := seq.Enqueue(ctx, 7, 4040, []int64{501}, testDay); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for missing project, got %v", err)
	}
}

func TestEnqueue_DuplicateAssignmentConflict(t *testing.T) {
	store, _, seq := newFixture()
	ctx := context.Background()

	if _, err := seq.Enqueue(ctx, 7, 1002, []int64{501}, testDay); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := seq.Enqueue(ctx, 7, 1002, []int64{502, 501}, testDay)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// All-or-nothing: the valid task 502 must not have been created.
	assignments, _ := store.ListAssignments(ctx, 7, 1002, testDay)
	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment after rejected batch, got %d", len(assignments))
	}
}

func TestStart_RequiresGeofenceValidCheckin(t *testing.T) {
	store, _, seq := newFixture()
	ctx := context.Background()

	created, err := seq.Enqueue(ctx, 7, 1002, []int64{501}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No check-in at all.
	if _, err := seq.Start(ctx, created[0].ID); !apperr.Is(err, apperr.KindPreconditionFailed) {
		t.Fatalf("expected precondition failure without check-in, got %v", err)
	}

	// Checked in outside the fence.
	store.checkIn(7, 1002, testDay, false)
	if _, err := seq.Start(ctx, created[0].ID); !apperr.Is(err, apperr.KindPreconditionFailed) {
		t.Fatalf("expected precondition failure outside geofence, got %v", err)
	}

	// Checked in inside the fence.
	store.checkIn(7, 1002, testDay, true)
	a, err := seq.Start(ctx, created[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != models.StatusInProgress || a.StartTime == nil {
		t.Fatalf("expected in_progress with start time, got %+v", a)
	}
}

func TestStart_StrictModeOffSkipsGeofenceGate(t *testing.T) {
	store, _, seq := newFixture()
	store.addProject(2001, false, 601)
	ctx := context.Background()

	created, err := seq.Enqueue(ctx, 7, 2001, []int64{601}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Still requires an open check-in even with strict mode off.
	if _, err := seq.Start(ctx, created[0].ID); !apperr.Is(err, apperr.KindPreconditionFailed) {
		t.Fatalf("expected precondition failure without check-in, got %v", err)
	}

	// Outside the fence is fine once checked in.
	store.checkIn(7, 2001, testDay, false)
	if _, err := seq.Start(ctx, created[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStart_SingleActiveTask(t *testing.T) {
	store, _, seq := newFixture()
	store.checkIn(7, 1002, testDay, true)
	ctx := context.Background()

	created, err := seq.Enqueue(ctx, 7, 1002, []int64{501, 502}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, b := created[0], created[1]

	if _, err := seq.Start(ctx, a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := seq.Start(ctx, b.ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for second active task, got %v", err)
	}

	if _, err := seq.Complete(ctx, a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := seq.Start(ctx, b.ID); err != nil {
		t.Fatalf("expected start to succeed after completing first task, got %v", err)
	}
}

func TestStart_ConcurrentCallsOneWinner(t *testing.T) {
	store, _, seq := newFixture()
	store.checkIn(7, 1002, testDay, true)
	ctx := context.Background()

	created, err := seq.Enqueue(ctx, 7, 1002, []int64{501, 502, 503, 504}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(created))
	for i, a := range created {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = seq.Start(ctx, id)
		}(i, a.ID)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case apperr.Is(err, apperr.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one successful start, got %d", wins)
	}
	if conflicts != len(created)-1 {
		t.Fatalf("expected %d conflicts, got %d", len(created)-1, conflicts)
	}
}

func TestTransitions_NoBackwardMoves(t *testing.T) {
	store, _, seq := newFixture()
	store.checkIn(7, 1002, testDay, true)
	ctx := context.Background()

	created, err := seq.Enqueue(ctx, 7, 1002, []int64{501}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := created[0].ID

	// Completing a queued assignment is not found in the expected bucket.
	if _, err := seq.Complete(ctx, id); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found completing queued assignment, got %v", err)
	}

	if _, err := seq.Start(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Double start.
	if _, err := seq.Start(ctx, id); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on double start, got %v", err)
	}

	if _, err := seq.Complete(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Double complete, and no way back from completed.
	if _, err := seq.Complete(ctx, id); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on double complete, got %v", err)
	}
	if _, err := seq.Start(ctx, id); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found starting completed assignment, got %v", err)
	}
}

func TestRemove_ResequencesRemainder(t *testing.T) {
	store, _, seq := newFixture()
	ctx := context.Background()

	created, err := seq.Enqueue(ctx, 7, 1002, []int64{501, 502, 503, 504}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Remove the second of four; the remainder must close the gap.
	if err := seq.Remove(ctx, created[1].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seqs := queuedSequences(t, store, 7, 1002)
	want := []int{1, 2, 3}
	if len(seqs) != len(want) {
		t.Fatalf("expected %d queued, got %d", len(want), len(seqs))
	}
	for i := range want {
		if seqs[i] != want[i] {
			t.Fatalf("expected sequences %v, got %v", want, seqs)
		}
	}

	// Relative order preserved: 501 before 503 before 504.
	assignments, _ := store.ListAssignments(ctx, 7, 1002, testDay)
	order := []int64{assignments[0].TaskID, assignments[1].TaskID, assignments[2].TaskID}
	if order[0] != 501 || order[1] != 503 || order[2] != 504 {
		t.Fatalf("relative order broken: %v", order)
	}
}

func TestRemove_ReadersNeverObserveGap(t *testing.T) {
	store, _, seq := newFixture()
	ctx := context.Background()

	created, err := seq.Enqueue(ctx, 7, 1002, []int64{501, 502, 503}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Hammer the queue with reads while the middle task is removed.
	// Every snapshot must be contiguous from 1: either the old 1,2,3 or
	// the renumbered 1,2, never the intermediate 1,3.
	stop := make(chan struct{})
	var observed [][]int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			assignments, _ := store.ListAssignments(ctx, 7, 1002, testDay)
			var seqs []int
			for _, a := range assignments {
				if a.Status == models.StatusQueued {
					seqs = append(seqs, a.Sequence)
				}
			}
			observed = append(observed, seqs)
		}
	}()

	if err := seq.Remove(ctx, created[1].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(stop)
	wg.Wait()

	for _, seqs := range observed {
		for i, s := range seqs {
			if s != i+1 {
				t.Fatalf("reader observed non-contiguous queue %v", seqs)
			}
		}
	}
	final := queuedSequences(t, store, 7, 1002)
	if len(final) != 2 || final[0] != 1 || final[1] != 2 {
		t.Fatalf("expected final queue 1,2 got %v", final)
	}
}

func TestEnqueue_ConcurrentBatchesKeepSequencesUnique(t *testing.T) {
	store, _, seq := newFixture()
	store.addProject(3001, true, 701, 702, 703, 704, 705, 706, 707, 708)
	ctx := context.Background()

	batches := [][]int64{{701, 702}, {703, 704}, {705, 706}, {707, 708}}
	var wg sync.WaitGroup
	errs := make([]error, len(batches))
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []int64) {
			defer wg.Done()
			_, errs[i] = seq.Enqueue(ctx, 7, 3001, batch, testDay)
		}(i, batch)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	seqs := queuedSequences(t, store, 7, 3001)
	if len(seqs) != 8 {
		t.Fatalf("expected 8 queued assignments, got %d", len(seqs))
	}
	for i, s := range seqs {
		if s != i+1 {
			t.Fatalf("expected contiguous 1..8, got %v", seqs)
		}
	}
}

func TestRemove_IdempotenceAndStateChecks(t *testing.T) {
	store, _, seq := newFixture()
	store.checkIn(7, 1002, testDay, true)
	ctx := context.Background()

	created, err := seq.Enqueue(ctx, 7, 1002, []int64{501, 502}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := seq.Remove(ctx, created[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second removal must fail and must not renumber again.
	if err := seq.Remove(ctx, created[0].ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on double remove, got %v", err)
	}
	seqs := queuedSequences(t, store, 7, 1002)
	if len(seqs) != 1 || seqs[0] != 1 {
		t.Fatalf("expected single queued assignment at sequence 1, got %v", seqs)
	}

	// Started assignments cannot be removed.
	if _, err := seq.Start(ctx, created[1].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := seq.Remove(ctx, created[1].ID); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error removing started task, got %v", err)
	}
}

func TestUpdate_FieldsAndLocationEvent(t *testing.T) {
	store, notifier, seq := newFixture()
	store.checkIn(7, 1002, testDay, true)
	ctx := context.Background()

	created, err := seq.Enqueue(ctx, 7, 1002, []int64{501}, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := created[0].ID

	if _, err := seq.Update(ctx, id, models.AssignmentChanges{}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty changes, got %v", err)
	}

	priority := 5
	updated, err := seq.Update(ctx, id, models.AssignmentChanges{Priority: &priority})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Priority != 5 {
		t.Fatalf("priority not applied: %d", updated.Priority)
	}
	if notifier.count("task.location_changed") != 0 {
		t.Fatalf("priority change must not emit a location event")
	}

	floor := "3"
	if _, err := seq.Update(ctx, id, models.AssignmentChanges{Floor: &floor}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifier.count("task.location_changed") != 1 {
		t.Fatalf("expected one location event, got %d", notifier.count("task.location_changed"))
	}

	// Updates are allowed while in progress but not once completed.
	if _, err := seq.Start(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	zone := "B"
	if _, err := seq.Update(ctx, id, models.AssignmentChanges{Zone: &zone}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := seq.Complete(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := seq.Update(ctx, id, models.AssignmentChanges{Zone: &zone}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error updating completed assignment, got %v", err)
	}
}

func TestUpdate_MissingAssignment(t *testing.T) {
	_, _, seq := newFixture()
	priority := 1
	if _, err := seq.Update(context.Background(), 12345, models.AssignmentChanges{Priority: &priority}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
