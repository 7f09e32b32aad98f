// Package sequencer enforces the task queue rules: a worker holds at
// most one active task, starting a task requires a geofence-valid
// check-in, and queued tasks keep a gap-free 1..N sequence per
// worker/project/day.
package sequencer

import (
	"context"
	"fmt"
	"time"

	"fieldcrew/internal/apperr"
	"fieldcrew/internal/db/models"
	"fieldcrew/internal/geofence"
)

// Store is the persistence surface the sequencer needs. *db.DB
// implements it; tests substitute an in-memory fake.
type Store interface {
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
	CountProjectTasks(ctx context.Context, projectID int64, taskIDs []int64) (int, error)
	GetOpenAttendance(ctx context.Context, employeeID, projectID int64, date time.Time) (*models.AttendanceRecord, error)

	GetAssignment(ctx context.Context, id int64) (*models.TaskAssignment, error)
	ListAssignments(ctx context.Context, employeeID, projectID int64, date time.Time) ([]*models.TaskAssignment, error)
	ListAssignedTaskIDs(ctx context.Context, employeeID, projectID int64, date time.Time) ([]int64, error)
	MaxSequence(ctx context.Context, employeeID, projectID int64, date time.Time) (int, error)
	CreateAssignments(ctx context.Context, assignments []*models.TaskAssignment) error
	HasActiveAssignment(ctx context.Context, employeeID int64, date time.Time) (bool, error)
	TransitionAssignment(ctx context.Context, id int64, from, to models.AssignmentStatus, at time.Time) (*models.TaskAssignment, error)
	RemoveQueuedAssignment(ctx context.Context, id, employeeID, projectID int64, date time.Time) (bool, error)
	UpdateAssignmentDetails(ctx context.Context, id int64, changes models.AssignmentChanges) (*models.TaskAssignment, error)
}

// Notifier delivers events fire-and-forget; implementations never block
// and never return errors to the caller.
type Notifier interface {
	Emit(eventType string, payload map[string]any)
}

type Sequencer struct {
	store    Store
	notifier Notifier
	keys     keyedMutex
	now      func() time.Time
}

func New(store Store, notifier Notifier) *Sequencer {
	return &Sequencer{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// queueKey serializes enqueue/remove on one worker's sequence space.
func queueKey(employeeID, projectID int64, date time.Time) string {
	return fmt.Sprintf("queue/%d/%d/%s", employeeID, projectID, date.Format(models.DateFormat))
}

// activeKey serializes start calls against the one-active-task slot.
func activeKey(employeeID int64, date time.Time) string {
	return fmt.Sprintf("active/%d/%s", employeeID, date.Format(models.DateFormat))
}

// Eligible reports whether the worker is on site and allowed to work on
// the project right now: an open attendance record must exist, and in
// strict mode its check-in must have been inside the geofence.
func (s *Sequencer) Eligible(ctx context.Context, employeeID, projectID int64, date time.Time) (bool, error) {
	rec, err := s.store.GetOpenAttendance(ctx, employeeID, projectID, date)
	if err != nil {
		return false, fmt.Errorf("error getting open attendance: %w", err)
	}
	if rec == nil {
		return false, nil
	}

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return false, fmt.Errorf("error getting project: %w", err)
	}
	if !geofence.Resolve(project).StrictMode {
		return true, nil
	}
	return rec.InsideGeofenceAtCheckin, nil
}

// Enqueue appends a batch of tasks to the worker's queue for the day,
// assigning contiguous sequence numbers in input order. Creation is
// all-or-nothing: if any task fails validation none are created.
func (s *Sequencer) Enqueue(ctx context.Context, employeeID, projectID int64, taskIDs []int64, date time.Time) ([]*models.TaskAssignment, error) {
	if len(taskIDs) == 0 {
		return nil, apperr.Validation("no tasks to assign")
	}
	seen := make(map[int64]bool, len(taskIDs))
	for _, id := range taskIDs {
		if seen[id] {
			return nil, apperr.Validation(fmt.Sprintf("task %d appears more than once", id))
		}
		seen[id] = true
	}

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	if project == nil {
		return nil, apperr.NotFound("project not found")
	}

	owned, err := s.store.CountProjectTasks(ctx, projectID, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("error validating tasks: %w", err)
	}
	if owned != len(taskIDs) {
		return nil, apperr.Validation("one or more tasks do not belong to this project")
	}

	// Sequence allocation is read-then-write, so the whole section is
	// serialized per (employee, project, day).
	unlock := s.keys.lock(queueKey(employeeID, projectID, date))
	defer unlock()

	existing, err := s.store.ListAssignedTaskIDs(ctx, employeeID, projectID, date)
	if err != nil {
		return nil, fmt.Errorf("error listing assigned tasks: %w", err)
	}
	for _, id := range existing {
		if seen[id] {
			return nil, apperr.Conflict(fmt.Sprintf("task %d is already assigned for this day", id))
		}
	}

	maxSeq, err := s.store.MaxSequence(ctx, employeeID, projectID, date)
	if err != nil {
		return nil, fmt.Errorf("error getting max sequence: %w", err)
	}

	assignments := make([]*models.TaskAssignment, 0, len(taskIDs))
	for i, taskID := range taskIDs {
		assignments = append(assignments, &models.TaskAssignment{
			EmployeeID: employeeID,
			ProjectID:  projectID,
			TaskID:     taskID,
			Date:       date,
			Status:     models.StatusQueued,
			Sequence:   maxSeq + i + 1,
		})
	}
	if err := s.store.CreateAssignments(ctx, assignments); err != nil {
		return nil, err
	}

	s.notifier.Emit("task.assigned", map[string]any{
		"employee_id": employeeID,
		"project_id":  projectID,
		"date":        date.Format(models.DateFormat),
		"task_ids":    taskIDs,
		"count":       len(assignments),
	})
	return assignments, nil
}

// Start moves a queued assignment to in_progress. The worker must be
// checked in inside the geofence and must not already hold an active
// task on that day.
func (s *Sequencer) Start(ctx context.Context, assignmentID int64) (*models.TaskAssignment, error) {
	a, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("error getting assignment: %w", err)
	}
	if a == nil || a.Status != models.StatusQueued {
		return nil, apperr.NotFound("queued assignment not found")
	}

	unlock := s.keys.lock(activeKey(a.EmployeeID, a.Date))
	defer unlock()

	eligible, err := s.Eligible(ctx, a.EmployeeID, a.ProjectID, a.Date)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, apperr.PreconditionFailed("must be checked in inside the project geofence")
	}

	active, err := s.store.HasActiveAssignment(ctx, a.EmployeeID, a.Date)
	if err != nil {
		return nil, fmt.Errorf("error checking active assignment: %w", err)
	}
	if active {
		return nil, apperr.Conflict("worker already has an active task")
	}

	updated, err := s.store.TransitionAssignment(ctx, assignmentID,
		models.StatusQueued, models.StatusInProgress, s.now())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("queued assignment not found")
	}
	return updated, nil
}

// Complete moves an in-progress assignment to completed.
func (s *Sequencer) Complete(ctx context.Context, assignmentID int64) (*models.TaskAssignment, error) {
	a, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("error getting assignment: %w", err)
	}
	if a == nil || a.Status != models.StatusInProgress {
		return nil, apperr.NotFound("in-progress assignment not found")
	}

	updated, err := s.store.TransitionAssignment(ctx, assignmentID,
		models.StatusInProgress, models.StatusCompleted, s.now())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("in-progress assignment not found")
	}
	return updated, nil
}

// Remove deletes a queued assignment and renumbers the remaining queue
// so it holds a contiguous 1..N run again. Delete and renumber land
// atomically; a reader never sees the queue with a hole in it.
func (s *Sequencer) Remove(ctx context.Context, assignmentID int64) error {
	a, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("error getting assignment: %w", err)
	}
	if a == nil {
		return apperr.NotFound("assignment not found")
	}
	if a.Status != models.StatusQueued {
		return apperr.Validation("only queued tasks can be removed")
	}

	unlock := s.keys.lock(queueKey(a.EmployeeID, a.ProjectID, a.Date))
	defer unlock()

	removed, err := s.store.RemoveQueuedAssignment(ctx, assignmentID, a.EmployeeID, a.ProjectID, a.Date)
	if err != nil {
		return fmt.Errorf("error removing assignment: %w", err)
	}
	if !removed {
		return apperr.NotFound("queued assignment not found")
	}
	return nil
}

// Update mutates the non-state fields of a not-yet-completed
// assignment. Changing a location-like field emits a relocation event.
func (s *Sequencer) Update(ctx context.Context, assignmentID int64, changes models.AssignmentChanges) (*models.TaskAssignment, error) {
	if changes.Empty() {
		return nil, apperr.Validation("no changes supplied")
	}

	a, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("error getting assignment: %w", err)
	}
	if a == nil {
		return nil, apperr.NotFound("assignment not found")
	}
	if a.Status.IsTerminal() {
		return nil, apperr.Validation("completed assignment cannot be modified")
	}

	updated, err := s.store.UpdateAssignmentDetails(ctx, assignmentID, changes)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("assignment not found")
	}

	if changes.LocationChanged() {
		s.notifier.Emit("task.location_changed", map[string]any{
			"assignment_id": updated.ID,
			"employee_id":   updated.EmployeeID,
			"work_area":     updated.WorkArea,
			"floor":         updated.Floor,
			"zone":          updated.Zone,
		})
	}
	return updated, nil
}

// Queue returns the worker's assignments for the day in queue order.
func (s *Sequencer) Queue(ctx context.Context, employeeID, projectID int64, date time.Time) ([]*models.TaskAssignment, error) {
	return s.store.ListAssignments(ctx, employeeID, projectID, date)
}
