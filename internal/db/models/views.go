package models

// ActiveAssignment is an in-progress assignment joined with its task
// and worker for dashboard views.
type ActiveAssignment struct {
	Assignment   *TaskAssignment `json:"assignment"`
	TaskName     string          `json:"taskName"`
	EmployeeName string          `json:"employeeName"`
	ProjectName  string          `json:"projectName"`
}

// OnSiteEmployee is an open attendance record joined with the worker.
type OnSiteEmployee struct {
	Record       *AttendanceRecord `json:"record"`
	EmployeeName string            `json:"employeeName"`
	ProjectName  string            `json:"projectName"`
}

// HistoryEntry is a completed assignment joined with its task name.
type HistoryEntry struct {
	Assignment *TaskAssignment `json:"assignment"`
	TaskName   string          `json:"taskName"`
}
