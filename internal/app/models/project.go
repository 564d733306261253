package models

// Project represents a project owned by an identity. TaskCount is derived:
// it is recomputed from the live task collection on every read.
type Project struct {
	ID        int64   `json:"id" db:"id"`
	Owner     string  `json:"owner" db:"owner_name" example:"Serhii1997"`    // Name of the identity that created the project
	Title     string  `json:"title" db:"title" example:"Shop website"`
	Deadline  *string `json:"deadline,omitempty" db:"deadline" example:"25-01-2027"` // DD-MM-YYYY, validated as a future date at creation
	Tasks     []Task  `json:"tasks"`
	TaskCount int     `json:"totalTasks"`
}

// Task represents a task bound to exactly one project. Task ids are assigned
// as count+1 and are unique only within their project.
type Task struct {
	ID     int64      `json:"taskId" db:"id"`
	Info   string     `json:"info" db:"info" example:"Design"`
	Status TaskStatus `json:"status" db:"status" example:"not started"`
}
