package dto

// CreateProjectRequest is the payload for project creation
type CreateProjectRequest struct {
	Title    string  `json:"title" binding:"required,max=50" example:"Shop website"`
	Deadline *string `json:"deadline,omitempty" example:"25-01-2027"` // DD-MM-YYYY, must be in the future
}

// CreateTaskRequest is the payload for task creation
type CreateTaskRequest struct {
	Info string `json:"info" binding:"required,max=500" example:"Design"`
}

// UpdateTaskRequest is the payload for a task status change
type UpdateTaskRequest struct {
	Status string `json:"status" binding:"required" example:"completed"`
}
