package models

// RoleType defines the identity role
type RoleType string

const (
	RoleAdmin     RoleType = "admin"
	RoleModerator RoleType = "moderator"
	RoleUser      RoleType = "user"
	RoleStudent   RoleType = "student"
	RoleTeacher   RoleType = "teacher"
)

// ValidRole reports whether the role is one of the known role constants.
func ValidRole(role RoleType) bool {
	switch role {
	case RoleAdmin, RoleModerator, RoleUser, RoleStudent, RoleTeacher:
		return true
	}
	return false
}

// TaskStatus defines the lifecycle state of a task
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not started"
	StatusInProgress TaskStatus = "in progress"
	StatusCompleted  TaskStatus = "completed"
)

// ValidTaskStatus reports whether the status is one of the known states.
func ValidTaskStatus(status TaskStatus) bool {
	switch status {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
