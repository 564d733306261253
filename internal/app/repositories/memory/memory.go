// Package memory provides the in-memory repository set. It is the default
// storage driver and the reference implementation of the registry's
// structural invariants: per-parent mutual exclusion, count-based id
// assignment and the enrollment capacity check.
package memory

import (
	"github.com/serhiib/registry/internal/app/repositories"
)

// NewRepositories initializes the in-memory repository set
func NewRepositories(courseCapacity int) *repositories.Repositories {
	return &repositories.Repositories{
		Identities: NewIdentityRepository(),
		Projects:   NewProjectRepository(),
		Courses:    NewCourseRepository(courseCapacity),
	}
}
