package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serhiib/registry/internal/app/models"
)

// IdentityRepository stores identity records. Name uniqueness is enforced
// on Create.
type IdentityRepository interface {
	Create(ctx context.Context, identity *models.Identity) error
	GetByName(ctx context.Context, name string) (*models.Identity, error)
	GetByID(ctx context.Context, id int64) (*models.Identity, error)
	GetAll(ctx context.Context) ([]*models.Identity, error)
	GetByRole(ctx context.Context, role models.RoleType) ([]*models.Identity, error)
	Update(ctx context.Context, identity *models.Identity) error
}

// ProjectRepository stores projects and their tasks. Task mutations for one
// project are serialized by the implementation so that task id assignment
// (count+1) cannot race.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetAll(ctx context.Context) ([]*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Delete(ctx context.Context, id int64) error

	AddTask(ctx context.Context, projectID int64, info string) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, projectID, taskID int64, status models.TaskStatus) (*models.Task, error)
	DeleteTask(ctx context.Context, projectID, taskID int64) error
	ListTasks(ctx context.Context, projectID int64) ([]models.Task, error)
}

// CourseRepository stores courses and enrollments. Enroll applies the
// existence, capacity and duplicate checks in that order, atomically per
// course.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByTitle(ctx context.Context, title string) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	Delete(ctx context.Context, title string) error

	Enroll(ctx context.Context, title, studentName string) error
	RecordScore(ctx context.Context, title, studentName string, score int) error
	ListScores(ctx context.Context, title string) ([]models.Enrollment, error)
}

// Repositories holds the repository set backing the registry
type Repositories struct {
	Identities IdentityRepository
	Projects   ProjectRepository
	Courses    CourseRepository
}

// NewPostgresRepositories initializes the pgx-backed repository set
func NewPostgresRepositories(db *pgxpool.Pool, courseCapacity int) *Repositories {
	return &Repositories{
		Identities: NewIdentityRepository(db),
		Projects:   NewProjectRepository(db),
		Courses:    NewCourseRepository(db, courseCapacity),
	}
}
