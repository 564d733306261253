package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/pkg/apperrors"
)

// projectEntry holds one project and the mutex that serializes mutations of
// its task collection. The per-entry lock is the mutual-exclusion scope the
// count+1 id assignment relies on.
type projectEntry struct {
	mu   sync.Mutex
	data models.Project
}

// ProjectRepository is the in-memory project store. The id of a new project
// is the current number of projects, so ids can repeat after deletions.
// Lookups scan in insertion order and the first match wins.
type ProjectRepository struct {
	mu      sync.RWMutex
	entries []*projectEntry
}

// NewProjectRepository creates an empty in-memory project store
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{}
}

// Create appends a new project with an empty task list
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project.ID = int64(len(r.entries))
	project.Tasks = []models.Task{}
	project.TaskCount = 0

	entry := &projectEntry{data: *project}
	entry.data.Tasks = []models.Task{}
	r.entries = append(r.entries, entry)
	return nil
}

// GetAll returns all projects with TaskCount recomputed from the live task
// collections
func (r *ProjectRepository) GetAll(ctx context.Context) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*models.Project, 0, len(r.entries))
	for _, entry := range r.entries {
		projects = append(projects, entry.snapshot())
	}
	return projects, nil
}

// GetByID returns the first project matching the id
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry := r.find(id)
	if entry == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return entry.snapshot(), nil
}

// Delete removes the first project matching the id together with its tasks
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, entry := range r.entries {
		if entry.data.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrProjectNotFound
}

// AddTask appends a task under the project's lock. The new task id is the
// number of existing tasks plus one.
func (r *ProjectRepository) AddTask(ctx context.Context, projectID int64, info string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry := r.find(projectID)
	if entry == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	task := models.Task{
		ID:     int64(len(entry.data.Tasks)) + 1,
		Info:   info,
		Status: models.StatusNotStarted,
	}
	entry.data.Tasks = append(entry.data.Tasks, task)
	return &task, nil
}

// UpdateTaskStatus changes the status of the first task matching the id
func (r *ProjectRepository) UpdateTaskStatus(ctx context.Context, projectID, taskID int64, status models.TaskStatus) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry := r.find(projectID)
	if entry == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for i := range entry.data.Tasks {
		if entry.data.Tasks[i].ID == taskID {
			entry.data.Tasks[i].Status = status
			task := entry.data.Tasks[i]
			return &task, nil
		}
	}
	return nil, apperrors.ErrTaskNotFound
}

// DeleteTask removes the first task matching the id
func (r *ProjectRepository) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry := r.find(projectID)
	if entry == nil {
		return apperrors.ErrProjectNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for i := range entry.data.Tasks {
		if entry.data.Tasks[i].ID == taskID {
			entry.data.Tasks = append(entry.data.Tasks[:i], entry.data.Tasks[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrTaskNotFound
}

// ListTasks returns the project's tasks stably sorted by status string
// ordering. Lexicographically that is "completed" < "in progress" <
// "not started".
func (r *ProjectRepository) ListTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry := r.find(projectID)
	if entry == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	entry.mu.Lock()
	tasks := make([]models.Task, len(entry.data.Tasks))
	copy(tasks, entry.data.Tasks)
	entry.mu.Unlock()

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Status < tasks[j].Status
	})
	return tasks, nil
}

// find returns the first entry matching the id; callers hold r.mu
func (r *ProjectRepository) find(id int64) *projectEntry {
	for _, entry := range r.entries {
		if entry.data.ID == id {
			return entry
		}
	}
	return nil
}

// snapshot copies the project under its lock so readers never observe a
// half-applied task mutation
func (e *projectEntry) snapshot() *models.Project {
	e.mu.Lock()
	defer e.mu.Unlock()

	copied := e.data
	copied.Tasks = make([]models.Task, len(e.data.Tasks))
	copy(copied.Tasks, e.data.Tasks)
	copied.TaskCount = len(copied.Tasks)
	return &copied
}
