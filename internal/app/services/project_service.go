package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/app/repositories"
	"github.com/serhiib/registry/internal/pkg/apperrors"
	"github.com/serhiib/registry/internal/pkg/helpers"
)

// ProjectService handles project and task operations
type ProjectService struct {
	projectRepo repositories.ProjectRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repositories.ProjectRepository, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Create registers a new project for the given owner. The deadline, when
// present, must be a DD-MM-YYYY date strictly in the future.
func (s *ProjectService) Create(ctx context.Context, owner string, req *dto.CreateProjectRequest) (*models.Project, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}

	if req.Deadline != nil {
		if _, err := helpers.ParseFutureDate(*req.Deadline, s.now()); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	project := &models.Project{
		Owner:    owner,
		Title:    req.Title,
		Deadline: req.Deadline,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("Failed to create project")
		return nil, err
	}

	s.logger.Info().Int64("projectId", project.ID).Str("owner", owner).Msg("Project created")
	return project, nil
}

// GetAll returns all projects with their tasks and derived task counts
func (s *ProjectService) GetAll(ctx context.Context) ([]*models.Project, error) {
	return s.projectRepo.GetAll(ctx)
}

// Search returns the projects whose title contains the fragment,
// case-insensitively
func (s *ProjectService) Search(ctx context.Context, fragment string) ([]*models.Project, error) {
	projects, err := s.projectRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(fragment)
	matched := []*models.Project{}
	for _, project := range projects {
		if strings.Contains(strings.ToLower(project.Title), needle) {
			matched = append(matched, project)
		}
	}
	return matched, nil
}

// GetByID returns one project with its tasks and derived task count
func (s *ProjectService) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// Delete removes a project and all of its tasks
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("projectId", id).Msg("Project deleted")
	return nil
}

// AddTask appends a task to a project. The task starts in the "not started"
// state and its id is assigned by the repository as count+1.
func (s *ProjectService) AddTask(ctx context.Context, projectID int64, req *dto.CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Info) == "" {
		return nil, apperrors.NewValidationError("task info cannot be empty")
	}

	task, err := s.projectRepo.AddTask(ctx, projectID, req.Info)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("projectId", projectID).Int64("taskId", task.ID).Msg("Task added")
	return task, nil
}

// UpdateTaskStatus moves a task to one of the known states
func (s *ProjectService) UpdateTaskStatus(ctx context.Context, projectID, taskID int64, req *dto.UpdateTaskRequest) (*models.Task, error) {
	status := models.TaskStatus(req.Status)
	if !models.ValidTaskStatus(status) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown task status: %s", req.Status))
	}

	return s.projectRepo.UpdateTaskStatus(ctx, projectID, taskID, status)
}

// DeleteTask removes a task from a project
func (s *ProjectService) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	return s.projectRepo.DeleteTask(ctx, projectID, taskID)
}

// ListTasks returns a project's tasks sorted by status. An optional status
// filter keeps only tasks in that state.
func (s *ProjectService) ListTasks(ctx context.Context, projectID int64, statusFilter string) ([]models.Task, error) {
	tasks, err := s.projectRepo.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if statusFilter == "" {
		return tasks, nil
	}

	status := models.TaskStatus(statusFilter)
	if !models.ValidTaskStatus(status) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown task status: %s", statusFilter))
	}

	filtered := []models.Task{}
	for _, task := range tasks {
		if task.Status == status {
			filtered = append(filtered, task)
		}
	}
	return filtered, nil
}
