package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/pkg/apperrors"
)

// ProjectRepositoryPg handles database operations for projects and tasks.
// Project and task ids repeat the source scheme (count-based) and can
// duplicate after deletions, so rows carry a surrogate seq column and every
// id lookup resolves to the first match in insertion order.
type ProjectRepositoryPg struct {
	db *pgxpool.Pool
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepositoryPg {
	return &ProjectRepositoryPg{
		db: db,
	}
}

// Create inserts a new project. The id is assigned as the number of
// existing projects.
func (r *ProjectRepositoryPg) Create(ctx context.Context, project *models.Project) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize id assignment across concurrent creates
	if _, err := tx.Exec(ctx, `LOCK TABLE projects IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("failed to lock projects: %w", err)
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count projects: %w", err)
	}

	project.ID = count
	_, err = tx.Exec(ctx, `
		INSERT INTO projects (id, owner_name, title, deadline)
		VALUES ($1, $2, $3, $4)`,
		project.ID, project.Owner, project.Title, project.Deadline)
	if err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	project.Tasks = []models.Task{}
	project.TaskCount = 0
	return nil
}

// GetAll retrieves all projects with their tasks. TaskCount is recomputed
// from the live task rows.
func (r *ProjectRepositoryPg) GetAll(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.db.Query(ctx, `
		SELECT seq, id, owner_name, title, deadline
		FROM projects
		ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	bySeq := make(map[int64]*models.Project)
	for rows.Next() {
		var seq int64
		var project models.Project
		if err := rows.Scan(&seq, &project.ID, &project.Owner, &project.Title, &project.Deadline); err != nil {
			return nil, err
		}
		project.Tasks = []models.Task{}
		projects = append(projects, &project)
		bySeq[seq] = &project
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	taskRows, err := r.db.Query(ctx, `
		SELECT project_seq, id, info, status
		FROM tasks
		ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var projectSeq int64
		var task models.Task
		if err := taskRows.Scan(&projectSeq, &task.ID, &task.Info, &task.Status); err != nil {
			return nil, err
		}
		if project, ok := bySeq[projectSeq]; ok {
			project.Tasks = append(project.Tasks, task)
		}
	}
	if err := taskRows.Err(); err != nil {
		return nil, err
	}

	for _, project := range projects {
		project.TaskCount = len(project.Tasks)
	}

	return projects, nil
}

// GetByID retrieves the first project matching the id, with its tasks
func (r *ProjectRepositoryPg) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	var seq int64
	var project models.Project
	err := r.db.QueryRow(ctx, `
		SELECT seq, id, owner_name, title, deadline
		FROM projects
		WHERE id = $1
		ORDER BY seq LIMIT 1`, id).
		Scan(&seq, &project.ID, &project.Owner, &project.Title, &project.Deadline)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error retrieving project: %w", err)
	}

	tasks, err := r.loadTasks(ctx, seq)
	if err != nil {
		return nil, err
	}

	project.Tasks = tasks
	project.TaskCount = len(tasks)
	return &project, nil
}

// Delete removes the first project matching the id; tasks cascade
func (r *ProjectRepositoryPg) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM projects
		WHERE seq = (
			SELECT seq FROM projects
			WHERE id = $1
			ORDER BY seq LIMIT 1
		)`, id)
	if err != nil {
		return fmt.Errorf("error deleting project: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}

	return nil
}

// AddTask appends a task to a project. The project row is locked for the
// duration of the id assignment so count+1 cannot race.
func (r *ProjectRepositoryPg) AddTask(ctx context.Context, projectID int64, info string) (*models.Task, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var seq int64
	err = tx.QueryRow(ctx, `
		SELECT seq FROM projects
		WHERE id = $1
		ORDER BY seq LIMIT 1
		FOR UPDATE`, projectID).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error locking project: %w", err)
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE project_seq = $1`, seq).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	task := models.Task{
		ID:     count + 1,
		Info:   info,
		Status: models.StatusNotStarted,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO tasks (project_seq, id, info, status)
		VALUES ($1, $2, $3, $4)`,
		seq, task.ID, task.Info, task.Status)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &task, nil
}

// UpdateTaskStatus changes the status of the first task matching the id
func (r *ProjectRepositoryPg) UpdateTaskStatus(ctx context.Context, projectID, taskID int64, status models.TaskStatus) (*models.Task, error) {
	seq, err := r.resolveSeq(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var task models.Task
	err = r.db.QueryRow(ctx, `
		UPDATE tasks SET status = $1
		WHERE seq = (
			SELECT seq FROM tasks
			WHERE project_seq = $2 AND id = $3
			ORDER BY seq LIMIT 1
		)
		RETURNING id, info, status`,
		status, seq, taskID).
		Scan(&task.ID, &task.Info, &task.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	return &task, nil
}

// DeleteTask removes the first task matching the id
func (r *ProjectRepositoryPg) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	seq, err := r.resolveSeq(ctx, projectID)
	if err != nil {
		return err
	}

	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM tasks
		WHERE seq = (
			SELECT seq FROM tasks
			WHERE project_seq = $1 AND id = $2
			ORDER BY seq LIMIT 1
		)`, seq, taskID)
	if err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

// ListTasks returns a project's tasks sorted by status string ordering,
// insertion order preserved within equal statuses.
func (r *ProjectRepositoryPg) ListTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	seq, err := r.resolveSeq(ctx, projectID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, info, status
		FROM tasks
		WHERE project_seq = $1
		ORDER BY status, seq`, seq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Info, &task.Status); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// resolveSeq maps a project id to the seq of its first-matching row
func (r *ProjectRepositoryPg) resolveSeq(ctx context.Context, projectID int64) (int64, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `
		SELECT seq FROM projects
		WHERE id = $1
		ORDER BY seq LIMIT 1`, projectID).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrProjectNotFound
		}
		return 0, fmt.Errorf("error resolving project: %w", err)
	}
	return seq, nil
}

func (r *ProjectRepositoryPg) loadTasks(ctx context.Context, projectSeq int64) ([]models.Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, info, status
		FROM tasks
		WHERE project_seq = $1
		ORDER BY seq`, projectSeq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Info, &task.Status); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
