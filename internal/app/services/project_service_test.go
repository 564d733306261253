package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/app/repositories/memory"
	"github.com/serhiib/registry/internal/pkg/apperrors"
)

func newTestProjectService() *ProjectService {
	svc := NewProjectService(memory.NewProjectRepository(), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func strPtr(s string) *string { return &s }

func TestProjectService_CreateValidatesDeadline(t *testing.T) {
	svc := newTestProjectService()
	ctx := context.Background()

	tests := []struct {
		name     string
		deadline *string
		wantErr  bool
	}{
		{name: "no deadline", deadline: nil},
		{name: "future date", deadline: strPtr("25-01-2027")},
		{name: "tomorrow", deadline: strPtr("11-03-2026")},
		{name: "today", deadline: strPtr("10-03-2026"), wantErr: true},
		{name: "past date", deadline: strPtr("01-01-2020"), wantErr: true},
		{name: "wrong format", deadline: strPtr("2027-01-25"), wantErr: true},
		{name: "not a date", deadline: strPtr("soon"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "serhii", &dto.CreateProjectRequest{Title: "p", Deadline: tt.deadline})
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProjectService_TaskCountTracksTasks(t *testing.T) {
	svc := newTestProjectService()
	ctx := context.Background()

	project, err := svc.Create(ctx, "serhii", &dto.CreateProjectRequest{Title: "shop"})
	require.NoError(t, err)
	assert.Equal(t, 0, project.TaskCount)

	for i := 0; i < 3; i++ {
		_, err := svc.AddTask(ctx, project.ID, &dto.CreateTaskRequest{Info: "work"})
		require.NoError(t, err)
	}

	got, err := svc.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TaskCount)
	assert.Len(t, got.Tasks, 3)

	require.NoError(t, svc.DeleteTask(ctx, project.ID, 2))
	got, err = svc.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TaskCount)
}

func TestProjectService_UpdateTaskStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestProjectService()
	ctx := context.Background()

	project, err := svc.Create(ctx, "serhii", &dto.CreateProjectRequest{Title: "shop"})
	require.NoError(t, err)
	task, err := svc.AddTask(ctx, project.ID, &dto.CreateTaskRequest{Info: "work"})
	require.NoError(t, err)

	_, err = svc.UpdateTaskStatus(ctx, project.ID, task.ID, &dto.UpdateTaskRequest{Status: "done"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	updated, err := svc.UpdateTaskStatus(ctx, project.ID, task.ID, &dto.UpdateTaskRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
}

func TestProjectService_ListTasksWithStatusFilter(t *testing.T) {
	svc := newTestProjectService()
	ctx := context.Background()

	project, err := svc.Create(ctx, "serhii", &dto.CreateProjectRequest{Title: "shop"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.AddTask(ctx, project.ID, &dto.CreateTaskRequest{Info: "work"})
		require.NoError(t, err)
	}
	_, err = svc.UpdateTaskStatus(ctx, project.ID, 1, &dto.UpdateTaskRequest{Status: "completed"})
	require.NoError(t, err)

	all, err := svc.ListTasks(ctx, project.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, models.StatusCompleted, all[0].Status)

	completed, err := svc.ListTasks(ctx, project.ID, "completed")
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, int64(1), completed[0].ID)

	_, err = svc.ListTasks(ctx, project.ID, "finished")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestProjectService_SearchByTitleFragment(t *testing.T) {
	svc := newTestProjectService()
	ctx := context.Background()

	for _, title := range []string{"Online Shop", "Portfolio", "shopping list"} {
		_, err := svc.Create(ctx, "serhii", &dto.CreateProjectRequest{Title: title})
		require.NoError(t, err)
	}

	matched, err := svc.Search(ctx, "shop")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "Online Shop", matched[0].Title)
	assert.Equal(t, "shopping list", matched[1].Title)

	none, err := svc.Search(ctx, "blog")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// Exercises the id numbering across deletions: two projects, delete the
// first, create another, and verify ids and first-match lookups behave like
// the count-based scheme.
func TestProjectService_IDReuseScenario(t *testing.T) {
	svc := newTestProjectService()
	ctx := context.Background()

	p0, err := svc.Create(ctx, "serhii", &dto.CreateProjectRequest{Title: "alpha"})
	require.NoError(t, err)
	p1, err := svc.Create(ctx, "serhii", &dto.CreateProjectRequest{Title: "beta"})
	require.NoError(t, err)
	require.Equal(t, int64(0), p0.ID)
	require.Equal(t, int64(1), p1.ID)

	require.NoError(t, svc.Delete(ctx, p0.ID))

	p2, err := svc.Create(ctx, "serhii", &dto.CreateProjectRequest{Title: "gamma"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p2.ID)

	got, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "beta", got.Title)

	projects, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}
