package services

import (
	"context"
	"fmt"
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

func newTestCourseService(capacity int) *CourseService {
	svc := NewCourseService(memory.NewCourseRepository(capacity), nil, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCourseService_CreateValidatesOpenDate(t *testing.T) {
	svc := newTestCourseService(10)
	ctx := context.Background()

	_, err := svc.Create(ctx, "prof", &dto.CreateCourseRequest{Title: "db", OpenDate: strPtr("01-01-2020")}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	course, err := svc.Create(ctx, "prof", &dto.CreateCourseRequest{Title: "db", OpenDate: strPtr("01-09-2026")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "prof", course.Teacher)

	_, err = svc.Create(ctx, "other", &dto.CreateCourseRequest{Title: "db"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrTitleTaken)
}

func TestCourseService_EnrollCapacity(t *testing.T) {
	svc := newTestCourseService(10)
	ctx := context.Background()

	_, err := svc.Create(ctx, "prof", &dto.CreateCourseRequest{Title: "db"}, nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, svc.Enroll(ctx, "db", fmt.Sprintf("student-%d", i)))
	}

	err = svc.Enroll(ctx, "db", "student-10")
	assert.ErrorIs(t, err, apperrors.ErrCourseFull)

	roster, err := svc.GetRoster(ctx, "db")
	require.NoError(t, err)
	assert.Len(t, roster.Students, 10)
}

func TestCourseService_EnrollDuplicate(t *testing.T) {
	svc := newTestCourseService(10)
	ctx := context.Background()

	_, err := svc.Create(ctx, "prof", &dto.CreateCourseRequest{Title: "db"}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Enroll(ctx, "db", "s1"))
	err = svc.Enroll(ctx, "db", "s1")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestCourseService_RecordScoreRequiresOwningTeacher(t *testing.T) {
	svc := newTestCourseService(10)
	ctx := context.Background()

	_, err := svc.Create(ctx, "prof", &dto.CreateCourseRequest{Title: "db"}, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Enroll(ctx, "db", "s1"))

	owner := &models.Identity{Name: "prof", Role: models.RoleTeacher}
	stranger := &models.Identity{Name: "other", Role: models.RoleTeacher}
	admin := &models.Identity{Name: "boss", Role: models.RoleAdmin}

	err = svc.RecordScore(ctx, stranger, "db", "s1", &dto.RecordScoreRequest{Score: 90})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.RecordScore(ctx, owner, "db", "s1", &dto.RecordScoreRequest{Score: 90}))
	require.NoError(t, svc.RecordScore(ctx, admin, "db", "s1", &dto.RecordScoreRequest{Score: 95}))

	err = svc.RecordScore(ctx, owner, "db", "ghost", &dto.RecordScoreRequest{Score: 50})
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentMissing)

	scores, err := svc.ListScores(ctx, "db")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	require.NotNil(t, scores[0].Score)
	assert.Equal(t, 95, *scores[0].Score)
}
