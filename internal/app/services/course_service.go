package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/app/repositories"
	"github.com/serhiib/registry/internal/pkg/apperrors"
	"github.com/serhiib/registry/internal/pkg/filestorage"
	"github.com/serhiib/registry/internal/pkg/helpers"
)

// CourseService handles course, enrollment and score operations
type CourseService struct {
	courseRepo  repositories.CourseRepository
	fileStorage filestorage.FileStorage
	logger      zerolog.Logger
	now         func() time.Time
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo repositories.CourseRepository,
	fileStorage filestorage.FileStorage,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		fileStorage: fileStorage,
		logger:      logger,
		now:         time.Now,
	}
}

// Create registers a new course owned by the given teacher. The open date,
// when present, must be a DD-MM-YYYY date strictly in the future. Materials
// are stored outside the registry; the course only keeps the reference.
func (s *CourseService) Create(ctx context.Context, teacher string, req *dto.CreateCourseRequest, materials *multipart.FileHeader) (*models.Course, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}

	if req.OpenDate != nil {
		if _, err := helpers.ParseFutureDate(*req.OpenDate, s.now()); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	course := &models.Course{
		Title:    req.Title,
		Teacher:  teacher,
		OpenDate: req.OpenDate,
	}

	if materials != nil {
		ref, err := s.fileStorage.SaveFileWithPath(materials, "materials")
		if err != nil {
			s.logger.Error().Err(err).Str("title", req.Title).Msg("Failed to store course materials")
			return nil, err
		}
		course.MaterialsRef = &ref
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if course.MaterialsRef != nil {
			if cleanupErr := s.fileStorage.DeleteFile(*course.MaterialsRef); cleanupErr != nil {
				s.logger.Warn().Err(cleanupErr).Str("ref", *course.MaterialsRef).Msg("Failed to remove orphaned materials file")
			}
		}
		return nil, err
	}

	s.logger.Info().Int64("courseId", course.ID).Str("teacher", teacher).Msg("Course created")
	return course, nil
}

// GetByTitle returns one course with its roster
func (s *CourseService) GetByTitle(ctx context.Context, title string) (*models.Course, error) {
	return s.courseRepo.GetByTitle(ctx, title)
}

// GetAll returns all courses with their rosters
func (s *CourseService) GetAll(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAll(ctx)
}

// GetRoster returns a course's title, teacher and enrolled student names
func (s *CourseService) GetRoster(ctx context.Context, title string) (*dto.CourseRosterResponse, error) {
	course, err := s.courseRepo.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	return &dto.CourseRosterResponse{
		CourseTitle:   course.Title,
		CourseTeacher: course.Teacher,
		Students:      course.Students,
	}, nil
}

// Delete removes a course together with its enrollments and stored materials
func (s *CourseService) Delete(ctx context.Context, title string) error {
	course, err := s.courseRepo.GetByTitle(ctx, title)
	if err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, title); err != nil {
		return err
	}

	if course.MaterialsRef != nil {
		if err := s.fileStorage.DeleteFile(*course.MaterialsRef); err != nil {
			s.logger.Warn().Err(err).Str("ref", *course.MaterialsRef).Msg("Failed to remove materials file")
		}
	}

	s.logger.Info().Str("title", title).Msg("Course deleted")
	return nil
}

// Enroll signs a student up for a course. The repository applies the
// existence, capacity and duplicate checks atomically.
func (s *CourseService) Enroll(ctx context.Context, title, studentName string) error {
	if err := s.courseRepo.Enroll(ctx, title, studentName); err != nil {
		return err
	}

	s.logger.Info().Str("title", title).Str("student", studentName).Msg("Student enrolled")
	return nil
}

// RecordScore sets a student's score on a course. The teacher must own the
// course and the student must already be enrolled.
func (s *CourseService) RecordScore(ctx context.Context, teacher *models.Identity, title, studentName string, req *dto.RecordScoreRequest) error {
	course, err := s.courseRepo.GetByTitle(ctx, title)
	if err != nil {
		return err
	}

	if course.Teacher != teacher.Name && teacher.Role != models.RoleAdmin {
		return apperrors.NewForbiddenError("only the course teacher can record scores")
	}

	return s.courseRepo.RecordScore(ctx, title, studentName, req.Score)
}

// ListScores returns the (student, score) pairs of a course
func (s *CourseService) ListScores(ctx context.Context, title string) ([]dto.ScoreResponse, error) {
	enrollments, err := s.courseRepo.ListScores(ctx, title)
	if err != nil {
		return nil, err
	}

	scores := make([]dto.ScoreResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		scores = append(scores, dto.ScoreResponse{
			StudentName: enrollment.StudentName,
			Score:       enrollment.Score,
		})
	}
	return scores, nil
}
