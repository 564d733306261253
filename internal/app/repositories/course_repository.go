package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/pkg/apperrors"
)

// CourseRepositoryPg handles database operations for courses and enrollments
type CourseRepositoryPg struct {
	db       *pgxpool.Pool
	capacity int
}

// NewCourseRepository creates a new course repository with the given
// per-course sign-up capacity.
func NewCourseRepository(db *pgxpool.Pool, capacity int) *CourseRepositoryPg {
	return &CourseRepositoryPg{
		db:       db,
		capacity: capacity,
	}
}

// Create inserts a new course. Duplicate titles map to ErrTitleTaken.
func (r *CourseRepositoryPg) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, teacher_name, open_date, materials_ref)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, course.Title, course.Teacher, course.OpenDate, course.MaterialsRef).
		Scan(&course.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrTitleTaken
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	course.Students = []string{}
	return nil
}

// GetByTitle retrieves a course with its roster
func (r *CourseRepositoryPg) GetByTitle(ctx context.Context, title string) (*models.Course, error) {
	var course models.Course
	err := r.db.QueryRow(ctx, `
		SELECT id, title, teacher_name, open_date, materials_ref
		FROM courses
		WHERE title = $1`, title).
		Scan(&course.ID, &course.Title, &course.Teacher, &course.OpenDate, &course.MaterialsRef)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	students, err := r.loadStudents(ctx, title)
	if err != nil {
		return nil, err
	}
	course.Students = students

	return &course, nil
}

// GetAll retrieves all courses with their rosters
func (r *CourseRepositoryPg) GetAll(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, teacher_name, open_date, materials_ref
		FROM courses
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	byTitle := make(map[string]*models.Course)
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Title, &course.Teacher, &course.OpenDate, &course.MaterialsRef); err != nil {
			return nil, err
		}
		course.Students = []string{}
		courses = append(courses, &course)
		byTitle[course.Title] = &course
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	enrollmentRows, err := r.db.Query(ctx, `
		SELECT course_title, student_name
		FROM enrollments
		ORDER BY enrolled_at`)
	if err != nil {
		return nil, err
	}
	defer enrollmentRows.Close()

	for enrollmentRows.Next() {
		var title, student string
		if err := enrollmentRows.Scan(&title, &student); err != nil {
			return nil, err
		}
		if course, ok := byTitle[title]; ok {
			course.Students = append(course.Students, student)
		}
	}
	if err := enrollmentRows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Delete removes a course and cascades to its enrollments
func (r *CourseRepositoryPg) Delete(ctx context.Context, title string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE title = $1`, title)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Enroll signs a student up for a course. The course row is locked so the
// capacity check and the insert are atomic. Checks run in the fixed order
// existence, capacity, duplicate.
func (r *CourseRepositoryPg) Enroll(ctx context.Context, title, studentName string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var courseID int64
	err = tx.QueryRow(ctx, `SELECT id FROM courses WHERE title = $1 FOR UPDATE`, title).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error locking course: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments WHERE course_title = $1`, title).Scan(&count); err != nil {
		return fmt.Errorf("failed to count enrollments: %w", err)
	}
	if count >= r.capacity {
		return apperrors.ErrCourseFull
	}

	var enrolled bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_title = $1 AND student_name = $2)`,
		title, studentName).Scan(&enrolled)
	if err != nil {
		return fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled {
		return apperrors.ErrAlreadyEnrolled
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO enrollments (course_title, student_name)
		VALUES ($1, $2)`, title, studentName)
	if err != nil {
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RecordScore sets the score of an existing enrollment row
func (r *CourseRepositoryPg) RecordScore(ctx context.Context, title, studentName string, score int) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE enrollments SET score = $1
		WHERE course_title = $2 AND student_name = $3`,
		score, title, studentName)
	if err != nil {
		return fmt.Errorf("error recording score: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentMissing
	}

	return nil
}

// ListScores returns the enrollment rows of a course
func (r *CourseRepositoryPg) ListScores(ctx context.Context, title string) ([]models.Enrollment, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE title = $1)`, title).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("error checking course existence: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrCourseNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT course_title, student_name, score
		FROM enrollments
		WHERE course_title = $1
		ORDER BY enrolled_at`, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		var enrollment models.Enrollment
		if err := rows.Scan(&enrollment.CourseTitle, &enrollment.StudentName, &enrollment.Score); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *CourseRepositoryPg) loadStudents(ctx context.Context, title string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT student_name
		FROM enrollments
		WHERE course_title = $1
		ORDER BY enrolled_at`, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		students = append(students, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}
