package memory

import (
	"context"
	"sync"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/pkg/apperrors"
)

// courseEntry holds one course with its enrollments behind a per-course
// mutex, so the capacity and duplicate checks cannot race with the insert.
type courseEntry struct {
	mu          sync.Mutex
	data        models.Course
	enrollments []models.Enrollment
}

// CourseRepository is the in-memory course store
type CourseRepository struct {
	mu       sync.RWMutex
	byTitle  map[string]*courseEntry
	order    []string
	nextID   int64
	capacity int
}

// NewCourseRepository creates an empty in-memory course store with the
// given per-course sign-up capacity.
func NewCourseRepository(capacity int) *CourseRepository {
	return &CourseRepository{
		byTitle:  make(map[string]*courseEntry),
		nextID:   1,
		capacity: capacity,
	}
}

// Create inserts a new course, rejecting duplicate titles
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTitle[course.Title]; exists {
		return apperrors.ErrTitleTaken
	}

	course.ID = r.nextID
	course.Students = []string{}
	r.nextID++

	entry := &courseEntry{data: *course}
	r.byTitle[course.Title] = entry
	r.order = append(r.order, course.Title)
	return nil
}

// GetByTitle retrieves a course with its roster
func (r *CourseRepository) GetByTitle(ctx context.Context, title string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byTitle[title]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return entry.snapshot(), nil
}

// GetAll retrieves all courses with their rosters in creation order
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]*models.Course, 0, len(r.order))
	for _, title := range r.order {
		courses = append(courses, r.byTitle[title].snapshot())
	}
	return courses, nil
}

// Delete removes a course and its enrollments
func (r *CourseRepository) Delete(ctx context.Context, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byTitle[title]; !ok {
		return apperrors.ErrCourseNotFound
	}

	delete(r.byTitle, title)
	for i, t := range r.order {
		if t == title {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Enroll signs a student up under the course's lock. Checks run in the
// fixed order existence, capacity, duplicate.
func (r *CourseRepository) Enroll(ctx context.Context, title, studentName string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byTitle[title]
	if !ok {
		return apperrors.ErrCourseNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if len(entry.enrollments) >= r.capacity {
		return apperrors.ErrCourseFull
	}
	for _, enrollment := range entry.enrollments {
		if enrollment.StudentName == studentName {
			return apperrors.ErrAlreadyEnrolled
		}
	}

	entry.enrollments = append(entry.enrollments, models.Enrollment{
		CourseTitle: title,
		StudentName: studentName,
	})
	return nil
}

// RecordScore sets the score of an existing enrollment row
func (r *CourseRepository) RecordScore(ctx context.Context, title, studentName string, score int) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byTitle[title]
	if !ok {
		return apperrors.ErrEnrollmentMissing
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for i := range entry.enrollments {
		if entry.enrollments[i].StudentName == studentName {
			s := score
			entry.enrollments[i].Score = &s
			return nil
		}
	}
	return apperrors.ErrEnrollmentMissing
}

// ListScores returns the enrollment rows of a course
func (r *CourseRepository) ListScores(ctx context.Context, title string) ([]models.Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byTitle[title]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	enrollments := make([]models.Enrollment, len(entry.enrollments))
	copy(enrollments, entry.enrollments)
	return enrollments, nil
}

// snapshot copies the course and its roster under the entry lock
func (e *courseEntry) snapshot() *models.Course {
	e.mu.Lock()
	defer e.mu.Unlock()

	copied := e.data
	copied.Students = make([]string, 0, len(e.enrollments))
	for _, enrollment := range e.enrollments {
		copied.Students = append(copied.Students, enrollment.StudentName)
	}
	return &copied
}
