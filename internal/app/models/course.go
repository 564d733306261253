package models

// Course represents a course taught by a teacher identity. Materials are
// stored outside the registry; the course only keeps a reference.
type Course struct {
	ID           int64   `json:"id" db:"id"`
	Title        string  `json:"title" db:"title" example:"Databases 101"` // Unique course title
	Teacher      string  `json:"teacher" db:"teacher_name"`                // Name of the teacher that created the course
	OpenDate     *string `json:"openDate,omitempty" db:"open_date"`        // DD-MM-YYYY, validated as a future date at creation
	MaterialsRef *string `json:"materialsUrl,omitempty" db:"materials_ref"`

	// Student names, populated on reads that include the roster
	Students []string `json:"students"`
}

// Enrollment represents one student's registration on a course, keyed by
// the (course title, student name) pair.
type Enrollment struct {
	CourseTitle string `json:"courseTitle" db:"course_title"`
	StudentName string `json:"studentName" db:"student_name"`
	Score       *int   `json:"score,omitempty" db:"score"`
}
