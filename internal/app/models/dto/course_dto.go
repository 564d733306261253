package dto

// CreateCourseRequest is the form payload for course creation. Materials
// are uploaded as an optional multipart file alongside these fields.
type CreateCourseRequest struct {
	Title    string  `form:"title" binding:"required,max=50" example:"Databases 101"`
	OpenDate *string `form:"openDate,omitempty" example:"01-09-2027"` // DD-MM-YYYY, must be in the future
}

// RecordScoreRequest is the payload for recording a student's score
type RecordScoreRequest struct {
	Score int `json:"score" binding:"min=0,max=100" example:"87"`
}

// ScoreResponse is one (student, score) pair of a course
type ScoreResponse struct {
	StudentName string `json:"studentName"`
	Score       *int   `json:"score"`
}

// CourseRosterResponse lists a course with its enrolled student names
type CourseRosterResponse struct {
	CourseTitle   string   `json:"courseTitle"`
	CourseTeacher string   `json:"courseTeacher"`
	Students      []string `json:"students"`
}
