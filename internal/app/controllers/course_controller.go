package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appauth "github.com/serhiib/registry/internal/app/auth"
	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/app/services"
	"github.com/serhiib/registry/internal/middleware"
)

// CourseController handles course, enrollment and score operations
type CourseController struct {
	courseService *services.CourseService
	gateKeeper    *appauth.GateKeeper
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, gateKeeper *appauth.GateKeeper, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		gateKeeper:    gateKeeper,
		logger:        logger,
	}
}

// GetAll lists courses
// @Summary List courses
// @Description Lists all courses with their rosters
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses [get]
func (c *CourseController) GetAll(ctx *gin.Context) {
	courses, err := c.courseService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: courses,
	})
}

// GetByTitle returns one course with its roster
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param title path string true "Course title"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{title} [get]
func (c *CourseController) GetByTitle(ctx *gin.Context) {
	course, err := c.courseService.GetByTitle(ctx.Request.Context(), ctx.Param("title"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: course,
	})
}

// Create registers a new course
// @Summary Create a course
// @Description Creates a course owned by the authenticated teacher. Accepts multipart form data with an optional materials file. The optional open date must be a future DD-MM-YYYY date.
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Unique course title"
// @Param openDate formData string false "Open date, DD-MM-YYYY"
// @Param materials formData file false "Course materials"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse "Invalid open date or title already taken"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Not a teacher"
// @Router /courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	teacher, err := c.gateKeeper.RequireRole(ctx.Request.Context(), middleware.GetPrincipal(ctx), models.RoleTeacher)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// Materials file is optional
	materials, err := ctx.FormFile("materials")
	if err != nil && err != http.ErrMissingFile {
		materials = nil
	}

	course, err := c.courseService.Create(ctx.Request.Context(), teacher.Name, &req, materials)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: course,
	})
}

// Delete removes a course
// @Summary Delete a course
// @Description Removes a course with its enrollments and stored materials. Admin only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param title path string true "Course title"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{title} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	if _, err := c.gateKeeper.RequireAdmin(ctx.Request.Context(), middleware.GetPrincipal(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.courseService.Delete(ctx.Request.Context(), ctx.Param("title")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Course deleted"},
	})
}

// Enroll signs the authenticated student up for a course
// @Summary Enroll in a course
// @Description Enrolls the authenticated student. Fails when the course is full or the student is already enrolled.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param title path string true "Course title"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Course full or already enrolled"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Not a student"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{title}/enrollments [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	student, err := c.gateKeeper.RequireRole(ctx.Request.Context(), middleware.GetPrincipal(ctx), models.RoleStudent)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.courseService.Enroll(ctx.Request.Context(), ctx.Param("title"), student.Name); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Enrolled"},
	})
}

// GetRoster lists a course's enrolled students
// @Summary Get a course roster
// @Tags courses
// @Produce json
// @Param title path string true "Course title"
// @Success 200 {object} dto.APIResponse{data=dto.CourseRosterResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{title}/enrollments [get]
func (c *CourseController) GetRoster(ctx *gin.Context) {
	roster, err := c.courseService.GetRoster(ctx.Request.Context(), ctx.Param("title"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: roster,
	})
}

// ListScores lists a course's scores
// @Summary List scores
// @Description Lists the (student, score) pairs of a course. Only the course teacher can read scores.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param title path string true "Course title"
// @Success 200 {object} dto.APIResponse{data=[]dto.ScoreResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Not the course teacher"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{title}/scores [get]
func (c *CourseController) ListScores(ctx *gin.Context) {
	title := ctx.Param("title")

	if _, err := c.gateKeeper.RequireCourseTeacher(ctx.Request.Context(), middleware.GetPrincipal(ctx), title); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	scores, err := c.courseService.ListScores(ctx.Request.Context(), title)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: scores,
	})
}

// RecordScore sets a student's score
// @Summary Record a score
// @Description Sets a student's score on a course. Only the course teacher can record scores, and the student must be enrolled.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title path string true "Course title"
// @Param student path string true "Student name"
// @Param request body dto.RecordScoreRequest true "Score"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Not the course teacher"
// @Failure 404 {object} dto.ErrorResponse "Course or enrollment not found"
// @Router /courses/{title}/scores/{student} [put]
func (c *CourseController) RecordScore(ctx *gin.Context) {
	var req dto.RecordScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	teacher, err := c.gateKeeper.Resolve(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	err = c.courseService.RecordScore(ctx.Request.Context(), teacher, ctx.Param("title"), ctx.Param("student"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Score recorded"},
	})
}
