package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appauth "github.com/serhiib/registry/internal/app/auth"
	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/app/services"
	"github.com/serhiib/registry/internal/middleware"
)

// ProjectController handles project and task operations
type ProjectController struct {
	projectService *services.ProjectService
	gateKeeper     *appauth.GateKeeper
	logger         zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService *services.ProjectService, gateKeeper *appauth.GateKeeper, logger zerolog.Logger) *ProjectController {
	return &ProjectController{
		projectService: projectService,
		gateKeeper:     gateKeeper,
		logger:         logger,
	}
}

// GetAll lists projects
// @Summary List projects
// @Description Lists all projects with their tasks, optionally filtered by a title fragment. Task counts are derived from the live task collections.
// @Tags projects
// @Produce json
// @Param search query string false "Title fragment filter"
// @Success 200 {object} dto.APIResponse{data=[]models.Project}
// @Router /projects [get]
func (c *ProjectController) GetAll(ctx *gin.Context) {
	var projects []*models.Project
	var err error
	if fragment := ctx.Query("search"); fragment != "" {
		projects, err = c.projectService.Search(ctx.Request.Context(), fragment)
	} else {
		projects, err = c.projectService.GetAll(ctx.Request.Context())
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: projects,
	})
}

// GetByID returns a single project
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=models.Project}
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [get]
func (c *ProjectController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	project, err := c.projectService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: project,
	})
}

// Create registers a new project
// @Summary Create a project
// @Description Creates a project owned by the authenticated identity. The optional deadline must be a future DD-MM-YYYY date.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project information"
// @Success 201 {object} dto.APIResponse{data=models.Project}
// @Failure 400 {object} dto.ErrorResponse "Invalid deadline"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /projects [post]
func (c *ProjectController) Create(ctx *gin.Context) {
	var req dto.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	identity, err := c.gateKeeper.Resolve(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	project, err := c.projectService.Create(ctx.Request.Context(), identity.Name, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: project,
	})
}

// Delete removes a project
// @Summary Delete a project
// @Description Removes a project and all of its tasks. Admin only.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [delete]
func (c *ProjectController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if _, err := c.gateKeeper.RequireAdmin(ctx.Request.Context(), middleware.GetPrincipal(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.projectService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Project deleted"},
	})
}

// AddTask appends a task to a project
// @Summary Add a task
// @Description Adds a task in the "not started" state. Only the project owner can add tasks.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body dto.CreateTaskRequest true "Task information"
// @Success 201 {object} dto.APIResponse{data=models.Task}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Not the project owner"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/tasks [post]
func (c *ProjectController) AddTask(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if _, err := c.gateKeeper.RequireProjectOwner(ctx.Request.Context(), middleware.GetPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	task, err := c.projectService.AddTask(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: task,
	})
}

// ListTasks lists a project's tasks
// @Summary List tasks
// @Description Lists a project's tasks sorted by status, optionally filtered to one status
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Param status query string false "Status filter" Enums(not started, in progress, completed)
// @Success 200 {object} dto.APIResponse{data=[]models.Task}
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/tasks [get]
func (c *ProjectController) ListTasks(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	tasks, err := c.projectService.ListTasks(ctx.Request.Context(), id, ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: tasks,
	})
}

// UpdateTask changes a task's status
// @Summary Update a task's status
// @Description Moves a task to one of the known states. Only the project owner can update tasks.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param taskId path int true "Task ID"
// @Param request body dto.UpdateTaskRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Task}
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Not the project owner"
// @Failure 404 {object} dto.ErrorResponse "Project or task not found"
// @Router /projects/{id}/tasks/{taskId} [put]
func (c *ProjectController) UpdateTask(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(ctx, "taskId")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if _, err := c.gateKeeper.RequireProjectOwner(ctx.Request.Context(), middleware.GetPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	task, err := c.projectService.UpdateTaskStatus(ctx.Request.Context(), id, taskID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: task,
	})
}

// DeleteTask removes a task
// @Summary Delete a task
// @Description Removes a task from a project. Only the project owner can delete tasks.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param taskId path int true "Task ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Not the project owner"
// @Failure 404 {object} dto.ErrorResponse "Project or task not found"
// @Router /projects/{id}/tasks/{taskId} [delete]
func (c *ProjectController) DeleteTask(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(ctx, "taskId")
	if !ok {
		return
	}

	if _, err := c.gateKeeper.RequireProjectOwner(ctx.Request.Context(), middleware.GetPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.projectService.DeleteTask(ctx.Request.Context(), id, taskID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Task deleted"},
	})
}

// parseIDParam parses a numeric path parameter, answering 400 on failure
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return value, true
}
