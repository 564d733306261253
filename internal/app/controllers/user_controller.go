package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appauth "github.com/serhiib/registry/internal/app/auth"
	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/app/services"
	"github.com/serhiib/registry/internal/middleware"
)

// UserController handles directory read and edit operations
type UserController struct {
	directoryService *services.DirectoryService
	gateKeeper       *appauth.GateKeeper
	logger           zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(directoryService *services.DirectoryService, gateKeeper *appauth.GateKeeper, logger zerolog.Logger) *UserController {
	return &UserController{
		directoryService: directoryService,
		gateKeeper:       gateKeeper,
		logger:           logger,
	}
}

// GetAll lists identities
// @Summary List identities
// @Description Lists all registered identities, optionally filtered by role or by a name fragment
// @Tags users
// @Produce json
// @Param role query string false "Role filter" Enums(admin, moderator, user, student, teacher)
// @Param search query string false "Name fragment filter"
// @Success 200 {object} dto.APIResponse{data=[]models.Identity}
// @Failure 400 {object} dto.ErrorResponse "Unknown role"
// @Router /users [get]
func (c *UserController) GetAll(ctx *gin.Context) {
	if fragment := ctx.Query("search"); fragment != "" {
		identities, err := c.directoryService.Search(ctx.Request.Context(), fragment)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.APIResponse{Data: identities})
		return
	}

	identities, err := c.directoryService.List(ctx.Request.Context(), ctx.Query("role"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: identities,
	})
}

// GetByID returns a single identity
// @Summary Get an identity
// @Tags users
// @Produce json
// @Param id path int true "Identity ID"
// @Success 200 {object} dto.APIResponse{data=models.Identity}
// @Failure 404 {object} dto.ErrorResponse "Identity not found"
// @Router /users/{id} [get]
func (c *UserController) GetByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid identity ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	identity, err := c.directoryService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: identity,
	})
}

// Update edits an identity
// @Summary Update an identity
// @Description Edits an identity's name, email or role. Only admins can edit other identities or change roles.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Identity ID"
// @Param request body dto.UpdateIdentityRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Identity}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Identity not found"
// @Router /users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid identity ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateIdentityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	requester, err := c.gateKeeper.Resolve(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	identity, err := c.directoryService.Update(ctx.Request.Context(), requester, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: identity,
	})
}
