package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/serhiib/registry/internal/app/controllers"
	"github.com/serhiib/registry/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	projectController *controllers.ProjectController,
	courseController *controllers.CourseController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Public read routes ---
	v1.GET("/users", userController.GetAll)
	v1.GET("/users/:id", userController.GetByID)
	v1.GET("/projects", projectController.GetAll)
	v1.GET("/projects/:id", projectController.GetByID)
	v1.GET("/projects/:id/tasks", projectController.ListTasks)
	v1.GET("/courses", courseController.GetAll)
	v1.GET("/courses/:title", courseController.GetByTitle)
	v1.GET("/courses/:title/enrollments", courseController.GetRoster)

	// --- Guarded routes ---
	// The middleware only extracts the principal; credential verification
	// and access checks run inside the controllers before any mutation.
	guarded := v1.Group("")
	guarded.Use(authMiddleware.RequirePrincipal())
	{
		guarded.PUT("/users/:id", userController.Update)

		guarded.POST("/projects", projectController.Create)
		guarded.DELETE("/projects/:id", projectController.Delete)
		guarded.POST("/projects/:id/tasks", projectController.AddTask)
		guarded.PUT("/projects/:id/tasks/:taskId", projectController.UpdateTask)
		guarded.DELETE("/projects/:id/tasks/:taskId", projectController.DeleteTask)

		guarded.POST("/courses", courseController.Create)
		guarded.DELETE("/courses/:title", courseController.Delete)
		guarded.POST("/courses/:title/enrollments", courseController.Enroll)
		guarded.GET("/courses/:title/scores", courseController.ListScores)
		guarded.PUT("/courses/:title/scores/:student", courseController.RecordScore)
	}
}
