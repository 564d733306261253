package controllers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/serhiib/registry/internal/app/auth"
	"github.com/serhiib/registry/internal/app/controllers"
	"github.com/serhiib/registry/internal/app/repositories/memory"
	"github.com/serhiib/registry/internal/app/routes"
	"github.com/serhiib/registry/internal/app/services"
	"github.com/serhiib/registry/internal/middleware"
	pkgauth "github.com/serhiib/registry/internal/pkg/auth"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := memory.NewRepositories(10)
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})

	lgr := zerolog.Nop()
	directory := services.NewDirectoryService(repos.Identities, jwtService, lgr)
	projectService := services.NewProjectService(repos.Projects, lgr)
	courseService := services.NewCourseService(repos.Courses, nil, lgr)
	gateKeeper := appauth.NewGateKeeper(directory, repos.Projects, repos.Courses)

	router := gin.New()
	routes.SetupRouter(router,
		controllers.NewAuthController(directory, lgr),
		controllers.NewUserController(directory, gateKeeper, lgr),
		controllers.NewProjectController(projectService, gateKeeper, lgr),
		controllers.NewCourseController(courseService, gateKeeper, lgr),
		middleware.NewAuthMiddleware(jwtService),
	)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func basicAuth(name, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(name+":"+password))
}

func register(t *testing.T, router *gin.Engine, name, role string) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     name,
		"role":     role,
		"password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	router := newTestRouter(t)

	register(t, router, "serhii", "user")

	// Duplicate name answers 400
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name": "serhii", "role": "user", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"name": "serhii", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)

	// Wrong password and unknown name both answer 401
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"name": "serhii", "password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"name": "ghost", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectEndpointsRequireAuth(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "serhii", "user")

	// No Authorization header at all
	w := doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]string{"title": "shop"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Bad Basic credentials
	w = doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]string{"title": "shop"}, basicAuth("serhii", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Nothing was stored
	w = doJSON(t, router, http.MethodGet, "/api/v1/projects", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Empty(t, listResp.Data)

	// Valid credentials succeed
	w = doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]string{"title": "shop"}, basicAuth("serhii", "secret1"))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestProjectTaskFlowWithBearerToken(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "serhii", "user")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"name": "serhii", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var loginResp struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	bearer := "Bearer " + loginResp.Data.AccessToken

	w = doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]string{
		"title": "shop", "deadline": "25-01-2027",
	}, bearer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/v1/projects/0/tasks", map[string]string{"info": "design"}, bearer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Another identity cannot touch the project's tasks
	register(t, router, "intruder", "user")
	w = doJSON(t, router, http.MethodPost, "/api/v1/projects/0/tasks", map[string]string{"info": "spy"}, basicAuth("intruder", "secret1"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/projects/0/tasks/1", map[string]string{"status": "completed"}, bearer)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// A past deadline answers 400
	w = doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]string{
		"title": "late", "deadline": "01-01-2020",
	}, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectDeleteIsAdminOnly(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "serhii", "user")
	register(t, router, "boss", "admin")

	w := doJSON(t, router, http.MethodPost, "/api/v1/projects", map[string]string{"title": "shop"}, basicAuth("serhii", "secret1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/projects/0", nil, basicAuth("serhii", "secret1"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The project survived the rejected delete
	w = doJSON(t, router, http.MethodGet, "/api/v1/projects/0", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/projects/0", nil, basicAuth("boss", "secret1"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/projects/0", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseEnrollmentOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "prof", "teacher")
	for i := 0; i < 11; i++ {
		register(t, router, fmt.Sprintf("student-%d", i), "student")
	}

	// Course creation is a multipart form endpoint
	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses", bytes.NewReader([]byte("title=db")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", basicAuth("prof", "secret1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A non-teacher cannot create courses
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/courses", bytes.NewReader([]byte("title=hack")))
	req2.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req2.Header.Set("Authorization", basicAuth("student-0", "secret1"))
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusForbidden, w2.Code)

	for i := 0; i < 10; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/v1/courses/db/enrollments", nil,
			basicAuth(fmt.Sprintf("student-%d", i), "secret1"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// The 11th sign-up hits the capacity cap
	w3 := doJSON(t, router, http.MethodPost, "/api/v1/courses/db/enrollments", nil, basicAuth("student-10", "secret1"))
	assert.Equal(t, http.StatusBadRequest, w3.Code)

	// Duplicate enrollment on a non-full course also answers 400
	w4 := doJSON(t, router, http.MethodDelete, "/api/v1/courses/db", nil, basicAuth("prof", "secret1"))
	assert.Equal(t, http.StatusForbidden, w4.Code, "course delete is admin only")

	// Scores: the owning teacher records and reads them
	w5 := doJSON(t, router, http.MethodPut, "/api/v1/courses/db/scores/student-0", map[string]int{"score": 87}, basicAuth("prof", "secret1"))
	assert.Equal(t, http.StatusOK, w5.Code, w5.Body.String())

	w6 := doJSON(t, router, http.MethodGet, "/api/v1/courses/db/scores", nil, basicAuth("student-0", "secret1"))
	assert.Equal(t, http.StatusForbidden, w6.Code)

	w7 := doJSON(t, router, http.MethodGet, "/api/v1/courses/db/scores", nil, basicAuth("prof", "secret1"))
	assert.Equal(t, http.StatusOK, w7.Code)
}
