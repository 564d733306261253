package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/app/repositories"
	"github.com/serhiib/registry/internal/app/repositories/memory"
	"github.com/serhiib/registry/internal/app/services"
	"github.com/serhiib/registry/internal/pkg/apperrors"
	pkgauth "github.com/serhiib/registry/internal/pkg/auth"
)

type gateKeeperFixture struct {
	gk        *GateKeeper
	directory *services.DirectoryService
	repos     *repositories.Repositories
}

func newGateKeeperFixture(t *testing.T) *gateKeeperFixture {
	t.Helper()

	repos := memory.NewRepositories(10)
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	directory := services.NewDirectoryService(repos.Identities, jwtService, zerolog.Nop())

	ctx := context.Background()
	for _, req := range []dto.RegisterRequest{
		{Name: "boss", Role: "admin", Password: "secret1"},
		{Name: "serhii", Role: "user", Password: "secret1"},
		{Name: "prof", Role: "teacher", Password: "secret1"},
	} {
		r := req
		_, err := directory.Register(ctx, &r)
		require.NoError(t, err)
	}

	return &gateKeeperFixture{
		gk:        NewGateKeeper(directory, repos.Projects, repos.Courses),
		directory: directory,
		repos:     repos,
	}
}

func credentials(name, password string) *Principal {
	return &Principal{Credentials: &models.Credentials{Name: name, Password: password}}
}

func TestGateKeeper_ResolveCredentials(t *testing.T) {
	f := newGateKeeperFixture(t)
	ctx := context.Background()

	identity, err := f.gk.Resolve(ctx, credentials("serhii", "secret1"))
	require.NoError(t, err)
	assert.Equal(t, "serhii", identity.Name)

	_, err = f.gk.Resolve(ctx, credentials("serhii", "wrong"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.gk.Resolve(ctx, credentials("nobody", "secret1"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.gk.Resolve(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.gk.Resolve(ctx, &Principal{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestGateKeeper_ResolvePreVerifiedIdentity(t *testing.T) {
	f := newGateKeeperFixture(t)

	identity := &models.Identity{ID: 7, Name: "claims", Role: models.RoleTeacher}
	got, err := f.gk.Resolve(context.Background(), &Principal{Identity: identity})
	require.NoError(t, err)
	assert.Same(t, identity, got)
}

func TestGateKeeper_RequireAdmin(t *testing.T) {
	f := newGateKeeperFixture(t)
	ctx := context.Background()

	_, err := f.gk.RequireAdmin(ctx, credentials("serhii", "secret1"))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	identity, err := f.gk.RequireAdmin(ctx, credentials("boss", "secret1"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestGateKeeper_RequireRoleAdminBypass(t *testing.T) {
	f := newGateKeeperFixture(t)
	ctx := context.Background()

	_, err := f.gk.RequireRole(ctx, credentials("serhii", "secret1"), models.RoleTeacher)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.gk.RequireRole(ctx, credentials("prof", "secret1"), models.RoleTeacher)
	require.NoError(t, err)

	// Admins pass any role requirement
	_, err = f.gk.RequireRole(ctx, credentials("boss", "secret1"), models.RoleTeacher)
	require.NoError(t, err)
}

func TestGateKeeper_RequireProjectOwner(t *testing.T) {
	f := newGateKeeperFixture(t)
	ctx := context.Background()

	project := &models.Project{Owner: "serhii", Title: "shop"}
	require.NoError(t, f.repos.Projects.Create(ctx, project))

	_, err := f.gk.RequireProjectOwner(ctx, credentials("serhii", "secret1"), project.ID)
	require.NoError(t, err)

	_, err = f.gk.RequireProjectOwner(ctx, credentials("prof", "secret1"), project.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Authentication runs before the project lookup
	_, err = f.gk.RequireProjectOwner(ctx, credentials("serhii", "wrong"), 99)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.gk.RequireProjectOwner(ctx, credentials("serhii", "secret1"), 99)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestGateKeeper_RequireCourseTeacher(t *testing.T) {
	f := newGateKeeperFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repos.Courses.Create(ctx, &models.Course{Title: "db", Teacher: "prof"}))

	_, err := f.gk.RequireCourseTeacher(ctx, credentials("prof", "secret1"), "db")
	require.NoError(t, err)

	_, err = f.gk.RequireCourseTeacher(ctx, credentials("serhii", "secret1"), "db")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.gk.RequireCourseTeacher(ctx, credentials("boss", "secret1"), "db")
	require.NoError(t, err)
}

// A rejected caller must observe no state change: the credential check runs
// before the guarded mutation, so nothing reaches the store.
func TestGateKeeper_RejectedCallerLeavesStateUnchanged(t *testing.T) {
	f := newGateKeeperFixture(t)
	ctx := context.Background()

	project := &models.Project{Owner: "serhii", Title: "shop"}
	require.NoError(t, f.repos.Projects.Create(ctx, project))

	_, err := f.gk.RequireProjectOwner(ctx, credentials("serhii", "wrong"), project.ID)
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	got, err := f.repos.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TaskCount)
}
