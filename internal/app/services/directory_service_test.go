package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/app/repositories/memory"
	"github.com/serhiib/registry/internal/pkg/apperrors"
	"github.com/serhiib/registry/internal/pkg/auth"
)

func newTestDirectoryService() *DirectoryService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	return NewDirectoryService(memory.NewIdentityRepository(), jwtService, zerolog.Nop())
}

func TestDirectoryService_Register(t *testing.T) {
	svc := newTestDirectoryService()
	ctx := context.Background()

	identity, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "serhii",
		Role:     "student",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.ID)
	assert.Equal(t, models.RoleStudent, identity.Role)
	assert.NotEqual(t, "secret1", identity.Password, "password must be stored hashed")

	_, err = svc.Register(ctx, &dto.RegisterRequest{Name: "serhii", Role: "teacher", Password: "secret2"})
	assert.ErrorIs(t, err, apperrors.ErrNameTaken)
}

func TestDirectoryService_RegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestDirectoryService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "serhii",
		Role:     "headmaster",
		Password: "secret1",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDirectoryService_VerifyIsAmbiguousOnFailure(t *testing.T) {
	svc := newTestDirectoryService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "serhii", Role: "user", Password: "secret1"})
	require.NoError(t, err)

	identity, err := svc.Verify(ctx, models.Credentials{Name: "serhii", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "serhii", identity.Name)

	// Unknown name and wrong password fail identically
	_, errUnknown := svc.Verify(ctx, models.Credentials{Name: "nobody", Password: "secret1"})
	_, errWrongPwd := svc.Verify(ctx, models.Credentials{Name: "serhii", Password: "wrong"})
	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPwd, apperrors.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPwd.Error())
}

func TestDirectoryService_Login(t *testing.T) {
	svc := newTestDirectoryService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "serhii", Role: "user", Password: "secret1"})
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, &dto.LoginRequest{Name: "serhii", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, 3600, tokens.ExpiresIn)

	_, err = svc.Login(ctx, &dto.LoginRequest{Name: "serhii", Password: "bad"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestDirectoryService_ListWithRoleFilter(t *testing.T) {
	svc := newTestDirectoryService()
	ctx := context.Background()

	for _, req := range []dto.RegisterRequest{
		{Name: "t1", Role: "teacher", Password: "secret1"},
		{Name: "s1", Role: "student", Password: "secret1"},
		{Name: "s2", Role: "student", Password: "secret1"},
	} {
		r := req
		_, err := svc.Register(ctx, &r)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	students, err := svc.List(ctx, "student")
	require.NoError(t, err)
	assert.Len(t, students, 2)

	_, err = svc.List(ctx, "wizard")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDirectoryService_UpdateRoleRequiresAdmin(t *testing.T) {
	svc := newTestDirectoryService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Name: "serhii", Role: "user", Password: "secret1"})
	require.NoError(t, err)
	admin, err := svc.Register(ctx, &dto.RegisterRequest{Name: "boss", Role: "admin", Password: "secret1"})
	require.NoError(t, err)

	newRole := "moderator"
	_, err = svc.Update(ctx, user, user.ID, &dto.UpdateIdentityRequest{Role: &newRole})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	updated, err := svc.Update(ctx, admin, user.ID, &dto.UpdateIdentityRequest{Role: &newRole})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)
}
