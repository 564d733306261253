package auth

import (
	"context"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/repositories"
	"github.com/serhiib/registry/internal/pkg/apperrors"
)

// Principal is the caller of a guarded operation. It carries either a
// pre-verified identity (taken from validated token claims) or raw
// credentials that still have to be checked against the directory.
type Principal struct {
	Identity    *models.Identity
	Credentials *models.Credentials
}

// Verifier checks a name/password pair against the directory
type Verifier interface {
	Verify(ctx context.Context, creds models.Credentials) (*models.Identity, error)
}

// GateKeeper resolves principals and enforces per-operation access rules.
// Authentication always runs before the guarded operation touches any
// store, so a rejected caller observes no state change.
type GateKeeper struct {
	verifier    Verifier
	projectRepo repositories.ProjectRepository
	courseRepo  repositories.CourseRepository
}

// NewGateKeeper creates a new GateKeeper
func NewGateKeeper(verifier Verifier, projectRepo repositories.ProjectRepository, courseRepo repositories.CourseRepository) *GateKeeper {
	return &GateKeeper{
		verifier:    verifier,
		projectRepo: projectRepo,
		courseRepo:  courseRepo,
	}
}

// Resolve turns a principal into a verified identity. Credentials are
// checked against the directory; an already verified identity passes
// through unchanged.
func (g *GateKeeper) Resolve(ctx context.Context, principal *Principal) (*models.Identity, error) {
	if principal == nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if principal.Identity != nil {
		return principal.Identity, nil
	}
	if principal.Credentials != nil {
		return g.verifier.Verify(ctx, *principal.Credentials)
	}
	return nil, apperrors.ErrInvalidCredentials
}

// RequireRole resolves the principal and requires it to hold the given role.
// Admins pass every role check.
func (g *GateKeeper) RequireRole(ctx context.Context, principal *Principal, role models.RoleType) (*models.Identity, error) {
	identity, err := g.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	if identity.Role != role && identity.Role != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("insufficient role for this action")
	}
	return identity, nil
}

// RequireAdmin resolves the principal and requires the admin role
func (g *GateKeeper) RequireAdmin(ctx context.Context, principal *Principal) (*models.Identity, error) {
	identity, err := g.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	if identity.Role != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only admins can perform this action")
	}
	return identity, nil
}

// RequireProjectOwner resolves the principal and requires it to own the
// project. Note the order: authentication first, then the project lookup,
// then the ownership check.
func (g *GateKeeper) RequireProjectOwner(ctx context.Context, principal *Principal, projectID int64) (*models.Identity, error) {
	identity, err := g.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	project, err := g.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.Owner != identity.Name {
		return nil, apperrors.NewForbiddenError("only the project owner can modify its tasks")
	}
	return identity, nil
}

// RequireCourseTeacher resolves the principal and requires it to be the
// teacher that owns the course, or an admin.
func (g *GateKeeper) RequireCourseTeacher(ctx context.Context, principal *Principal, title string) (*models.Identity, error) {
	identity, err := g.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	course, err := g.courseRepo.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	if course.Teacher != identity.Name && identity.Role != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only the course teacher can perform this action")
	}
	return identity, nil
}
