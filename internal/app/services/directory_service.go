package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/app/repositories"
	"github.com/serhiib/registry/internal/pkg/apperrors"
	"github.com/serhiib/registry/internal/pkg/auth"
)

// DirectoryService handles identity registration and credential checks
type DirectoryService struct {
	identityRepo repositories.IdentityRepository
	jwtService   *auth.JWTService
	logger       zerolog.Logger
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(
	identityRepo repositories.IdentityRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *DirectoryService {
	return &DirectoryService{
		identityRepo: identityRepo,
		jwtService:   jwtService,
		logger:       logger,
	}
}

// validateName checks the account name requirements
func (s *DirectoryService) validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("name cannot be empty")
	}
	if len(name) > 50 {
		return apperrors.NewValidationError("name must be at most 50 characters long")
	}
	return nil
}

// validatePassword checks the password requirements
func (s *DirectoryService) validatePassword(password string) error {
	if password == "" {
		return apperrors.NewValidationError("password cannot be empty")
	}
	if len(password) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters long")
	}
	return nil
}

// Register creates a new identity with a hashed password. Names are unique
// across the directory.
func (s *DirectoryService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.Identity, error) {
	if err := s.validateName(req.Name); err != nil {
		return nil, err
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}

	role := models.RoleType(req.Role)
	if !models.ValidRole(role) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role: %s", req.Role))
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &models.Identity{
		Name:     req.Name,
		Email:    req.Email,
		Role:     role,
		Password: hashedPassword,
	}

	if err := s.identityRepo.Create(ctx, identity); err != nil {
		if errors.Is(err, apperrors.ErrNameTaken) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create identity")
		return nil, err
	}

	s.logger.Info().Int64("identityId", identity.ID).Str("role", string(identity.Role)).Msg("Identity registered")
	return identity, nil
}

// Verify checks a name/password pair against the directory. The failure is
// deliberately ambiguous: an unknown name and a wrong password both return
// ErrInvalidCredentials.
func (s *DirectoryService) Verify(ctx context.Context, creds models.Credentials) (*models.Identity, error) {
	identity, err := s.identityRepo.GetByName(ctx, creds.Name)
	if err != nil {
		if errors.Is(err, apperrors.ErrIdentityNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(identity.Password, creds.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return identity, nil
}

// Login verifies credentials and issues a token pair
func (s *DirectoryService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	identity, err := s.Verify(ctx, models.Credentials{Name: req.Name, Password: req.Password})
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(identity)
	if err != nil {
		s.logger.Error().Err(err).Int64("identityId", identity.ID).Msg("Failed to generate token pair")
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}

// GetByID retrieves an identity by id
func (s *DirectoryService) GetByID(ctx context.Context, id int64) (*models.Identity, error) {
	return s.identityRepo.GetByID(ctx, id)
}

// GetByName retrieves an identity by name
func (s *DirectoryService) GetByName(ctx context.Context, name string) (*models.Identity, error) {
	return s.identityRepo.GetByName(ctx, name)
}

// List returns all identities, optionally filtered by role
func (s *DirectoryService) List(ctx context.Context, role string) ([]*models.Identity, error) {
	if role == "" {
		return s.identityRepo.GetAll(ctx)
	}

	roleType := models.RoleType(role)
	if !models.ValidRole(roleType) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role: %s", role))
	}
	return s.identityRepo.GetByRole(ctx, roleType)
}

// Search returns identities whose name contains the given fragment
func (s *DirectoryService) Search(ctx context.Context, fragment string) ([]*models.Identity, error) {
	identities, err := s.identityRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(fragment)
	matched := []*models.Identity{}
	for _, identity := range identities {
		if strings.Contains(strings.ToLower(identity.Name), needle) {
			matched = append(matched, identity)
		}
	}
	return matched, nil
}

// Update applies the requested edits to an identity. Role changes are only
// honored when the requester is an admin.
func (s *DirectoryService) Update(ctx context.Context, requester *models.Identity, id int64, req *dto.UpdateIdentityRequest) (*models.Identity, error) {
	identity, err := s.identityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if requester.ID != identity.ID && requester.Role != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only admins can edit other identities")
	}

	if req.Name != nil {
		if err := s.validateName(*req.Name); err != nil {
			return nil, err
		}
		identity.Name = *req.Name
	}
	if req.Email != nil {
		identity.Email = req.Email
	}
	if req.Role != nil {
		if requester.Role != models.RoleAdmin {
			return nil, apperrors.NewForbiddenError("only admins can change roles")
		}
		role := models.RoleType(*req.Role)
		if !models.ValidRole(role) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role: %s", *req.Role))
		}
		identity.Role = role
	}

	if err := s.identityRepo.Update(ctx, identity); err != nil {
		return nil, err
	}

	return identity, nil
}
