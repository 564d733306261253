// Package seed creates the default records the registry expects at startup.
package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/repositories"
	"github.com/serhiib/registry/internal/config"
	"github.com/serhiib/registry/internal/pkg/apperrors"
	"github.com/serhiib/registry/internal/pkg/auth"
)

// CreateDefaultData creates the default admin identity if it doesn't exist.
// It works through the repository interfaces so both storage drivers get the
// same seed.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, lgr zerolog.Logger) error {
	adminName := config.GetEnv("REGISTRY_ADMIN_NAME", "admin")
	adminPassword := config.GetEnv("REGISTRY_ADMIN_PASSWORD", "admin123")

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.Identity{
		Name:     adminName,
		Role:     models.RoleAdmin,
		Password: hashedPassword,
	}

	if err := repos.Identities.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrNameTaken) {
			lgr.Debug().Str("name", adminName).Msg("Default admin already exists")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default admin")
		return err
	}

	lgr.Info().Str("name", adminName).Msg("Default admin created")
	return nil
}
