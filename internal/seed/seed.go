package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/deniz/fleettrack/internal/app/models"
	appRepos "github.com/deniz/fleettrack/internal/app/repositories"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
	"github.com/deniz/fleettrack/internal/pkg/auth"
)

const (
	defaultAdminEmail = "admin@fleettrack.local"
	defaultAdminPhone = "+905550000000"
)

// CreateDefaultData ensures a default admin account exists so the
// system can be administered on a fresh database.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	password := os.Getenv("ADMIN_DEFAULT_PASSWORD")
	if password == "" {
		password = "change-me-now"
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		FullName:    "System Administrator",
		Email:       defaultAdminEmail,
		PhoneNumber: defaultAdminPhone,
		Password:    hashed,
		Role:        appModels.RoleAdmin,
	}

	err = userRepo.Create(ctx, admin)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) || errors.Is(err, apperrors.ErrPhoneAlreadyExists) {
			lgr.Debug().Str("email", defaultAdminEmail).Msg("Default admin already present")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default admin")
		return err
	}

	lgr.Info().Str("email", defaultAdminEmail).Msg("Default admin account created")
	return nil
}
