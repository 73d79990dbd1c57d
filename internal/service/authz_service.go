package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/repository"
)

// Authorizer is the single source of truth for administrative access. The
// role-based check and the bootstrap admin email both resolve here so the
// two mechanisms can never drift apart.
type Authorizer interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

type authorizer struct {
	users               repository.UserRepository
	bootstrapAdminEmail string
	logger              zerolog.Logger
}

// NewAuthorizer constructs the authorizer. bootstrapAdminEmail may be empty,
// in which case only role-based access applies.
func NewAuthorizer(users repository.UserRepository, bootstrapAdminEmail string, logger zerolog.Logger) Authorizer {
	return &authorizer{
		users:               users,
		bootstrapAdminEmail: strings.ToLower(strings.TrimSpace(bootstrapAdminEmail)),
		logger:              logger.With().Str("component", "authorizer").Logger(),
	}
}

// IsAdmin reports whether the account is active and holds an administrative
// role, or matches the configured bootstrap admin email. Unknown accounts
// and lookup failures resolve to false: access checks fail closed.
func (a *authorizer) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if !user.Actif {
		return false, nil
	}

	if user.IsAdmin() {
		return true, nil
	}

	if a.bootstrapAdminEmail != "" && strings.ToLower(user.Email) == a.bootstrapAdminEmail {
		a.logger.Debug().Uint("user_id", userID).Msg("access granted via bootstrap admin email")
		return true, nil
	}

	return false, nil
}
