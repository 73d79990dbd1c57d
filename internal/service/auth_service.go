package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

// AuthService authenticates portal accounts and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest, meta ActivityActor) (dto.LoginResponse, error)
	Logout(ctx context.Context, actor ActivityActor)
}

type authService struct {
	users    repository.UserRepository
	activity ActivityRecorder
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, activity ActivityRecorder, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:    users,
		activity: activity,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger.With().Str("component", "auth_service").Logger(),
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest, meta ActivityActor) (dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if !user.Actif {
		return dto.LoginResponse{}, ErrAccountDisabled
	}

	token, err := s.signToken(user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	meta.ID = user.ID
	s.activity.Record(ctx, ActivityEntry{
		Actor:       meta,
		Action:      models.ActionLogin,
		EntityType:  models.EntityUser,
		EntityID:    &user.ID,
		EntityName:  user.FullName(),
		Description: "Connexion au portail",
	})

	return dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) Logout(ctx context.Context, actor ActivityActor) {
	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionLogout,
		EntityType:  models.EntityUser,
		EntityID:    &actor.ID,
		Description: "Déconnexion du portail",
	})
}

func (s *authService) signToken(user models.User) (string, error) {
	issuedAt := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign token")
		return "", err
	}

	return signed, nil
}
