package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

const testJWTSecret = "secret-de-test"

func setupAuthService(t *testing.T) (*gorm.DB, AuthService, *stubActivityRecorder) {
	t.Helper()

	db := openTestDB(t, "auth", &models.Role{}, &models.User{})
	activity := &stubActivityRecorder{}
	service := NewAuthService(repository.NewUserRepository(db), activity, testJWTSecret, time.Hour, zerolog.Nop())

	return db, service, activity
}

func seedCredentials(t *testing.T, db *gorm.DB, email, password string, actif bool) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Nom: "Alami", Prenom: "Rachid", Email: email, PasswordHash: string(hash), Actif: actif}
	require.NoError(t, db.Create(&user).Error)

	return user
}

func TestAuthServiceLoginIssuesToken(t *testing.T) {
	db, service, activity := setupAuthService(t)

	user := seedCredentials(t, db, "rachid@heec.ma", "motdepasse", true)

	response, err := service.Login(context.Background(), dto.LoginRequest{
		Email:    "Rachid@HEEC.ma",
		Password: "motdepasse",
	}, ActivityActor{IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	require.Equal(t, user.ID, response.User.ID)
	require.NotEmpty(t, response.Token)

	token, err := jwt.Parse(response.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.EqualValues(t, user.ID, claims["sub"])
	require.Equal(t, "rachid@heec.ma", claims["email"])

	require.Len(t, activity.entries, 1)
	require.Equal(t, models.ActionLogin, activity.entries[0].Action)
	require.Equal(t, user.ID, activity.entries[0].Actor.ID)
	require.Equal(t, "10.0.0.1", activity.entries[0].Actor.IPAddress)
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	db, service, activity := setupAuthService(t)

	seedCredentials(t, db, "rachid@heec.ma", "motdepasse", true)

	_, err := service.Login(context.Background(), dto.LoginRequest{Email: "rachid@heec.ma", Password: "mauvais"}, ActivityActor{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Empty(t, activity.entries)
}

func TestAuthServiceLoginRejectsUnknownEmail(t *testing.T) {
	_, service, _ := setupAuthService(t)

	_, err := service.Login(context.Background(), dto.LoginRequest{Email: "inconnu@heec.ma", Password: "motdepasse"}, ActivityActor{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginRejectsDisabledAccount(t *testing.T) {
	db, service, _ := setupAuthService(t)

	seedCredentials(t, db, "rachid@heec.ma", "motdepasse", false)

	_, err := service.Login(context.Background(), dto.LoginRequest{Email: "rachid@heec.ma", Password: "motdepasse"}, ActivityActor{})
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthServiceLogoutRecordsAction(t *testing.T) {
	_, service, activity := setupAuthService(t)

	service.Logout(context.Background(), ActivityActor{ID: 12})

	require.Len(t, activity.entries, 1)
	require.Equal(t, models.ActionLogout, activity.entries[0].Action)
	require.Equal(t, uint(12), activity.entries[0].Actor.ID)
}
