package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

func setupAuthorizer(t *testing.T, bootstrapEmail string) (*gorm.DB, Authorizer) {
	t.Helper()

	db := openTestDB(t, "authz", &models.Role{}, &models.User{})
	return db, NewAuthorizer(repository.NewUserRepository(db), bootstrapEmail, zerolog.Nop())
}

func seedAccount(t *testing.T, db *gorm.DB, email string, actif bool, roleTypes ...models.TypeRole) models.User {
	t.Helper()

	user := models.User{Nom: "Test", Prenom: "Compte", Email: email, PasswordHash: "x", Actif: actif}
	require.NoError(t, db.Create(&user).Error)

	for _, roleType := range roleTypes {
		role := models.Role{Nom: string(roleType), Type: roleType}
		require.NoError(t, db.Create(&role).Error)
		require.NoError(t, db.Model(&user).Association("Roles").Append(&role))
	}

	return user
}

func TestAuthorizerGrantsAdminRoles(t *testing.T) {
	db, authorizer := setupAuthorizer(t, "")
	ctx := context.Background()

	admin := seedAccount(t, db, "admin@heec.ma", true, models.RoleAdministrateur)
	director := seedAccount(t, db, "dg@heec.ma", true, models.RoleDirecteurGeneral)
	teacher := seedAccount(t, db, "prof@heec.ma", true, models.RoleEnseignant)

	granted, err := authorizer.IsAdmin(ctx, admin.ID)
	require.NoError(t, err)
	require.True(t, granted)

	granted, err = authorizer.IsAdmin(ctx, director.ID)
	require.NoError(t, err)
	require.True(t, granted)

	granted, err = authorizer.IsAdmin(ctx, teacher.ID)
	require.NoError(t, err)
	require.False(t, granted)
}

func TestAuthorizerRefusesInactiveAdmin(t *testing.T) {
	db, authorizer := setupAuthorizer(t, "")

	admin := seedAccount(t, db, "admin@heec.ma", false, models.RoleAdministrateur)

	granted, err := authorizer.IsAdmin(context.Background(), admin.ID)
	require.NoError(t, err)
	require.False(t, granted)
}

func TestAuthorizerGrantsBootstrapEmail(t *testing.T) {
	db, authorizer := setupAuthorizer(t, "Fondateur@HEEC.ma")

	// No admin role, but the configured bootstrap address.
	founder := seedAccount(t, db, "fondateur@heec.ma", true)

	granted, err := authorizer.IsAdmin(context.Background(), founder.ID)
	require.NoError(t, err)
	require.True(t, granted)
}

func TestAuthorizerFailsClosedOnUnknownAccount(t *testing.T) {
	_, authorizer := setupAuthorizer(t, "fondateur@heec.ma")

	granted, err := authorizer.IsAdmin(context.Background(), 4242)
	require.NoError(t, err)
	require.False(t, granted)
}
