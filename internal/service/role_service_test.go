package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

func setupRoleService(t *testing.T) (*gorm.DB, RoleService) {
	t.Helper()

	db := openTestDB(t, "role", &models.Role{}, &models.User{})
	validate := validator.New(validator.WithRequiredStructEnabled())
	service := NewRoleService(repository.NewRoleRepository(db), validate, &stubActivityRecorder{}, zerolog.Nop())

	return db, service
}

func TestRoleServiceCreateNormalisesType(t *testing.T) {
	_, service := setupRoleService(t)

	response, err := service.Create(context.Background(), dto.RoleCreateRequest{
		Nom:  "Enseignant permanent",
		Type: " enseignant ",
	}, ActivityActor{ID: 1})
	require.NoError(t, err)
	require.Equal(t, "ENSEIGNANT", response.Type)
	require.Equal(t, "Enseignant", response.Label)
}

func TestRoleServiceCreateRejectsUnknownType(t *testing.T) {
	_, service := setupRoleService(t)

	_, err := service.Create(context.Background(), dto.RoleCreateRequest{
		Nom:  "Concierge",
		Type: "CONCIERGE",
	}, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrInvalidRoleType)
}

func TestRoleServiceDeleteGuardedByUsers(t *testing.T) {
	db, service := setupRoleService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	created, err := service.Create(ctx, dto.RoleCreateRequest{Nom: "Administrateur", Type: "ADMINISTRATEUR"}, actor)
	require.NoError(t, err)

	user := models.User{Nom: "Fassi", Prenom: "Leila", Email: "leila@heec.ma", PasswordHash: "x", Actif: true}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Model(&user).Association("Roles").Append(&models.Role{ID: created.ID}))

	err = service.Delete(ctx, created.ID, actor)
	require.True(t, IsDependentsError(err))
	require.Contains(t, err.Error(), "utilisateurs")

	require.NoError(t, db.Model(&user).Association("Roles").Clear())
	require.NoError(t, service.Delete(ctx, created.ID, actor))
}

func TestRoleServiceListByType(t *testing.T) {
	_, service := setupRoleService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	_, err := service.Create(ctx, dto.RoleCreateRequest{Nom: "Enseignant permanent", Type: "ENSEIGNANT"}, actor)
	require.NoError(t, err)
	_, err = service.Create(ctx, dto.RoleCreateRequest{Nom: "Directeur", Type: "DIRECTEUR_GENERAL"}, actor)
	require.NoError(t, err)

	roles, err := service.ListByType(ctx, "enseignant")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Equal(t, "Enseignant permanent", roles[0].Nom)

	_, err = service.ListByType(ctx, "INCONNU")
	require.ErrorIs(t, err, ErrInvalidRoleType)
}
