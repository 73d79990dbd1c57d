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

func setupFiliereService(t *testing.T) (*gorm.DB, FiliereService, models.Departement) {
	t.Helper()

	db := openTestDB(t, "filiere",
		&models.Departement{}, &models.Filiere{}, &models.Module{}, &models.User{},
	)

	departement := models.Departement{Nom: "Économie"}
	require.NoError(t, db.Create(&departement).Error)

	validate := validator.New(validator.WithRequiredStructEnabled())
	service := NewFiliereService(
		repository.NewFiliereRepository(db),
		repository.NewDepartementRepository(db),
		validate, &stubActivityRecorder{}, zerolog.Nop(),
	)

	return db, service, departement
}

func TestFiliereServiceCreateRequiresExistingDepartement(t *testing.T) {
	_, service, departement := setupFiliereService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	created, err := service.Create(ctx, dto.FiliereCreateRequest{
		Nom:           "Finance",
		DepartementID: departement.ID,
	}, actor)
	require.NoError(t, err)
	require.Equal(t, departement.Nom, created.DepartementNom)

	_, err = service.Create(ctx, dto.FiliereCreateRequest{
		Nom:           "Comptabilité",
		DepartementID: 9999,
	}, actor)
	require.ErrorIs(t, err, ErrDepartementNotFound)
}

func TestFiliereServiceUpdateRequiresExistingDepartement(t *testing.T) {
	_, service, departement := setupFiliereService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	created, err := service.Create(ctx, dto.FiliereCreateRequest{Nom: "Finance", DepartementID: departement.ID}, actor)
	require.NoError(t, err)

	missing := uint(9999)
	_, err = service.Update(ctx, created.ID, dto.FiliereUpdateRequest{DepartementID: &missing}, actor)
	require.ErrorIs(t, err, ErrDepartementNotFound)
}

func TestFiliereServiceDeleteGuards(t *testing.T) {
	db, service, departement := setupFiliereService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	created, err := service.Create(ctx, dto.FiliereCreateRequest{Nom: "Finance", DepartementID: departement.ID}, actor)
	require.NoError(t, err)

	module := models.Module{Nom: "Comptabilité générale", Code: "CPT101", FiliereID: created.ID}
	require.NoError(t, db.Create(&module).Error)

	err = service.Delete(ctx, created.ID, actor)
	require.True(t, IsDependentsError(err))
	require.Contains(t, err.Error(), "modules")

	require.NoError(t, db.Delete(&models.Module{}, module.ID).Error)

	student := models.User{Nom: "Berrada", Prenom: "Omar", Email: "omar@heec.ma", PasswordHash: "x", Actif: true, FiliereID: &created.ID}
	require.NoError(t, db.Create(&student).Error)

	err = service.Delete(ctx, created.ID, actor)
	require.True(t, IsDependentsError(err))
	require.Contains(t, err.Error(), "utilisateurs")

	require.NoError(t, db.Model(&student).Update("filiere_id", nil).Error)
	require.NoError(t, service.Delete(ctx, created.ID, actor))

	_, err = service.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrFiliereNotFound)
}
