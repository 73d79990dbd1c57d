package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

func setupModuleService(t *testing.T) (*gorm.DB, ModuleService, models.Filiere) {
	t.Helper()

	db := openTestDB(t, "module",
		&models.Departement{}, &models.Filiere{}, &models.Module{}, &models.User{}, &models.Seance{},
	)

	departement := models.Departement{Nom: "Sciences"}
	require.NoError(t, db.Create(&departement).Error)

	filiere := models.Filiere{Nom: "Data Science", DepartementID: departement.ID}
	require.NoError(t, db.Create(&filiere).Error)

	validate := validator.New(validator.WithRequiredStructEnabled())
	service := NewModuleService(
		repository.NewModuleRepository(db),
		repository.NewFiliereRepository(db),
		validate, &stubActivityRecorder{}, zerolog.Nop(),
	)

	return db, service, filiere
}

func TestModuleServiceCreateUppercasesCode(t *testing.T) {
	_, service, filiere := setupModuleService(t)

	response, err := service.Create(context.Background(), dto.ModuleCreateRequest{
		Nom:       "Statistiques",
		Code:      " sta101 ",
		FiliereID: filiere.ID,
	}, ActivityActor{ID: 1})
	require.NoError(t, err)
	require.Equal(t, "STA101", response.Code)
	require.Equal(t, filiere.Nom, response.FiliereNom)
}

func TestModuleServiceCreateRequiresExistingFiliere(t *testing.T) {
	_, service, _ := setupModuleService(t)

	_, err := service.Create(context.Background(), dto.ModuleCreateRequest{
		Nom:       "Statistiques",
		Code:      "STA101",
		FiliereID: 9999,
	}, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrFiliereNotFound)
}

func TestModuleServiceDeleteGuardedBySeances(t *testing.T) {
	db, service, filiere := setupModuleService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	created, err := service.Create(ctx, dto.ModuleCreateRequest{Nom: "Statistiques", Code: "STA101", FiliereID: filiere.ID}, actor)
	require.NoError(t, err)

	teacher := models.User{Nom: "Idrissi", Prenom: "Nadia", Email: "nadia@heec.ma", PasswordHash: "x", Actif: true}
	require.NoError(t, db.Create(&teacher).Error)

	day := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)
	seance := models.Seance{
		Titre: "TD de statistiques", DateSeance: day,
		HeureDebut: day.Add(9 * time.Hour), HeureFin: day.Add(10 * time.Hour),
		Type: models.SeanceTD, ModuleID: created.ID, EnseignantID: teacher.ID,
	}
	require.NoError(t, db.Create(&seance).Error)

	err = service.Delete(ctx, created.ID, actor)
	require.True(t, IsDependentsError(err))
	require.Contains(t, err.Error(), "séances")

	require.NoError(t, db.Delete(&models.Seance{}, seance.ID).Error)
	require.NoError(t, service.Delete(ctx, created.ID, actor))
}
