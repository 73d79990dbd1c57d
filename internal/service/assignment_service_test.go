package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

type assignmentFixture struct {
	db       *gorm.DB
	service  AssignmentService
	activity *stubActivityRecorder
	module   models.Module
	filiere  models.Filiere
	teacher  models.User
	staff    models.User
}

func setupAssignmentService(t *testing.T) assignmentFixture {
	t.Helper()

	db := openTestDB(t, "assignment",
		&models.Departement{}, &models.Filiere{}, &models.Module{},
		&models.Role{}, &models.User{}, &models.Seance{},
	)

	departement := models.Departement{Nom: "Gestion"}
	require.NoError(t, db.Create(&departement).Error)

	filiere := models.Filiere{Nom: "Finance", DepartementID: departement.ID}
	require.NoError(t, db.Create(&filiere).Error)

	module := models.Module{Nom: "Comptabilité", Code: "CPT201", FiliereID: filiere.ID}
	require.NoError(t, db.Create(&module).Error)

	role := models.Role{Nom: "Enseignant", Type: models.RoleEnseignant}
	require.NoError(t, db.Create(&role).Error)

	teacher := models.User{Nom: "Tazi", Prenom: "Omar", Email: "omar.tazi@heec.ma", PasswordHash: "x", Actif: true}
	require.NoError(t, db.Create(&teacher).Error)
	require.NoError(t, db.Model(&teacher).Association("Roles").Append(&role))

	staff := models.User{Nom: "Fassi", Prenom: "Leila", Email: "leila.fassi@heec.ma", PasswordHash: "x", Actif: true}
	require.NoError(t, db.Create(&staff).Error)

	activity := &stubActivityRecorder{}
	service := NewAssignmentService(
		repository.NewModuleRepository(db),
		repository.NewUserRepository(db),
		repository.NewFiliereRepository(db),
		repository.NewSeanceRepository(db),
		activity,
		zerolog.Nop(),
	)
	if concrete, ok := service.(*assignmentService); ok {
		concrete.now = func() time.Time { return time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC) }
	}

	return assignmentFixture{db: db, service: service, activity: activity, module: module, filiere: filiere, teacher: teacher, staff: staff}
}

func TestAssignTeacherToModule(t *testing.T) {
	f := setupAssignmentService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	require.NoError(t, f.service.AssignTeacherToModule(ctx, f.module.ID, f.teacher.ID, actor))

	teachers, err := f.service.ModuleTeachers(ctx, f.module.ID)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	require.Equal(t, f.teacher.ID, teachers[0].ID)

	require.Len(t, f.activity.entries, 1)
	require.Equal(t, models.ActionAssign, f.activity.entries[0].Action)
	require.Equal(t, models.EntityModule, f.activity.entries[0].EntityType)
}

func TestAssignTeacherToModuleRejectsDuplicate(t *testing.T) {
	f := setupAssignmentService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	require.NoError(t, f.service.AssignTeacherToModule(ctx, f.module.ID, f.teacher.ID, actor))
	require.ErrorIs(t, f.service.AssignTeacherToModule(ctx, f.module.ID, f.teacher.ID, actor), ErrAlreadyAssigned)
}

func TestAssignTeacherToModuleRejectsNonTeacher(t *testing.T) {
	f := setupAssignmentService(t)

	err := f.service.AssignTeacherToModule(context.Background(), f.module.ID, f.staff.ID, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrNotATeacher)
}

func TestUnassignTeacherBlockedByFutureSeances(t *testing.T) {
	f := setupAssignmentService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	require.NoError(t, f.service.AssignTeacherToModule(ctx, f.module.ID, f.teacher.ID, actor))

	day := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	seance := models.Seance{
		Titre:        "Contrôle continu",
		DateSeance:   day,
		HeureDebut:   day.Add(9 * time.Hour),
		HeureFin:     day.Add(11 * time.Hour),
		Type:         models.SeanceExamen,
		ModuleID:     f.module.ID,
		EnseignantID: f.teacher.ID,
	}
	require.NoError(t, f.db.Create(&seance).Error)

	err := f.service.UnassignTeacherFromModule(ctx, f.module.ID, f.teacher.ID, actor)
	require.ErrorIs(t, err, ErrHasFutureSessions)

	// Once the future séance is gone the removal goes through.
	require.NoError(t, f.db.Delete(&models.Seance{}, seance.ID).Error)
	require.NoError(t, f.service.UnassignTeacherFromModule(ctx, f.module.ID, f.teacher.ID, actor))
}

func TestUnassignTeacherIgnoresPastSeances(t *testing.T) {
	f := setupAssignmentService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	require.NoError(t, f.service.AssignTeacherToModule(ctx, f.module.ID, f.teacher.ID, actor))

	day := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Create(&models.Seance{
		Titre:        "Séance passée",
		DateSeance:   day,
		HeureDebut:   day.Add(9 * time.Hour),
		HeureFin:     day.Add(10 * time.Hour),
		Type:         models.SeanceCours,
		ModuleID:     f.module.ID,
		EnseignantID: f.teacher.ID,
	}).Error)

	require.NoError(t, f.service.UnassignTeacherFromModule(ctx, f.module.ID, f.teacher.ID, actor))
}

func TestUnassignTeacherRequiresExistingAssignment(t *testing.T) {
	f := setupAssignmentService(t)

	err := f.service.UnassignTeacherFromModule(context.Background(), f.module.ID, f.teacher.ID, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrNotAssigned)
}

func TestAssignTeacherToFiliereCascadesDepartement(t *testing.T) {
	f := setupAssignmentService(t)

	summary, err := f.service.AssignTeacherToFiliere(context.Background(), f.filiere.ID, f.teacher.ID, ActivityActor{ID: 1})
	require.NoError(t, err)
	require.NotNil(t, summary.FiliereID)
	require.Equal(t, f.filiere.ID, *summary.FiliereID)
	require.NotNil(t, summary.DepartementID)
	require.Equal(t, f.filiere.DepartementID, *summary.DepartementID)
}

func TestAssignTeacherToFiliereRejectsNonTeacher(t *testing.T) {
	f := setupAssignmentService(t)

	_, err := f.service.AssignTeacherToFiliere(context.Background(), f.filiere.ID, f.staff.ID, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrNotATeacher)
}
