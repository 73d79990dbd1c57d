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

type seanceFixture struct {
	db      *gorm.DB
	service SeanceService
	modules repository.ModuleRepository
	module  models.Module
	teacher models.User
}

func setupSeanceService(t *testing.T) seanceFixture {
	t.Helper()

	db := openTestDB(t, "seance",
		&models.Departement{}, &models.Filiere{}, &models.Module{},
		&models.Role{}, &models.User{}, &models.Seance{},
	)

	departement := models.Departement{Nom: "Sciences"}
	require.NoError(t, db.Create(&departement).Error)

	filiere := models.Filiere{Nom: "Génie Logiciel", DepartementID: departement.ID}
	require.NoError(t, db.Create(&filiere).Error)

	module := models.Module{Nom: "Algorithmique", Code: "ALG101", FiliereID: filiere.ID}
	require.NoError(t, db.Create(&module).Error)

	role := models.Role{Nom: "Enseignant", Type: models.RoleEnseignant}
	require.NoError(t, db.Create(&role).Error)

	teacher := models.User{
		Nom: "Alaoui", Prenom: "Sara",
		Email: "sara.alaoui@heec.ma", PasswordHash: "x", Actif: true,
	}
	require.NoError(t, db.Create(&teacher).Error)
	require.NoError(t, db.Model(&teacher).Association("Roles").Append(&role))
	require.NoError(t, db.Model(&module).Association("Enseignants").Append(&teacher))

	seanceRepo := repository.NewSeanceRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	userRepo := repository.NewUserRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())

	service := NewSeanceService(seanceRepo, moduleRepo, userRepo, validate, &stubActivityRecorder{}, zerolog.Nop())

	return seanceFixture{db: db, service: service, modules: moduleRepo, module: module, teacher: teacher}
}

func (f seanceFixture) createRequest(date, debut, fin string) dto.SeanceCreateRequest {
	return dto.SeanceCreateRequest{
		Titre:        "Cours d'algorithmique",
		DateSeance:   date,
		HeureDebut:   debut,
		HeureFin:     fin,
		Salle:        "B204",
		ModuleID:     f.module.ID,
		EnseignantID: f.teacher.ID,
	}
}

func TestSeanceServiceCreate(t *testing.T) {
	f := setupSeanceService(t)

	response, err := f.service.Create(context.Background(), f.createRequest("2025-03-10", "09:00", "10:00"), ActivityActor{ID: 1})
	require.NoError(t, err)
	require.Equal(t, "Cours d'algorithmique", response.Titre)
	require.Equal(t, "COURS", response.Type)
	require.Equal(t, f.module.ID, response.ModuleID)
	require.Equal(t, f.teacher.ID, response.Enseignant.ID)
	require.Equal(t, 9, response.HeureDebut.Hour())
	require.Equal(t, 10, response.HeureFin.Hour())
}

func TestSeanceServiceCreateRejectsOverlap(t *testing.T) {
	f := setupSeanceService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	_, err := f.service.Create(ctx, f.createRequest("2025-03-10", "09:00", "10:00"), actor)
	require.NoError(t, err)

	// Straddles the start of the existing window.
	_, err = f.service.Create(ctx, f.createRequest("2025-03-10", "08:00", "09:30"), actor)
	require.ErrorIs(t, err, ErrScheduleConflict)

	// Straddles the end.
	_, err = f.service.Create(ctx, f.createRequest("2025-03-10", "09:30", "10:30"), actor)
	require.ErrorIs(t, err, ErrScheduleConflict)

	// Fully contains the existing window.
	_, err = f.service.Create(ctx, f.createRequest("2025-03-10", "08:30", "10:30"), actor)
	require.ErrorIs(t, err, ErrScheduleConflict)

	// Fully inside the existing window.
	_, err = f.service.Create(ctx, f.createRequest("2025-03-10", "09:15", "09:45"), actor)
	require.ErrorIs(t, err, ErrScheduleConflict)
}

func TestSeanceServiceCreateAllowsTouchingWindows(t *testing.T) {
	f := setupSeanceService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	_, err := f.service.Create(ctx, f.createRequest("2025-03-10", "09:00", "10:00"), actor)
	require.NoError(t, err)

	// A window starting exactly when the other ends is not a conflict.
	_, err = f.service.Create(ctx, f.createRequest("2025-03-10", "10:00", "11:00"), actor)
	require.NoError(t, err)

	// Same window on another day is fine too.
	_, err = f.service.Create(ctx, f.createRequest("2025-03-11", "09:00", "10:00"), actor)
	require.NoError(t, err)
}

func TestSeanceServiceCreateRejectsInvertedWindow(t *testing.T) {
	f := setupSeanceService(t)

	_, err := f.service.Create(context.Background(), f.createRequest("2025-03-10", "10:00", "09:00"), ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrInvalidSeanceWindow)

	_, err = f.service.Create(context.Background(), f.createRequest("2025-03-10", "10:00", "10:00"), ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrInvalidSeanceWindow)
}

func TestSeanceServiceCreateRejectsIneligibleTeacher(t *testing.T) {
	f := setupSeanceService(t)
	ctx := context.Background()

	outsider := models.User{Nom: "Benani", Prenom: "Karim", Email: "karim.benani@heec.ma", PasswordHash: "x", Actif: true}
	require.NoError(t, f.db.Create(&outsider).Error)

	payload := f.createRequest("2025-03-10", "09:00", "10:00")
	payload.EnseignantID = outsider.ID
	_, err := f.service.Create(ctx, payload, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrTeacherNotEligible)

	// A deactivated teacher cannot be scheduled even while still assigned.
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", f.teacher.ID).Update("actif", false).Error)
	_, err = f.service.Create(ctx, f.createRequest("2025-03-10", "09:00", "10:00"), ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrTeacherNotEligible)
}

func TestSeanceServiceUpdateExcludesOwnWindow(t *testing.T) {
	f := setupSeanceService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	created, err := f.service.Create(ctx, f.createRequest("2025-03-10", "09:00", "10:00"), actor)
	require.NoError(t, err)

	// Re-saving a séance on its own window must not conflict with itself.
	salle := "C101"
	updated, err := f.service.Update(ctx, created.ID, dto.SeanceUpdateRequest{Salle: &salle}, actor)
	require.NoError(t, err)
	require.Equal(t, "C101", updated.Salle)

	// Shifting inside its own window is also fine.
	debut := "09:15"
	updated, err = f.service.Update(ctx, created.ID, dto.SeanceUpdateRequest{HeureDebut: &debut}, actor)
	require.NoError(t, err)
	require.Equal(t, 15, updated.HeureDebut.Minute())
}

func TestSeanceServiceUpdateRejectsOverlapWithOtherSeance(t *testing.T) {
	f := setupSeanceService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	_, err := f.service.Create(ctx, f.createRequest("2025-03-10", "09:00", "10:00"), actor)
	require.NoError(t, err)

	second, err := f.service.Create(ctx, f.createRequest("2025-03-10", "11:00", "12:00"), actor)
	require.NoError(t, err)

	debut := "09:30"
	fin := "10:30"
	_, err = f.service.Update(ctx, second.ID, dto.SeanceUpdateRequest{HeureDebut: &debut, HeureFin: &fin}, actor)
	require.ErrorIs(t, err, ErrScheduleConflict)
}

func TestSeanceServiceDelete(t *testing.T) {
	f := setupSeanceService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	created, err := f.service.Create(ctx, f.createRequest("2025-03-10", "09:00", "10:00"), actor)
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, created.ID, actor))
	require.ErrorIs(t, f.service.Delete(ctx, created.ID, actor), ErrSeanceNotFound)

	_, err = f.service.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrSeanceNotFound)
}

// Known limitation: conflict detection is a read followed by a separate
// insert. Two overlapping creations racing through that window can both pass
// the check, and the store carries no exclusion constraint that would catch
// the second write. This is accepted rather than fixed; what the service
// does guarantee is that sequential requests are always rejected. The test
// pins both halves: the store accepts overlapping rows when the check is
// bypassed, and the very next request through the service still sees the
// conflict.
func TestSeanceServiceConflictCheckWindowIsNotSerialized(t *testing.T) {
	f := setupSeanceService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	created, err := f.service.Create(ctx, f.createRequest("2025-03-10", "09:00", "10:00"), actor)
	require.NoError(t, err)

	// A write landing between another request's check and insert goes
	// straight to the store; nothing below the service refuses it.
	day, debut, fin, err := ParseSeanceWindow("2025-03-10", "09:30", "10:30")
	require.NoError(t, err)
	racer := models.Seance{
		Titre: "Cours d'algorithmique", DateSeance: day,
		HeureDebut: debut, HeureFin: fin,
		Type: models.SeanceCours, ModuleID: f.module.ID, EnseignantID: f.teacher.ID,
	}
	require.NoError(t, f.db.Create(&racer).Error)

	var overlapping int64
	require.NoError(t, f.db.Model(&models.Seance{}).Where("date_seance = ?", day).Count(&overlapping).Error)
	require.EqualValues(t, 2, overlapping)
	require.True(t, racer.Overlaps(created.HeureDebut, created.HeureFin))

	// Once the row exists, every later request sees it.
	_, err = f.service.Create(ctx, f.createRequest("2025-03-10", "09:45", "10:15"), actor)
	require.ErrorIs(t, err, ErrScheduleConflict)
}

// The repository's three-clause SQL must agree with the pure half-open
// window comparison on every boundary shape.
func TestSeanceRepositoryConflictMatchesOverlaps(t *testing.T) {
	f := setupSeanceService(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, f.createRequest("2025-03-10", "09:00", "10:00"), ActivityActor{ID: 1})
	require.NoError(t, err)

	var stored models.Seance
	require.NoError(t, f.db.First(&stored).Error)

	repo := repository.NewSeanceRepository(f.db)
	windows := []struct{ debut, fin string }{
		{"08:00", "09:00"}, // touches the start
		{"08:00", "09:01"}, // straddles the start
		{"09:00", "10:00"}, // identical
		{"09:15", "09:45"}, // contained
		{"08:30", "10:30"}, // containing
		{"09:59", "11:00"}, // straddles the end
		{"10:00", "11:00"}, // touches the end
		{"10:01", "11:00"}, // clear of the window
	}

	for _, w := range windows {
		day, debut, fin, err := ParseSeanceWindow("2025-03-10", w.debut, w.fin)
		require.NoError(t, err)

		got, err := repo.HasConflict(ctx, f.teacher.ID, day, debut, fin, nil)
		require.NoError(t, err)
		require.Equal(t, stored.Overlaps(debut, fin), got, "window %s-%s", w.debut, w.fin)
	}
}

func TestSeanceServiceAvailableTeachers(t *testing.T) {
	f := setupSeanceService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	role := models.Role{Nom: "Enseignant vacataire", Type: models.RoleEnseignant}
	require.NoError(t, f.db.Create(&role).Error)

	free := models.User{Nom: "Idrissi", Prenom: "Nadia", Email: "nadia.idrissi@heec.ma", PasswordHash: "x", Actif: true}
	require.NoError(t, f.db.Create(&free).Error)
	require.NoError(t, f.db.Model(&free).Association("Roles").Append(&role))

	module := f.module
	require.NoError(t, f.db.Model(&module).Association("Enseignants").Append(&free))

	_, err := f.service.Create(ctx, f.createRequest("2025-03-10", "09:00", "10:00"), actor)
	require.NoError(t, err)

	day, debut, fin, err := ParseSeanceWindow("2025-03-10", "09:30", "10:30")
	require.NoError(t, err)

	available, err := f.service.AvailableTeachers(ctx, f.module.ID, day, debut, fin)
	require.NoError(t, err)
	require.Len(t, available, 1)
	require.Equal(t, free.ID, available[0].ID)
}
