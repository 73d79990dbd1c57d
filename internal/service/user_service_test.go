package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

func setupUserService(t *testing.T) (*gorm.DB, UserService, *stubActivityRecorder) {
	t.Helper()

	db := openTestDB(t, "user",
		&models.Departement{}, &models.Filiere{}, &models.Module{},
		&models.Role{}, &models.User{}, &models.Seance{},
	)

	validate := validator.New(validator.WithRequiredStructEnabled())
	activity := &stubActivityRecorder{}
	service := NewUserService(
		repository.NewUserRepository(db),
		repository.NewRoleRepository(db),
		validate, activity, bcrypt.MinCost, zerolog.Nop(),
	)

	return db, service, activity
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	db, service, _ := setupUserService(t)

	response, err := service.Create(context.Background(), dto.UserCreateRequest{
		Nom: "Berrada", Prenom: "Yassine",
		Email:    "Yassine.Berrada@HEEC.ma",
		Password: "motdepasse",
	}, ActivityActor{ID: 1})
	require.NoError(t, err)
	require.Equal(t, "yassine.berrada@heec.ma", response.Email)
	require.True(t, response.Actif)

	var stored models.User
	require.NoError(t, db.First(&stored, response.ID).Error)
	require.NotEqual(t, "motdepasse", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("motdepasse")))
}

func TestUserServiceCreateRejectsDuplicateEmail(t *testing.T) {
	_, service, _ := setupUserService(t)
	ctx := context.Background()

	payload := dto.UserCreateRequest{Nom: "Berrada", Prenom: "Yassine", Email: "y.berrada@heec.ma", Password: "motdepasse"}
	_, err := service.Create(ctx, payload, ActivityActor{ID: 1})
	require.NoError(t, err)

	payload.Email = "Y.BERRADA@heec.ma"
	_, err = service.Create(ctx, payload, ActivityActor{ID: 1})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceToggleActiveStatus(t *testing.T) {
	_, service, activity := setupUserService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, dto.UserCreateRequest{
		Nom: "Berrada", Prenom: "Yassine", Email: "y.berrada@heec.ma", Password: "motdepasse",
	}, ActivityActor{ID: 1})
	require.NoError(t, err)

	toggled, err := service.ToggleActiveStatus(ctx, created.ID, ActivityActor{ID: 99})
	require.NoError(t, err)
	require.False(t, toggled.Actif)

	last := activity.entries[len(activity.entries)-1]
	require.Equal(t, models.ActionDeactivate, last.Action)

	// Toggling again reactivates: the flip is its own inverse.
	toggled, err = service.ToggleActiveStatus(ctx, created.ID, ActivityActor{ID: 99})
	require.NoError(t, err)
	require.True(t, toggled.Actif)

	last = activity.entries[len(activity.entries)-1]
	require.Equal(t, models.ActionActivate, last.Action)
}

func TestUserServiceToggleRefusesOwnAccount(t *testing.T) {
	_, service, activity := setupUserService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, dto.UserCreateRequest{
		Nom: "Berrada", Prenom: "Yassine", Email: "y.berrada@heec.ma", Password: "motdepasse",
	}, ActivityActor{ID: 1})
	require.NoError(t, err)

	recorded := len(activity.entries)

	_, err = service.ToggleActiveStatus(ctx, created.ID, ActivityActor{ID: created.ID})
	require.ErrorIs(t, err, ErrSelfModification)

	// The refusal happens before any mutation or audit write.
	require.Len(t, activity.entries, recorded)
	current, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, current.Actif)
}

func TestUserServiceDeleteRefusesOwnAccount(t *testing.T) {
	_, service, _ := setupUserService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, dto.UserCreateRequest{
		Nom: "Berrada", Prenom: "Yassine", Email: "y.berrada@heec.ma", Password: "motdepasse",
	}, ActivityActor{ID: 1})
	require.NoError(t, err)

	require.ErrorIs(t, service.Delete(ctx, created.ID, ActivityActor{ID: created.ID}), ErrSelfModification)
	require.NoError(t, service.Delete(ctx, created.ID, ActivityActor{ID: 99}))
}

func TestUserServiceRoleMembership(t *testing.T) {
	db, service, _ := setupUserService(t)
	ctx := context.Background()
	actor := ActivityActor{ID: 1}

	role := models.Role{Nom: "Enseignant", Type: models.RoleEnseignant}
	require.NoError(t, db.Create(&role).Error)

	created, err := service.Create(ctx, dto.UserCreateRequest{
		Nom: "Berrada", Prenom: "Yassine", Email: "y.berrada@heec.ma", Password: "motdepasse",
	}, actor)
	require.NoError(t, err)

	require.NoError(t, service.AssignRole(ctx, created.ID, role.ID, actor))
	require.ErrorIs(t, service.AssignRole(ctx, created.ID, role.ID, actor), ErrAlreadyAssigned)

	teachers, err := service.ListTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 1)

	require.NoError(t, service.RemoveRole(ctx, created.ID, role.ID, actor))
	require.ErrorIs(t, service.RemoveRole(ctx, created.ID, role.ID, actor), ErrNotAssigned)
}
