package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

// UserService manages portal accounts: CRUD, activation toggling, and role
// membership. The activation toggle refuses to act on the caller's own
// account so an administrator cannot lock themselves out.
type UserService interface {
	Create(ctx context.Context, payload dto.UserCreateRequest, actor ActivityActor) (dto.UserResponse, error)
	Get(ctx context.Context, id uint) (dto.UserResponse, error)
	List(ctx context.Context, req dto.ListRequest, opts UserListOptions) (dto.UserListResponse, error)
	ListTeachers(ctx context.Context) ([]dto.TeacherSummary, error)
	Update(ctx context.Context, id uint, payload dto.UserUpdateRequest, actor ActivityActor) (dto.UserResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
	ToggleActiveStatus(ctx context.Context, id uint, actor ActivityActor) (dto.UserResponse, error)
	AssignRole(ctx context.Context, userID, roleID uint, actor ActivityActor) error
	RemoveRole(ctx context.Context, userID, roleID uint, actor ActivityActor) error
}

// UserListOptions narrows the paginated account listing.
type UserListOptions struct {
	Actif         *bool
	DepartementID *uint
	FiliereID     *uint
}

type userService struct {
	repo       repository.UserRepository
	roles      repository.RoleRepository
	validator  *validator.Validate
	activity   ActivityRecorder
	bcryptCost int
	logger     zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(repo repository.UserRepository, roles repository.RoleRepository, validate *validator.Validate, activity ActivityRecorder, bcryptCost int, logger zerolog.Logger) UserService {
	return &userService{
		repo:       repo,
		roles:      roles,
		validator:  validate,
		activity:   activity,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) Create(ctx context.Context, payload dto.UserCreateRequest, actor ActivityActor) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return dto.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.bcryptCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	actif := true
	if payload.Actif != nil {
		actif = *payload.Actif
	}

	user := models.User{
		Nom:           strings.TrimSpace(payload.Nom),
		Prenom:        strings.TrimSpace(payload.Prenom),
		Email:         email,
		PasswordHash:  string(hash),
		Actif:         actif,
		DepartementID: payload.DepartementID,
		FiliereID:     payload.FiliereID,
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionCreate,
		EntityType:  models.EntityUser,
		EntityID:    &user.ID,
		EntityName:  user.FullName(),
		Description: "Création de l'utilisateur " + user.FullName(),
		Metadata:    map[string]interface{}{"email": user.Email},
	})

	return dto.NewUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, req dto.ListRequest, opts UserListOptions) (dto.UserListResponse, error) {
	filter := repository.UserFilter{
		Search:        strings.TrimSpace(req.Search),
		Actif:         opts.Actif,
		DepartementID: opts.DepartementID,
		FiliereID:     opts.FiliereID,
		Sort:          sortClause(req.SortBy, req.SortOrder),
		Page:          req.Page,
		PageSize:      req.PageSize,
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.UserListResponse{}, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	return dto.UserListResponse{
		Items:      responses,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

// ListTeachers returns every active account holding the ENSEIGNANT role.
func (s *userService) ListTeachers(ctx context.Context) ([]dto.TeacherSummary, error) {
	actif := true
	users, _, err := s.repo.List(ctx, repository.UserFilter{Actif: &actif})
	if err != nil {
		return nil, err
	}

	teachers := make([]dto.TeacherSummary, 0, len(users))
	for _, user := range users {
		if user.HasRoleType(models.RoleEnseignant) {
			teachers = append(teachers, dto.NewTeacherSummary(user))
		}
	}

	return teachers, nil
}

func (s *userService) Update(ctx context.Context, id uint, payload dto.UserUpdateRequest, actor ActivityActor) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Nom != nil {
		updates["nom"] = strings.TrimSpace(*payload.Nom)
	}
	if payload.Prenom != nil {
		updates["prenom"] = strings.TrimSpace(*payload.Prenom)
	}
	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		if email != current.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return dto.UserResponse{}, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.UserResponse{}, err
			}
		}
		updates["email"] = email
	}
	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), s.bcryptCost)
		if err != nil {
			return dto.UserResponse{}, err
		}
		updates["password_hash"] = string(hash)
	}
	if payload.DepartementID != nil {
		updates["departement_id"] = *payload.DepartementID
	}
	if payload.FiliereID != nil {
		updates["filiere_id"] = *payload.FiliereID
	}

	if len(updates) == 0 {
		return dto.NewUserResponse(current), nil
	}

	user, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionUpdate,
		EntityType:  models.EntityUser,
		EntityID:    &user.ID,
		EntityName:  user.FullName(),
		Description: "Mise à jour de l'utilisateur " + user.FullName(),
		Metadata:    map[string]interface{}{"fields": updatedFields(updates)},
	})

	return dto.NewUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	if actor.ID == id {
		return ErrSelfModification
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionDelete,
		EntityType:  models.EntityUser,
		EntityID:    &id,
		EntityName:  user.FullName(),
		Description: "Suppression de l'utilisateur " + user.FullName(),
		Metadata:    map[string]interface{}{"email": user.Email},
	})

	return nil
}

// ToggleActiveStatus flips the account's actif flag. The self check runs
// before anything is read or written so a caller targeting their own account
// leaves no trace.
func (s *userService) ToggleActiveStatus(ctx context.Context, id uint, actor ActivityActor) (dto.UserResponse, error) {
	if actor.ID == id {
		return dto.UserResponse{}, ErrSelfModification
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	user, err := s.repo.Update(ctx, id, map[string]interface{}{"actif": !current.Actif})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	action := models.ActionActivate
	description := "Activation du compte de " + user.FullName()
	if !user.Actif {
		action = models.ActionDeactivate
		description = "Désactivation du compte de " + user.FullName()
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      action,
		EntityType:  models.EntityUser,
		EntityID:    &user.ID,
		EntityName:  user.FullName(),
		Description: description,
	})

	return dto.NewUserResponse(user), nil
}

func (s *userService) AssignRole(ctx context.Context, userID, roleID uint, actor ActivityActor) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	has, err := s.repo.HasRole(ctx, userID, roleID)
	if err != nil {
		return err
	}
	if has {
		return ErrAlreadyAssigned
	}

	if err := s.repo.AssignRole(ctx, userID, roleID); err != nil {
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionAssign,
		EntityType:  models.EntityUser,
		EntityID:    &userID,
		EntityName:  user.FullName(),
		Description: "Attribution du rôle " + role.Nom + " à " + user.FullName(),
		Metadata:    map[string]interface{}{"role_id": roleID, "role_type": string(role.Type)},
	})

	return nil
}

func (s *userService) RemoveRole(ctx context.Context, userID, roleID uint, actor ActivityActor) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	has, err := s.repo.HasRole(ctx, userID, roleID)
	if err != nil {
		return err
	}
	if !has {
		return ErrNotAssigned
	}

	if err := s.repo.RemoveRole(ctx, userID, roleID); err != nil {
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionUnassign,
		EntityType:  models.EntityUser,
		EntityID:    &userID,
		EntityName:  user.FullName(),
		Description: "Retrait du rôle " + role.Nom + " de " + user.FullName(),
		Metadata:    map[string]interface{}{"role_id": roleID, "role_type": string(role.Type)},
	})

	return nil
}
