package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

// RoleService manages roles. Deleting a role still held by users is refused.
type RoleService interface {
	Create(ctx context.Context, payload dto.RoleCreateRequest, actor ActivityActor) (dto.RoleResponse, error)
	Get(ctx context.Context, id uint) (dto.RoleResponse, error)
	List(ctx context.Context, req dto.ListRequest) (dto.RoleListResponse, error)
	ListByType(ctx context.Context, roleType string) ([]dto.RoleResponse, error)
	Update(ctx context.Context, id uint, payload dto.RoleUpdateRequest, actor ActivityActor) (dto.RoleResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type roleService struct {
	repo      repository.RoleRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewRoleService constructs the role service.
func NewRoleService(repo repository.RoleRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) RoleService {
	return &roleService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "role_service").Logger(),
	}
}

func (s *roleService) Create(ctx context.Context, payload dto.RoleCreateRequest, actor ActivityActor) (dto.RoleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoleResponse{}, err
	}

	roleType := models.TypeRole(strings.ToUpper(strings.TrimSpace(payload.Type)))
	if !roleType.Valid() {
		return dto.RoleResponse{}, ErrInvalidRoleType
	}

	role := models.Role{
		Nom:         strings.TrimSpace(payload.Nom),
		Description: strings.TrimSpace(payload.Description),
		Type:        roleType,
	}

	if err := s.repo.Create(ctx, &role); err != nil {
		return dto.RoleResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionCreate,
		EntityType:  models.EntityRole,
		EntityID:    &role.ID,
		EntityName:  role.Nom,
		Description: "Création du rôle " + role.Nom,
		Metadata:    map[string]interface{}{"type": string(role.Type)},
	})

	return dto.NewRoleResponse(role, 0), nil
}

func (s *roleService) Get(ctx context.Context, id uint) (dto.RoleResponse, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoleResponse{}, ErrRoleNotFound
		}
		return dto.RoleResponse{}, err
	}

	users, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return dto.RoleResponse{}, err
	}

	return dto.NewRoleResponse(role, users), nil
}

func (s *roleService) List(ctx context.Context, req dto.ListRequest) (dto.RoleListResponse, error) {
	filter := repository.RoleFilter{
		Search:   strings.TrimSpace(req.Search),
		Sort:     sortClause(req.SortBy, req.SortOrder),
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	roles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.RoleListResponse{}, err
	}

	responses := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		users, err := s.repo.CountUsers(ctx, role.ID)
		if err != nil {
			return dto.RoleListResponse{}, err
		}
		responses = append(responses, dto.NewRoleResponse(role, users))
	}

	return dto.RoleListResponse{
		Items:      responses,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

func (s *roleService) ListByType(ctx context.Context, roleType string) ([]dto.RoleResponse, error) {
	typed := models.TypeRole(strings.ToUpper(strings.TrimSpace(roleType)))
	if !typed.Valid() {
		return nil, ErrInvalidRoleType
	}

	roles, err := s.repo.ListByType(ctx, typed)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		users, err := s.repo.CountUsers(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewRoleResponse(role, users))
	}

	return responses, nil
}

func (s *roleService) Update(ctx context.Context, id uint, payload dto.RoleUpdateRequest, actor ActivityActor) (dto.RoleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoleResponse{}, err
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoleResponse{}, ErrRoleNotFound
		}
		return dto.RoleResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Nom != nil {
		updates["nom"] = strings.TrimSpace(*payload.Nom)
	}
	if payload.Description != nil {
		updates["description"] = strings.TrimSpace(*payload.Description)
	}
	if payload.Type != nil {
		roleType := models.TypeRole(strings.ToUpper(strings.TrimSpace(*payload.Type)))
		if !roleType.Valid() {
			return dto.RoleResponse{}, ErrInvalidRoleType
		}
		updates["type"] = roleType
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	role, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoleResponse{}, ErrRoleNotFound
		}
		return dto.RoleResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionUpdate,
		EntityType:  models.EntityRole,
		EntityID:    &role.ID,
		EntityName:  role.Nom,
		Description: "Mise à jour du rôle " + role.Nom,
		Metadata:    map[string]interface{}{"fields": updatedFields(updates)},
	})

	users, err := s.repo.CountUsers(ctx, role.ID)
	if err != nil {
		return dto.RoleResponse{}, err
	}

	return dto.NewRoleResponse(role, users), nil
}

func (s *roleService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	userCount, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if userCount > 0 {
		return NewDependentsError("utilisateurs", userCount)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionDelete,
		EntityType:  models.EntityRole,
		EntityID:    &id,
		EntityName:  role.Nom,
		Description: "Suppression du rôle " + role.Nom,
	})

	return nil
}
