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

// ModuleService orchestrates module management use cases.
type ModuleService interface {
	Create(ctx context.Context, payload dto.ModuleCreateRequest, actor ActivityActor) (dto.ModuleResponse, error)
	Get(ctx context.Context, id uint) (dto.ModuleResponse, error)
	List(ctx context.Context, req dto.ListRequest, filiereID *uint) (dto.ModuleListResponse, error)
	Update(ctx context.Context, id uint, payload dto.ModuleUpdateRequest, actor ActivityActor) (dto.ModuleResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type moduleService struct {
	repo      repository.ModuleRepository
	filieres  repository.FiliereRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewModuleService constructs the module service.
func NewModuleService(repo repository.ModuleRepository, filieres repository.FiliereRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ModuleService {
	return &moduleService{
		repo:      repo,
		filieres:  filieres,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "module_service").Logger(),
	}
}

func (s *moduleService) Create(ctx context.Context, payload dto.ModuleCreateRequest, actor ActivityActor) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ModuleResponse{}, err
	}

	if _, err := s.filieres.GetByID(ctx, payload.FiliereID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModuleResponse{}, ErrFiliereNotFound
		}
		return dto.ModuleResponse{}, err
	}

	module := models.Module{
		Nom:         strings.TrimSpace(payload.Nom),
		Code:        strings.ToUpper(strings.TrimSpace(payload.Code)),
		Description: strings.TrimSpace(payload.Description),
		Credits:     payload.Credits,
		Heures:      payload.Heures,
		FiliereID:   payload.FiliereID,
	}

	if err := s.repo.Create(ctx, &module); err != nil {
		return dto.ModuleResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, module.ID)
	if err != nil {
		return dto.ModuleResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionCreate,
		EntityType:  models.EntityModule,
		EntityID:    &created.ID,
		EntityName:  created.Nom,
		Description: "Création du module " + created.Nom,
		Metadata:    map[string]interface{}{"code": created.Code, "filiere_id": created.FiliereID},
	})

	return dto.NewModuleResponse(created, 0), nil
}

func (s *moduleService) Get(ctx context.Context, id uint) (dto.ModuleResponse, error) {
	module, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModuleResponse{}, ErrModuleNotFound
		}
		return dto.ModuleResponse{}, err
	}

	seances, err := s.repo.CountSeances(ctx, id)
	if err != nil {
		return dto.ModuleResponse{}, err
	}

	return dto.NewModuleResponse(module, seances), nil
}

func (s *moduleService) List(ctx context.Context, req dto.ListRequest, filiereID *uint) (dto.ModuleListResponse, error) {
	filter := repository.ModuleFilter{
		Search:    strings.TrimSpace(req.Search),
		FiliereID: filiereID,
		Sort:      sortClause(req.SortBy, req.SortOrder),
		Page:      req.Page,
		PageSize:  req.PageSize,
	}

	modules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ModuleListResponse{}, err
	}

	responses := make([]dto.ModuleResponse, 0, len(modules))
	for _, module := range modules {
		seances, err := s.repo.CountSeances(ctx, module.ID)
		if err != nil {
			return dto.ModuleListResponse{}, err
		}
		responses = append(responses, dto.NewModuleResponse(module, seances))
	}

	return dto.ModuleListResponse{
		Items:      responses,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

func (s *moduleService) Update(ctx context.Context, id uint, payload dto.ModuleUpdateRequest, actor ActivityActor) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ModuleResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Nom != nil {
		updates["nom"] = strings.TrimSpace(*payload.Nom)
	}
	if payload.Code != nil {
		updates["code"] = strings.ToUpper(strings.TrimSpace(*payload.Code))
	}
	if payload.Description != nil {
		updates["description"] = strings.TrimSpace(*payload.Description)
	}
	if payload.Credits != nil {
		updates["credits"] = *payload.Credits
	}
	if payload.Heures != nil {
		updates["heures"] = *payload.Heures
	}
	if payload.FiliereID != nil {
		if _, err := s.filieres.GetByID(ctx, *payload.FiliereID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ModuleResponse{}, ErrFiliereNotFound
			}
			return dto.ModuleResponse{}, err
		}
		updates["filiere_id"] = *payload.FiliereID
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	module, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModuleResponse{}, ErrModuleNotFound
		}
		return dto.ModuleResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionUpdate,
		EntityType:  models.EntityModule,
		EntityID:    &module.ID,
		EntityName:  module.Nom,
		Description: "Mise à jour du module " + module.Nom,
		Metadata:    map[string]interface{}{"fields": updatedFields(updates)},
	})

	seances, err := s.repo.CountSeances(ctx, id)
	if err != nil {
		return dto.ModuleResponse{}, err
	}

	return dto.NewModuleResponse(module, seances), nil
}

// Delete refuses to remove a module that still has séances scheduled. The
// teacher eligibility relation alone does not block deletion; it is cleared
// alongside the module.
func (s *moduleService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	module, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		return err
	}

	seanceCount, err := s.repo.CountSeances(ctx, id)
	if err != nil {
		return err
	}
	if seanceCount > 0 {
		return NewDependentsError("séances", seanceCount)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionDelete,
		EntityType:  models.EntityModule,
		EntityID:    &id,
		EntityName:  module.Nom,
		Description: "Suppression du module " + module.Nom,
		Metadata:    map[string]interface{}{"code": module.Code},
	})

	return nil
}
