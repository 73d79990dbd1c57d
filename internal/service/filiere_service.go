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

// FiliereService orchestrates filière management use cases.
type FiliereService interface {
	Create(ctx context.Context, payload dto.FiliereCreateRequest, actor ActivityActor) (dto.FiliereResponse, error)
	Get(ctx context.Context, id uint) (dto.FiliereResponse, error)
	List(ctx context.Context, req dto.ListRequest, departementID *uint) (dto.FiliereListResponse, error)
	Update(ctx context.Context, id uint, payload dto.FiliereUpdateRequest, actor ActivityActor) (dto.FiliereResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type filiereService struct {
	repo         repository.FiliereRepository
	departements repository.DepartementRepository
	validator    *validator.Validate
	activity     ActivityRecorder
	logger       zerolog.Logger
}

// NewFiliereService constructs the filière service.
func NewFiliereService(repo repository.FiliereRepository, departements repository.DepartementRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) FiliereService {
	return &filiereService{
		repo:         repo,
		departements: departements,
		validator:    validate,
		activity:     activity,
		logger:       logger.With().Str("component", "filiere_service").Logger(),
	}
}

func (s *filiereService) Create(ctx context.Context, payload dto.FiliereCreateRequest, actor ActivityActor) (dto.FiliereResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FiliereResponse{}, err
	}

	if _, err := s.departements.GetByID(ctx, payload.DepartementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FiliereResponse{}, ErrDepartementNotFound
		}
		return dto.FiliereResponse{}, err
	}

	filiere := models.Filiere{
		Nom:           strings.TrimSpace(payload.Nom),
		Description:   strings.TrimSpace(payload.Description),
		DepartementID: payload.DepartementID,
	}

	if err := s.repo.Create(ctx, &filiere); err != nil {
		return dto.FiliereResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, filiere.ID)
	if err != nil {
		return dto.FiliereResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionCreate,
		EntityType:  models.EntityFiliere,
		EntityID:    &created.ID,
		EntityName:  created.Nom,
		Description: "Création de la filière " + created.Nom,
		Metadata:    map[string]interface{}{"departement_id": created.DepartementID},
	})

	return dto.NewFiliereResponse(created, 0, 0), nil
}

func (s *filiereService) Get(ctx context.Context, id uint) (dto.FiliereResponse, error) {
	filiere, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FiliereResponse{}, ErrFiliereNotFound
		}
		return dto.FiliereResponse{}, err
	}

	return s.withCounts(ctx, filiere)
}

func (s *filiereService) List(ctx context.Context, req dto.ListRequest, departementID *uint) (dto.FiliereListResponse, error) {
	filter := repository.FiliereFilter{
		Search:        strings.TrimSpace(req.Search),
		DepartementID: departementID,
		Sort:          sortClause(req.SortBy, req.SortOrder),
		Page:          req.Page,
		PageSize:      req.PageSize,
	}

	filieres, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.FiliereListResponse{}, err
	}

	responses := make([]dto.FiliereResponse, 0, len(filieres))
	for _, filiere := range filieres {
		response, err := s.withCounts(ctx, filiere)
		if err != nil {
			return dto.FiliereListResponse{}, err
		}
		responses = append(responses, response)
	}

	return dto.FiliereListResponse{
		Items:      responses,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

func (s *filiereService) Update(ctx context.Context, id uint, payload dto.FiliereUpdateRequest, actor ActivityActor) (dto.FiliereResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FiliereResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Nom != nil {
		updates["nom"] = strings.TrimSpace(*payload.Nom)
	}
	if payload.Description != nil {
		updates["description"] = strings.TrimSpace(*payload.Description)
	}
	if payload.DepartementID != nil {
		if _, err := s.departements.GetByID(ctx, *payload.DepartementID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.FiliereResponse{}, ErrDepartementNotFound
			}
			return dto.FiliereResponse{}, err
		}
		updates["departement_id"] = *payload.DepartementID
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	filiere, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FiliereResponse{}, ErrFiliereNotFound
		}
		return dto.FiliereResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionUpdate,
		EntityType:  models.EntityFiliere,
		EntityID:    &filiere.ID,
		EntityName:  filiere.Nom,
		Description: "Mise à jour de la filière " + filiere.Nom,
		Metadata:    map[string]interface{}{"fields": updatedFields(updates)},
	})

	return s.withCounts(ctx, filiere)
}

// Delete refuses to remove a filière that still owns modules or has users
// attached.
func (s *filiereService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	filiere, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFiliereNotFound
		}
		return err
	}

	moduleCount, err := s.repo.CountModules(ctx, id)
	if err != nil {
		return err
	}
	if moduleCount > 0 {
		return NewDependentsError("modules", moduleCount)
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
			return ErrFiliereNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionDelete,
		EntityType:  models.EntityFiliere,
		EntityID:    &id,
		EntityName:  filiere.Nom,
		Description: "Suppression de la filière " + filiere.Nom,
	})

	return nil
}

func (s *filiereService) withCounts(ctx context.Context, filiere models.Filiere) (dto.FiliereResponse, error) {
	moduleCount, err := s.repo.CountModules(ctx, filiere.ID)
	if err != nil {
		return dto.FiliereResponse{}, err
	}

	userCount, err := s.repo.CountUsers(ctx, filiere.ID)
	if err != nil {
		return dto.FiliereResponse{}, err
	}

	return dto.NewFiliereResponse(filiere, moduleCount, userCount), nil
}
