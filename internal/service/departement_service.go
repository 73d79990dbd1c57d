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

// DepartementService orchestrates departement management use cases.
type DepartementService interface {
	Create(ctx context.Context, payload dto.DepartementCreateRequest, actor ActivityActor) (dto.DepartementResponse, error)
	Get(ctx context.Context, id uint) (dto.DepartementResponse, error)
	List(ctx context.Context, req dto.ListRequest) (dto.DepartementListResponse, error)
	Update(ctx context.Context, id uint, payload dto.DepartementUpdateRequest, actor ActivityActor) (dto.DepartementResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
	Stats(ctx context.Context, id uint) (dto.DepartementStatsResponse, error)
}

type departementService struct {
	repo      repository.DepartementRepository
	filieres  repository.FiliereRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewDepartementService constructs the departement service.
func NewDepartementService(repo repository.DepartementRepository, filieres repository.FiliereRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) DepartementService {
	return &departementService{
		repo:      repo,
		filieres:  filieres,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "departement_service").Logger(),
	}
}

func (s *departementService) Create(ctx context.Context, payload dto.DepartementCreateRequest, actor ActivityActor) (dto.DepartementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DepartementResponse{}, err
	}

	departement := models.Departement{
		Nom:         strings.TrimSpace(payload.Nom),
		Description: strings.TrimSpace(payload.Description),
	}

	if err := s.repo.Create(ctx, &departement); err != nil {
		return dto.DepartementResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionCreate,
		EntityType:  models.EntityDepartement,
		EntityID:    &departement.ID,
		EntityName:  departement.Nom,
		Description: "Création du département " + departement.Nom,
	})

	return dto.NewDepartementResponse(departement, 0, 0), nil
}

func (s *departementService) Get(ctx context.Context, id uint) (dto.DepartementResponse, error) {
	departement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartementResponse{}, ErrDepartementNotFound
		}
		return dto.DepartementResponse{}, err
	}

	return s.withCounts(ctx, departement)
}

func (s *departementService) List(ctx context.Context, req dto.ListRequest) (dto.DepartementListResponse, error) {
	filter := repository.DepartementFilter{
		Search:   strings.TrimSpace(req.Search),
		Sort:     sortClause(req.SortBy, req.SortOrder),
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	departements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.DepartementListResponse{}, err
	}

	responses := make([]dto.DepartementResponse, 0, len(departements))
	for _, departement := range departements {
		response, err := s.withCounts(ctx, departement)
		if err != nil {
			return dto.DepartementListResponse{}, err
		}
		responses = append(responses, response)
	}

	return dto.DepartementListResponse{
		Items:      responses,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

func (s *departementService) Update(ctx context.Context, id uint, payload dto.DepartementUpdateRequest, actor ActivityActor) (dto.DepartementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DepartementResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Nom != nil {
		updates["nom"] = strings.TrimSpace(*payload.Nom)
	}
	if payload.Description != nil {
		updates["description"] = strings.TrimSpace(*payload.Description)
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	departement, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartementResponse{}, ErrDepartementNotFound
		}
		return dto.DepartementResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionUpdate,
		EntityType:  models.EntityDepartement,
		EntityID:    &departement.ID,
		EntityName:  departement.Nom,
		Description: "Mise à jour du département " + departement.Nom,
		Metadata:    map[string]interface{}{"fields": updatedFields(updates)},
	})

	return s.withCounts(ctx, departement)
}

// Delete refuses to remove a departement that still owns filières or has
// users attached. The guard runs before any store mutation.
func (s *departementService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	departement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartementNotFound
		}
		return err
	}

	filiereCount, err := s.repo.CountFilieres(ctx, id)
	if err != nil {
		return err
	}
	if filiereCount > 0 {
		return NewDependentsError("filières", filiereCount)
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
			return ErrDepartementNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionDelete,
		EntityType:  models.EntityDepartement,
		EntityID:    &id,
		EntityName:  departement.Nom,
		Description: "Suppression du département " + departement.Nom,
	})

	return nil
}

func (s *departementService) Stats(ctx context.Context, id uint) (dto.DepartementStatsResponse, error) {
	departement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartementStatsResponse{}, ErrDepartementNotFound
		}
		return dto.DepartementStatsResponse{}, err
	}

	filiereCount, err := s.repo.CountFilieres(ctx, id)
	if err != nil {
		return dto.DepartementStatsResponse{}, err
	}

	userCount, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return dto.DepartementStatsResponse{}, err
	}

	filieres, _, err := s.filieres.List(ctx, repository.FiliereFilter{DepartementID: &id})
	if err != nil {
		return dto.DepartementStatsResponse{}, err
	}

	var totalModules, totalUsers int64
	for _, filiere := range filieres {
		modules, err := s.filieres.CountModules(ctx, filiere.ID)
		if err != nil {
			return dto.DepartementStatsResponse{}, err
		}
		users, err := s.filieres.CountUsers(ctx, filiere.ID)
		if err != nil {
			return dto.DepartementStatsResponse{}, err
		}
		totalModules += modules
		totalUsers += users
	}

	return dto.DepartementStatsResponse{
		ID:                  departement.ID,
		Nom:                 departement.Nom,
		FiliereCount:        filiereCount,
		UserCount:           userCount,
		TotalModules:        totalModules,
		TotalUsersInFiliere: totalUsers,
	}, nil
}

func (s *departementService) withCounts(ctx context.Context, departement models.Departement) (dto.DepartementResponse, error) {
	filiereCount, err := s.repo.CountFilieres(ctx, departement.ID)
	if err != nil {
		return dto.DepartementResponse{}, err
	}

	userCount, err := s.repo.CountUsers(ctx, departement.ID)
	if err != nil {
		return dto.DepartementResponse{}, err
	}

	return dto.NewDepartementResponse(departement, filiereCount, userCount), nil
}

func sortClause(sortBy, sortOrder string) string {
	column := strings.TrimSpace(sortBy)
	if column == "" {
		return ""
	}

	for _, r := range column {
		if (r < 'a' || r > 'z') && r != '_' {
			return ""
		}
	}

	order := "ASC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "desc") {
		order = "DESC"
	}

	return column + " " + order
}

func updatedFields(updates map[string]interface{}) []string {
	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	return fields
}
