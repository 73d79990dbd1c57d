package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// FiliereFilter narrows filière list queries.
type FiliereFilter struct {
	Search        string
	DepartementID *uint
	Sort          string
	Page          int
	PageSize      int
}

// FiliereRepository exposes persistence helpers for filières.
type FiliereRepository interface {
	Create(ctx context.Context, filiere *models.Filiere) error
	GetByID(ctx context.Context, id uint) (models.Filiere, error)
	List(ctx context.Context, filter FiliereFilter) ([]models.Filiere, int64, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Filiere, error)
	Delete(ctx context.Context, id uint) error
	CountModules(ctx context.Context, id uint) (int64, error)
	CountUsers(ctx context.Context, id uint) (int64, error)
}

type filiereRepository struct {
	db *gorm.DB
}

// NewFiliereRepository constructs the filière repository.
func NewFiliereRepository(db *gorm.DB) FiliereRepository {
	return &filiereRepository{db: db}
}

func (r *filiereRepository) Create(ctx context.Context, filiere *models.Filiere) error {
	return r.db.WithContext(ctx).Create(filiere).Error
}

func (r *filiereRepository) GetByID(ctx context.Context, id uint) (models.Filiere, error) {
	var filiere models.Filiere
	if err := r.db.WithContext(ctx).Preload("Departement").First(&filiere, id).Error; err != nil {
		return models.Filiere{}, err
	}

	return filiere, nil
}

func (r *filiereRepository) List(ctx context.Context, filter FiliereFilter) ([]models.Filiere, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Filiere{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(nom) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if filter.DepartementID != nil {
		query = query.Where("departement_id = ?", *filter.DepartementID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := filter.Sort
	if sort == "" {
		sort = "created_at DESC"
	}
	query = query.Order(sort).Preload("Departement")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var filieres []models.Filiere
	if err := query.Find(&filieres).Error; err != nil {
		return nil, 0, err
	}

	return filieres, total, nil
}

func (r *filiereRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Filiere, error) {
	tx := r.db.WithContext(ctx).Model(&models.Filiere{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return models.Filiere{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.Filiere{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *filiereRepository) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&models.Filiere{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *filiereRepository) CountModules(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Module{}).Where("filiere_id = ?", id).Count(&count).Error
	return count, err
}

func (r *filiereRepository) CountUsers(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("filiere_id = ?", id).Count(&count).Error
	return count, err
}
