package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// DepartementFilter narrows departement list queries.
type DepartementFilter struct {
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// DepartementRepository exposes persistence helpers for departements.
type DepartementRepository interface {
	Create(ctx context.Context, departement *models.Departement) error
	GetByID(ctx context.Context, id uint) (models.Departement, error)
	List(ctx context.Context, filter DepartementFilter) ([]models.Departement, int64, error)
	ListAll(ctx context.Context) ([]models.Departement, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Departement, error)
	Delete(ctx context.Context, id uint) error
	CountFilieres(ctx context.Context, id uint) (int64, error)
	CountUsers(ctx context.Context, id uint) (int64, error)
}

type departementRepository struct {
	db *gorm.DB
}

// NewDepartementRepository constructs the departement repository.
func NewDepartementRepository(db *gorm.DB) DepartementRepository {
	return &departementRepository{db: db}
}

func (r *departementRepository) Create(ctx context.Context, departement *models.Departement) error {
	return r.db.WithContext(ctx).Create(departement).Error
}

func (r *departementRepository) GetByID(ctx context.Context, id uint) (models.Departement, error) {
	var departement models.Departement
	if err := r.db.WithContext(ctx).First(&departement, id).Error; err != nil {
		return models.Departement{}, err
	}

	return departement, nil
}

func (r *departementRepository) List(ctx context.Context, filter DepartementFilter) ([]models.Departement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Departement{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(nom) LIKE ? OR LOWER(description) LIKE ?", like, like)
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
	query = query.Order(sort)

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var departements []models.Departement
	if err := query.Find(&departements).Error; err != nil {
		return nil, 0, err
	}

	return departements, total, nil
}

func (r *departementRepository) ListAll(ctx context.Context) ([]models.Departement, error) {
	var departements []models.Departement
	if err := r.db.WithContext(ctx).Order("nom ASC").Find(&departements).Error; err != nil {
		return nil, err
	}

	return departements, nil
}

func (r *departementRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Departement, error) {
	tx := r.db.WithContext(ctx).Model(&models.Departement{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return models.Departement{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.Departement{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *departementRepository) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&models.Departement{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *departementRepository) CountFilieres(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Filiere{}).Where("departement_id = ?", id).Count(&count).Error
	return count, err
}

func (r *departementRepository) CountUsers(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("departement_id = ?", id).Count(&count).Error
	return count, err
}
