package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// ModuleFilter narrows module list queries.
type ModuleFilter struct {
	Search    string
	FiliereID *uint
	Sort      string
	Page      int
	PageSize  int
}

// ModuleRepository exposes persistence helpers for modules and their
// teacher eligibility set.
type ModuleRepository interface {
	Create(ctx context.Context, module *models.Module) error
	GetByID(ctx context.Context, id uint) (models.Module, error)
	List(ctx context.Context, filter ModuleFilter) ([]models.Module, int64, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Module, error)
	Delete(ctx context.Context, id uint) error
	CountSeances(ctx context.Context, id uint) (int64, error)
	IsTeacherAssigned(ctx context.Context, moduleID, teacherID uint) (bool, error)
	AssignTeacher(ctx context.Context, moduleID, teacherID uint) error
	UnassignTeacher(ctx context.Context, moduleID, teacherID uint) error
}

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository constructs the module repository.
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *moduleRepository) GetByID(ctx context.Context, id uint) (models.Module, error) {
	var module models.Module
	err := r.db.WithContext(ctx).
		Preload("Filiere").
		Preload("Enseignants").
		First(&module, id).Error
	if err != nil {
		return models.Module{}, err
	}

	return module, nil
}

func (r *moduleRepository) List(ctx context.Context, filter ModuleFilter) ([]models.Module, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Module{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(nom) LIKE ? OR LOWER(code) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}

	if filter.FiliereID != nil {
		query = query.Where("filiere_id = ?", *filter.FiliereID)
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
	query = query.Order(sort).Preload("Filiere").Preload("Enseignants")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var modules []models.Module
	if err := query.Find(&modules).Error; err != nil {
		return nil, 0, err
	}

	return modules, total, nil
}

func (r *moduleRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Module, error) {
	tx := r.db.WithContext(ctx).Model(&models.Module{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return models.Module{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.Module{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *moduleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		module := models.Module{ID: id}
		if err := tx.Model(&module).Association("Enseignants").Clear(); err != nil {
			return err
		}

		result := tx.Delete(&models.Module{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *moduleRepository) CountSeances(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Seance{}).Where("module_id = ?", id).Count(&count).Error
	return count, err
}

func (r *moduleRepository) IsTeacherAssigned(ctx context.Context, moduleID, teacherID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("module_enseignants").
		Where("module_id = ? AND user_id = ?", moduleID, teacherID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *moduleRepository) AssignTeacher(ctx context.Context, moduleID, teacherID uint) error {
	module := models.Module{ID: moduleID}
	teacher := models.User{ID: teacherID}
	return r.db.WithContext(ctx).Model(&module).Association("Enseignants").Append(&teacher)
}

func (r *moduleRepository) UnassignTeacher(ctx context.Context, moduleID, teacherID uint) error {
	module := models.Module{ID: moduleID}
	teacher := models.User{ID: teacherID}
	return r.db.WithContext(ctx).Model(&module).Association("Enseignants").Delete(&teacher)
}
