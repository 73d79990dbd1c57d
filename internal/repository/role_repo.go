package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// RoleFilter narrows role list queries.
type RoleFilter struct {
	Search   string
	Type     string
	Sort     string
	Page     int
	PageSize int
}

// RoleRepository exposes persistence helpers for roles.
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id uint) (models.Role, error)
	List(ctx context.Context, filter RoleFilter) ([]models.Role, int64, error)
	ListByType(ctx context.Context, roleType models.TypeRole) ([]models.Role, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Role, error)
	Delete(ctx context.Context, id uint) error
	CountUsers(ctx context.Context, id uint) (int64, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository constructs the role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) GetByID(ctx context.Context, id uint) (models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return models.Role{}, err
	}

	return role, nil
}

func (r *roleRepository) List(ctx context.Context, filter RoleFilter) ([]models.Role, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Role{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(nom) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
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

	var roles []models.Role
	if err := query.Find(&roles).Error; err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

func (r *roleRepository) ListByType(ctx context.Context, roleType models.TypeRole) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).
		Where("type = ?", roleType).
		Order("nom ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Role, error) {
	tx := r.db.WithContext(ctx).Model(&models.Role{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return models.Role{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.Role{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *roleRepository) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&models.Role{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *roleRepository) CountUsers(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_roles").
		Where("role_id = ?", id).
		Count(&count).Error
	return count, err
}
