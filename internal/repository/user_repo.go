package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// UserFilter narrows user list queries.
type UserFilter struct {
	Search        string
	DepartementID *uint
	FiliereID     *uint
	Actif         *bool
	Sort          string
	Page          int
	PageSize      int
}

// UserRepository exposes persistence helpers for portal accounts and their
// role relations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.User, error)
	Delete(ctx context.Context, id uint) error
	HasRole(ctx context.Context, userID, roleID uint) (bool, error)
	AssignRole(ctx context.Context, userID, roleID uint) error
	RemoveRole(ctx context.Context, userID, roleID uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Departement").
		Preload("Filiere").
		First(&user, id).Error
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(nom) LIKE ? OR LOWER(prenom) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	if filter.DepartementID != nil {
		query = query.Where("departement_id = ?", *filter.DepartementID)
	}

	if filter.FiliereID != nil {
		query = query.Where("filiere_id = ?", *filter.FiliereID)
	}

	if filter.Actif != nil {
		query = query.Where("actif = ?", *filter.Actif)
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
	query = query.Order(sort).Preload("Roles")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.User, error) {
	tx := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return models.User{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.User{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := models.User{ID: id}
		if err := tx.Model(&user).Association("Roles").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&user).Association("Modules").Clear(); err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *userRepository) HasRole(ctx context.Context, userID, roleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_roles").
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *userRepository) AssignRole(ctx context.Context, userID, roleID uint) error {
	user := models.User{ID: userID}
	role := models.Role{ID: roleID}
	return r.db.WithContext(ctx).Model(&user).Association("Roles").Append(&role)
}

func (r *userRepository) RemoveRole(ctx context.Context, userID, roleID uint) error {
	user := models.User{ID: userID}
	role := models.Role{ID: roleID}
	return r.db.WithContext(ctx).Model(&user).Association("Roles").Delete(&role)
}
