package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// SeanceFilter narrows séance list queries.
type SeanceFilter struct {
	Search       string
	ModuleID     *uint
	EnseignantID *uint
	Sort         string
	Page         int
	PageSize     int
}

// SeanceRepository exposes persistence helpers for séances, including the
// overlap query backing the schedule conflict check.
type SeanceRepository interface {
	Create(ctx context.Context, seance *models.Seance) error
	GetByID(ctx context.Context, id uint) (models.Seance, error)
	List(ctx context.Context, filter SeanceFilter) ([]models.Seance, int64, error)
	ListByModule(ctx context.Context, moduleID uint) ([]models.Seance, error)
	ListByTeacher(ctx context.Context, teacherID uint, from, to *time.Time) ([]models.Seance, error)
	ListByDate(ctx context.Context, day time.Time) ([]models.Seance, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Seance, error)
	Delete(ctx context.Context, id uint) error
	HasConflict(ctx context.Context, teacherID uint, day, debut, fin time.Time, excludeID *uint) (bool, error)
	CountFutureByModuleAndTeacher(ctx context.Context, moduleID, teacherID uint, from time.Time) (int64, error)
}

type seanceRepository struct {
	db *gorm.DB
}

// NewSeanceRepository constructs the séance repository.
func NewSeanceRepository(db *gorm.DB) SeanceRepository {
	return &seanceRepository{db: db}
}

func (r *seanceRepository) Create(ctx context.Context, seance *models.Seance) error {
	return r.db.WithContext(ctx).Create(seance).Error
}

func (r *seanceRepository) GetByID(ctx context.Context, id uint) (models.Seance, error) {
	var seance models.Seance
	err := r.db.WithContext(ctx).
		Preload("Module").
		Preload("Module.Filiere").
		Preload("Enseignant").
		First(&seance, id).Error
	if err != nil {
		return models.Seance{}, err
	}

	return seance, nil
}

func (r *seanceRepository) List(ctx context.Context, filter SeanceFilter) ([]models.Seance, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Seance{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(titre) LIKE ? OR LOWER(contenu) LIKE ? OR LOWER(salle) LIKE ?", like, like, like)
	}

	if filter.ModuleID != nil {
		query = query.Where("module_id = ?", *filter.ModuleID)
	}

	if filter.EnseignantID != nil {
		query = query.Where("enseignant_id = ?", *filter.EnseignantID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := filter.Sort
	if sort == "" {
		sort = "date_seance DESC"
	}
	query = query.Order(sort).Preload("Module").Preload("Enseignant")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var seances []models.Seance
	if err := query.Find(&seances).Error; err != nil {
		return nil, 0, err
	}

	return seances, total, nil
}

func (r *seanceRepository) ListByModule(ctx context.Context, moduleID uint) ([]models.Seance, error) {
	var seances []models.Seance
	err := r.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("date_seance ASC").
		Preload("Enseignant").
		Find(&seances).Error
	return seances, err
}

func (r *seanceRepository) ListByTeacher(ctx context.Context, teacherID uint, from, to *time.Time) ([]models.Seance, error) {
	query := r.db.WithContext(ctx).Where("enseignant_id = ?", teacherID)

	if from != nil && to != nil {
		query = query.Where("date_seance >= ? AND date_seance <= ?", *from, *to)
	}

	var seances []models.Seance
	err := query.Order("date_seance ASC").Preload("Module").Find(&seances).Error
	return seances, err
}

func (r *seanceRepository) ListByDate(ctx context.Context, day time.Time) ([]models.Seance, error) {
	start := day.Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	var seances []models.Seance
	err := r.db.WithContext(ctx).
		Where("date_seance >= ? AND date_seance < ?", start, end).
		Order("heure_debut ASC").
		Preload("Module").
		Preload("Enseignant").
		Find(&seances).Error
	return seances, err
}

func (r *seanceRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Seance, error) {
	tx := r.db.WithContext(ctx).Model(&models.Seance{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return models.Seance{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.Seance{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *seanceRepository) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&models.Seance{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// HasConflict reports whether the teacher already has a séance on the given
// day whose [heure_debut, heure_fin) window intersects [debut, fin). The
// three clauses cover: an existing séance straddling the new start, one
// straddling the new end, and one fully contained in the new window. Touching
// endpoints are not a conflict.
func (r *seanceRepository) HasConflict(ctx context.Context, teacherID uint, day, debut, fin time.Time, excludeID *uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Seance{}).
		Where("enseignant_id = ?", teacherID).
		Where("date_seance = ?", day).
		Where(
			r.db.Where("heure_debut <= ? AND heure_fin > ?", debut, debut).
				Or("heure_debut < ? AND heure_fin >= ?", fin, fin).
				Or("heure_debut >= ? AND heure_fin <= ?", debut, fin),
		)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *seanceRepository) CountFutureByModuleAndTeacher(ctx context.Context, moduleID, teacherID uint, from time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Seance{}).
		Where("module_id = ? AND enseignant_id = ?", moduleID, teacherID).
		Where("date_seance >= ?", from).
		Count(&count).Error
	return count, err
}
