package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// PortalCounts aggregates the table-level counters behind the dashboard.
type PortalCounts struct {
	Users        int64
	ActiveUsers  int64
	Departements int64
	Filieres     int64
	Modules      int64
	Seances      int64
	SeancesToday int64
}

// StatsRepository collects the aggregate counters for the dashboard.
type StatsRepository interface {
	Collect(ctx context.Context, day time.Time) (PortalCounts, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository constructs the stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Collect(ctx context.Context, day time.Time) (PortalCounts, error) {
	var counts PortalCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&counts.Users).Error; err != nil {
		return PortalCounts{}, err
	}
	if err := db.Model(&models.User{}).Where("actif = ?", true).Count(&counts.ActiveUsers).Error; err != nil {
		return PortalCounts{}, err
	}
	if err := db.Model(&models.Departement{}).Count(&counts.Departements).Error; err != nil {
		return PortalCounts{}, err
	}
	if err := db.Model(&models.Filiere{}).Count(&counts.Filieres).Error; err != nil {
		return PortalCounts{}, err
	}
	if err := db.Model(&models.Module{}).Count(&counts.Modules).Error; err != nil {
		return PortalCounts{}, err
	}
	if err := db.Model(&models.Seance{}).Count(&counts.Seances).Error; err != nil {
		return PortalCounts{}, err
	}

	start := day.Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	if err := db.Model(&models.Seance{}).
		Where("date_seance >= ? AND date_seance < ?", start, end).
		Count(&counts.SeancesToday).Error; err != nil {
		return PortalCounts{}, err
	}

	return counts, nil
}
