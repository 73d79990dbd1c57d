package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

const dashboardCacheKey = "dashboard:stats"

// DashboardService aggregates the portal counters and the recent activity
// feed. Results are cached in Redis for a short TTL; the cache is strictly
// an accelerator and every cache failure falls through to the database.
type DashboardService interface {
	GetStats(ctx context.Context) (dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	stats    repository.StatsRepository
	activity repository.ActivityLogRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(stats repository.StatsRepository, activity repository.ActivityLogRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		stats:    stats,
		activity: activity,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (dto.DashboardStatsResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var response dto.DashboardStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	counts, err := s.stats.Collect(ctx, s.now().UTC())
	if err != nil {
		return dto.DashboardStatsResponse{}, err
	}

	recent, err := s.activity.ListRecent(ctx, 10)
	if err != nil {
		return dto.DashboardStatsResponse{}, err
	}

	activity := make([]dto.ActivityResponse, 0, len(recent))
	for _, entry := range recent {
		activity = append(activity, dto.NewActivityResponse(entry))
	}

	response := dto.DashboardStatsResponse{
		TotalUsers:        counts.Users,
		ActiveUsers:       counts.ActiveUsers,
		TotalDepartements: counts.Departements,
		TotalFilieres:     counts.Filieres,
		TotalModules:      counts.Modules,
		TotalSeances:      counts.Seances,
		SeancesToday:      counts.SeancesToday,
		RecentActivity:    activity,
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}
