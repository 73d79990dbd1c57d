package service

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/observability"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

// ActivityActor identifies the authenticated account performing a mutation,
// together with the request attributes kept in the audit trail.
type ActivityActor struct {
	ID        uint
	IPAddress string
	UserAgent string
}

// ActivityEntry captures the details of one audit entry.
type ActivityEntry struct {
	Actor       ActivityActor
	Action      models.ActionType
	EntityType  models.EntityType
	EntityID    *uint
	EntityName  string
	Description string
	Metadata    map[string]interface{}
}

// ActivityRecorder appends audit entries. Recording is best-effort: callers
// never fail their primary mutation because the audit write failed.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry)
}

// ActivityService exposes the audit trail: best-effort writes plus the
// paginated admin listing.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

// Record persists the entry. A storage failure is logged and counted, never
// surfaced: a lost audit row must not abort the action it describes.
func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	if !entry.Action.Valid() || !entry.EntityType.Valid() {
		s.logger.Error().
			Str("action", string(entry.Action)).
			Str("entity_type", string(entry.EntityType)).
			Msg("rejected activity entry with unknown action or entity type")
		observability.AuditDropped().Inc()
		return
	}

	model := models.ActivityLog{
		UserID:      entry.Actor.ID,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		EntityName:  strings.TrimSpace(entry.EntityName),
		Description: strings.TrimSpace(entry.Description),
		Metadata:    toJSONMap(entry.Metadata),
		IPAddress:   entry.Actor.IPAddress,
		UserAgent:   entry.Actor.UserAgent,
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Warn().Err(err).
			Str("action", string(entry.Action)).
			Str("entity_type", string(entry.EntityType)).
			Msg("failed to persist activity log entry")
		observability.AuditDropped().Inc()
	}
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	filter := repository.ActivityLogFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Action:     strings.ToUpper(strings.TrimSpace(req.Action)),
		EntityType: strings.ToUpper(strings.TrimSpace(req.EntityType)),
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
	}
	if req.UserID > 0 {
		filter.UserID = &req.UserID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}

	return dto.ActivityListResponse{
		Items:      responses,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

func toJSONMap(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	payload := datatypes.JSONMap{}
	for key, value := range metadata {
		payload[key] = value
	}
	return payload
}

func buildPagination(page, pageSize int, total int64) dto.PaginationMeta {
	meta := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		meta.TotalPages = 1
	}
	return meta
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
