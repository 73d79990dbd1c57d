package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/observability"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

const (
	seanceDateLayout = "2006-01-02"
	seanceTimeLayout = "15:04"
)

// SeanceService orchestrates séance scheduling. Every mutation passes the
// eligibility gate (the teacher must belong to the module's assigned set)
// and the conflict check (no overlapping window for the same teacher on the
// same day) before the store is touched.
//
// The check and the write are not covered by a single transaction: two
// concurrent creations for the same teacher and overlapping windows can both
// pass the read before either write commits. Closing that window needs an
// exclusion constraint at the storage level.
type SeanceService interface {
	Create(ctx context.Context, payload dto.SeanceCreateRequest, actor ActivityActor) (dto.SeanceResponse, error)
	Get(ctx context.Context, id uint) (dto.SeanceResponse, error)
	List(ctx context.Context, req dto.ListRequest) (dto.SeanceListResponse, error)
	ListByModule(ctx context.Context, moduleID uint) ([]dto.SeanceResponse, error)
	ListByTeacher(ctx context.Context, teacherID uint, from, to *time.Time) ([]dto.SeanceResponse, error)
	ListByDate(ctx context.Context, day time.Time) ([]dto.SeanceResponse, error)
	Update(ctx context.Context, id uint, payload dto.SeanceUpdateRequest, actor ActivityActor) (dto.SeanceResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
	AvailableTeachers(ctx context.Context, moduleID uint, day, debut, fin time.Time) ([]dto.TeacherSummary, error)
}

type seanceService struct {
	repo      repository.SeanceRepository
	modules   repository.ModuleRepository
	users     repository.UserRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewSeanceService constructs the séance service.
func NewSeanceService(repo repository.SeanceRepository, modules repository.ModuleRepository, users repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) SeanceService {
	return &seanceService{
		repo:      repo,
		modules:   modules,
		users:     users,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "seance_service").Logger(),
	}
}

// ParseSeanceWindow anchors the "15:04" clock strings onto the calendar day
// and enforces fin > debut.
func ParseSeanceWindow(dateStr, debutStr, finStr string) (day, debut, fin time.Time, err error) {
	day, err = time.ParseInLocation(seanceDateLayout, strings.TrimSpace(dateStr), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, ErrInvalidSeanceWindow
	}

	debutClock, err := time.Parse(seanceTimeLayout, strings.TrimSpace(debutStr))
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, ErrInvalidSeanceWindow
	}

	finClock, err := time.Parse(seanceTimeLayout, strings.TrimSpace(finStr))
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, ErrInvalidSeanceWindow
	}

	debut = day.Add(time.Duration(debutClock.Hour())*time.Hour + time.Duration(debutClock.Minute())*time.Minute)
	fin = day.Add(time.Duration(finClock.Hour())*time.Hour + time.Duration(finClock.Minute())*time.Minute)

	if !fin.After(debut) {
		return time.Time{}, time.Time{}, time.Time{}, ErrInvalidSeanceWindow
	}

	return day, debut, fin, nil
}

// canScheduleTeacherOnModule gates séance mutations: the teacher must exist,
// be active, and belong to the module's assigned-teacher set.
func (s *seanceService) canScheduleTeacherOnModule(ctx context.Context, teacherID, moduleID uint) error {
	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !teacher.Actif {
		return ErrTeacherNotEligible
	}

	assigned, err := s.modules.IsTeacherAssigned(ctx, moduleID, teacherID)
	if err != nil {
		return err
	}
	if !assigned {
		return ErrTeacherNotEligible
	}

	return nil
}

func (s *seanceService) checkConflict(ctx context.Context, teacherID uint, day, debut, fin time.Time, excludeID *uint) error {
	conflict, err := s.repo.HasConflict(ctx, teacherID, day, debut, fin, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		observability.ScheduleConflicts().Inc()
		return ErrScheduleConflict
	}

	return nil
}

func (s *seanceService) Create(ctx context.Context, payload dto.SeanceCreateRequest, actor ActivityActor) (dto.SeanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SeanceResponse{}, err
	}

	seanceType := models.TypeSeance(strings.ToUpper(strings.TrimSpace(payload.Type)))
	if payload.Type == "" {
		seanceType = models.SeanceCours
	}
	if !seanceType.Valid() {
		return dto.SeanceResponse{}, ErrInvalidSeanceType
	}

	day, debut, fin, err := ParseSeanceWindow(payload.DateSeance, payload.HeureDebut, payload.HeureFin)
	if err != nil {
		return dto.SeanceResponse{}, err
	}

	if _, err := s.modules.GetByID(ctx, payload.ModuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SeanceResponse{}, ErrModuleNotFound
		}
		return dto.SeanceResponse{}, err
	}

	if err := s.canScheduleTeacherOnModule(ctx, payload.EnseignantID, payload.ModuleID); err != nil {
		return dto.SeanceResponse{}, err
	}

	if err := s.checkConflict(ctx, payload.EnseignantID, day, debut, fin, nil); err != nil {
		return dto.SeanceResponse{}, err
	}

	seance := models.Seance{
		Titre:        strings.TrimSpace(payload.Titre),
		Contenu:      strings.TrimSpace(payload.Contenu),
		DateSeance:   day,
		HeureDebut:   debut,
		HeureFin:     fin,
		Salle:        strings.TrimSpace(payload.Salle),
		Type:         seanceType,
		Complement:   strings.TrimSpace(payload.Complement),
		ModuleID:     payload.ModuleID,
		EnseignantID: payload.EnseignantID,
	}

	if err := s.repo.Create(ctx, &seance); err != nil {
		return dto.SeanceResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, seance.ID)
	if err != nil {
		return dto.SeanceResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionCreate,
		EntityType:  models.EntitySeance,
		EntityID:    &created.ID,
		EntityName:  created.Titre,
		Description: "Création de la séance " + created.Titre,
		Metadata: map[string]interface{}{
			"module_id":     created.ModuleID,
			"enseignant_id": created.EnseignantID,
			"date_seance":   created.DateSeance.Format(seanceDateLayout),
		},
	})

	return dto.NewSeanceResponse(created), nil
}

func (s *seanceService) Get(ctx context.Context, id uint) (dto.SeanceResponse, error) {
	seance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SeanceResponse{}, ErrSeanceNotFound
		}
		return dto.SeanceResponse{}, err
	}

	return dto.NewSeanceResponse(seance), nil
}

func (s *seanceService) List(ctx context.Context, req dto.ListRequest) (dto.SeanceListResponse, error) {
	filter := repository.SeanceFilter{
		Search:   strings.TrimSpace(req.Search),
		Sort:     sortClause(req.SortBy, req.SortOrder),
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	seances, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.SeanceListResponse{}, err
	}

	responses := make([]dto.SeanceResponse, 0, len(seances))
	for _, seance := range seances {
		responses = append(responses, dto.NewSeanceResponse(seance))
	}

	return dto.SeanceListResponse{
		Items:      responses,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

func (s *seanceService) ListByModule(ctx context.Context, moduleID uint) ([]dto.SeanceResponse, error) {
	seances, err := s.repo.ListByModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	return toSeanceResponses(seances), nil
}

func (s *seanceService) ListByTeacher(ctx context.Context, teacherID uint, from, to *time.Time) ([]dto.SeanceResponse, error) {
	seances, err := s.repo.ListByTeacher(ctx, teacherID, from, to)
	if err != nil {
		return nil, err
	}

	return toSeanceResponses(seances), nil
}

func (s *seanceService) ListByDate(ctx context.Context, day time.Time) ([]dto.SeanceResponse, error) {
	seances, err := s.repo.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	return toSeanceResponses(seances), nil
}

func (s *seanceService) Update(ctx context.Context, id uint, payload dto.SeanceUpdateRequest, actor ActivityActor) (dto.SeanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SeanceResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SeanceResponse{}, ErrSeanceNotFound
		}
		return dto.SeanceResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Titre != nil {
		updates["titre"] = strings.TrimSpace(*payload.Titre)
	}
	if payload.Contenu != nil {
		updates["contenu"] = strings.TrimSpace(*payload.Contenu)
	}
	if payload.Salle != nil {
		updates["salle"] = strings.TrimSpace(*payload.Salle)
	}
	if payload.Complement != nil {
		updates["complement"] = strings.TrimSpace(*payload.Complement)
	}
	if payload.Type != nil {
		seanceType := models.TypeSeance(strings.ToUpper(strings.TrimSpace(*payload.Type)))
		if !seanceType.Valid() {
			return dto.SeanceResponse{}, ErrInvalidSeanceType
		}
		updates["type"] = seanceType
	}

	teacherID := current.EnseignantID
	if payload.EnseignantID != nil {
		teacherID = *payload.EnseignantID
		updates["enseignant_id"] = teacherID
	}

	moduleID := current.ModuleID
	if payload.ModuleID != nil {
		moduleID = *payload.ModuleID
		if _, err := s.modules.GetByID(ctx, moduleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SeanceResponse{}, ErrModuleNotFound
			}
			return dto.SeanceResponse{}, err
		}
		updates["module_id"] = moduleID
	}

	if payload.EnseignantID != nil || payload.ModuleID != nil {
		if err := s.canScheduleTeacherOnModule(ctx, teacherID, moduleID); err != nil {
			return dto.SeanceResponse{}, err
		}
	}

	// Unchanged timing fields are filled from the stored row before the
	// window is re-validated and re-checked for conflicts. The séance's own
	// id is excluded so it never conflicts with itself.
	timingChanged := payload.DateSeance != nil || payload.HeureDebut != nil || payload.HeureFin != nil
	if timingChanged || payload.EnseignantID != nil {
		dateStr := current.DateSeance.Format(seanceDateLayout)
		debutStr := current.HeureDebut.Format(seanceTimeLayout)
		finStr := current.HeureFin.Format(seanceTimeLayout)

		if payload.DateSeance != nil {
			dateStr = *payload.DateSeance
		}
		if payload.HeureDebut != nil {
			debutStr = *payload.HeureDebut
		}
		if payload.HeureFin != nil {
			finStr = *payload.HeureFin
		}

		day, debut, fin, err := ParseSeanceWindow(dateStr, debutStr, finStr)
		if err != nil {
			return dto.SeanceResponse{}, err
		}

		if err := s.checkConflict(ctx, teacherID, day, debut, fin, &id); err != nil {
			return dto.SeanceResponse{}, err
		}

		if timingChanged {
			updates["date_seance"] = day
			updates["heure_debut"] = debut
			updates["heure_fin"] = fin
		}
	}

	if len(updates) == 0 {
		return dto.NewSeanceResponse(current), nil
	}

	seance, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SeanceResponse{}, ErrSeanceNotFound
		}
		return dto.SeanceResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionUpdate,
		EntityType:  models.EntitySeance,
		EntityID:    &seance.ID,
		EntityName:  seance.Titre,
		Description: "Mise à jour de la séance " + seance.Titre,
		Metadata:    map[string]interface{}{"fields": updatedFields(updates)},
	})

	return dto.NewSeanceResponse(seance), nil
}

// Delete removes a séance. No dependent-count gate applies at this layer.
func (s *seanceService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	seance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeanceNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeanceNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionDelete,
		EntityType:  models.EntitySeance,
		EntityID:    &id,
		EntityName:  seance.Titre,
		Description: "Suppression de la séance " + seance.Titre,
	})

	return nil
}

// AvailableTeachers returns the module's eligible teachers that are active
// and free during the candidate window.
func (s *seanceService) AvailableTeachers(ctx context.Context, moduleID uint, day, debut, fin time.Time) ([]dto.TeacherSummary, error) {
	if !fin.After(debut) {
		return nil, ErrInvalidSeanceWindow
	}

	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}

	available := make([]dto.TeacherSummary, 0, len(module.Enseignants))
	for _, teacher := range module.Enseignants {
		if !teacher.Actif {
			continue
		}

		conflict, err := s.repo.HasConflict(ctx, teacher.ID, day, debut, fin, nil)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}

		available = append(available, dto.NewTeacherSummary(teacher))
	}

	return available, nil
}

func toSeanceResponses(seances []models.Seance) []dto.SeanceResponse {
	responses := make([]dto.SeanceResponse, 0, len(seances))
	for _, seance := range seances {
		responses = append(responses, dto.NewSeanceResponse(seance))
	}
	return responses
}
