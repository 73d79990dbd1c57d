package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

// AssignmentService manages teacher assignments: module membership (which
// gates séance scheduling) and filière attachment (which cascades the
// département). Assigning a user who does not hold the ENSEIGNANT role is
// always refused.
type AssignmentService interface {
	AssignTeacherToModule(ctx context.Context, moduleID, teacherID uint, actor ActivityActor) error
	UnassignTeacherFromModule(ctx context.Context, moduleID, teacherID uint, actor ActivityActor) error
	AssignTeacherToFiliere(ctx context.Context, filiereID, teacherID uint, actor ActivityActor) (dto.TeacherSummary, error)
	ModuleTeachers(ctx context.Context, moduleID uint) ([]dto.TeacherSummary, error)
}

type assignmentService struct {
	modules  repository.ModuleRepository
	users    repository.UserRepository
	filieres repository.FiliereRepository
	seances  repository.SeanceRepository
	activity ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(modules repository.ModuleRepository, users repository.UserRepository, filieres repository.FiliereRepository, seances repository.SeanceRepository, activity ActivityRecorder, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		modules:  modules,
		users:    users,
		filieres: filieres,
		seances:  seances,
		activity: activity,
		logger:   logger.With().Str("component", "assignment_service").Logger(),
		now:      time.Now,
	}
}

func (s *assignmentService) getTeacher(ctx context.Context, teacherID uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	if !user.HasRoleType(models.RoleEnseignant) {
		return models.User{}, ErrNotATeacher
	}

	return user, nil
}

func (s *assignmentService) AssignTeacherToModule(ctx context.Context, moduleID, teacherID uint, actor ActivityActor) error {
	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		return err
	}

	teacher, err := s.getTeacher(ctx, teacherID)
	if err != nil {
		return err
	}

	assigned, err := s.modules.IsTeacherAssigned(ctx, moduleID, teacherID)
	if err != nil {
		return err
	}
	if assigned {
		return ErrAlreadyAssigned
	}

	if err := s.modules.AssignTeacher(ctx, moduleID, teacherID); err != nil {
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionAssign,
		EntityType:  models.EntityModule,
		EntityID:    &moduleID,
		EntityName:  module.Nom,
		Description: "Affectation de " + teacher.FullName() + " au module " + module.Nom,
		Metadata:    map[string]interface{}{"enseignant_id": teacherID},
	})

	return nil
}

// UnassignTeacherFromModule removes the teacher from the module's eligibility
// set. The removal is refused while the teacher still has séances scheduled
// today or later in this module; past séances never block it.
func (s *assignmentService) UnassignTeacherFromModule(ctx context.Context, moduleID, teacherID uint, actor ActivityActor) error {
	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		return err
	}

	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	assigned, err := s.modules.IsTeacherAssigned(ctx, moduleID, teacherID)
	if err != nil {
		return err
	}
	if !assigned {
		return ErrNotAssigned
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	future, err := s.seances.CountFutureByModuleAndTeacher(ctx, moduleID, teacherID, today)
	if err != nil {
		return err
	}
	if future > 0 {
		return ErrHasFutureSessions
	}

	if err := s.modules.UnassignTeacher(ctx, moduleID, teacherID); err != nil {
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionUnassign,
		EntityType:  models.EntityModule,
		EntityID:    &moduleID,
		EntityName:  module.Nom,
		Description: "Retrait de " + teacher.FullName() + " du module " + module.Nom,
		Metadata:    map[string]interface{}{"enseignant_id": teacherID},
	})

	return nil
}

// AssignTeacherToFiliere attaches the teacher to a filière and cascades the
// filière's département onto the account so both stay coherent.
func (s *assignmentService) AssignTeacherToFiliere(ctx context.Context, filiereID, teacherID uint, actor ActivityActor) (dto.TeacherSummary, error) {
	filiere, err := s.filieres.GetByID(ctx, filiereID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherSummary{}, ErrFiliereNotFound
		}
		return dto.TeacherSummary{}, err
	}

	teacher, err := s.getTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherSummary{}, err
	}

	updated, err := s.users.Update(ctx, teacherID, map[string]interface{}{
		"filiere_id":     filiereID,
		"departement_id": filiere.DepartementID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherSummary{}, ErrUserNotFound
		}
		return dto.TeacherSummary{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:       actor,
		Action:      models.ActionAssign,
		EntityType:  models.EntityUser,
		EntityID:    &teacherID,
		EntityName:  teacher.FullName(),
		Description: "Affectation de " + teacher.FullName() + " à la filière " + filiere.Nom,
		Metadata:    map[string]interface{}{"filiere_id": filiereID, "departement_id": filiere.DepartementID},
	})

	return dto.NewTeacherSummary(updated), nil
}

// ModuleTeachers lists the module's eligibility set.
func (s *assignmentService) ModuleTeachers(ctx context.Context, moduleID uint) ([]dto.TeacherSummary, error) {
	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}

	teachers := make([]dto.TeacherSummary, 0, len(module.Enseignants))
	for _, teacher := range module.Enseignants {
		teachers = append(teachers, dto.NewTeacherSummary(teacher))
	}

	return teachers, nil
}
