package service

import (
	"errors"
	"fmt"
)

// Business-rule violations are returned as sentinel errors so the transport
// layer can map each kind to a distinct status and message.
var (
	ErrAccessDenied = errors.New("accès refusé: droits administrateur requis")

	ErrDepartementNotFound = errors.New("département non trouvé")
	ErrFiliereNotFound     = errors.New("filière non trouvée")
	ErrModuleNotFound      = errors.New("module non trouvé")
	ErrSeanceNotFound      = errors.New("séance non trouvée")
	ErrUserNotFound        = errors.New("utilisateur non trouvé")
	ErrRoleNotFound        = errors.New("rôle non trouvé")

	ErrNotATeacher        = errors.New("l'utilisateur n'est pas un enseignant")
	ErrTeacherNotEligible = errors.New("l'enseignant sélectionné n'est pas assigné à ce module")
	ErrAlreadyAssigned    = errors.New("cette affectation existe déjà")
	ErrNotAssigned        = errors.New("cette affectation n'existe pas")

	ErrScheduleConflict  = errors.New("l'enseignant a déjà une séance programmée à cette heure")
	ErrHasFutureSessions = errors.New("impossible de retirer cet enseignant: des séances futures sont programmées dans ce module")

	ErrSelfModification = errors.New("vous ne pouvez pas modifier votre propre statut")

	ErrEmailTaken         = errors.New("cette adresse email est déjà utilisée")
	ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")
	ErrAccountDisabled    = errors.New("ce compte est désactivé")

	ErrInvalidSeanceWindow = errors.New("l'heure de fin doit être après l'heure de début")
	ErrInvalidSeanceType   = errors.New("type de séance invalide")
	ErrInvalidRoleType     = errors.New("type de rôle invalide")
)

// DependentsError blocks a delete while child records still reference the
// parent. The message names the blocking dependent kind and count.
type DependentsError struct {
	Dependent string
	Count     int64
}

func (e *DependentsError) Error() string {
	return fmt.Sprintf("suppression impossible: %d %s dépendent encore de cet élément", e.Count, e.Dependent)
}

// NewDependentsError builds the delete guard failure for a dependent kind.
func NewDependentsError(dependent string, count int64) error {
	return &DependentsError{Dependent: dependent, Count: count}
}

// IsDependentsError reports whether err is a referential guard rejection.
func IsDependentsError(err error) bool {
	var dependents *DependentsError
	return errors.As(err, &dependents)
}
