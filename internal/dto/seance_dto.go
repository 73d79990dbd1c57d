package dto

import (
	"time"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// SeanceCreateRequest captures the payload for creating a séance. The date is
// a calendar day ("2006-01-02"); the times are clock values ("15:04") that
// the service anchors onto that day.
type SeanceCreateRequest struct {
	Titre        string `json:"titre" validate:"required,min=1,max=255"`
	Contenu      string `json:"contenu" validate:"omitempty,max=5000"`
	DateSeance   string `json:"date_seance" validate:"required"`
	HeureDebut   string `json:"heure_debut" validate:"required"`
	HeureFin     string `json:"heure_fin" validate:"required"`
	Salle        string `json:"salle" validate:"omitempty,max=64"`
	Type         string `json:"type" validate:"omitempty"`
	Complement   string `json:"complement" validate:"omitempty,max=2000"`
	ModuleID     uint   `json:"module_id" validate:"required,gt=0"`
	EnseignantID uint   `json:"enseignant_id" validate:"required,gt=0"`
}

// SeanceUpdateRequest captures partial update payloads for séances.
type SeanceUpdateRequest struct {
	Titre        *string `json:"titre" validate:"omitempty,min=1,max=255"`
	Contenu      *string `json:"contenu" validate:"omitempty,max=5000"`
	DateSeance   *string `json:"date_seance"`
	HeureDebut   *string `json:"heure_debut"`
	HeureFin     *string `json:"heure_fin"`
	Salle        *string `json:"salle" validate:"omitempty,max=64"`
	Type         *string `json:"type"`
	Complement   *string `json:"complement" validate:"omitempty,max=2000"`
	ModuleID     *uint   `json:"module_id" validate:"omitempty,gt=0"`
	EnseignantID *uint   `json:"enseignant_id" validate:"omitempty,gt=0"`
}

// SeanceResponse serializes a séance with its module and teacher context.
type SeanceResponse struct {
	ID           uint           `json:"id"`
	Titre        string         `json:"titre"`
	Contenu      string         `json:"contenu"`
	DateSeance   time.Time      `json:"date_seance"`
	HeureDebut   time.Time      `json:"heure_debut"`
	HeureFin     time.Time      `json:"heure_fin"`
	Salle        string         `json:"salle"`
	Type         string         `json:"type"`
	TypeLabel    string         `json:"type_label"`
	Complement   string         `json:"complement"`
	ModuleID     uint           `json:"module_id"`
	ModuleNom    string         `json:"module_nom,omitempty"`
	ModuleCode   string         `json:"module_code,omitempty"`
	Enseignant   TeacherSummary `json:"enseignant"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SeanceListResponse wraps a paginated séance response.
type SeanceListResponse struct {
	Items      []SeanceResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// NewSeanceResponse builds the response shape from a model.
func NewSeanceResponse(s models.Seance) SeanceResponse {
	return SeanceResponse{
		ID:         s.ID,
		Titre:      s.Titre,
		Contenu:    s.Contenu,
		DateSeance: s.DateSeance,
		HeureDebut: s.HeureDebut,
		HeureFin:   s.HeureFin,
		Salle:      s.Salle,
		Type:       string(s.Type),
		TypeLabel:  s.Type.Label(),
		Complement: s.Complement,
		ModuleID:   s.ModuleID,
		ModuleNom:  s.Module.Nom,
		ModuleCode: s.Module.Code,
		Enseignant: NewTeacherSummary(s.Enseignant),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
