package models

// TypeRole enumerates the closed set of role types recognised by the portal.
type TypeRole string

const (
	RoleEnseignant        TypeRole = "ENSEIGNANT"
	RoleAdministrateur    TypeRole = "ADMINISTRATEUR"
	RoleChefDeFiliere     TypeRole = "CHEF_DE_FILIERE"
	RoleChefDeDepartement TypeRole = "CHEF_DE_DEPARTEMENT"
	RoleDirecteurGeneral  TypeRole = "DIRECTEUR_GENERAL"
)

// AllTypeRoles lists every valid role type.
var AllTypeRoles = []TypeRole{
	RoleEnseignant,
	RoleAdministrateur,
	RoleChefDeFiliere,
	RoleChefDeDepartement,
	RoleDirecteurGeneral,
}

// Valid reports whether the value belongs to the enumerated set.
func (t TypeRole) Valid() bool {
	switch t {
	case RoleEnseignant, RoleAdministrateur, RoleChefDeFiliere, RoleChefDeDepartement, RoleDirecteurGeneral:
		return true
	}
	return false
}

// Label returns the human-readable French label for the role type.
func (t TypeRole) Label() string {
	switch t {
	case RoleEnseignant:
		return "Enseignant"
	case RoleAdministrateur:
		return "Administrateur"
	case RoleChefDeFiliere:
		return "Chef de filière"
	case RoleChefDeDepartement:
		return "Chef de département"
	case RoleDirecteurGeneral:
		return "Directeur général"
	}
	return string(t)
}

// IsAdminRole reports whether the role type grants administrative access.
func (t TypeRole) IsAdminRole() bool {
	return t == RoleAdministrateur || t == RoleDirecteurGeneral
}

// TypeSeance enumerates the kinds of teaching sessions.
type TypeSeance string

const (
	SeanceCours      TypeSeance = "COURS"
	SeanceTD         TypeSeance = "TD"
	SeanceTP         TypeSeance = "TP"
	SeanceExamen     TypeSeance = "EXAMEN"
	SeanceConference TypeSeance = "CONFERENCE"
	SeanceSeminaire  TypeSeance = "SEMINAIRE"
)

// AllTypeSeances lists every valid session type.
var AllTypeSeances = []TypeSeance{
	SeanceCours,
	SeanceTD,
	SeanceTP,
	SeanceExamen,
	SeanceConference,
	SeanceSeminaire,
}

// Valid reports whether the value belongs to the enumerated set.
func (t TypeSeance) Valid() bool {
	switch t {
	case SeanceCours, SeanceTD, SeanceTP, SeanceExamen, SeanceConference, SeanceSeminaire:
		return true
	}
	return false
}

// Label returns the display label for the session type.
func (t TypeSeance) Label() string {
	switch t {
	case SeanceCours:
		return "Cours"
	case SeanceTD:
		return "Travaux dirigés"
	case SeanceTP:
		return "Travaux pratiques"
	case SeanceExamen:
		return "Examen"
	case SeanceConference:
		return "Conférence"
	case SeanceSeminaire:
		return "Séminaire"
	}
	return string(t)
}

// ActionType enumerates auditable actions.
type ActionType string

const (
	ActionCreate     ActionType = "CREATE"
	ActionUpdate     ActionType = "UPDATE"
	ActionDelete     ActionType = "DELETE"
	ActionLogin      ActionType = "LOGIN"
	ActionLogout     ActionType = "LOGOUT"
	ActionAssign     ActionType = "ASSIGN"
	ActionUnassign   ActionType = "UNASSIGN"
	ActionActivate   ActionType = "ACTIVATE"
	ActionDeactivate ActionType = "DEACTIVATE"
)

// AllActionTypes lists every valid audit action.
var AllActionTypes = []ActionType{
	ActionCreate,
	ActionUpdate,
	ActionDelete,
	ActionLogin,
	ActionLogout,
	ActionAssign,
	ActionUnassign,
	ActionActivate,
	ActionDeactivate,
}

// Valid reports whether the value belongs to the enumerated set.
func (a ActionType) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionLogin, ActionLogout,
		ActionAssign, ActionUnassign, ActionActivate, ActionDeactivate:
		return true
	}
	return false
}

// Color returns the badge color key used when rendering the activity feed.
func (a ActionType) Color() string {
	switch a {
	case ActionCreate:
		return "green"
	case ActionUpdate:
		return "blue"
	case ActionDelete:
		return "red"
	case ActionLogin:
		return "emerald"
	case ActionLogout:
		return "gray"
	case ActionAssign:
		return "purple"
	case ActionUnassign:
		return "orange"
	case ActionActivate:
		return "teal"
	case ActionDeactivate:
		return "amber"
	}
	return "gray"
}

// EntityType enumerates the entities covered by the activity log.
type EntityType string

const (
	EntityUser        EntityType = "USER"
	EntityRole        EntityType = "ROLE"
	EntityDepartement EntityType = "DEPARTEMENT"
	EntityFiliere     EntityType = "FILIERE"
	EntityModule      EntityType = "MODULE"
	EntitySeance      EntityType = "SEANCE"
)

// AllEntityTypes lists every valid audited entity type.
var AllEntityTypes = []EntityType{
	EntityUser,
	EntityRole,
	EntityDepartement,
	EntityFiliere,
	EntityModule,
	EntitySeance,
}

// Valid reports whether the value belongs to the enumerated set.
func (e EntityType) Valid() bool {
	switch e {
	case EntityUser, EntityRole, EntityDepartement, EntityFiliere, EntityModule, EntitySeance:
		return true
	}
	return false
}

// IconKey returns the icon identifier used by activity feed clients.
func (e EntityType) IconKey() string {
	switch e {
	case EntityUser:
		return "user"
	case EntityRole:
		return "shield"
	case EntityDepartement:
		return "building"
	case EntityFiliere:
		return "graduation-cap"
	case EntityModule:
		return "book-open"
	case EntitySeance:
		return "calendar"
	}
	return "activity"
}
