package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeRoleEnumeration(t *testing.T) {
	for _, role := range AllTypeRoles {
		require.True(t, role.Valid(), "role %s", role)
		require.NotEqual(t, string(role), role.Label(), "role %s should have a display label", role)
	}
	require.False(t, TypeRole("ETUDIANT").Valid())
	require.False(t, TypeRole("").Valid())
}

func TestTypeRoleAdminRoles(t *testing.T) {
	require.True(t, RoleAdministrateur.IsAdminRole())
	require.True(t, RoleDirecteurGeneral.IsAdminRole())
	require.False(t, RoleEnseignant.IsAdminRole())
	require.False(t, RoleChefDeFiliere.IsAdminRole())
	require.False(t, RoleChefDeDepartement.IsAdminRole())
}

func TestTypeSeanceEnumeration(t *testing.T) {
	for _, kind := range AllTypeSeances {
		require.True(t, kind.Valid(), "seance type %s", kind)
		require.NotEmpty(t, kind.Label())
	}
	require.False(t, TypeSeance("ATELIER").Valid())
}

func TestActionTypeEnumeration(t *testing.T) {
	seen := make(map[string]struct{})
	for _, action := range AllActionTypes {
		require.True(t, action.Valid(), "action %s", action)
		seen[action.Color()] = struct{}{}
	}
	require.Len(t, seen, len(AllActionTypes), "each action has a distinct badge color")
	require.False(t, ActionType("EXPORT").Valid())
	require.Equal(t, "gray", ActionType("EXPORT").Color())
}

func TestEntityTypeEnumeration(t *testing.T) {
	for _, entity := range AllEntityTypes {
		require.True(t, entity.Valid(), "entity %s", entity)
		require.NotEqual(t, "activity", entity.IconKey())
	}
	require.False(t, EntityType("SALLE").Valid())
	require.Equal(t, "activity", EntityType("SALLE").IconKey())
}
