package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

func TestDashboardServiceStatsAndCaching(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	db := openTestDB(t, "dashboard",
		&models.Departement{}, &models.Filiere{}, &models.Module{},
		&models.User{}, &models.Seance{}, &models.ActivityLog{},
	)

	admin := models.User{Nom: "Tazi", Prenom: "Leila", Email: "leila@heec.ma", PasswordHash: "x", Actif: true}
	require.NoError(t, db.Create(&admin).Error)
	inactive := models.User{Nom: "Fassi", Prenom: "Karim", Email: "karim@heec.ma", PasswordHash: "x", Actif: false}
	require.NoError(t, db.Create(&inactive).Error)

	departement := models.Departement{Nom: "Gestion"}
	require.NoError(t, db.Create(&departement).Error)
	filiere := models.Filiere{Nom: "Management", DepartementID: departement.ID}
	require.NoError(t, db.Create(&filiere).Error)
	module := models.Module{Nom: "Stratégie", Code: "STR301", FiliereID: filiere.ID}
	require.NoError(t, db.Create(&module).Error)

	today := time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Seance{
		Titre: "Cours de stratégie", DateSeance: today,
		HeureDebut: today.Add(9 * time.Hour), HeureFin: today.Add(11 * time.Hour),
		Type: models.SeanceCours, ModuleID: module.ID, EnseignantID: admin.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Seance{
		Titre: "Examen de stratégie", DateSeance: today.AddDate(0, 0, 7),
		HeureDebut: today.AddDate(0, 0, 7).Add(9 * time.Hour), HeureFin: today.AddDate(0, 0, 7).Add(11 * time.Hour),
		Type: models.SeanceExamen, ModuleID: module.ID, EnseignantID: admin.ID,
	}).Error)

	require.NoError(t, db.Create(&models.ActivityLog{
		UserID: admin.ID, Action: models.ActionCreate, EntityType: models.EntityModule,
		EntityName: module.Nom, Description: "Création du module Stratégie",
	}).Error)

	service := NewDashboardService(
		repository.NewStatsRepository(db),
		repository.NewActivityLogRepository(db),
		client, time.Minute, zerolog.Nop(),
	)
	service.(*dashboardService).now = func() time.Time { return today.Add(8 * time.Hour) }

	stats, err := service.GetStats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.TotalUsers)
	require.EqualValues(t, 1, stats.ActiveUsers)
	require.EqualValues(t, 1, stats.TotalDepartements)
	require.EqualValues(t, 1, stats.TotalFilieres)
	require.EqualValues(t, 1, stats.TotalModules)
	require.EqualValues(t, 2, stats.TotalSeances)
	require.EqualValues(t, 1, stats.SeancesToday)
	require.Len(t, stats.RecentActivity, 1)
	require.True(t, server.Exists("dashboard:stats"))

	// Cached response is served even after the underlying data changes.
	require.NoError(t, db.Create(&models.Departement{Nom: "Langues"}).Error)
	cached, err := service.GetStats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, cached.TotalDepartements)

	// Once the cache expires the new counts show up.
	server.FastForward(2 * time.Minute)
	fresh, err := service.GetStats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, fresh.TotalDepartements)
}

func TestDashboardServiceWorksWithoutCache(t *testing.T) {
	db := openTestDB(t, "dashboard_nocache", &models.Departement{}, &models.Filiere{}, &models.Module{},
		&models.User{}, &models.Seance{}, &models.ActivityLog{})

	require.NoError(t, db.Create(&models.Departement{Nom: "Droit"}).Error)

	service := NewDashboardService(
		repository.NewStatsRepository(db),
		repository.NewActivityLogRepository(db),
		nil, time.Minute, zerolog.Nop(),
	)

	stats, err := service.GetStats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.TotalDepartements)
	require.Empty(t, stats.RecentActivity)
}
