package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/models"
	"github.com/benmouhabdel/heec-manager/internal/repository"
)

// stubActivityRecorder captures audit entries so tests can assert on them
// without touching storage.
type stubActivityRecorder struct {
	entries []ActivityEntry
}

func (s *stubActivityRecorder) Record(_ context.Context, entry ActivityEntry) {
	s.entries = append(s.entries, entry)
}

func openTestDB(t *testing.T, name string, entities ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))

	return db
}

func setupActivityService(t *testing.T) (*gorm.DB, ActivityService) {
	t.Helper()

	db := openTestDB(t, "activity", &models.ActivityLog{})
	return db, NewActivityService(repository.NewActivityLogRepository(db), zerolog.Nop())
}

func TestActivityServiceRecordPersistsEntry(t *testing.T) {
	db, service := setupActivityService(t)

	entityID := uint(42)
	service.Record(context.Background(), ActivityEntry{
		Actor:       ActivityActor{ID: 7, IPAddress: "10.0.0.1", UserAgent: "test-agent"},
		Action:      models.ActionCreate,
		EntityType:  models.EntityDepartement,
		EntityID:    &entityID,
		EntityName:  "Informatique",
		Description: "Création du département Informatique",
		Metadata:    map[string]interface{}{"source": "test"},
	})

	var stored models.ActivityLog
	require.NoError(t, db.First(&stored).Error)
	require.Equal(t, uint(7), stored.UserID)
	require.Equal(t, models.ActionCreate, stored.Action)
	require.Equal(t, models.EntityDepartement, stored.EntityType)
	require.NotNil(t, stored.EntityID)
	require.Equal(t, entityID, *stored.EntityID)
	require.Equal(t, "10.0.0.1", stored.IPAddress)
	require.Equal(t, "test-agent", stored.UserAgent)
}

func TestActivityServiceRecordRejectsUnknownAction(t *testing.T) {
	db, service := setupActivityService(t)

	service.Record(context.Background(), ActivityEntry{
		Actor:       ActivityActor{ID: 7},
		Action:      models.ActionType("EXPLODE"),
		EntityType:  models.EntityUser,
		Description: "jamais persisté",
	})

	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestActivityServiceListFiltersByAction(t *testing.T) {
	db, service := setupActivityService(t)

	for _, action := range []models.ActionType{models.ActionCreate, models.ActionDelete, models.ActionCreate} {
		require.NoError(t, db.Create(&models.ActivityLog{
			UserID:      1,
			Action:      action,
			EntityType:  models.EntityModule,
			Description: "entrée de test",
		}).Error)
	}

	result, err := service.List(context.Background(), dto.ActivityListRequest{Page: 1, PageSize: 10, Action: "CREATE"})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.EqualValues(t, 2, result.Pagination.TotalItems)
	for _, item := range result.Items {
		require.Equal(t, "CREATE", item.Action)
	}
}
