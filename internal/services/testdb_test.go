package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ibercasa/ibercasa/internal/models"
	pgrepo "github.com/ibercasa/ibercasa/internal/repositories/postgres"
)

type testStore struct {
	db           *gorm.DB
	interactions pgrepo.InteractionRepository
	queryLogs    pgrepo.QueryLogRepository
	preferences  pgrepo.PreferenceRepository
}

// newTestStore backs the repositories with a private in-memory
// database. One open connection serializes concurrent writers.
func newTestStore(t *testing.T) *testStore {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.UserInteraction{},
		&models.QueryLog{},
		&models.UserPreference{},
	))

	return &testStore{
		db:           db,
		interactions: pgrepo.NewInteractionRepo(db),
		queryLogs:    pgrepo.NewQueryLogRepo(db),
		preferences:  pgrepo.NewPreferenceRepo(db),
	}
}
