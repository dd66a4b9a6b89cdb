package services

import (
	"fmt"
	"testing"

	"truckbot/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory SQLite database. The shared cache
// keeps all pooled connections pointed at the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Player{},
		&models.Job{},
		&models.DrivingSession{},
		&models.Company{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type testEnv struct {
	db        *gorm.DB
	catalog   *CatalogService
	players   *PlayerService
	companies *CompanyService
	driving   *DrivingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	catalog := NewCatalogService()
	players := NewPlayerService(db, catalog, NewLeaderboardService(nil))
	companies := NewCompanyService(db, catalog)
	driving := NewDrivingService(db, catalog, players)
	return &testEnv{
		db:        db,
		catalog:   catalog,
		players:   players,
		companies: companies,
		driving:   driving,
	}
}

func (e *testEnv) registerPlayer(t *testing.T, id, name string) *models.Player {
	t.Helper()
	player, err := e.players.Register(id, name)
	if err != nil {
		t.Fatalf("failed to register player %s: %v", id, err)
	}
	return player
}
