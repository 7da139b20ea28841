package testutil

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mani19492/darkctf-arena/src/utils"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var migrationPath = "file://" + filepath.Join(utils.FindProjectRoot(), "migrations")

// SetupTestDB connects to the database named by TEST_DB_URL and runs
// the migrations. Tests that need a live database skip when it is not
// configured.
func SetupTestDB(t *testing.T) *gorm.DB {
	_ = godotenv.Load(filepath.Join(utils.FindProjectRoot(), ".env"))

	dsn := os.Getenv("TEST_DB_URL")
	if dsn == "" {
		t.Skip("TEST_DB_URL is not set, skipping database test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	migration, err := migrate.New(
		migrationPath,
		dsn)
	if err != nil {
		log.Fatalf("failed to create migrate: %v", err)
	}

	if err := migration.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// CleanupTestDB removes test rows, children first to respect foreign
// keys.
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	for _, table := range []string{"submissions", "team_members", "teams", "challenges", "ctf_events", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Logf("Warning: Failed to clean up table %s: %v", table, err)
		}
	}
}
