package db

import (
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandaclub/hub/internal/models"
)

var conn *gorm.DB

// Init opens (or creates) the SQLite database and migrates the schema.
// DB_PATH overrides the default file name.
func Init() error {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "clubhub.db"
	}

	var err error
	conn, err = gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Athlete{},
		&models.Document{},
		&models.DocumentVersion{},
		&models.DocumentShare{},
		&models.DocumentCategory{},
		&models.DocumentTag{},
		&models.Payment{},
		&models.TrainingSession{},
		&models.AttendanceRecord{},
		&models.ScheduleSlot{},
	); err != nil {
		return err
	}

	// Composite indexes that GORM doesn't auto-create from struct tags.
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_docs_athlete_type   ON documents(athlete_id, document_type)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_docs_status_expiry  ON documents(validation_status, expiry_date)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_payments_athlete_end ON payments(athlete_id, end_date)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_versions_doc_number  ON document_versions(document_id, version_number)")

	return nil
}

func Conn() *gorm.DB {
	return conn
}
