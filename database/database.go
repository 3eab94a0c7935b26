package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"madrasa/config"
	"madrasa/models"
	courseModels "madrasa/models/course"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// Dialector picks the gorm driver for cfg.DBDriver. DB_DSN wins over the assembled DSN.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
			)
		}
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
			)
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = cfg.DBName + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Open connects through dialector, sizes the pool and runs migrations.
func Open(dialector gorm.Dialector, maxOpen, maxIdle int) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// ConnectDb establishes the global connection from config.AppConfig
func ConnectDb() {
	cfg := config.AppConfig

	dialector, err := Dialector(cfg)
	if err != nil {
		log.Fatalf("Failed to configure database: %v", err)
	}

	db, err := Open(dialector, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.DBDriver, err)
		os.Exit(2)
	}

	Database = DbInstance{Db: db}
}

// Migrate performs database migrations
func Migrate(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&courseModels.Program{},
		&courseModels.ProgramSemester{},
		&courseModels.Subject{},
		&courseModels.Course{},
		&courseModels.Section{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.Progress{},
		&courseModels.Exam{},
		&courseModels.ExamResult{},
		&courseModels.RetakeRequest{},
		&courseModels.CertificateRequest{},
		&courseModels.Certificate{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := createPartialIndexes(db); err != nil {
		return err
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// createPartialIndexes adds the one-pending-retake-per-(student, exam) constraint.
// MySQL has no partial indexes; there the existence check in the exam service is the only guard.
func createPartialIndexes(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case "postgres", "sqlite":
	default:
		log.Printf("[MIGRATE] partial indexes not supported on %s, skipping", db.Dialector.Name())
		return nil
	}

	err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_retake_one_pending
		ON retake_requests (user_id, exam_id)
		WHERE status = 'pending' AND deleted_at IS NULL`).Error
	if err != nil {
		return fmt.Errorf("creating pending retake index: %w", err)
	}
	return nil
}
