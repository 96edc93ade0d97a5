package db

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Models lista as tabelas do motor de agenda, na ordem das dependências.
func Models() []any {
	return []any{
		&models.Professional{},
		&models.Client{},
		&models.Service{},
		&models.PaymentMethod{},
		&models.User{},
		&models.WorkingHours{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.AuditLog{},
	}
}

// NewDB abre o pool do Postgres. O schema vem das migrations (cmd/migrate);
// AutoMigrate só roda quando autoMigrate=true (desenvolvimento).
func NewDB(cfg *config.Config, autoMigrate bool) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if autoMigrate {
		if err := db.AutoMigrate(Models()...); err != nil {
			return nil, err
		}
	}

	return db, nil
}
