package db

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/medspa-scheduler/internal/config"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	log = logging.OrNop(log)

	level := logger.Warn
	if cfg.IsProduction() {
		level = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Medspa{},
		&models.ServiceCategory{},
		&models.ServiceType{},
		&models.Service{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.User{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	if err := SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword, log); err != nil {
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

// RunMigrations applies the embedded SQL migrations (reporting views,
// the daily revenue materialized view and the catalog seed). Tables must
// already exist.
func RunMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	driver, err := pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// SeedAdmin creates the bootstrap admin when the users table is empty and
// credentials are configured.
func SeedAdmin(db *gorm.DB, username, password string, log *zap.Logger) error {
	if username == "" || password == "" {
		return nil
	}

	var n int64
	if err := db.Model(&models.User{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	logging.OrNop(log).Info("bootstrap admin created", zap.String("username", username))
	return nil
}
