package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"studio-booking/config"
	"studio-booking/internal/domain/availability"
	"studio-booking/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ActiveSlotIndex is the partial unique index allowing at most one
// appointment per slot among the occupied statuses.
const ActiveSlotIndex = "idx_appointments_active_slot"

// activeSlotIndexSQL builds the index predicate from the occupied set so the
// insert guard agrees with the availability engine.
func activeSlotIndexSQL(occupied availability.StatusSet) (string, error) {
	statuses := occupied.Sorted()
	if len(statuses) == 0 {
		return "", errors.New("occupied status set is empty")
	}

	quoted := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if !entity.AppointmentStatus(s).Valid() {
			return "", fmt.Errorf("unknown appointment status %q in occupied set", s)
		}
		quoted = append(quoted, "'"+s+"'")
	}

	return fmt.Sprintf("CREATE UNIQUE INDEX %s ON appointments (date, start_time) WHERE status IN (%s)",
		ActiveSlotIndex, strings.Join(quoted, ", ")), nil
}

// NewConnection opens the database selected by cfg.Driver.
func NewConnection(cfg config.DBConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return NewSQLiteConnection(cfg.SQLitePath, cfg.LogQueries)
	case DriverPostgres, "":
		return NewPostgresConnection(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func NewPostgresConnection(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig(cfg.LogQueries))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	logrus.Info("Successfully connected to PostgreSQL database")

	return db, nil
}

// NewSQLiteConnection opens a SQLite database. Use ":memory:" for an
// in-process database; the pool is pinned to one connection so every
// query sees the same data.
func NewSQLiteConnection(path string, logQueries bool) (*gorm.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logQueries))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	logrus.Infof("Successfully opened SQLite database at %s", path)

	return db, nil
}

func gormConfig(logQueries bool) *gorm.Config {
	level := logger.Warn
	if logQueries {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}
}

// Migrate creates or updates every table and rebuilds the partial unique
// index for the given occupied statuses.
func Migrate(db *gorm.DB, occupied availability.StatusSet) error {
	indexSQL, err := activeSlotIndexSQL(occupied)
	if err != nil {
		return err
	}

	err = db.AutoMigrate(
		&entity.Appointment{},
		&entity.BlockedSlot{},
		&entity.BlockedDate{},
		&entity.Review{},
		&entity.ServiceOffering{},
		&entity.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DROP INDEX IF EXISTS " + ActiveSlotIndex).Error; err != nil {
			return fmt.Errorf("drop active slot index: %w", err)
		}
		if err := tx.Exec(indexSQL).Error; err != nil {
			return fmt.Errorf("create active slot index: %w", err)
		}
		return nil
	})
}

// IsDuplicateKeyError reports whether err is a unique constraint violation
// on either supported driver.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
