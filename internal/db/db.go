package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"room-booking-backend/config"
	"room-booking-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Info("running database migrations")
	if err := db.AutoMigrate(
		&model.Room{},
		&model.Reservation{},
		&model.Hold{},
		&model.Blackout{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.DisableExclusionDDL {
		log.Warn("range exclusion DDL disabled; overlap enforcement falls back to the store re-check, which is not authoritative under READ COMMITTED")
	} else {
		log.Info("applying range exclusion DDL")
		if err := applyExclusionDDL(db); err != nil {
			return nil, err
		}
	}

	log.Info("database initialization complete")
	return db, nil
}

// exclusionDDL installs the database-side overlap guards. Under the
// default READ COMMITTED isolation two concurrent insert transactions
// can both pass the store's re-check, so these constraints are the
// authoritative guarantee on Postgres; they also cover out-of-band
// writes. Expired holds are removed inside the insert transaction, so
// the hold constraint needs no expiry predicate.
var exclusionDDL = []string{
	"CREATE EXTENSION IF NOT EXISTS btree_gist;",

	"ALTER TABLE reservations DROP CONSTRAINT IF EXISTS reservations_range_valid;",
	"ALTER TABLE reservations ADD CONSTRAINT reservations_range_valid CHECK (start_at < end_at);",
	"ALTER TABLE holds DROP CONSTRAINT IF EXISTS holds_range_valid;",
	"ALTER TABLE holds ADD CONSTRAINT holds_range_valid CHECK (start_at < end_at);",

	// Half-open ranges: back-to-back bookings sharing a boundary
	// instant do not collide.
	"ALTER TABLE holds DROP CONSTRAINT IF EXISTS holds_no_overlap;",
	"ALTER TABLE holds ADD CONSTRAINT holds_no_overlap " +
		"EXCLUDE USING GIST (room_id WITH =, tstzrange(start_at, end_at, '[)') WITH &&);",

	"ALTER TABLE reservations DROP CONSTRAINT IF EXISTS reservations_no_overlap;",
	"ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap " +
		"EXCLUDE USING GIST (room_id WITH =, tstzrange(start_at, end_at, '[)') WITH &&) " +
		"WHERE (status IN ('confirmed', 'ongoing'));",

	"CREATE INDEX IF NOT EXISTS idx_holds_expires_at ON holds (expires_at);",
	"CREATE INDEX IF NOT EXISTS idx_reservations_fingerprint_created_at " +
		"ON reservations (phone_fingerprint, created_at DESC);",
}

func applyExclusionDDL(db *gorm.DB) error {
	for _, ddl := range exclusionDDL {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
