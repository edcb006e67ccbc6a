package repositories

import (
	"catalog/internal/config"
	"catalog/internal/models"

	"github.com/go-faster/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase opens the GORM handle for the configured driver and, when
// enabled, migrates the products table.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		dialector = SQLiteDialector(dsn)
	default:
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.DatabaseDriver)
	}

	if cfg.DatabaseMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the products table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return errors.Wrap(err, "migrate products")
	}
	return nil
}
