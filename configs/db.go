package configs

import (
	"fmt"
	"log"
	"os"
	"time"

	"orderdesk/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionDB opens the configured database.
func ConnectionDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBSource)
	case "postgres":
		dialector = postgres.Open(cfg.DBSource)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	gormLog := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true, // 404s are not database errors
	})
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		// one writer at a time; avoids "database is locked" under concurrent requests
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// SetupDatabase registers the join table and migrates the schema.
func SetupDatabase(db *gorm.DB) error {
	if err := db.SetupJoinTable(&entity.Order{}, "Items", &entity.OrderItem{}); err != nil {
		return fmt.Errorf("setup join table order.items: %w", err)
	}
	if err := db.SetupJoinTable(&entity.Item{}, "Orders", &entity.OrderItem{}); err != nil {
		return fmt.Errorf("setup join table item.orders: %w", err)
	}
	return db.AutoMigrate(
		&entity.Item{}, &entity.Order{}, &entity.OrderItem{},
		&entity.Staff{},
	)
}
