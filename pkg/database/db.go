// Package database owns the GORM connection for Tillpoint. The driver is
// chosen at startup from DB_DRIVER; sqlite for the single-till default,
// postgres/mysql/sqlserver for shared back offices.
package database

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tillworks/tillpoint/config"
	"github.com/tillworks/tillpoint/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the configured database, tunes the connection pool, and
// verifies the connection with a ping.
func Connect() error {
	driver := config.DatabaseDriver()

	dialector, err := buildDialector(driver, config.DatabaseDSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	DB, err = gorm.Open(dialector, &gorm.Config{Logger: gormLogMode()})
	if err != nil {
		return fmt.Errorf("database: open %s: %w", driver, err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("database: get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(poolSetting("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(poolSetting("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database: ping %s: %w", driver, err)
	}

	logger.Info("database connected", "driver", driver)
	return nil
}

// Close releases the connection pool. Called on graceful shutdown.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormLogMode keeps GORM silent in production, where pkg/logger carries the
// request logs; in dev GORM's slow-query warnings stay on.
func gormLogMode() gormlogger.Interface {
	switch config.AppEnv() {
	case "production", "prod":
		return gormlogger.Default.LogMode(gormlogger.Silent)
	default:
		return gormlogger.Default.LogMode(gormlogger.Warn)
	}
}

func poolSetting(key string, fallback int) int {
	n, err := strconv.Atoi(config.Get(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}
