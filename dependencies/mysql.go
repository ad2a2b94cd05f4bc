package dependencies

import (
	"fmt"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/models/entities"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// NewDialector picks the GORM dialector for the configured driver.
func NewDialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "", DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewGormConfig enables error translation so unique-index violations surface
// as gorm.ErrDuplicatedKey on every driver.
func NewGormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// AutoMigrate creates or updates the identity store tables and their unique indexes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Identity{},
		&entities.LoginHistory{},
		&entities.RejectedAuthAttempt{},
	)
}

// InitMySQL connects to the identity store with retries, configures the pool
// and migrates the schema.
func InitMySQL(cfg *config.IdentityHubConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	if cfg.MySQLConfig.DSN == "" {
		logger.Error("database DSN is not configured")
		return nil, fmt.Errorf("database DSN is empty in configuration")
	}

	dialector, err := NewDialector(cfg.MySQLConfig.Driver, cfg.MySQLConfig.DSN)
	if err != nil {
		return nil, err
	}

	gormConfig := NewGormConfig()
	gormConfig.Logger = core.NewGormLogger(logger, cfg.GormLogConfig)

	var db *gorm.DB
	maxRetries := 5
	retryInterval := 2 * time.Second

	logger.Info("connecting to identity store",
		zap.String("driver", cfg.MySQLConfig.Driver),
		zap.String("dsn_preview", previewDSN(cfg.MySQLConfig.DSN)),
	)

	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(dialector, gormConfig)
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					break
				}
			} else {
				err = dbErr
			}
		}
		logger.Warn("identity store not reachable, retrying",
			zap.Int("retry", i+1),
			zap.Int("maxRetries", maxRetries),
			zap.Error(err),
			zap.String("dsn_preview", previewDSN(cfg.MySQLConfig.DSN)),
		)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect identity store (DSN: %s): %w", previewDSN(cfg.MySQLConfig.DSN), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MySQLConfig.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MySQLConfig.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(db); err != nil {
		logger.Error("schema migration failed", zap.Error(err))
		return nil, fmt.Errorf("migrate identity store: %w", err)
	}

	logger.Info("identity store connected and migrated")
	return db, nil
}

// previewDSN masks the password part of a DSN for logging.
func previewDSN(dsn string) string {
	atIndex := strings.LastIndex(dsn, "@")
	if atIndex == -1 {
		return dsn
	}
	passwordStart := strings.Index(dsn[:atIndex], ":")
	if passwordStart == -1 {
		return dsn
	}
	return dsn[:passwordStart+1] + "****" + dsn[atIndex:]
}
