package database

import (
	"fmt"
	"time"

	"storefront-service/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const connectAttempts = 10

// Config captures the connection parameters for the relational store.
type Config struct {
	Driver   string // postgres | mysql
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	MySQLDSN string
}

// Dialector returns the GORM dialector for the configured driver.
func (c Config) Dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case "", "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		if c.MySQLDSN == "" {
			return nil, fmt.Errorf("MYSQL_DSN not set")
		}
		return mysql.Open(c.MySQLDSN), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
}

// Connect opens the database with retries and configures the connection pool.
func Connect(cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}

	var db *gorm.DB
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dialector, gormCfg)
		if err == nil {
			sqlDB, poolErr := db.DB()
			if poolErr == nil {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
			}
			logger.Info("Connected to database", zap.String("driver", cfg.Driver))
			return db, nil
		}

		logger.Warn("DB connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		time.Sleep(time.Duration(i+1) * 2 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database after retries: %w", err)
}

// Tables lists every model the service owns, parents first.
func Tables() []interface{} {
	return []interface{}{
		&models.ShippingZone{},
		&models.ShippingMethod{},
		&models.ShippingMethodCountry{},
		&models.Channel{},
		&models.ChannelShippingZone{},
		&models.ShippingMethodChannelListing{},
		&models.CountryTaxRate{},
		&models.Address{},
		&models.User{},
		&models.Order{},
		&models.Payment{},
		&models.OrderEvent{},
	}
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := PrepareSchema(db); err != nil {
		return err
	}
	return db.AutoMigrate(Tables()...)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
