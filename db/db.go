package db

import (
	"fmt"
	"strings"
	"time"

	"investmanager.com/config"
	"investmanager.com/types"

	puresqlite "github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the configured database, runs migrations and stores the handle
// in DB.
func Init(cfg *config.Config) error {
	conn, err := Open(cfg.DBType, cfg.DBDSN)
	if err != nil {
		return err
	}
	if err := Migrate(conn); err != nil {
		return err
	}
	DB = conn
	log.Infof("Database ready (%s)", strings.ToLower(cfg.DBType))
	return nil
}

// Open supports POSTGRES_DSN, SQLITE (cgo, mattn/go-sqlite3) and SQLITE_PURE
// (modernc via glebarez). SQLite handles are limited to one connection so
// writers queue instead of failing with SQLITE_BUSY.
func Open(dbType, dsn string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var (
		conn *gorm.DB
		err  error
	)
	switch strings.ToUpper(dbType) {
	case "POSTGRES_DSN", "POSTGRES":
		conn, err = gorm.Open(postgres.Open(dsn), gormCfg)
	case "SQLITE_PURE":
		conn, err = gorm.Open(puresqlite.Open(withPragma(dsn, "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")), gormCfg)
	case "", "SQLITE":
		conn, err = gorm.Open(sqlite.Open(withPragma(dsn, "_busy_timeout=5000&_foreign_keys=on")), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dbType, err)
	}

	if conn.Dialector.Name() == "sqlite" {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return conn, nil
}

func withPragma(dsn, pragma string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?" + pragma
}

func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&types.User{},
		&types.Account{},
		&types.Permission{},
		&types.Position{},
		&types.Transaction{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// IsPostgres reports whether row-level locking clauses are available.
func IsPostgres(conn *gorm.DB) bool {
	return conn.Dialector.Name() == "postgres"
}
