package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteDSNParams enforce foreign keys and WAL journaling, which the schema
// relies on for referential integrity and many-writer concurrency.
const sqliteDSNParams = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

// InitDBWithConfig opens the configured store and applies the connection pool
// settings. Fatal misconfiguration panics, matching the rest of the boot path.
func InitDBWithConfig(cfg *DBConfig) *gorm.DB {
	var dialector gorm.Dialector

	switch cfg.Dialect {
	case DBDialectMysql:
		password := viper.GetString(FlagConfigDbPass)
		if password == "" {
			password = os.Getenv(EnvVarDBUserPass)
		}
		if password == "" {
			var err error
			if password, err = GetDBPass(cfg); err != nil {
				panic(fmt.Sprintf("resolve db password error, err=%s", err.Error()))
			}
		}
		dbPath := fmt.Sprintf("%s:%s@%s", cfg.Username, password, cfg.Url)
		dialector = mysql.Open(dbPath)
	case DBDialectSqlite3:
		dialector = sqlite.Open(sqliteDSN(cfg.Url))
	default:
		panic(fmt.Sprintf("unexpected DB dialect %s", cfg.Dialect))
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		panic(fmt.Sprintf("open db error, err=%s", err.Error()))
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if cfg.MaxIdleConns != 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns != 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return db
}

func sqliteDSN(url string) string {
	if strings.Contains(url, "?") {
		return url + "&" + sqliteDSNParams
	}
	return url + "?" + sqliteDSNParams
}
