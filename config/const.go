package config

import "time"

const (
	FlagConfigPath   = "config-path"
	FlagConfigDbPass = "db-pass"
	FlagTimeout      = "timeout"
	FlagLatest       = "latest"
	FlagMaxBlocks    = "max-blocks"

	DBDialectMysql   = "mysql"
	DBDialectSqlite3 = "sqlite3"

	EnvVarConfigFilePath = "CONFIG_FILE_PATH"
	EnvVarDBUserPass     = "DB_PASSWORD"

	DefaultMaxBlocksPerRun  = uint64(80)
	DefaultWorkerCount      = 16
	DefaultRPCTimeout       = 30 * time.Second
	DefaultScheduleInterval = 20 * time.Second
)
