package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/solana-archiver/block-syncer/cache"
)

type Config struct {
	LogConfig     LogConfig     `json:"log_config"`
	DBConfig      DBConfig      `json:"db_config"`
	SyncerConfig  SyncerConfig  `json:"syncer_config"`
	ServerConfig  ServerConfig  `json:"server_config"`
	MetricsConfig MetricsConfig `json:"metrics_config"`
	CacheConfig   CacheConfig   `json:"cache_config"`
}

type SyncerConfig struct {
	RPCAddrs            []string `json:"rpc_addrs"`             // RPCAddrs is a list of Solana JSON-RPC endpoints, the first one is used
	StartSlot           uint64   `json:"start_slot"`            // StartSlot is the slot to sync from when the store is empty
	MaxBlocks           uint64   `json:"max_blocks"`            // MaxBlocks caps the number of slots fetched per coordinator run
	WorkerCount         int      `json:"worker_count"`          // WorkerCount is the number of parallel per-slot workers
	RPCTimeoutSec       int64    `json:"rpc_timeout_sec"`       // RPCTimeoutSec is the request timeout of each RPC call
	ScheduleIntervalSec int64    `json:"schedule_interval_sec"` // ScheduleIntervalSec is the period of the scheduled coordinator run
}

func (cfg *SyncerConfig) Validate() {
	if len(cfg.RPCAddrs) == 0 {
		panic("at least one rpc address must be configured")
	}
}

func (cfg *SyncerConfig) GetMaxBlocks() uint64 {
	if cfg.MaxBlocks != 0 {
		return cfg.MaxBlocks
	}
	return DefaultMaxBlocksPerRun
}

func (cfg *SyncerConfig) GetWorkerCount() int {
	if cfg.WorkerCount != 0 {
		return cfg.WorkerCount
	}
	return DefaultWorkerCount
}

func (cfg *SyncerConfig) GetRPCTimeout() time.Duration {
	if cfg.RPCTimeoutSec != 0 {
		return time.Duration(cfg.RPCTimeoutSec) * time.Second
	}
	return DefaultRPCTimeout
}

func (cfg *SyncerConfig) GetScheduleInterval() time.Duration {
	if cfg.ScheduleIntervalSec != 0 {
		return time.Duration(cfg.ScheduleIntervalSec) * time.Second
	}
	return DefaultScheduleInterval
}

type ServerConfig struct {
	Address string `json:"address"` // Address the read-only query API listens on
}

type MetricsConfig struct {
	Enable  bool   `json:"enable"`
	Address string `json:"address"`
}

type CacheConfig struct {
	CacheSize uint64 `json:"cache_size"`
}

func (c *CacheConfig) GetCacheSize() uint64 {
	if c.CacheSize != 0 {
		return c.CacheSize
	}
	return cache.DefaultCacheSize
}

type DBConfig struct {
	Dialect       string `json:"dialect"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	AWSSecretName string `json:"aws_secret_name"`
	AWSRegion     string `json:"aws_region"`
	Url           string `json:"url"`
	MaxIdleConns  int    `json:"max_idle_conns"`
	MaxOpenConns  int    `json:"max_open_conns"`
}

func (cfg *DBConfig) Validate() {
	if cfg.Dialect != DBDialectMysql && cfg.Dialect != DBDialectSqlite3 {
		panic(fmt.Sprintf("only %s and %s supported", DBDialectMysql, DBDialectSqlite3))
	}
	if cfg.Dialect == DBDialectMysql && (cfg.Username == "" || cfg.Url == "") {
		panic("db config is not correct, missing username and/or url")
	}
}

type LogConfig struct {
	Level                        string `json:"level"`
	Filename                     string `json:"filename"`
	MaxFileSizeInMB              int    `json:"max_file_size_in_mb"`
	MaxBackupsOfLogFiles         int    `json:"max_backups_of_log_files"`
	MaxAgeToRetainLogFilesInDays int    `json:"max_age_to_retain_log_files_in_days"`
	UseConsoleLogger             bool   `json:"use_console_logger"`
	UseFileLogger                bool   `json:"use_file_logger"`
	Compress                     bool   `json:"compress"`
}

func (cfg *LogConfig) Validate() {
	if cfg.UseFileLogger {
		if cfg.Filename == "" {
			panic("filename should not be empty if use file logger")
		}
		if cfg.MaxFileSizeInMB <= 0 {
			panic("max_file_size_in_mb should be larger than 0 if use file logger")
		}
		if cfg.MaxBackupsOfLogFiles <= 0 {
			panic("max_backups_off_log_files should be larger than 0 if use file logger")
		}
	}
}

func (c *Config) Validate() {
	c.LogConfig.Validate()
	c.DBConfig.Validate()
	c.SyncerConfig.Validate()
}

func ParseConfigFromJson(content string) *Config {
	var config Config
	if err := json.Unmarshal([]byte(content), &config); err != nil {
		panic(err)
	}
	return &config
}

func ParseConfigFromFile(filePath string) *Config {
	bz, err := os.ReadFile(filePath)
	if err != nil {
		panic(err)
	}

	var config Config
	if err := json.Unmarshal(bz, &config); err != nil {
		panic(err)
	}
	return &config
}
