package logging

import (
	"os"

	"github.com/op/go-logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/solana-archiver/block-syncer/config"
)

var Logger = logging.MustGetLogger("block-syncer")

var format = logging.MustStringFormatter(
	`%{time:2006-01-02 15:04:05.000} %{shortfunc} %{level:.4s} %{message}`,
)

// InitLogger configures the module logger from the log section of the config
// file. Without it the logger falls back to the go-logging defaults, which is
// what tests rely on.
func InitLogger(cfg *config.LogConfig) {
	backends := make([]logging.Backend, 0)
	if cfg.UseConsoleLogger {
		consoleBackend := logging.NewLogBackend(os.Stdout, "", 0)
		backends = append(backends, logging.NewBackendFormatter(consoleBackend, format))
	}
	if cfg.UseFileLogger {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxFileSizeInMB,
			MaxBackups: cfg.MaxBackupsOfLogFiles,
			MaxAge:     cfg.MaxAgeToRetainLogFilesInDays,
			Compress:   cfg.Compress,
		}
		fileBackend := logging.NewLogBackend(fileWriter, "", 0)
		backends = append(backends, logging.NewBackendFormatter(fileBackend, format))
	}
	leveled := logging.SetBackend(backends...)
	level, err := logging.LogLevel(cfg.Level)
	if err != nil {
		panic(err)
	}
	leveled.SetLevel(level, "")
	Logger.SetBackend(leveled)
}
