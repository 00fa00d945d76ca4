package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/solana-archiver/block-syncer/cache"
	"github.com/solana-archiver/block-syncer/config"
	syncerdb "github.com/solana-archiver/block-syncer/db"
	"github.com/solana-archiver/block-syncer/external/solana"
	"github.com/solana-archiver/block-syncer/logging"
	"github.com/solana-archiver/block-syncer/metrics"
	"github.com/solana-archiver/block-syncer/restapi"
	"github.com/solana-archiver/block-syncer/service"
)

func initFlags() {
	flag.String(config.FlagConfigPath, "", "config file path")
	flag.String(config.FlagConfigDbPass, "", "block-syncer db password")

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		panic(err)
	}
}

func printUsage() {
	fmt.Print("usage: ./block-syncer-server --config-path configFile\n")
}

func main() {
	initFlags()
	configFilePath := viper.GetString(config.FlagConfigPath)
	if configFilePath == "" {
		configFilePath = os.Getenv(config.EnvVarConfigFilePath)
		if configFilePath == "" {
			printUsage()
			return
		}
	}
	cfg := config.ParseConfigFromFile(configFilePath)
	if cfg == nil {
		panic("failed to get configuration")
	}
	cfg.Validate()
	logging.InitLogger(&cfg.LogConfig)

	db := config.InitDBWithConfig(&cfg.DBConfig)
	syncerdb.InitTables(db)
	blockDB := syncerdb.NewBlockSvcDB(db)

	localCache, err := cache.NewLocalCache(cfg.CacheConfig.GetCacheSize())
	if err != nil {
		panic(fmt.Sprintf("init cache error, err=%s", err.Error()))
	}
	client := solana.NewClient(cfg.SyncerConfig.RPCAddrs[0])
	querySvc := service.NewQueryService(blockDB, client, localCache, cfg)

	if cfg.MetricsConfig.Enable {
		metricsAddress := cfg.MetricsConfig.Address
		if metricsAddress == "" {
			metricsAddress = metrics.DefaultMetricsAddress
		}
		m := metrics.NewMetrics(metricsAddress)
		go m.Start()
	}

	address := cfg.ServerConfig.Address
	if address == "" {
		address = "0.0.0.0:8080"
	}
	server := restapi.NewServer(address, querySvc)
	if err := server.Serve(); err != nil {
		panic(fmt.Sprintf("serve query api error, err=%s", err.Error()))
	}
}
