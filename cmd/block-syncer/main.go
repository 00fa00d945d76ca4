package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/solana-archiver/block-syncer/config"
	syncerdb "github.com/solana-archiver/block-syncer/db"
	"github.com/solana-archiver/block-syncer/entity"
	"github.com/solana-archiver/block-syncer/external/solana"
	"github.com/solana-archiver/block-syncer/logging"
	"github.com/solana-archiver/block-syncer/metrics"
	"github.com/solana-archiver/block-syncer/syncer"
	"github.com/solana-archiver/block-syncer/util"
)

func initFlags() {
	flag.String(config.FlagConfigPath, "", "config file path")
	flag.String(config.FlagConfigDbPass, "", "block-syncer db password")
	flag.Int64(config.FlagTimeout, 0, "rpc timeout in seconds, overrides config")
	flag.Bool(config.FlagLatest, false, "fetch: sync from the store frontier up to the chain head")
	flag.Uint64(config.FlagMaxBlocks, 0, "fetch: cap on slots fetched per run, overrides config")

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		panic(err)
	}
}

func printUsage() {
	fmt.Print("usage: ./block-syncer --config-path configFile ensure-schema\n")
	fmt.Print("usage: ./block-syncer --config-path configFile fetch <startSlot> <endSlot>\n")
	fmt.Print("usage: ./block-syncer --config-path configFile fetch --latest [--max-blocks n]\n")
	fmt.Print("usage: ./block-syncer --config-path configFile query \"<SQL>\"\n")
	fmt.Print("usage: ./block-syncer --config-path configFile schedule\n")
}

func main() {
	initFlags()
	configFilePath := viper.GetString(config.FlagConfigPath)
	if configFilePath == "" {
		configFilePath = os.Getenv(config.EnvVarConfigFilePath)
		if configFilePath == "" {
			printUsage()
			os.Exit(1)
		}
	}
	cfg := config.ParseConfigFromFile(configFilePath)
	if cfg == nil {
		panic("failed to get configuration")
	}
	cfg.Validate()
	logging.InitLogger(&cfg.LogConfig)

	args := pflag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	db := config.InitDBWithConfig(&cfg.DBConfig)
	blockDB := syncerdb.NewBlockSvcDB(db)
	client := solana.NewClient(cfg.SyncerConfig.RPCAddrs[0])
	bs := syncer.NewBlockSyncer(blockDB, client, &cfg.SyncerConfig)

	timeout := cfg.SyncerConfig.GetRPCTimeout()
	if sec := viper.GetInt64(config.FlagTimeout); sec > 0 {
		timeout = time.Duration(sec) * time.Second
	}
	maxBlocks := cfg.SyncerConfig.GetMaxBlocks()
	if n := viper.GetUint64(config.FlagMaxBlocks); n > 0 {
		maxBlocks = n
	}

	switch args[0] {
	case "ensure-schema":
		syncerdb.InitTables(db)
		fmt.Println("schema is up to date")
	case "fetch":
		syncerdb.InitTables(db)
		if viper.GetBool(config.FlagLatest) {
			processed, failed, err := bs.RunOnce(maxBlocks, timeout)
			if err != nil {
				logging.Logger.Errorf("fetch latest failed, err=%s", err.Error())
				os.Exit(1)
			}
			fmt.Printf("fetched latest blocks, processed=%d, failed=%d\n", processed, failed)
			return
		}
		if len(args) != 3 {
			printUsage()
			os.Exit(1)
		}
		start, err := util.StringToUint64(args[1])
		if err != nil {
			logging.Logger.Errorf("invalid start slot %s", args[1])
			os.Exit(1)
		}
		end, err := util.StringToUint64(args[2])
		if err != nil {
			logging.Logger.Errorf("invalid end slot %s", args[2])
			os.Exit(1)
		}
		if end < start {
			logging.Logger.Errorf("end slot %d is below start slot %d", end, start)
			os.Exit(1)
		}
		processed, failed := bs.SyncRange(start, end, timeout)
		fmt.Printf("fetched slots %d..%d, processed=%d, failed=%d\n", start, end, processed, failed)
	case "query":
		if len(args) != 2 {
			printUsage()
			os.Exit(1)
		}
		result, err := blockDB.RunQuery(args[1])
		if err != nil {
			logging.Logger.Errorf("query failed, err=%s", err.Error())
			os.Exit(1)
		}
		printQueryResult(result)
	case "schedule":
		syncerdb.InitTables(db)
		if cfg.MetricsConfig.Enable {
			metricsAddress := cfg.MetricsConfig.Address
			if metricsAddress == "" {
				metricsAddress = metrics.DefaultMetricsAddress
			}
			m := metrics.NewMetrics(metricsAddress)
			go m.Start()
		}
		if _, err := bs.StartSchedule(); err != nil {
			panic(err)
		}
		select {}
	default:
		printUsage()
		os.Exit(1)
	}
}

func printQueryResult(result *entity.QueryResult) {
	for i, col := range result.Columns {
		if i > 0 {
			fmt.Print("\t")
		}
		fmt.Print(col)
	}
	fmt.Println()
	for _, row := range result.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Print("\t")
			}
			fmt.Print(cell)
		}
		fmt.Println()
	}
	fmt.Printf("(%d rows)\n", result.RowCount)
}
