// Command etl runs the Airbnb BI batch pipeline: extract the listings,
// reviews and calendar collections from MongoDB, clean and enrich them, and
// load the results into a SQLite table and an XLSX workbook.
//
// Exit status: 0 full success, 1 total failure, 2 partial success (one
// output sink failed).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/JDavidPC/bi-etl/internal/config"
	"github.com/JDavidPC/bi-etl/internal/extract"
	"github.com/JDavidPC/bi-etl/internal/infrastructure"
	"github.com/JDavidPC/bi-etl/internal/load"
	"github.com/JDavidPC/bi-etl/internal/operations"
	"github.com/JDavidPC/bi-etl/internal/transform"
	"github.com/JDavidPC/bi-etl/pkg/contracts"
)

func main() {
	os.Exit(run())
}

func run() int {
	uri := flag.String("uri", "", "MongoDB connection URI (overrides config)")
	db := flag.String("db", "", "source database name (overrides config)")
	out := flag.String("out", "", "output directory (overrides config)")
	configFile := flag.String("config", "", "path to YAML config file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *uri != "" {
		cfg.Mongo.URI = *uri
	}
	if *db != "" {
		cfg.Mongo.Database = *db
	}
	if *out != "" {
		cfg.Output.Dir = *out
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create directories: %v\n", err)
		return 1
	}

	logger, logPath, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	logger.Info("pipeline starting",
		slog.String("version", contracts.Version),
		slog.String("database", cfg.Mongo.Database),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("log_file", logPath))

	runner := operations.NewRunner(logger,
		&operations.ExtractStep{
			Extractor: extract.New(cfg.Mongo, logger),
		},
		&operations.TransformStep{
			Transformer: transform.NewTransformer(cfg.Transform, cfg.Output.Table, logger),
		},
		&operations.LoadStep{
			Loader: load.NewLoader(
				load.NewSQLiteSink(cfg.Output.SQLitePath(), logger),
				load.NewExcelSink(cfg.Output.WorkbookPath(), cfg.Output.MaxSheetRows, logger),
				logger,
			),
		},
	)

	summary := runner.Run(context.Background())
	return summary.ExitCode()
}
