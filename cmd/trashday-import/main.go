package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"trashday/internal/cli"
	applog "trashday/internal/log"
	"trashday/internal/services"
	"trashday/internal/storage"
)

func main() {
	filePath := flag.String("file", "", "Path to the trash schedule CSV export (required)")
	dbPath := flag.String("db", "", "SQLite database path (defaults to SQLITE_DB_PATH)")
	noPublish := flag.Bool("no-publish", false, "Do not announce the new version over AMQP")
	timeout := flag.Duration("timeout", 5*time.Minute, "Maximum time for the import")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `trashday-import loads a CSV export into the SQLite store.

Usage:
  trashday-import -file trashschedulesbyaddress.csv
  trashday-import -file export.csv -db ./data/trashday.db -no-publish

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  SQLITE_DB_PATH    Database path when -db is not given
  AMQP_URL          Broker used to announce the new dataset version (optional)
`)
	}
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentImport)
	cfg := cli.LoadAndValidateConfig(logger)
	if *dbPath != "" {
		cfg.SQLiteDBPath = *dbPath
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite store",
			applog.FieldError, err,
			"path", cfg.SQLiteDBPath,
			"error_type", applog.ErrorTypeDatabase)
		os.Exit(1)
	}
	defer repo.Close()

	var publisher services.UpdatePublisher
	if !*noPublish {
		if client := cli.InitAMQP(logger, cfg); client != nil {
			defer client.Close()
			publisher = client
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := services.NewImportService(repo, publisher).ImportFile(ctx, *filePath)
	if err != nil {
		logger.Error("Import failed",
			applog.FieldOperation, applog.OpImport,
			applog.FieldSource, *filePath,
			applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Import finished",
		applog.FieldSource, result.Source,
		applog.FieldVersion, result.Version,
		applog.FieldRows, result.Records,
		"published", result.Published)
}
