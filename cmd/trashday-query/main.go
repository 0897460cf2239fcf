package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"trashday/internal/backend"
	"trashday/internal/cli"
	"trashday/internal/core"
	"trashday/internal/dataset/csvfile"
	"trashday/internal/engine"
	applog "trashday/internal/log"
	"trashday/internal/services"
)

// listFlag collects comma separated values. A flag that was given at all
// constrains its column, even to nothing but the blank value.
type listFlag struct {
	values []string
	set    bool
}

func (f *listFlag) String() string {
	return strings.Join(f.values, ",")
}

func (f *listFlag) Set(s string) error {
	f.set = true
	for _, v := range strings.Split(s, ",") {
		f.values = append(f.values, strings.TrimSpace(v))
	}
	return nil
}

func main() {
	filePath := flag.String("file", "", "Read this CSV export instead of the configured backend")
	by := flag.String("by", string(core.ColumnTrashDay), "Column to count: "+columnNames())
	format := flag.String("format", "text", "Output format: text, json")
	width := flag.Int("width", 0, "Output width in columns (default: terminal width)")
	timeout := flag.Duration("timeout", time.Minute, "Maximum time to load the dataset")

	selectors := map[core.Column]*listFlag{}
	for _, col := range core.CategoricalColumns() {
		f := &listFlag{}
		selectors[col] = f
		flag.Var(f, string(col), "Keep rows whose "+string(col)+" is one of these comma separated values")
	}
	candidates := &listFlag{}
	flag.Var(candidates, "candidates", "Report exactly these values of -by (default: every value in the dataset)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `trashday-query counts addresses per category for a selection.

Usage:
  trashday-query -mailing_neighborhood Fishtown,Kensington -by trashday
  trashday-query -zip_code 19125 -by recollect -format json
  trashday-query -file export.csv -pwd_district 1,2 -by trashday

An empty value (for example -recollect=) selects rows where that column is blank.

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	dimension, err := core.ParseColumn(*by)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		flag.Usage()
		os.Exit(2)
	}

	sel := engine.NewSelection()
	for _, col := range core.CategoricalColumns() {
		if f := selectors[col]; f.set {
			sel = sel.With(col, f.values...)
		}
	}
	var wanted []string
	if candidates.set {
		wanted = append([]string{}, candidates.values...)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(envOr("LOG_LEVEL", "warn"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var provider *services.DatasetProvider
	if *filePath != "" {
		provider = services.NewDatasetProvider(csvfile.New(*filePath), backend.CSVBackend.String(), *timeout)
	} else {
		cfg := cli.LoadAndValidateConfig(logger)
		res := cli.InitBackend(ctx, logger, cfg)
		defer res.Close()
		provider = services.NewDatasetProvider(res.Loader, res.Type.String(), cfg.DatasetCacheTTL)
	}

	summary, err := services.NewExplorer(provider, "").Summary(ctx, sel, dimension, wanted)
	if err != nil {
		logger.Error("Query failed", applog.FieldError, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(summary)
	default:
		w := *width
		if w <= 0 {
			w = terminalWidth(os.Stdout)
		}
		err = renderBars(os.Stdout, summary, w)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func columnNames() string {
	cols := core.CategoricalColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
