package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"csvload/internal/config"
	"csvload/internal/loader"
	"csvload/internal/metrics"
	"csvload/internal/metrics/prompush"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "csvload/internal/storage/all"
)

const banner = "============================================================"

// main is the entry point for the csvload binary. It loads the config,
// optionally initializes a metrics backend, runs the load, and exits non-zero
// on failure.
func main() {
	var (
		cfgPath           string
		csvPath           string
		table             string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/customers.json", "load config JSON path")
	flag.StringVar(&csvPath, "csv", "", "input CSV path (overrides source.path)")
	flag.StringVar(&table, "table", "", "destination table (overrides storage.table)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	// Local setups keep the DSN in a .env file; absence is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if csvPath != "" {
		cfg.Source.Path = csvPath
	}
	if table != "" {
		cfg.Storage.Table = table
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fatalf("configuration is invalid: %v", cfgPath)
	}
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	setupMetrics(metricsBackendFlg, pushGatewayURLFlg, cfg.Job, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	fmt.Println(banner)
	fmt.Printf("%s - CSV LOADER\n", strings.ToUpper(jobName(cfg)))
	fmt.Println(banner)

	ctx := context.Background()
	start := time.Now()

	res, err := loader.Run(ctx, cfg, os.Stdout)

	fmt.Println(banner)
	if err != nil {
		fmt.Printf("Load failed (%s): %v\n", loader.StageOf(err), err)
		os.Exit(1)
	}
	fmt.Printf("Load completed: %d rows appended to %s\n", res.RowsWritten, res.Table)

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// setupMetrics decides the metrics backend: flag → env → disabled.
func setupMetrics(backendName, gatewayURL, job string, verbose bool) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		gwURL := gatewayURL
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		if job == "" {
			job = "csvload"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, job)
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func jobName(cfg config.Config) string {
	if cfg.Job != "" {
		return cfg.Job
	}
	return "csvload"
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
