package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"ymlfeed/report/internal/config"
	"ymlfeed/report/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ymlreport [options] <feed-url>\n\n")
		fmt.Fprintf(os.Stderr, "Counts the offers of a YML catalog feed per full category path.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
	}

	configFile := pflag.StringP("config", "c", "", "Path to a YAML config file (default ./config.yaml)")
	pflag.BoolP("debug", "d", false, "Cache the raw feed on disk, write results file and print stage timings")
	pflag.String("cache", config.CacheNone, "Raw feed cache backend: none, file or redis")
	pflag.String("log-level", "info", "Log level")
	pflag.Parse()

	cfg, err := config.Load(*configFile, pflag.CommandLine)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("⚠️ Unknown log level %q, keeping info", cfg.Log.Level)
	}

	if pflag.NArg() > 0 {
		cfg.Feed.URL = pflag.Arg(0)
	}
	if cfg.Feed.URL == "" {
		fmt.Fprintln(os.Stderr, "Feed URL wasn't provided")
		pflag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := container.New(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	err = app.Run(ctx, cfg.Feed.URL)
	app.Close()
	if err != nil {
		log.Fatalf("Report generation failed: %v", err)
	}

	log.Debug("Report generation finished successfully")
}
