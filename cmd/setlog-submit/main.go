package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/claude/setlog/internal/api"
	"github.com/claude/setlog/internal/config"
	"github.com/claude/setlog/internal/editor"
	"github.com/claude/setlog/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	planPath := flag.String("path", "", "plan file, or directory of .yaml plans and Alpha Progression .csv exports (required)")
	stateDir := flag.String("state", defaultStateDir(), "directory for the submitted-plans database; empty disables it")
	dryRun := flag.Bool("dry-run", false, "print the payloads instead of sending them (edited workouts are still fetched)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("setlog-submit", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *planPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: setlog-submit -config config.yaml -path <plan.yaml|export.csv|dir> [-state dir] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var state *upload.StateDB
	if *stateDir != "" && !*dryRun {
		state, err = upload.OpenStateDB(*stateDir)
		if err != nil {
			log.Error("failed to open state database", "error", err)
			os.Exit(1)
		}
		defer state.Close()
	}

	client := api.NewClient(cfg.Backend.BaseURL, api.StaticToken(cfg.Auth.Token), cfg.Backend.Timeout, log)
	svc := editor.NewService(client, editor.NewStore(cfg.Editor.SessionTTL), editor.Options{
		StrictNumbers: cfg.Editor.StrictNumbers,
		Navigator: editor.NavigatorFunc(func(route string) {
			log.Debug("navigate", "route", route)
		}),
	}, log)
	defer svc.Close()

	if *dryRun {
		log.Info("DRY RUN mode: plans will be checked and printed but not sent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uploader := upload.New(svc, state, *planPath, *dryRun, os.Stdout, log)
	stats, err := uploader.Run(ctx)
	printStats(stats)
	if err != nil {
		log.Error("submit failed", "error", err)
		os.Exit(1)
	}
	log.Info("submit complete")
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".setlog-submit")
}

func printStats(stats *upload.Stats) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "=== Submit Summary ===")
	fmt.Fprintf(os.Stderr, "  Files total:      %d\n", stats.FilesTotal)
	fmt.Fprintf(os.Stderr, "  Files errored:    %d\n", stats.FilesErrored)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  Plans total:      %d\n", stats.PlansTotal)
	fmt.Fprintf(os.Stderr, "  Plans skipped:    %d (unchanged)\n", stats.PlansSkipped)
	fmt.Fprintf(os.Stderr, "  Plans errored:    %d\n", stats.PlansErrored)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  Workouts created: %d\n", stats.WorkoutsCreated)
	fmt.Fprintf(os.Stderr, "  Workouts updated: %d\n", stats.WorkoutsUpdated)
	fmt.Fprintln(os.Stderr)
}
