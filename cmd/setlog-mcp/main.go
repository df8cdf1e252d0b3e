package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/setlog/internal/api"
	"github.com/claude/setlog/internal/config"
	"github.com/claude/setlog/internal/editor"
	setlogmcp "github.com/claude/setlog/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("setlog-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.Backend.BaseURL, api.StaticToken(cfg.Auth.Token), cfg.Backend.Timeout, log)
	svc := editor.NewService(client, editor.NewStore(cfg.Editor.SessionTTL), editor.Options{
		StrictNumbers: cfg.Editor.StrictNumbers,
	}, log)
	defer svc.Close()

	log.Info("setlog MCP server starting", "version", Version, "backend", cfg.Backend.BaseURL)
	if err := server.ServeStdio(setlogmcp.New(svc, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
