package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/setlog/internal/api"
	"github.com/claude/setlog/internal/config"
	"github.com/claude/setlog/internal/editor"
	setlogmcp "github.com/claude/setlog/internal/mcp"
	"github.com/claude/setlog/internal/server"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	enableMCP := flag.Bool("mcp", true, "serve MCP over streamable HTTP at /mcp")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("setlog starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.Backend.BaseURL, api.StaticToken(cfg.Auth.Token), cfg.Backend.Timeout, log)
	store := editor.NewStore(cfg.Editor.SessionTTL)
	svc := editor.NewService(client, store, editor.Options{
		StrictNumbers: cfg.Editor.StrictNumbers,
		Navigator: editor.NavigatorFunc(func(route string) {
			log.Debug("navigate", "route", route)
		}),
	}, log)
	defer svc.Close()
	log.Info("editor ready",
		"backend", cfg.Backend.BaseURL,
		"session_ttl", cfg.Editor.SessionTTL.String(),
		"strict_numbers", cfg.Editor.StrictNumbers,
	)

	srv := server.New(svc, cfg.Auth.APIKey, log)
	if *enableMCP {
		srv.SetMCP(mcpserver.NewStreamableHTTPServer(setlogmcp.New(svc, Version, log)))
	}
	if cfg.Auth.APIKey == "" {
		log.Warn("auth.api_key not set, API is unauthenticated")
	}

	// Start server on tsnet or a plain listener
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := cfg.Server.Addr()
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped", "open_drafts_discarded", len(svc.Sessions()))
}
