package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/pulsecoach/internal/coach"
	"github.com/claude/pulsecoach/internal/config"
	pcmcp "github.com/claude/pulsecoach/internal/mcp"
	"github.com/claude/pulsecoach/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remote := flag.String("remote", "", "base URL of a PulseCoach server; when set, tools go over HTTP instead of a local database")
	apiKey := flag.String("api-key", "", "API key for the remote server (remote mode)")
	userID := flag.String("user", "", "default user ID for tool calls that omit user_id")
	flag.Parse()

	// Logs go to stderr; stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds pcmcp.DataSource
	coachCfg := coach.DefaultConfig()

	if *remote != "" {
		if *apiKey == "" {
			fmt.Fprintf(os.Stderr, "Usage: pulsecoach-mcp -remote https://host -api-key KEY [-user ID]\n")
			flag.PrintDefaults()
			os.Exit(1)
		}
		// Remote mode works without a local config file; coaching defaults
		// then apply.
		if cfg, err := config.Load(*configPath); err == nil {
			coachCfg = cfg.Coach.Settings()
		}
		ds = pcmcp.NewHTTPClient(*remote, *apiKey)
		log.Info("MCP server starting", "mode", "remote", "url", *remote)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		coachCfg = cfg.Coach.Settings()

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("MCP server starting", "mode", "local")
	}

	s := pcmcp.New(ds, coachCfg, Version, log)

	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		if *userID != "" {
			return pcmcp.WithUserID(ctx, *userID)
		}
		return ctx
	}))
	if err != nil {
		log.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}
