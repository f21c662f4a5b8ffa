package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/Rahulvijayan123/workout-sub002/internal/config"
	wsmcp "github.com/Rahulvijayan123/workout-sub002/internal/mcp"
	"github.com/Rahulvijayan123/workout-sub002/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	userID := flag.Int("user", 1, "user ID the MCP session is scoped to")
	flag.Parse()

	// Logs go to stderr: stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	engineCfg, err := cfg.Progression.Engine()
	if err != nil {
		log.Error("invalid progression config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	s := wsmcp.New(db, engineCfg, Version, log)

	log.Info("mcp server starting", "transport", "stdio", "user", *userID)
	uid := *userID
	err = server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return wsmcp.WithUserID(ctx, uid)
	}))
	if err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
