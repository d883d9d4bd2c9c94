package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/dockyard/internal/config"
	"github.com/jask/dockyard/internal/database"
	"github.com/jask/dockyard/internal/engine"
	"github.com/jask/dockyard/internal/prefs"
	"github.com/jask/dockyard/internal/service"
	"github.com/jask/dockyard/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closeLog()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrationsWithDB(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	library := service.NewLayoutLibrary(db, logger)

	sess, err := prefs.LoadSession()
	if err != nil {
		logger.Warn("session ignored", "err", err)
	}

	defaults, err := cfg.LayoutDefaults()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	registry, err := tui.NewRegistry(cfg.UI.Virtual)
	if err != nil {
		log.Fatalf("registry: %v", err)
	}
	eng, err := engine.New(nil,
		engine.WithRegistry(registry),
		engine.WithLogger(logger),
		engine.WithDefaults(defaults),
	)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	defer eng.Destroy()

	// restore the last session, else open the configured default
	name, err := library.Open(ctx, eng, sess, cfg.Layout.Default)
	if err != nil {
		log.Fatalf("open layout: %v", err)
	}

	m, err := tui.New(tui.Options{
		Engine:        eng,
		Library:       library,
		Log:           logger,
		LayoutName:    name,
		DefaultLayout: cfg.Layout.Default,
		SaveSession:   true,
	})
	if err != nil {
		log.Fatalf("tui: %v", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func openLog(c config.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", c.Level, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
