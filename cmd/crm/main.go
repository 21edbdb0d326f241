package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/glanzwerk/crm/internal/client"
	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/logger"
	"github.com/glanzwerk/crm/internal/tui"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewFileLogger(cfg.Client.LogFile, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	c, err := client.New(&cfg.Client, log)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	log.Info("starting terminal client", zap.String("server", c.BaseURL()))
	if _, err := tea.NewProgram(tui.New(c, &cfg.Client, log), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal client failed: %w", err)
	}
	return nil
}
