package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"indentdesk/internal/app"
	"indentdesk/internal/config"
	"indentdesk/internal/infrastructure"
	"indentdesk/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: config.yaml or configs/config.yaml)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionInfo())
		return
	}

	if err := run(*configPath); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = infrastructure.CloseLogFile() }()

	application, err := app.NewApplication(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run()
}
