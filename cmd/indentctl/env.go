package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"indentdesk/internal/analytics"
	"indentdesk/internal/cache"
	"indentdesk/internal/config"
	"indentdesk/internal/infrastructure"
	"indentdesk/internal/services"
	"indentdesk/internal/sheets"
	"indentdesk/internal/validation"
	"indentdesk/pkg/contracts/domain"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file (default: config.yaml or configs/config.yaml)")
	verbose    = flag.Bool("v", false, "log debug output to stderr")
)

// env holds the services a command reads through. Reads go straight to the
// store; a one-shot command has nothing to cache.
type env struct {
	cfg       *config.Config
	logger    *slog.Logger
	dashboard *services.DashboardService
	indents   *services.IndentService
	inventory *services.InventoryService
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logCfg := cfg.Logging
	logCfg.Output = "stderr"
	logCfg.Format = "text"
	logCfg.Level = "warn"
	if *verbose {
		logCfg.Level = "debug"
	}
	logger, err := infrastructure.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return logger, nil
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	if err := validation.NewFileValidator(logger).ValidateStore(cfg.Store); err != nil {
		return nil, err
	}
	store, err := sheets.New(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open row store: %w", err)
	}
	reader := services.NewSheetReader(store, cache.Noop{}, 0, nil, logger)

	return &env{
		cfg:       cfg,
		logger:    logger,
		dashboard: services.NewDashboardService(reader, nil, logger),
		indents:   services.NewIndentService(reader, nil, logger),
		inventory: services.NewInventoryService(reader, logger),
	}, nil
}

// listFlag collects a repeatable string flag
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	if v = strings.TrimSpace(v); v != "" {
		*l = append(*l, v)
	}
	return nil
}

// filterFlags are the dashboard filters shared by report and export
type filterFlags struct {
	start    string
	end      string
	vendors  listFlag
	products listFlag
}

func (f *filterFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.start, "start", "", "first day to include (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "last day to include (YYYY-MM-DD)")
	fs.Var(&f.vendors, "vendor", "restrict to a vendor (repeatable)")
	fs.Var(&f.products, "product", "restrict to a product (repeatable)")
}

func (f *filterFlags) spec() (domain.FilterSpec, error) {
	dates := []struct{ name, value string }{{"-start", f.start}, {"-end", f.end}}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, ok := analytics.ParseDate(d.value); !ok {
			return domain.FilterSpec{}, fmt.Errorf("%s %q is not a date", d.name, d.value)
		}
	}
	return domain.FilterSpec{
		StartDate: f.start,
		EndDate:   f.end,
		Vendors:   f.vendors,
		Products:  f.products,
	}, nil
}
