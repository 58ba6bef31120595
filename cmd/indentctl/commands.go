package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"indentdesk/internal/exporter"
	"indentdesk/internal/workflow"
	"indentdesk/pkg/contracts"
	"indentdesk/pkg/contracts/domain"
)

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

func usage(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitUsageError
}

type reportCmd struct {
	filters filterFlags
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the dashboard report" }
func (*reportCmd) Usage() string {
	return `indentctl report [-start <date>] [-end <date>] [-vendor <name>]... [-product <name>]...

  Computes the dashboard KPIs and rankings and renders them as markdown.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) { c.filters.register(f) }

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	filters, err := c.filters.spec()
	if err != nil {
		return usage(err)
	}
	e, err := openEnv(ctx)
	if err != nil {
		return fail(err)
	}
	d, err := e.dashboard.Report(ctx, filters)
	if err != nil {
		return fail(err)
	}
	printMarkdown(reportMarkdown(d))
	return subcommands.ExitSuccess
}

type exportCmd struct {
	filters filterFlags
	format  string
	out     string
	bom     bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the dashboard report to a CSV or XLSX file" }
func (*exportCmd) Usage() string {
	return `indentctl export [-format csv|xlsx] [-o <file>] [filters]

  Writes the report with the same filters as "report". The format defaults
  to the output file extension.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.filters.register(f)
	f.StringVar(&c.format, "format", "", "csv or xlsx (default: from -o, else csv)")
	f.StringVar(&c.out, "o", "", "output file (default: indent_report.<format>)")
	f.BoolVar(&c.bom, "bom", true, "prefix CSV output with a UTF-8 byte order mark")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	format, out, err := exportTarget(c.format, c.out)
	if err != nil {
		return usage(err)
	}
	filters, err := c.filters.spec()
	if err != nil {
		return usage(err)
	}

	e, err := openEnv(ctx)
	if err != nil {
		return fail(err)
	}
	d, err := e.dashboard.Report(ctx, filters)
	if err != nil {
		return fail(err)
	}

	file, err := os.Create(out)
	if err != nil {
		return fail(err)
	}
	if format == "xlsx" {
		err = exporter.WriteXLSX(file, d)
	} else {
		err = exporter.WriteCSV(file, d, exporter.CSVOptions{BOMPrefix: c.bom})
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return subcommands.ExitSuccess
}

// exportTarget settles the format and output path from the flags
func exportTarget(format, out string) (string, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	}
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		return "", "", fmt.Errorf("unsupported format %q (want csv or xlsx)", format)
	}
	if out == "" {
		out = "indent_report." + format
	}
	return format, out, nil
}

type snapshotsCmd struct{}

func (*snapshotsCmd) Name() string     { return "snapshots" }
func (*snapshotsCmd) Synopsis() string { return "list the stored daily report snapshots" }
func (*snapshotsCmd) Usage() string {
	return `indentctl snapshots

  Lists the XLSX snapshots the scheduled job wrote to jobs.snapshot_dir.
`
}

func (*snapshotsCmd) SetFlags(f *flag.FlagSet) {}

func (*snapshotsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fail(err)
	}
	list, err := exporter.NewSnapshotWriter(cfg.Jobs.SnapshotDir, cfg.Jobs.SnapshotRetain, logger).List()
	if err != nil {
		return fail(err)
	}
	printMarkdown(snapshotsMarkdown(cfg.Jobs.SnapshotDir, list))
	return subcommands.ExitSuccess
}

type pendingCmd struct {
	stage string
}

func (*pendingCmd) Name() string     { return "pending" }
func (*pendingCmd) Synopsis() string { return "count the indents waiting in every workflow stage" }
func (*pendingCmd) Usage() string {
	return `indentctl pending [-stage <stage>]

  Without -stage prints the pending count per stage. With -stage lists the
  lines waiting in that stage.
`
}

func (c *pendingCmd) SetFlags(f *flag.FlagSet) {
	names := make([]string, 0, len(workflow.Stages))
	for _, s := range workflow.Stages {
		names = append(names, string(s))
	}
	f.StringVar(&c.stage, "stage", "", "list one stage: "+strings.Join(names, ", "))
}

func (c *pendingCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	var stage workflow.Stage
	if c.stage != "" {
		s, err := workflow.ParseStage(c.stage)
		if err != nil {
			return usage(err)
		}
		stage = s
	}

	e, err := openEnv(ctx)
	if err != nil {
		return fail(err)
	}

	if stage == "" {
		counts, err := e.indents.Notifications(ctx)
		if err != nil {
			return fail(err)
		}
		printMarkdown(pendingMarkdown(counts))
		return subcommands.ExitSuccess
	}

	lines, err := e.indents.Pending(ctx, stage)
	if err != nil {
		return fail(err)
	}
	printMarkdown(queueMarkdown(stage, lines))
	return subcommands.ExitSuccess
}

type inventoryCmd struct {
	status string
	list   bool
}

func (*inventoryCmd) Name() string     { return "inventory" }
func (*inventoryCmd) Synopsis() string { return "display stock alerts" }
func (*inventoryCmd) Usage() string {
	return `indentctl inventory [-list] [-status out_of_stock|low_stock|excess|in_stock]

  Prints the stock alert summary. -list or -status also lists the items.
`
}

func (c *inventoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.status, "status", "", "only list items in this status")
	f.BoolVar(&c.list, "list", false, "list the items")
}

func (c *inventoryCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	status := domain.StockStatus(c.status)
	switch status {
	case "", domain.StockOut, domain.StockLow, domain.StockExcess, domain.StockIn:
	default:
		return usage(fmt.Errorf("unknown status %q", c.status))
	}

	e, err := openEnv(ctx)
	if err != nil {
		return fail(err)
	}
	alerts, err := e.inventory.Alerts(ctx)
	if err != nil {
		return fail(err)
	}

	var items []domain.InventoryView
	if c.list || status != "" {
		if items, err = e.inventory.Items(ctx, status); err != nil {
			return fail(err)
		}
		if items == nil {
			items = []domain.InventoryView{}
		}
	}
	printMarkdown(inventoryMarkdown(alerts, items))
	return subcommands.ExitSuccess
}

type versionCmd struct{}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "print the indentctl version" }
func (*versionCmd) Usage() string {
	return `indentctl version
`
}

func (*versionCmd) SetFlags(f *flag.FlagSet) {}

func (*versionCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	fmt.Println(contracts.GetVersionInfo())
	return subcommands.ExitSuccess
}
