// Command indentctl reads the indent sheets from the terminal: the
// dashboard report and its exports, stage queues and stock alerts.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&versionCmd{}, "")

	commander.Register(&reportCmd{}, "reports")
	commander.Register(&exportCmd{}, "reports")
	commander.Register(&snapshotsCmd{}, "reports")
	commander.Register(&pendingCmd{}, "workflow")
	commander.Register(&inventoryCmd{}, "stock")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
