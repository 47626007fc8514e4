// Command horsectl runs ledger maintenance against the database without going
// through the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/linqfy/horsesShit/internal/config"
	"github.com/linqfy/horsesShit/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	logging.Setup(cfg.LogLevel)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range commands(cfg) {
		commander.Register(c, "ledger")
	}
	commander.Register(&backupCmd{cfg: cfg}, "maintenance")
	commander.Register(&createOperatorCmd{cfg: cfg}, "maintenance")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func commands(cfg *config.Config) []subcommands.Command {
	return []subcommands.Command{
		&checkOverdueCmd{cfg: cfg},
		&processQueueCmd{cfg: cfg},
		&balancesCmd{cfg: cfg},
	}
}
