package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/linqfy/horsesShit/internal/auth"
	"github.com/linqfy/horsesShit/internal/config"
	"github.com/linqfy/horsesShit/internal/jobs"
	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/internal/metrics"
	"github.com/linqfy/horsesShit/internal/report"
	"github.com/linqfy/horsesShit/internal/storage/sqlite"
)

func openEngine(cfg *config.Config) (*sqlite.SQLiteStore, *ledger.Engine, error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return store, ledger.New(store), nil
}

type checkOverdueCmd struct {
	cfg *config.Config
}

func (*checkOverdueCmd) Name() string     { return "check-overdue" }
func (*checkOverdueCmd) Synopsis() string { return "mark unpaid installments past their due date as overdue" }
func (*checkOverdueCmd) Usage() string {
	return `horsectl check-overdue

  Moves every PENDING installment row whose due date has passed to OVERDUE.
  Running it twice is harmless.
`
}
func (*checkOverdueCmd) SetFlags(*flag.FlagSet) {}

func (c *checkOverdueCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, engine, err := openEngine(c.cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	res, err := engine.CheckOverdue(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("marked %d of %d rows overdue (%d skipped, %d failed)\n", res.Processed, res.Selected, res.Skipped, res.Failed)
	if res.Failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type processQueueCmd struct {
	cfg *config.Config
}

func (*processQueueCmd) Name() string     { return "process-queue" }
func (*processQueueCmd) Synopsis() string { return "apply prizes whose maturation window has passed" }
func (*processQueueCmd) Usage() string {
	return `horsectl process-queue

  Credits every PREMIO older than the maturation window that has not been
  applied yet.
`
}
func (*processQueueCmd) SetFlags(*flag.FlagSet) {}

func (c *processQueueCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, engine, err := openEngine(c.cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	res, err := engine.ProcessQueuedTransactions(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("applied %d of %d prizes (%d skipped, %d failed)\n", res.Processed, res.Selected, res.Skipped, res.Failed)
	if res.Failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type balancesCmd struct {
	cfg      *config.Config
	currency string
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "print every buyer's balance" }
func (*balancesCmd) Usage() string {
	return `horsectl balances [-currency <code>]

  Prints the running balance, outstanding installments and total paid of each
  buyer, followed by the balance of each of their shares.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "ISO 4217 code used to format amounts (defaults to CURRENCY).")
}

func (c *balancesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	code := c.currency
	if code == "" {
		code = c.cfg.Currency
	}
	formatter, err := report.NewFormatter(code)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	store, engine, err := openEngine(c.cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	if err := writeBalances(ctx, os.Stdout, engine, formatter); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func writeBalances(ctx context.Context, w io.Writer, engine *ledger.Engine, formatter *report.Formatter) error {
	horses, err := engine.ListHorses(ctx, true)
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(horses))
	for _, h := range horses {
		names[h.ID] = h.Name
	}

	buyers, err := engine.ListBuyers(ctx)
	if err != nil {
		return err
	}
	lines := make([]report.Line, 0, len(buyers))
	for _, b := range buyers {
		bal, err := engine.BuyerBalance(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("balance of buyer %d: %w", b.ID, err)
		}
		lines = append(lines, report.Line{Buyer: b, Balance: bal, HorseNames: names})
	}
	return formatter.WriteBalances(w, lines)
}

type backupCmd struct {
	cfg  *config.Config
	dir  string
	keep int
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "write a timestamped copy of the database" }
func (*backupCmd) Usage() string {
	return `horsectl backup [-dir <dir>] [-keep <n>]

  Writes a consistent copy of the database and removes the oldest backups
  beyond the retention count.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Backup directory (defaults to BACKUP_DIR).")
	f.IntVar(&c.keep, "keep", 0, "Backups to keep (defaults to BACKUP_KEEP).")
}

func (c *backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts := jobs.Options{BackupDir: c.cfg.BackupDir, BackupKeep: c.cfg.BackupKeep}
	if c.dir != "" {
		opts.BackupDir = c.dir
	}
	if c.keep > 0 {
		opts.BackupKeep = c.keep
	}
	store, err := sqlite.New(c.cfg.DBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	path, err := jobs.New(nil, store, metrics.New(), opts).RunBackup(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(filepath.Clean(path))
	return subcommands.ExitSuccess
}

type createOperatorCmd struct {
	cfg         *config.Config
	email       string
	displayName string
	password    string
}

func (*createOperatorCmd) Name() string     { return "create-operator" }
func (*createOperatorCmd) Synopsis() string { return "create an account that can log in to the API" }
func (*createOperatorCmd) Usage() string {
	return `horsectl create-operator -email <email> -name <display name> [-password <password>]

  Creates an operator account. The password is read from HORSECTL_PASSWORD
  when -password is not given. Further operators can be registered over the
  API by a logged-in operator.
`
}

func (c *createOperatorCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Operator email.")
	f.StringVar(&c.displayName, "name", "", "Display name.")
	f.StringVar(&c.password, "password", "", "Password, at least 8 characters.")
}

func (c *createOperatorCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	password := c.password
	if password == "" {
		password = os.Getenv("HORSECTL_PASSWORD")
	}
	if c.email == "" || c.displayName == "" || password == "" {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	store, err := sqlite.New(c.cfg.DBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	op, err := auth.NewPasswordAuthenticator(store).Register(ctx, c.email, c.displayName, password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("created operator %s (%s)\n", op.Email, op.ID)
	return subcommands.ExitSuccess
}
