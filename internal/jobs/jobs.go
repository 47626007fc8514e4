// Package jobs runs the periodic background work: the overdue check, the
// prize queue and database backups.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/internal/metrics"
)

const (
	SweepOverdue = "overdue"
	SweepPrizes  = "prizes"

	backupPrefix = "backup_"
	backupLayout = "20060102_150405"
	backupSuffix = ".db"
)

// Sweeper runs the ledger sweeps.
type Sweeper interface {
	CheckOverdue(ctx context.Context) (ledger.SweepResult, error)
	ProcessQueuedTransactions(ctx context.Context) (ledger.SweepResult, error)
}

// Backupper writes a consistent copy of the database to dest.
type Backupper interface {
	Backup(ctx context.Context, dest string) error
}

// Options configures a Scheduler. A zero interval disables that job.
type Options struct {
	SweepInterval  time.Duration
	BackupInterval time.Duration
	BackupDir      string
	BackupKeep     int
}

// Scheduler owns the background tickers.
type Scheduler struct {
	sweeper Sweeper
	backup  Backupper
	metrics *metrics.Metrics
	opts    Options
	now     func() time.Time

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a Scheduler.
func New(sweeper Sweeper, backup Backupper, m *metrics.Metrics, opts Options) *Scheduler {
	return &Scheduler{
		sweeper: sweeper,
		backup:  backup,
		metrics: m,
		opts:    opts,
		now:     time.Now,
	}
}

// Start runs both sweeps once and then starts the tickers. It returns after the
// startup sweeps; the tickers run until Stop or ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.RunSweeps(ctx)

	if s.opts.SweepInterval > 0 {
		s.every(ctx, s.opts.SweepInterval, func(ctx context.Context) { s.RunSweeps(ctx) })
	}
	if s.opts.BackupInterval > 0 && s.backup != nil {
		s.every(ctx, s.opts.BackupInterval, func(ctx context.Context) {
			if _, err := s.RunBackup(ctx); err != nil {
				slog.Error("scheduled backup failed", "error", err)
			}
		})
	}
	slog.Info("scheduler started",
		"sweep_interval", s.opts.SweepInterval.String(),
		"backup_interval", s.opts.BackupInterval.String(),
	)
}

// Stop cancels the tickers and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) every(ctx context.Context, interval time.Duration, job func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				job(ctx)
			}
		}
	}()
}

// RunSweeps runs the overdue check and then the prize queue. A failing sweep is
// logged and does not stop the other one.
func (s *Scheduler) RunSweeps(ctx context.Context) {
	s.runSweep(ctx, SweepOverdue, s.sweeper.CheckOverdue, s.metrics.OverdueMarked.Add)
	s.runSweep(ctx, SweepPrizes, s.sweeper.ProcessQueuedTransactions, s.metrics.PrizesApplied.Add)
}

func (s *Scheduler) runSweep(ctx context.Context, name string, sweep func(context.Context) (ledger.SweepResult, error), processed func(float64)) {
	start := time.Now()
	res, err := sweep(ctx)
	s.metrics.ObserveSweep(name, time.Since(start), res.Failed)
	processed(float64(res.Processed))
	if err != nil {
		slog.Error("sweep failed", "sweep", name, "error", err)
	}
}

// RunBackup writes a timestamped backup and prunes the old ones. It returns the
// path written.
func (s *Scheduler) RunBackup(ctx context.Context) (string, error) {
	at := s.now()
	dest := filepath.Join(s.opts.BackupDir, BackupName(at))

	err := s.backup.Backup(ctx, dest)
	s.metrics.ObserveBackup(at, err)
	if err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}
	slog.Info("database backed up", "path", dest)

	removed, err := Rotate(s.opts.BackupDir, s.opts.BackupKeep)
	if err != nil {
		return dest, err
	}
	if len(removed) > 0 {
		slog.Info("old backups removed", "count", len(removed))
	}
	return dest, nil
}

// BackupName is the file name of a backup taken at t.
func BackupName(t time.Time) string {
	return backupPrefix + t.Format(backupLayout) + backupSuffix
}

// Rotate keeps the newest keep backups in dir and deletes the rest. Files that
// do not look like backups are ignored. It returns the removed paths.
func Rotate(dir string, keep int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
		if _, err := time.Parse(backupLayout, stamp); err != nil {
			continue
		}
		names = append(names, name)
	}
	if len(names) <= keep {
		return nil, nil
	}

	// The layout sorts lexically in time order.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var removed []string
	for _, name := range names[keep:] {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove backup %s: %w", name, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
