package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linqfy/horsesShit/internal/ledger"
	"github.com/linqfy/horsesShit/internal/metrics"
	"github.com/linqfy/horsesShit/internal/storage/sqlite"
)

type fakeSweeper struct {
	overdue atomic.Int32
	prizes  atomic.Int32
	fail    bool
}

func (f *fakeSweeper) CheckOverdue(context.Context) (ledger.SweepResult, error) {
	f.overdue.Add(1)
	if f.fail {
		return ledger.SweepResult{}, errors.New("database is locked")
	}
	return ledger.SweepResult{Selected: 2, Processed: 2}, nil
}

func (f *fakeSweeper) ProcessQueuedTransactions(context.Context) (ledger.SweepResult, error) {
	f.prizes.Add(1)
	return ledger.SweepResult{Selected: 1, Processed: 1}, nil
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		touch(t, dir, BackupName(base.Add(time.Duration(i)*time.Hour)))
	}
	touch(t, dir, "notes.txt")
	touch(t, dir, "backup_garbage.db")

	removed, err := Rotate(dir, 2)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"backup_20240501_150000.db",
		"backup_20240501_160000.db",
		"notes.txt",
		"backup_garbage.db",
	}, names)

	removed, err = Rotate(dir, 2)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestRunBackup(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "live.db"))
	require.NoError(t, err)
	defer store.Close()

	dir := filepath.Join(t.TempDir(), "backups")
	s := New(&fakeSweeper{}, store, metrics.New(), Options{BackupDir: dir, BackupKeep: 2})

	clock := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	var paths []string
	for i := 0; i < 3; i++ {
		path, err := s.RunBackup(context.Background())
		require.NoError(t, err)
		paths = append(paths, path)
		clock = clock.Add(time.Minute)
	}

	assert.NoFileExists(t, paths[0])
	assert.FileExists(t, paths[1])
	assert.FileExists(t, paths[2])
	assert.Equal(t, "backup_20240601_080200.db", filepath.Base(paths[2]))
}

func TestSchedulerRunsSweeps(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := New(sweeper, nil, metrics.New(), Options{SweepInterval: 10 * time.Millisecond})

	s.Start(context.Background())
	assert.Equal(t, int32(1), sweeper.overdue.Load())
	assert.Equal(t, int32(1), sweeper.prizes.Load())

	assert.Eventually(t, func() bool {
		return sweeper.prizes.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	after := sweeper.prizes.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, sweeper.prizes.Load())
}

func TestFailingSweepDoesNotStopTheOther(t *testing.T) {
	sweeper := &fakeSweeper{fail: true}
	s := New(sweeper, nil, metrics.New(), Options{})

	s.RunSweeps(context.Background())
	assert.Equal(t, int32(1), sweeper.overdue.Load())
	assert.Equal(t, int32(1), sweeper.prizes.Load())
	s.Stop()
}
