// Package backup writes periodic JSON snapshots of the stock list.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/erazemk/almoxarifado/internal/export"
)

// DefaultSchedule runs one backup a day at midnight.
const DefaultSchedule = "@daily"

const fileLayout = "estoque-20060102-150405.json"

// Scheduler runs stock backups into a directory on a cron schedule.
type Scheduler struct {
	db   *sql.DB
	dir  string
	cron *cron.Cron

	// now is replaced in tests.
	now func() time.Time
}

// New creates a scheduler writing into dir. The schedule uses the standard
// five-field cron syntax or descriptors such as @daily and @every 1h.
func New(db *sql.DB, dir, schedule string) (*Scheduler, error) {
	if dir == "" {
		return nil, fmt.Errorf("backup directory not set")
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}

	s := &Scheduler{db: db, dir: dir, cron: cron.New(), now: time.Now}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running backups in the background.
func (s *Scheduler) Start() {
	slog.Info("backups scheduled", "dir", s.dir)
	s.cron.Start()
}

// Stop stops the schedule and waits for a running backup to finish or ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run() {
	path, err := s.RunOnce(context.Background())
	if err != nil {
		slog.Error("backup failed", "error", err)
		return
	}
	slog.Info("backup written", "path", path)
}

// RunOnce writes one snapshot and returns its path. The file appears under
// its final name only once it is complete.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	records, err := export.LoadStock(ctx, s.db)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".estoque-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating backup file: %w", err)
	}
	if err := export.WriteJSON(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing backup file: %w", err)
	}

	path := filepath.Join(s.dir, s.now().Format(fileLayout))
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("renaming backup file: %w", err)
	}
	return path, nil
}
