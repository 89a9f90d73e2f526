package app

import (
	"compress/gzip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tutorhub/internal/domain/backup"
	"tutorhub/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const exportConcurrency = 4

// AdminNotifier informs admins about operational events.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, typ notification.Type, title, message string) (int, error)
}

// document is the on-disk layout of a backup file.
type document struct {
	ID        string                     `json:"id"`
	Trigger   backup.Trigger             `json:"trigger"`
	CreatedAt time.Time                  `json:"created_at"`
	Tables    map[string]json.RawMessage `json:"tables"`
}

type BackupService struct {
	repo     backup.Repository
	notifier AdminNotifier
	dir      string
	log      *logrus.Entry
	now      func() time.Time
	newID    func() string
}

func NewBackupService(repo backup.Repository, notifier AdminNotifier, dir string, log *logrus.Entry) *BackupService {
	return &BackupService{
		repo:     repo,
		notifier: notifier,
		dir:      dir,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Run exports every application table into one gzip-compressed JSON file and
// records the outcome in backup_logs. The returned log is never nil once the
// running entry has been stored.
func (s *BackupService) Run(ctx context.Context, trigger backup.Trigger) (*backup.Log, error) {
	entry := &backup.Log{
		ID:        s.newID(),
		Trigger:   trigger,
		Status:    backup.StatusRunning,
		StartedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record backup start: %w", err)
	}
	log := s.log.WithFields(logrus.Fields{"backup_id": entry.ID, "trigger": trigger})
	log.Info("Backup started")

	path, size, err := s.export(ctx, entry)
	entry.CompletedAt = sql.NullTime{Time: s.now().UTC(), Valid: true}
	if err != nil {
		entry.Status = backup.StatusFailed
		entry.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		log.WithError(err).Error("Backup failed")
		s.notifyFailure(ctx, entry)
	} else {
		entry.Status = backup.StatusCompleted
		entry.FilePath = sql.NullString{String: path, Valid: true}
		entry.SizeBytes = size
		entry.TablesCount = len(backup.Tables)
		log.WithFields(logrus.Fields{"file": path, "size_bytes": size}).Info("Backup completed")
	}

	// The caller's context may be done already; the outcome must still be recorded.
	if uerr := s.repo.Update(context.WithoutCancel(ctx), entry); uerr != nil {
		log.WithError(uerr).Error("Failed to record backup outcome")
		if err == nil {
			err = fmt.Errorf("failed to record backup outcome: %w", uerr)
		}
	}
	return entry, err
}

func (s *BackupService) export(ctx context.Context, entry *backup.Log) (string, int64, error) {
	doc := document{
		ID:        entry.ID,
		Trigger:   entry.Trigger,
		CreatedAt: entry.StartedAt,
		Tables:    make(map[string]json.RawMessage, len(backup.Tables)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)
	for _, table := range backup.Tables {
		table := table
		g.Go(func() error {
			rows, err := s.repo.ExportTable(gctx, table)
			if err != nil {
				return fmt.Errorf("export %s: %w", table, err)
			}
			mu.Lock()
			doc.Tables[table] = rows
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", 0, fmt.Errorf("create backup dir: %w", err)
	}
	name := fmt.Sprintf("backup-%s.json.gz", entry.StartedAt.Format("20060102-150405"))
	path := filepath.Join(s.dir, name)
	size, err := writeGzipJSON(path, doc)
	if err != nil {
		return "", 0, err
	}
	return path, size, nil
}

// writeGzipJSON writes v to a temporary file next to path and renames it into
// place.
func writeGzipJSON(path string, v any) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := gzip.NewWriter(tmp)
	if err := json.NewEncoder(zw).Encode(v); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("encode backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("compress backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("move backup into place: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat backup: %w", err)
	}
	return info.Size(), nil
}

func (s *BackupService) notifyFailure(ctx context.Context, entry *backup.Log) {
	if s.notifier == nil {
		return
	}
	msg := fmt.Sprintf("The %s backup started at %s failed: %s",
		entry.Trigger, entry.StartedAt.Format(time.RFC3339), entry.ErrorMessage.String)
	if _, err := s.notifier.NotifyAdmins(context.WithoutCancel(ctx), notification.TypeBackup, "Backup failed", msg); err != nil {
		s.log.WithError(err).Warn("Failed to notify admins about backup failure")
	}
}

// List returns the most recent backup runs.
func (s *BackupService) List(ctx context.Context, limit int) ([]*backup.Log, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	logs, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	return logs, nil
}

// Prune deletes backup files and their log entries older than retentionDays.
// It returns how many backups were removed.
func (s *BackupService) Prune(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays < 1 {
		return 0, fmt.Errorf("%w: retention must be at least one day", ErrInvalidInput)
	}
	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays)
	expired, err := s.repo.ListOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired backups: %w", err)
	}

	removed := 0
	for _, l := range expired {
		if l.FilePath.Valid {
			if err := os.Remove(l.FilePath.String); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.log.WithError(err).WithField("file", l.FilePath.String).Warn("Failed to remove backup file")
				continue
			}
		}
		if err := s.repo.Delete(ctx, l.ID); err != nil {
			return removed, fmt.Errorf("failed to delete backup log %s: %w", l.ID, err)
		}
		removed++
	}
	if removed > 0 {
		s.log.WithFields(logrus.Fields{"removed": removed, "cutoff": cutoff}).Info("Expired backups pruned")
	}
	return removed, nil
}
