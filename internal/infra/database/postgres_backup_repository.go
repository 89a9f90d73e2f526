package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"tutorhub/internal/domain/backup"

	"github.com/lib/pq"
)

var ErrBackupNotFound = errors.New("backup log not found")
var ErrUnknownTable = errors.New("table is not part of the backup set")

const backupColumns = `id, trigger, status, file_path, size_bytes, tables_count, error_message, started_at, completed_at`

type PostgresBackupRepository struct {
	db *sql.DB
}

func NewPostgresBackupRepository(db *sql.DB) *PostgresBackupRepository {
	return &PostgresBackupRepository{db: db}
}

func (r *PostgresBackupRepository) Create(ctx context.Context, l *backup.Log) error {
	query := `INSERT INTO backup_logs (id, trigger, status, started_at)
               VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, l.ID, l.Trigger, l.Status, l.StartedAt); err != nil {
		return fmt.Errorf("error creating backup log: %w", err)
	}
	return nil
}

func (r *PostgresBackupRepository) Update(ctx context.Context, l *backup.Log) error {
	query := `UPDATE backup_logs
               SET status = $1, file_path = $2, size_bytes = $3, tables_count = $4, error_message = $5, completed_at = $6
               WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query, l.Status, l.FilePath, l.SizeBytes, l.TablesCount, l.ErrorMessage, l.CompletedAt, l.ID)
	if err != nil {
		return fmt.Errorf("error updating backup log: %w", err)
	}
	return rowsAffectedOr(res, ErrBackupNotFound)
}

func (r *PostgresBackupRepository) List(ctx context.Context, limit int) ([]*backup.Log, error) {
	return r.query(ctx, `SELECT `+backupColumns+` FROM backup_logs ORDER BY started_at DESC LIMIT $1`, limit)
}

func (r *PostgresBackupRepository) ListOlderThan(ctx context.Context, before time.Time) ([]*backup.Log, error) {
	return r.query(ctx, `SELECT `+backupColumns+` FROM backup_logs WHERE started_at < $1 ORDER BY started_at`, before)
}

func (r *PostgresBackupRepository) query(ctx context.Context, query string, arg any) ([]*backup.Log, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("error listing backup logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*backup.Log, 0)
	for rows.Next() {
		l := &backup.Log{}
		if err := rows.Scan(&l.ID, &l.Trigger, &l.Status, &l.FilePath, &l.SizeBytes, &l.TablesCount,
			&l.ErrorMessage, &l.StartedAt, &l.CompletedAt); err != nil {
			return nil, fmt.Errorf("error scanning backup log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backup logs: %w", err)
	}
	return logs, nil
}

func (r *PostgresBackupRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM backup_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting backup log: %w", err)
	}
	return rowsAffectedOr(res, ErrBackupNotFound)
}

// ExportTable aggregates the whole table into one JSON array. Only tables from
// backup.Tables are accepted since the name is interpolated.
func (r *PostgresBackupRepository) ExportTable(ctx context.Context, table string) (json.RawMessage, error) {
	if !slices.Contains(backup.Tables, table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	query := fmt.Sprintf(`SELECT COALESCE(json_agg(t), '[]'::json) FROM %s t`, pq.QuoteIdentifier(table))
	var raw []byte
	if err := r.db.QueryRowContext(ctx, query).Scan(&raw); err != nil {
		return nil, fmt.Errorf("error exporting table %s: %w", table, err)
	}
	return json.RawMessage(raw), nil
}
