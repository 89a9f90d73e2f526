package backup

import (
	"context"
	"encoding/json"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Log) error
	Update(ctx context.Context, l *Log) error
	List(ctx context.Context, limit int) ([]*Log, error)
	ListOlderThan(ctx context.Context, before time.Time) ([]*Log, error)
	Delete(ctx context.Context, id string) error
	// ExportTable returns every row of table as a JSON array.
	ExportTable(ctx context.Context, table string) (json.RawMessage, error)
}
