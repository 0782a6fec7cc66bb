package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

// SnapshotRepository defines contract for last-known-good dataset storage.
//
// Snapshots are written after every successful load and read only when a
// fresh fetch fails.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, ds models.Dataset) error
	// LoadSnapshot returns nil, nil when no snapshot exists for ticker.
	LoadSnapshot(ctx context.Context, ticker string) (*models.Dataset, error)
	ListTickers(ctx context.Context) ([]string, error)
	DeleteSnapshot(ctx context.Context, ticker string) error
	// PruneSnapshots removes every snapshot whose ticker is not in keep and
	// returns how many were removed.
	PruneSnapshots(ctx context.Context, keep []string) (int64, error)
}

type snapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// snapshotPayload is the JSONB document stored per ticker.
type snapshotPayload struct {
	History      models.Series `json:"history"`
	Predictions  models.Series `json:"predictions"`
	Observations models.Series `json:"observations"`
}

// SaveSnapshot upserts the dataset for its ticker.
func (r *snapshotRepository) SaveSnapshot(ctx context.Context, ds models.Dataset) error {
	if ds.Ticker == "" {
		return errors.New("snapshot without ticker")
	}
	doc, err := json.Marshal(snapshotPayload{
		History:      ds.History,
		Predictions:  ds.Predictions,
		Observations: ds.Observations,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO dataset_snapshots (ticker, payload, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker)
		DO UPDATE SET payload = EXCLUDED.payload,
					  fetched_at = EXCLUDED.fetched_at,
					  updated_at = NOW()
		WHERE dataset_snapshots.fetched_at <= EXCLUDED.fetched_at
	`, ds.Ticker, doc, ds.FetchedAt)
	return err
}

// LoadSnapshot reads the stored dataset for ticker.
func (r *snapshotRepository) LoadSnapshot(ctx context.Context, ticker string) (*models.Dataset, error) {
	var (
		doc []byte
		ds  models.Dataset
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM dataset_snapshots WHERE ticker = $1`, ticker,
	).Scan(&doc, &ds.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p snapshotPayload
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", ticker, err)
	}
	ds.Ticker = ticker
	ds.History = p.History
	ds.Predictions = p.Predictions
	ds.Observations = p.Observations
	ds.FetchedAt = ds.FetchedAt.UTC()
	return &ds, nil
}

// ListTickers returns every ticker with a stored snapshot, sorted.
func (r *snapshotRepository) ListTickers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ticker FROM dataset_snapshots ORDER BY ticker`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteSnapshot removes the snapshot for ticker, if any.
func (r *snapshotRepository) DeleteSnapshot(ctx context.Context, ticker string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM dataset_snapshots WHERE ticker = $1`, ticker)
	return err
}

// PruneSnapshots deletes snapshots for tickers the upstream no longer lists.
// An empty keep list is a no-op so that an empty ticker response cannot
// wipe the store.
func (r *snapshotRepository) PruneSnapshots(ctx context.Context, keep []string) (int64, error) {
	if len(keep) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM dataset_snapshots WHERE NOT (ticker = ANY($1))`, pq.Array(keep))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
