package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	pq "github.com/lib/pq"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

func newMockRepo(t *testing.T) (*snapshotRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := &snapshotRepository{db: db}
	cleanup := func() { _ = db.Close() }
	return repo, mock, cleanup
}

// jsonArg matches a JSONB argument by decoded content rather than bytes.
type jsonArg struct{ want snapshotPayload }

func (a jsonArg) Match(v driver.Value) bool {
	b, ok := v.([]byte)
	if !ok {
		return false
	}
	var got snapshotPayload
	if err := json.Unmarshal(b, &got); err != nil {
		return false
	}
	return len(got.History) == len(a.want.History) &&
		len(got.Predictions) == len(a.want.Predictions) &&
		len(got.Observations) == len(a.want.Observations)
}

func sampleDataset() models.Dataset {
	return models.Dataset{
		Ticker:       "SPY",
		History:      models.Series{{Date: "2020-01-01", Value: models.Some(1)}},
		Predictions:  models.Series{{Date: "2020-01-02", Value: models.Null}},
		Observations: models.Series{{Date: "2020-01-02", Value: models.Null}, {Date: "2020-01-02", Value: models.Some(2)}},
		FetchedAt:    time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC),
	}
}

func TestSaveSnapshot_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	ds := sampleDataset()
	insert := regexp.MustCompile(`INSERT INTO dataset_snapshots \(ticker, payload, fetched_at\)\s+VALUES \(\$1, \$2, \$3\)\s+ON CONFLICT \(ticker\)`)

	cases := []struct {
		name    string
		execErr error
		wantErr bool
	}{
		{name: "ok"},
		{name: "db error", execErr: errors.New("dummy"), wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exp := mock.ExpectExec(insert.String()).
				WithArgs("SPY", jsonArg{want: snapshotPayload{History: ds.History, Predictions: ds.Predictions, Observations: ds.Observations}}, ds.FetchedAt)
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.SaveSnapshot(context.Background(), ds)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tc.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestSaveSnapshot_RequiresTicker(t *testing.T) {
	repo, _, done := newMockRepo(t)
	defer done()
	if err := repo.SaveSnapshot(context.Background(), models.Dataset{}); err == nil {
		t.Fatalf("expected error for empty ticker")
	}
}

func TestLoadSnapshot_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	query := regexp.QuoteMeta(`SELECT payload, fetched_at FROM dataset_snapshots WHERE ticker = $1`)
	fetched := time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		doc := `{"history":[{"date":"2020-01-01","value":1}],"predictions":[{"date":"2020-01-02","value":null}],"observations":[]}`
		mock.ExpectQuery(query).WithArgs("SPY").
			WillReturnRows(sqlmock.NewRows([]string{"payload", "fetched_at"}).AddRow([]byte(doc), fetched))

		ds, err := repo.LoadSnapshot(context.Background(), "SPY")
		if err != nil || ds == nil {
			t.Fatalf("unexpected ds=%+v err=%v", ds, err)
		}
		if ds.Ticker != "SPY" || len(ds.History) != 1 || ds.History[0].Value != models.Some(1) {
			t.Fatalf("unexpected dataset: %+v", ds)
		}
		if ds.Predictions[0].Value.Valid {
			t.Fatalf("null prediction should stay absent")
		}
		if !ds.FetchedAt.Equal(fetched) {
			t.Fatalf("fetched_at=%v", ds.FetchedAt)
		}
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("QQQ").WillReturnError(sql.ErrNoRows)
		ds, err := repo.LoadSnapshot(context.Background(), "QQQ")
		if err != nil || ds != nil {
			t.Fatalf("want nil,nil got ds=%+v err=%v", ds, err)
		}
	})

	t.Run("corrupt payload", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("BAD").
			WillReturnRows(sqlmock.NewRows([]string{"payload", "fetched_at"}).AddRow([]byte(`{`), fetched))
		if _, err := repo.LoadSnapshot(context.Background(), "BAD"); err == nil {
			t.Fatalf("expected decode error")
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListAndDelete_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ticker FROM dataset_snapshots ORDER BY ticker`)).
		WillReturnRows(sqlmock.NewRows([]string{"ticker"}).AddRow("QQQ").AddRow("SPY"))
	got, err := repo.ListTickers(context.Background())
	if err != nil || len(got) != 2 || got[0] != "QQQ" {
		t.Fatalf("ListTickers: got=%v err=%v", got, err)
	}

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM dataset_snapshots WHERE ticker = $1`)).
		WithArgs("QQQ").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.DeleteSnapshot(context.Background(), "QQQ"); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM dataset_snapshots WHERE NOT (ticker = ANY($1))`)).
		WithArgs(pq.Array([]string{"SPY"})).WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.PruneSnapshots(context.Background(), []string{"SPY"})
	if err != nil || n != 3 {
		t.Fatalf("PruneSnapshots: n=%d err=%v", n, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPruneSnapshots_EmptyKeepIsNoop(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()
	n, err := repo.PruneSnapshots(context.Background(), nil)
	if err != nil || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected query: %v", err)
	}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	ds := sampleDataset()
	if err := repo.SaveSnapshot(ctx, ds); err != nil {
		t.Fatalf("save: %v", err)
	}

	older := ds
	older.FetchedAt = ds.FetchedAt.Add(-time.Hour)
	older.History = nil
	if err := repo.SaveSnapshot(ctx, older); err != nil {
		t.Fatalf("save older: %v", err)
	}
	got, _ := repo.LoadSnapshot(ctx, "SPY")
	if got == nil || len(got.History) != 1 {
		t.Fatalf("older snapshot must not overwrite newer: %+v", got)
	}

	qqq := ds
	qqq.Ticker = "QQQ"
	_ = repo.SaveSnapshot(ctx, qqq)
	tickers, _ := repo.ListTickers(ctx)
	if len(tickers) != 2 || tickers[0] != "QQQ" || tickers[1] != "SPY" {
		t.Fatalf("tickers=%v", tickers)
	}

	n, _ := repo.PruneSnapshots(ctx, []string{"SPY"})
	if n != 1 {
		t.Fatalf("pruned=%d", n)
	}
	_ = repo.DeleteSnapshot(ctx, "SPY")
	if got, _ := repo.LoadSnapshot(ctx, "SPY"); got != nil {
		t.Fatalf("expected deleted snapshot")
	}
	if err := repo.SaveSnapshot(ctx, models.Dataset{}); err == nil {
		t.Fatalf("expected error for empty ticker")
	}
}
