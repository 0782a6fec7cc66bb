package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newUpstream(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestTickers_TableDriven(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "list", body: `{"tickers":["SPY","QQQ"]}`, want: 2},
		{name: "not an array", body: `{"tickers":"SPY"}`, want: 0},
		{name: "bare array", body: `["SPY"]`, want: 0},
		{name: "mixed entries", body: `{"tickers":["SPY",1,null,""]}`, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newUpstream(t, map[string]func(http.ResponseWriter, *http.Request){"/tickers": writeJSON(tc.body)})
			got, err := NewClient(srv.URL, time.Second).Tickers(context.Background())
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("want %d tickers, got %v", tc.want, got)
			}
		})
	}
}

func TestPredictions_SendsTickerAndNoStore(t *testing.T) {
	var gotTicker, gotCache string
	srv := newUpstream(t, map[string]func(http.ResponseWriter, *http.Request){
		"/predictions": func(w http.ResponseWriter, r *http.Request) {
			gotTicker = r.URL.Query().Get("ticker")
			gotCache = r.Header.Get("Cache-Control")
			_, _ = w.Write([]byte(`[{"predict_date":"2020-01-01","prediction":1},7]`))
		},
	})

	recs, err := NewClient(srv.URL+"/", time.Second).Predictions(context.Background(), "BRK.B&X")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotTicker != "BRK.B&X" {
		t.Fatalf("ticker not escaped properly, got %q", gotTicker)
	}
	if gotCache != "no-store" {
		t.Fatalf("expected no-store, got %q", gotCache)
	}
	if len(recs) != 1 || recs[0].PredictDate == nil || *recs[0].PredictDate != "2020-01-01" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestHistory_NonArrayIsEmpty(t *testing.T) {
	srv := newUpstream(t, map[string]func(http.ResponseWriter, *http.Request){"/history": writeJSON(`{"error":"nope"}`)})
	recs, err := NewClient(srv.URL, time.Second).History(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}

func TestGet_Non2xxIsFetchFailure(t *testing.T) {
	srv := newUpstream(t, map[string]func(http.ResponseWriter, *http.Request){
		"/history": func(w http.ResponseWriter, r *http.Request) { http.Error(w, "down", http.StatusServiceUnavailable) },
	})
	_, err := NewClient(srv.URL, time.Second).History(context.Background(), "SPY")
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusServiceUnavailable || fe.Endpoint != "history" {
		t.Fatalf("unexpected error detail: %+v", fe)
	}
}

func TestGet_MalformedBodyIsFetchFailure(t *testing.T) {
	cases := []struct {
		name     string
		endpoint string
		body     string
	}{
		{name: "truncated history", endpoint: "history", body: `[{"Date":"2020-01-01","Close":1},{"Date":"2020-01-0`},
		{name: "html error page", endpoint: "predictions", body: `<html><body>Bad Gateway</body></html>`},
		{name: "empty body", endpoint: "history", body: ``},
		{name: "truncated tickers", endpoint: "tickers", body: `{"tickers":["SPY",`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newUpstream(t, map[string]func(http.ResponseWriter, *http.Request){"/" + tc.endpoint: writeJSON(tc.body)})
			c := NewClient(srv.URL, time.Second)

			var err error
			switch tc.endpoint {
			case "tickers":
				_, err = c.Tickers(context.Background())
			case "predictions":
				_, err = c.Predictions(context.Background(), "SPY")
			default:
				_, err = c.History(context.Background(), "SPY")
			}
			if !errors.Is(err, ErrFetchFailure) {
				t.Fatalf("expected fetch failure, got %v", err)
			}
			var fe *FetchError
			if !errors.As(err, &fe) || fe.Endpoint != tc.endpoint || fe.StatusCode != 0 {
				t.Fatalf("unexpected error detail: %+v", fe)
			}
		})
	}
}

func TestGet_OversizedBodyIsFetchFailure(t *testing.T) {
	old := maxBodyBytes
	maxBodyBytes = 16
	t.Cleanup(func() { maxBodyBytes = old })

	srv := newUpstream(t, map[string]func(http.ResponseWriter, *http.Request){
		"/history":     writeJSON(`[{"Date":"2020-01-01","Close":1}]`),
		"/predictions": writeJSON(`[]`),
	})
	c := NewClient(srv.URL, time.Second)

	_, err := c.History(context.Background(), "SPY")
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "exceeds 16 bytes") {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Predictions(context.Background(), "SPY"); err != nil {
		t.Fatalf("body under the cap should pass, got %v", err)
	}
}

func TestFetchAll_CorruptBodyFailsAll(t *testing.T) {
	srv := newUpstream(t, map[string]func(http.ResponseWriter, *http.Request){
		"/tickers":     writeJSON(`{"tickers":["SPY"]}`),
		"/predictions": writeJSON(`[]`),
		"/history":     writeJSON(`[{"Date":"2020-01-01","Close":1},{"Date":"2020-01-0`),
	})
	p, err := NewClient(srv.URL, time.Second).FetchAll(context.Background(), "SPY")
	if err == nil || p != nil {
		t.Fatalf("expected combined failure, got p=%+v err=%v", p, err)
	}
}

func TestGet_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Tickers(context.Background())
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
}

func TestFetchAll_Success(t *testing.T) {
	srv := newUpstream(t, map[string]func(http.ResponseWriter, *http.Request){
		"/tickers":     writeJSON(`{"tickers":["SPY"]}`),
		"/predictions": writeJSON(`[{"predict_date":"2020-01-01","prediction":1}]`),
		"/history":     writeJSON(`[{"Date":"2020-01-01","Close":2},{"Date":"2020-01-02","Close":3}]`),
	})
	p, err := NewClient(srv.URL, time.Second).FetchAll(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(p.Tickers) != 1 || len(p.Predictions) != 1 || len(p.History) != 2 {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if p.FetchedAt.IsZero() {
		t.Fatalf("fetched_at not set")
	}
}

func TestFetchAll_OneFailureFailsAll(t *testing.T) {
	var calls atomic.Int32
	srv := newUpstream(t, map[string]func(http.ResponseWriter, *http.Request){
		"/tickers": func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"tickers":["SPY"]}`))
		},
		"/predictions": func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		},
		"/history": writeJSON(`[]`),
	})
	p, err := NewClient(srv.URL, time.Second).FetchAll(context.Background(), "SPY")
	if err == nil || p != nil {
		t.Fatalf("expected combined failure, got p=%+v err=%v", p, err)
	}
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
}
