package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return assertErr{} }

	cases := []struct {
		name   string
		checks map[string]Check
		path   string
		want   int
	}{
		{name: "healthz ok", path: "/healthz", want: 200},
		{name: "readyz no checks", path: "/readyz", want: 200},
		{name: "readyz ok", checks: map[string]Check{"snapshots": ok}, path: "/readyz", want: 200},
		{name: "readyz nil check skipped", checks: map[string]Check{"snapshots": nil}, path: "/readyz", want: 200},
		{name: "readyz degraded", checks: map[string]Check{"snapshots": fail, "other": ok}, path: "/readyz", want: 503},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.checks).Register(r)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}
		})
	}
}

func TestHealthHandler_ReportsEachCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHealthHandler(map[string]Check{
		"snapshots": func(context.Context) error { return assertErr{} },
	}).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Status != "degraded" || body.Checks["snapshots"] != "err" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "err" }
