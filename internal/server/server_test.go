package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/greencode/internal/analyzer"
	"github.com/ziadkadry99/greencode/internal/history"
)

var testdataDir = filepath.Join("..", "..", "testdata")

func newServer(t *testing.T, withStore bool, allowAll bool) *Server {
	t.Helper()
	var store *history.Store
	if withStore {
		database, err := history.OpenMemory()
		if err != nil {
			t.Fatalf("OpenMemory: %v", err)
		}
		t.Cleanup(func() { database.Close() })
		store = history.NewStore(database)
	}
	return New(Config{Port: 0, Root: testdataDir, AllowAll: allowAll}, analyzer.New(nil), store)
}

func do(t *testing.T, srv *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := do(t, newServer(t, false, false), "GET", "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newServer(t, false, true)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestReport(t *testing.T) {
	w := do(t, newServer(t, false, false), "GET", "/api/report?path=sample_project&grid=nuclear", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var report analyzer.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.ProjectName != "sample_project" {
		t.Errorf("project_name = %q", report.ProjectName)
	}
	if report.CarbonFootprint == nil || report.CarbonFootprint.GridType != "nuclear" {
		t.Errorf("unexpected carbon footprint: %+v", report.CarbonFootprint)
	}
	if report.AnalyzedAt == nil {
		t.Error("expected analyzed_at to be set")
	}
}

func TestReportErrors(t *testing.T) {
	srv := newServer(t, false, false)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"outside root", "/api/report?path=../../", http.StatusBadRequest},
		{"missing project", "/api/report?path=does_not_exist", http.StatusNotFound},
		{"unknown grid", "/api/report?path=sample_project&grid=solar_punk", http.StatusBadRequest},
		{"bad hours", "/api/report?path=sample_project&hours=-3", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, "GET", tt.target, nil)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestSnippet(t *testing.T) {
	srv := newServer(t, false, false)

	body := []byte(`{"code": "for a in xs:\n    for b in ys:\n        print(a, b)\n", "language": "python"}`)
	w := do(t, srv, "POST", "/api/snippet", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var report analyzer.SnippetReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.Features.RuntimeComplexity != "O(n²)" {
		t.Errorf("runtime = %q, want O(n²)", report.Features.RuntimeComplexity)
	}

	if w := do(t, srv, "POST", "/api/snippet", []byte(`{"code": "x"}`)); w.Code != http.StatusBadRequest {
		t.Errorf("missing language: expected 400, got %d", w.Code)
	}
	if w := do(t, srv, "POST", "/api/snippet", []byte(`not json`)); w.Code != http.StatusBadRequest {
		t.Errorf("bad body: expected 400, got %d", w.Code)
	}
}

func TestHistoryRoutes(t *testing.T) {
	if w := do(t, newServer(t, false, false), "GET", "/api/history", nil); w.Code != http.StatusNotFound {
		t.Errorf("history without store: expected 404, got %d", w.Code)
	}

	srv := newServer(t, true, false)
	if w := do(t, srv, "GET", "/api/report?path=sample_project&save=true", nil); w.Code != http.StatusOK {
		t.Fatalf("report: expected 200, got %d", w.Code)
	}

	w := do(t, srv, "GET", "/api/history?path=sample_project", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", w.Code)
	}
	var runs []history.Run
	if err := json.Unmarshal(w.Body.Bytes(), &runs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	w = do(t, srv, "GET", "/api/history/"+runs[0].ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("run: expected 200, got %d", w.Code)
	}
	if w := do(t, srv, "GET", "/api/history/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing run: expected 404, got %d", w.Code)
	}
}
