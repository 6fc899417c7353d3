package history

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ziadkadry99/greencode/internal/analyzer"
	"github.com/ziadkadry99/greencode/internal/energy"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	s := NewStore(d)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func fakeReport(path string, kg float64) *analyzer.Report {
	return &analyzer.Report{
		ProjectName: filepath.Base(path),
		ProjectPath: path,
		LanguageDetection: analyzer.LanguageDetection{
			PrimaryLanguage: "Go",
		},
		ProjectStructure: analyzer.ProjectStructure{TotalFiles: 3},
		CarbonFootprint: &energy.CarbonReport{
			TotalCarbonKg:  kg,
			TotalEnergyKWh: kg / 0.475,
			GridType:       "global_average",
			ComparisonMetrics: energy.ComparisonMetrics{
				ImpactLevel: energy.ImpactLow,
			},
		},
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer d.Close()

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Fatalf("runs table: %v", err)
	}
	if d.Path() != path {
		t.Errorf("Path() = %q, want %q", d.Path(), path)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestRecordAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	run, err := s.Record(ctx, fakeReport("/src/api", 0.004))
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if run.ID == "" {
		t.Fatal("Record() did not assign an ID")
	}

	got, err := s.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.ProjectName != "api" || got.PrimaryLanguage != "Go" || got.TotalFiles != 3 {
		t.Errorf("Get() = %+v", got)
	}
	if got.TotalCarbonKg != 0.004 {
		t.Errorf("TotalCarbonKg = %v, want 0.004", got.TotalCarbonKg)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, run.CreatedAt)
	}

	var decoded analyzer.Report
	if err := json.Unmarshal(got.Report, &decoded); err != nil {
		t.Fatalf("stored report is not JSON: %v", err)
	}
	if decoded.CarbonFootprint == nil || decoded.CarbonFootprint.GridType != "global_average" {
		t.Errorf("stored report lost the carbon footprint: %+v", decoded.CarbonFootprint)
	}
}

func TestGetMissing(t *testing.T) {
	s := newStore(t)
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestRecordRejectsEmptyReport(t *testing.T) {
	s := newStore(t)
	if _, err := s.Record(context.Background(), &analyzer.Report{}); err == nil {
		t.Error("expected an error for a report without a footprint")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, kg := range []float64{0.1, 0.2, 0.3} {
		if _, err := s.Record(ctx, fakeReport("/src/api", kg)); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}
	if _, err := s.Record(ctx, fakeReport("/src/web", 9)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	all, err := s.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("List() returned %d runs, want 4", len(all))
	}
	if all[0].ProjectPath != "/src/web" {
		t.Errorf("newest run = %s, want /src/web", all[0].ProjectPath)
	}
	if all[0].Report != nil {
		t.Error("List() should not load report bodies")
	}

	api, err := s.List(ctx, Filter{ProjectPath: "/src/api", Limit: 2})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(api) != 2 || api[0].TotalCarbonKg != 0.3 || api[1].TotalCarbonKg != 0.2 {
		t.Errorf("filtered List() = %+v", api)
	}
}

func TestLatestAndCompare(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.Latest(ctx, "/src/api"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() on empty store error = %v, want ErrNotFound", err)
	}

	if _, err := s.Record(ctx, fakeReport("/src/api", 0.2)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if _, err := s.Compare(ctx, "/src/api"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Compare() with one run error = %v, want ErrNotFound", err)
	}
	if _, err := s.Record(ctx, fakeReport("/src/api", 0.15)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	latest, err := s.Latest(ctx, "/src/api")
	if err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if latest.TotalCarbonKg != 0.15 {
		t.Errorf("Latest() carbon = %v, want 0.15", latest.TotalCarbonKg)
	}

	trend, err := s.Compare(ctx, "/src/api")
	if err != nil {
		t.Fatalf("Compare() error: %v", err)
	}
	if d := trend.DeltaKg - (-0.05); d > 1e-12 || d < -1e-12 {
		t.Errorf("DeltaKg = %v, want -0.05", trend.DeltaKg)
	}
	if d := trend.DeltaPercent - (-25); d > 1e-9 || d < -1e-9 {
		t.Errorf("DeltaPercent = %v, want -25", trend.DeltaPercent)
	}
}
