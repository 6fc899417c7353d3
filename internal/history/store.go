package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/greencode/internal/analyzer"
)

// ErrNotFound is returned when no run matches.
var ErrNotFound = errors.New("run not found")

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02 15:04:05.000000"

// Run is one stored analysis.
type Run struct {
	ID                string          `json:"id" yaml:"id"`
	CreatedAt         time.Time       `json:"created_at" yaml:"created_at"`
	ProjectName       string          `json:"project_name" yaml:"project_name"`
	ProjectPath       string          `json:"project_path" yaml:"project_path"`
	GridType          string          `json:"grid_type" yaml:"grid_type"`
	PrimaryLanguage   string          `json:"primary_language" yaml:"primary_language"`
	TotalFiles        int             `json:"total_files" yaml:"total_files"`
	TotalLines        int             `json:"total_lines" yaml:"total_lines"`
	TotalDependencies int             `json:"total_dependencies" yaml:"total_dependencies"`
	TotalEnergyKWh    float64         `json:"total_energy_kwh" yaml:"total_energy_kwh"`
	TotalCarbonKg     float64         `json:"total_carbon_kg" yaml:"total_carbon_kg"`
	ImpactLevel       string          `json:"impact_level" yaml:"impact_level"`
	Report            json.RawMessage `json:"report,omitempty" yaml:"-"`
}

// Store records and queries runs.
type Store struct {
	db  *DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Record stores a report and returns the new run.
func (s *Store) Record(ctx context.Context, report *analyzer.Report) (*Run, error) {
	if report == nil || report.CarbonFootprint == nil {
		return nil, fmt.Errorf("recording run: report has no carbon footprint")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshalling report: %w", err)
	}

	c := report.CarbonFootprint
	run := &Run{
		ID:                uuid.New().String(),
		CreatedAt:         s.now().UTC(),
		ProjectName:       report.ProjectName,
		ProjectPath:       report.ProjectPath,
		GridType:          c.GridType,
		PrimaryLanguage:   report.LanguageDetection.PrimaryLanguage,
		TotalFiles:        report.ProjectStructure.TotalFiles,
		TotalLines:        report.Features.Lines,
		TotalDependencies: report.Dependencies.TotalDependencies,
		TotalEnergyKWh:    c.TotalEnergyKWh,
		TotalCarbonKg:     c.TotalCarbonKg,
		ImpactLevel:       c.ComparisonMetrics.ImpactLevel,
		Report:            data,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, created_at, project_name, project_path, grid_type,
			primary_language, total_files, total_lines, total_dependencies,
			total_energy_kwh, total_carbon_kg, impact_level, report
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.Format(timeLayout),
		run.ProjectName,
		run.ProjectPath,
		run.GridType,
		run.PrimaryLanguage,
		run.TotalFiles,
		run.TotalLines,
		run.TotalDependencies,
		run.TotalEnergyKWh,
		run.TotalCarbonKg,
		run.ImpactLevel,
		string(data),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// Get retrieves a single run including its full report.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+`, report FROM runs WHERE id = ?`, id)
	run, err := scanRun(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// Filter controls which runs List returns.
type Filter struct {
	// ProjectPath restricts the result to one project.
	ProjectPath string
	Limit       int
}

// List returns runs newest first, without their report bodies.
func (s *Store) List(ctx context.Context, filter Filter) ([]Run, error) {
	query := `SELECT ` + columns + ` FROM runs`
	var args []any
	if filter.ProjectPath != "" {
		query += " WHERE project_path = ?"
		args = append(args, filter.ProjectPath)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows, false)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Latest returns the newest run of a project.
func (s *Store) Latest(ctx context.Context, projectPath string) (*Run, error) {
	runs, err := s.List(ctx, Filter{ProjectPath: projectPath, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no runs for %s", ErrNotFound, projectPath)
	}
	return &runs[0], nil
}

// Trend is the change between the two newest runs of a project.
type Trend struct {
	Previous     *Run    `json:"previous"`
	Current      *Run    `json:"current"`
	DeltaKg      float64 `json:"delta_kg"`
	DeltaPercent float64 `json:"delta_percent"`
}

// Compare returns the trend between the two newest runs of a project.
func (s *Store) Compare(ctx context.Context, projectPath string) (*Trend, error) {
	runs, err := s.List(ctx, Filter{ProjectPath: projectPath, Limit: 2})
	if err != nil {
		return nil, err
	}
	if len(runs) < 2 {
		return nil, fmt.Errorf("%w: need two runs for %s", ErrNotFound, projectPath)
	}
	t := &Trend{Current: &runs[0], Previous: &runs[1]}
	t.DeltaKg = t.Current.TotalCarbonKg - t.Previous.TotalCarbonKg
	if t.Previous.TotalCarbonKg != 0 {
		t.DeltaPercent = t.DeltaKg / t.Previous.TotalCarbonKg * 100
	}
	return t, nil
}

const columns = `id, created_at, project_name, project_path, grid_type, primary_language,
	total_files, total_lines, total_dependencies, total_energy_kwh, total_carbon_kg, impact_level`

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner, withReport bool) (*Run, error) {
	var (
		r      Run
		ts     string
		report string
	)
	dest := []any{
		&r.ID, &ts, &r.ProjectName, &r.ProjectPath, &r.GridType, &r.PrimaryLanguage,
		&r.TotalFiles, &r.TotalLines, &r.TotalDependencies, &r.TotalEnergyKWh, &r.TotalCarbonKg, &r.ImpactLevel,
	}
	if withReport {
		dest = append(dest, &report)
	}
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}

	if t, err := time.Parse(timeLayout, ts); err == nil {
		r.CreatedAt = t
	}
	if withReport {
		r.Report = json.RawMessage(report)
	}
	return &r, nil
}
