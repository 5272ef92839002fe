package backfill

import (
	"context"
	"fmt"

	"github.com/fortuna/courtside/internal/stats"
)

// SeasonFetcher downloads one season's per-game table.
type SeasonFetcher interface {
	FetchSeason(ctx context.Context, season string) (stats.Table, error)
}

// SeasonWriter replaces one season's stored rows.
type SeasonWriter interface {
	ReplaceSeason(ctx context.Context, season string, rows []stats.SeasonPlayerRow) (int, error)
}

// DatasetLoader reads a CSV export from disk.
type DatasetLoader func(path string) (stats.Table, error)

// Runner executes backfill specs.
type Runner struct {
	fetcher SeasonFetcher
	loader  DatasetLoader
	writer  SeasonWriter
}

// NewRunner constructs a runner. fetcher or loader may be nil when the
// corresponding source is not used.
func NewRunner(fetcher SeasonFetcher, loader DatasetLoader, writer SeasonWriter) *Runner {
	return &Runner{fetcher: fetcher, loader: loader, writer: writer}
}

// Run executes the job spec, reporting progress via the Reporter if provided.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if reporter == nil {
		reporter = nopReporter{}
	}
	reporter.OnJobStart(spec)

	for _, s := range spec.Seasons {
		if _, err := stats.ParseSeasonTag(s); err != nil {
			reporter.OnJobError(err)
			return err
		}
	}

	var err error
	switch spec.Source {
	case SourceReference:
		err = r.runReference(ctx, spec, reporter)
	case SourceDataset:
		err = r.runDataset(ctx, spec, reporter)
	default:
		err = fmt.Errorf("unsupported source %q", spec.Source)
	}
	if err != nil {
		reporter.OnJobError(err)
		return err
	}

	reporter.OnJobComplete()
	return nil
}

func (r *Runner) runReference(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if r.fetcher == nil {
		return fmt.Errorf("no season fetcher configured")
	}
	if len(spec.Seasons) == 0 {
		return fmt.Errorf("reference backfill requires at least one season")
	}

	total := len(spec.Seasons)
	for idx, season := range spec.Seasons {
		if err := ctx.Err(); err != nil {
			return err
		}
		reporter.OnSeasonStart(season, idx, total)

		table, err := r.fetcher.FetchSeason(ctx, season)
		if err != nil {
			return fmt.Errorf("fetch season %s: %w", season, err)
		}
		rows, err := stats.SeasonPlayerRowsFromTable(table)
		if err != nil {
			return fmt.Errorf("convert season %s: %w", season, err)
		}
		if err := r.write(ctx, spec, season, rows, reporter); err != nil {
			return err
		}
		reporter.OnProgress(fmt.Sprintf("Processed %s", season), idx+1, total)
	}
	return nil
}

func (r *Runner) runDataset(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if r.loader == nil {
		return fmt.Errorf("no dataset loader configured")
	}
	if spec.Path == "" {
		return fmt.Errorf("dataset backfill requires a path")
	}

	table, err := r.loader(spec.Path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	rows, err := stats.SeasonPlayerRowsFromTable(table)
	if err != nil {
		return fmt.Errorf("convert dataset: %w", err)
	}

	order, bySeason := groupBySeason(rows)
	if len(spec.Seasons) > 0 {
		order = spec.Seasons
	}

	total := len(order)
	for idx, season := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		reporter.OnSeasonStart(season, idx, total)
		if err := r.write(ctx, spec, season, bySeason[season], reporter); err != nil {
			return err
		}
		reporter.OnProgress(fmt.Sprintf("Processed %s", season), idx+1, total)
	}
	return nil
}

// write replaces one stored season. A season without rows fails the job rather
// than wiping what is stored.
func (r *Runner) write(ctx context.Context, spec JobSpec, season string, rows []stats.SeasonPlayerRow, reporter Reporter) error {
	if len(rows) == 0 {
		return &stats.EmptyResultError{Resource: "season rows", Key: season}
	}
	if spec.DryRun {
		reporter.OnSeasonLoaded(season, len(rows))
		return nil
	}
	n, err := r.writer.ReplaceSeason(ctx, season, rows)
	if err != nil {
		return fmt.Errorf("store season %s: %w", season, err)
	}
	reporter.OnSeasonLoaded(season, n)
	return nil
}

// groupBySeason splits rows per season, keeping dataset order inside each season
// and listing seasons in order of first appearance.
func groupBySeason(rows []stats.SeasonPlayerRow) ([]string, map[string][]stats.SeasonPlayerRow) {
	var order []string
	bySeason := make(map[string][]stats.SeasonPlayerRow)
	for _, row := range rows {
		if _, ok := bySeason[row.Season]; !ok {
			order = append(order, row.Season)
		}
		bySeason[row.Season] = append(bySeason[row.Season], row)
	}
	return order, bySeason
}

type nopReporter struct{}

func (nopReporter) OnJobStart(JobSpec)             {}
func (nopReporter) OnSeasonStart(string, int, int) {}
func (nopReporter) OnSeasonLoaded(string, int)     {}
func (nopReporter) OnProgress(string, int, int)    {}
func (nopReporter) OnJobComplete()                 {}
func (nopReporter) OnJobError(error)               {}
