package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/ingest/bref"
	"github.com/fortuna/courtside/internal/ingest/dataset"
	"github.com/fortuna/courtside/internal/logger"
	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
	"github.com/sirupsen/logrus"
)

const (
	appName    = "courtside-backfill"
	appVersion = "1.0.0"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Infof("=== %s v%s ===", appName, appVersion)

	var (
		dsn     = flag.String("dsn", cfg.Database.DSN, "Postgres DSN")
		source  = flag.String("source", string(backfill.SourceReference), "Data source: bref or csv")
		seasons = flag.String("seasons", "", "Comma separated seasons (e.g., 2022-23,2023-24)")
		path    = flag.String("path", "", "CSV export to load when -source=csv")
		baseURL = flag.String("bref-url", cfg.Reference.BaseURL, "Basketball Reference base URL")
		dryRun  = flag.Bool("dry-run", false, "Dry run (do not write to DB)")
	)
	flag.Parse()

	spec := backfill.JobSpec{
		Source:  backfill.Source(*source),
		Seasons: splitSeasons(*seasons),
		Path:    *path,
		DryRun:  *dryRun,
	}
	if err := run(log, spec, *dsn, *baseURL); err != nil {
		log.Fatalf("backfill failed: %v", err)
	}
}

func run(log *logrus.Logger, spec backfill.JobSpec, dsn, baseURL string) error {
	req := backfill.Request{Source: spec.Source, Seasons: spec.Seasons, Path: spec.Path}
	if err := req.Validate(); err != nil {
		return err
	}

	var writer backfill.SeasonWriter
	if !spec.DryRun {
		db, err := store.NewDatabase(dsn, logger.WithComponent("store"))
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if err := db.RunMigrations(context.Background()); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		writer = repository.NewSeasonStatsRepository(db)
	}

	var fetcher backfill.SeasonFetcher
	if spec.Source == backfill.SourceReference {
		browser := bref.NewBrowserFetcher()
		defer browser.Close()
		fetcher = bref.NewClient(baseURL, browser, logger.WithComponent("bref"))
	}

	runner := backfill.NewRunner(fetcher, dataset.LoadFile, writer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := &consoleReporter{log: log, dryRun: spec.DryRun}
	if err := runner.Run(ctx, spec, reporter); err != nil {
		return err
	}

	log.Infof("Backfill completed: %d rows", reporter.rows)
	return nil
}

func splitSeasons(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type consoleReporter struct {
	log    *logrus.Logger
	dryRun bool
	rows   int
}

func (c *consoleReporter) OnJobStart(spec backfill.JobSpec) {
	c.log.Infof("Starting %s job for %d season(s) (dry_run=%v)", spec.Source, len(spec.Seasons), c.dryRun)
}

func (c *consoleReporter) OnSeasonStart(season string, index int, total int) {
	c.log.Infof("[%d/%d] %s", index+1, total, season)
}

func (c *consoleReporter) OnSeasonLoaded(season string, rows int) {
	c.rows += rows
	c.log.Infof("Loaded %d rows for %s", rows, season)
}

func (c *consoleReporter) OnProgress(message string, current int, total int) {
	c.log.Infof("Progress: %s (%d/%d)", message, current, total)
}

func (c *consoleReporter) OnJobComplete() {
	c.log.Info("Job complete")
}

func (c *consoleReporter) OnJobError(err error) {
	c.log.Errorf("Job error: %v", err)
}
