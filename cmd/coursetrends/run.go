package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"course-trends/internal/aggregate"
	"course-trends/internal/charts"
	"course-trends/internal/config"
	"course-trends/internal/domain"
	"course-trends/internal/export"
	"course-trends/internal/load"
	"course-trends/internal/logger"
	"course-trends/internal/report"
	"course-trends/internal/sftpclient"
	"course-trends/internal/topics"
	"course-trends/internal/trends"
)

const topTopicsN = 10

type runOptions struct {
	rulesPath   string
	deliver     bool
	fetchTrends bool
	renderFigs  bool
}

// runPipeline is the whole batch: load both catalogs, classify, aggregate,
// write tables, then optionally fetch search interest, render figures and
// deliver the bundle. Missing inputs and write failures abort the run;
// trends failures only cost the affected topic.
func runPipeline(ctx context.Context, opts runOptions) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	metrics := report.NewMetrics()

	rules := topics.DefaultRules()
	if opts.rulesPath != "" {
		loaded, err := topics.LoadRules(opts.rulesPath)
		if err != nil {
			return err
		}
		rules = loaded
		log.Info("loaded topic vocabulary", "path", opts.rulesPath, "rules", len(rules))
	}
	norm := topics.NewNormalizer(rules)

	udemy, err := load.UdemyCSV(cfg.UdemyPath())
	if err != nil {
		return err
	}
	metrics.AddRowsLoaded(string(domain.PlatformUdemy), len(udemy.Records))
	metrics.AddRowsSkipped(string(domain.PlatformUdemy), udemy.Skipped)
	log.Info("loaded catalog", "platform", domain.PlatformUdemy, "rows", len(udemy.Records), "skipped", udemy.Skipped)

	coursera, err := load.CourseraCSV(cfg.CourseraPath(), cfg.CourseraSnapshotYear)
	if err != nil {
		return err
	}
	metrics.AddRowsLoaded(string(domain.PlatformCoursera), len(coursera.Records))
	metrics.AddRowsSkipped(string(domain.PlatformCoursera), coursera.Skipped)
	log.Info("loaded catalog", "platform", domain.PlatformCoursera, "rows", len(coursera.Records), "skipped", coursera.Skipped)

	classified := norm.Classify(udemy.Records)
	classified = append(classified, norm.Classify(coursera.Records)...)
	matched, unmatched := 0, 0
	for _, c := range classified {
		if c.Topic == domain.TopicUnclassified {
			unmatched++
		} else {
			matched++
		}
	}
	metrics.AddClassified("matched", matched)
	metrics.AddClassified("unclassified", unmatched)
	log.Info("classified records", "matched", matched, "unclassified", unmatched)

	shares := aggregate.Shares(classified)
	udemyShares := aggregate.ForPlatform(shares, domain.PlatformUdemy)
	courseraShares := aggregate.ForPlatform(shares, domain.PlatformCoursera)

	w := &writer{cfg: cfg, log: log, metrics: metrics}
	if err := w.writeShareTables(classified, udemyShares, courseraShares); err != nil {
		return err
	}

	var trendTables []export.TopicYearly
	if opts.fetchTrends {
		trendTables = fetchTrendTables(ctx, cfg, log, metrics, norm, udemyShares)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.writeTrendTables(trendTables); err != nil {
			return err
		}
	}

	if opts.renderFigs {
		if err := renderFigures(cfg, log, metrics, norm, shares, udemyShares, trendTables); err != nil {
			return err
		}
	}

	printSummary(log, shares)
	metrics.LogSummary(log)

	if opts.deliver {
		if err := deliverBundle(ctx, cfg, log); err != nil {
			return err
		}
	}
	return nil
}

/* -------- Outputs -------- */

// writer funnels every table through the same bookkeeping: count the file
// and write the compressed sibling when configured.
type writer struct {
	cfg     config.Config
	log     *logger.Logger
	metrics *report.Metrics
}

func (w *writer) finish(path string) error {
	w.metrics.IncFileWritten()
	w.log.Info("wrote output", "path", path)
	if !w.cfg.OutputCompress {
		return nil
	}
	if err := export.CompressFile(path); err != nil {
		return err
	}
	w.metrics.IncFileWritten()
	return nil
}

func (w *writer) writeShareTables(classified []domain.Classified, udemyShares, courseraShares []domain.TopicYearShare) error {
	out := w.cfg.OutputsDir()

	byPlatform := map[domain.Platform][]domain.Classified{}
	for _, c := range classified {
		byPlatform[c.Platform] = append(byPlatform[c.Platform], c)
	}

	steps := []struct {
		path  string
		write func(path string) error
	}{
		{filepath.Join(out, "udemy_clean.csv"), func(p string) error {
			return export.WriteCleanCSV(p, byPlatform[domain.PlatformUdemy])
		}},
		{filepath.Join(out, "coursera_clean.csv"), func(p string) error {
			return export.WriteCleanCSV(p, byPlatform[domain.PlatformCoursera])
		}},
		{filepath.Join(out, "udemy_topic_shares.csv"), func(p string) error {
			return export.WriteShareCSV(p, udemyShares)
		}},
		{filepath.Join(out, "coursera_topic_shares.csv"), func(p string) error {
			return export.WriteShareCSV(p, courseraShares)
		}},
	}
	for _, step := range steps {
		if err := step.write(step.path); err != nil {
			return err
		}
		if err := w.finish(step.path); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeTrendTables(tables []export.TopicYearly) error {
	if len(tables) == 0 {
		w.log.Warn("no trend series fetched, skipping trends tables")
		return nil
	}
	out := w.cfg.OutputsDir()

	csvPath := filepath.Join(out, "trends_yearly.csv")
	if err := export.WriteTrendsCSV(csvPath, tables); err != nil {
		return err
	}
	if err := w.finish(csvPath); err != nil {
		return err
	}

	previewPath := filepath.Join(out, "trends_preview.json")
	if err := export.WriteTrendsPreviewJSON(previewPath, tables, 5); err != nil {
		return err
	}
	w.metrics.IncFileWritten()
	w.log.Info("wrote output", "path", previewPath)
	return nil
}

/* -------- Trends -------- */

// fetchTrendTables pulls one interest series per vocabulary topic over the
// Udemy year span plus one leading year for the lag join. A topic whose
// series cannot be fetched is logged and dropped; the run continues.
func fetchTrendTables(ctx context.Context, cfg config.Config, log *logger.Logger, metrics *report.Metrics, norm *topics.Normalizer, udemyShares []domain.TopicYearShare) []export.TopicYearly {
	minYear, maxYear, ok := aggregate.YearRange(udemyShares, domain.PlatformUdemy)
	if !ok {
		log.Warn("no share rows to enrich, skipping trends fetch")
		return nil
	}
	startYear := minYear - 1

	client := trends.New(cfg.TrendsBaseURL, cfg.TrendsSleep, cfg.TrendsMaxAttempts)

	var tables []export.TopicYearly
	for _, topic := range norm.Topics() {
		metrics.IncTrendsRequest()
		series, err := client.FetchSeries(ctx, topic, norm.QueryFor(topic), startYear, maxYear)
		if err != nil {
			if errors.Is(err, trends.ErrRemoteUnavailable) {
				metrics.IncTrendsFailure()
				log.Warn("trend series unavailable, topic skipped", "topic", topic, "error", err)
				continue
			}
			// context cancellation; the caller decides
			log.Error("trends fetch aborted", "topic", topic, "error", err)
			return tables
		}
		yearly := trends.Yearly(series)
		log.Info("fetched trend series", "topic", topic, "points", len(series.Points), "years", len(yearly))
		tables = append(tables, export.TopicYearly{Topic: topic, Rows: yearly})
	}
	return tables
}

/* -------- Figures -------- */

func renderFigures(cfg config.Config, log *logger.Logger, metrics *report.Metrics, norm *topics.Normalizer, shares, udemyShares []domain.TopicYearShare, trendTables []export.TopicYearly) error {
	figs := cfg.FigsDir()
	if err := os.MkdirAll(figs, 0o755); err != nil {
		return fmt.Errorf("create figures directory %q: %w", figs, err)
	}

	figure := func(path string, render func(path string) error) error {
		if err := render(path); err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			// renderer skipped on empty data
			log.Warn("figure skipped, no data", "path", path)
			return nil
		}
		metrics.IncFileWritten()
		log.Info("wrote figure", "path", path)
		return nil
	}

	err := figure(filepath.Join(figs, "udemy_topic_shares.png"), func(p string) error {
		return charts.ShareLines(p, "Udemy topic shares by year", udemyShares, norm.Topics())
	})
	if err != nil {
		return err
	}

	latestYear, ok := aggregate.LatestYear(shares, domain.PlatformCoursera)
	if ok {
		top := aggregate.TopN(shares, domain.PlatformCoursera, latestYear, topTopicsN)
		err = figure(filepath.Join(figs, "coursera_top_topics.png"), func(p string) error {
			return charts.TopTopicsBar(p, fmt.Sprintf("Coursera top topics, %d", latestYear), top)
		})
		if err != nil {
			return err
		}
	}

	err = figure(filepath.Join(figs, "udemy_share_heatmap.png"), func(p string) error {
		return charts.ShareHeatmap(p, "Udemy topic share by year", udemyShares)
	})
	if err != nil {
		return err
	}

	err = figure(filepath.Join(figs, "trends_interest.png"), func(p string) error {
		return charts.InterestLines(p, "Yearly search interest by topic", trendTables)
	})
	if err != nil {
		return err
	}

	for _, table := range trendTables {
		fit, ok := trends.FitLeadLag(
			aggregate.ForTopic(udemyShares, domain.PlatformUdemy, table.Topic),
			table.Rows,
			domain.PlatformUdemy,
		)
		if !ok {
			log.Info("lead-lag fit skipped, too few observations", "topic", table.Topic)
			continue
		}
		log.Info("lead-lag fit", "topic", table.Topic, "slope", fit.Beta, "intercept", fit.Alpha, "r2", fit.R2)
		name := fmt.Sprintf("leadlag_%s.png", topics.Slug(table.Topic))
		err = figure(filepath.Join(figs, name), func(p string) error {
			return charts.RegressionScatter(p, table.Topic, fit)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

/* -------- Summary & delivery -------- */

func printSummary(log *logger.Logger, shares []domain.TopicYearShare) {
	for _, platform := range []domain.Platform{domain.PlatformUdemy, domain.PlatformCoursera} {
		year, ok := aggregate.LatestYear(shares, platform)
		if !ok {
			continue
		}
		top := aggregate.TopN(shares, platform, year, topTopicsN)
		title := fmt.Sprintf("Top topics on %s, %d", platform, year)
		if err := report.WriteTable(os.Stdout, title, top); err != nil {
			log.Warn("failed to print summary table", "platform", platform, "error", err)
		}
		fmt.Println()
	}
}

func deliverBundle(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	bundle := filepath.Join(cfg.ResultsDir, "results_bundle.tar.br")
	if err := export.BundleDir(cfg.OutputsDir(), bundle); err != nil {
		return err
	}
	log.Info("built results bundle", "path", bundle)

	sftpCfg := sftpclient.Config{
		Host:      cfg.SFTPHost,
		Port:      cfg.SFTPPort,
		User:      cfg.SFTPUser,
		Pass:      cfg.SFTPPass,
		RemoteDir: cfg.SFTPDir,
	}
	if err := sftpclient.UploadFile(ctx, sftpCfg, bundle, filepath.Base(bundle)); err != nil {
		return err
	}
	log.Info("delivered results bundle", "host", cfg.SFTPHost, "dir", cfg.SFTPDir)
	return nil
}
