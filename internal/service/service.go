package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"ymlfeed/report/internal/cache"
	"ymlfeed/report/internal/client"
	"ymlfeed/report/internal/config"
	"ymlfeed/report/internal/domain"
	"ymlfeed/report/internal/domain/task"
	"ymlfeed/report/internal/queue"
	"ymlfeed/report/internal/report"
	"ymlfeed/report/internal/repository"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Pipeline stages
const (
	StageLoad   = "load"
	StageParse  = "parse"
	StageBuild  = "build report"
	StageRender = "render"
	StageSinks  = "sinks"
	StageTotal  = "total"
)

type Service struct {
	client     client.FeedClient
	cache      cache.FeedCache
	repository repository.ReportRepository
	publisher  queue.Publisher
	fs         afero.Fs
	out        io.Writer
	debug      config.DebugConfig
	now        func() time.Time

	timings *Timings
}

// NewService builds the report pipeline. repository and publisher may be nil
// when the matching sink is disabled.
func NewService(
	client client.FeedClient,
	feedCache cache.FeedCache,
	repository repository.ReportRepository,
	publisher queue.Publisher,
	fs afero.Fs,
	out io.Writer,
	debug config.DebugConfig,
) *Service {
	if feedCache == nil {
		feedCache = cache.NopCache{}
	}
	return &Service{
		client:     client,
		cache:      feedCache,
		repository: repository,
		publisher:  publisher,
		fs:         fs,
		out:        out,
		debug:      debug,
		now:        time.Now,
	}
}

// Run fetches the feed at url, prints the report and hands it to the sinks.
// Nothing is printed when any stage before rendering fails.
func (s *Service) Run(ctx context.Context, url string) error {
	s.timings = NewTimings()

	return s.timings.Track(StageTotal, func() error {
		var (
			raw    []byte
			feed   *domain.Feed
			rows   []domain.ReportRow
			output string
		)

		if err := s.timings.Track(StageLoad, func() (err error) {
			raw, err = s.loadFeed(ctx, url)
			return err
		}); err != nil {
			return err
		}

		if err := s.timings.Track(StageParse, func() (err error) {
			feed, err = client.ParseFeed(raw)
			return err
		}); err != nil {
			return fmt.Errorf("failed to parse feed: %w", err)
		}

		if err := s.timings.Track(StageBuild, func() (err error) {
			rows, err = report.Generate(feed)
			return err
		}); err != nil {
			return err
		}

		rpt := &domain.Report{
			Source:      url,
			GeneratedAt: s.now(),
			Rows:        rows,
		}

		_ = s.timings.Track(StageRender, func() error {
			output = report.Render(rpt.Rows)
			return nil
		})

		if _, err := fmt.Fprintln(s.out, output); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		log.Infof("✅ Report built: %d categories, %d offers", len(rows), len(feed.Offers))

		return s.timings.Track(StageSinks, func() error {
			return s.runSinks(ctx, rpt, output)
		})
	})
}

// Timings returns the stage timings of the last run.
func (s *Service) Timings() *Timings {
	return s.timings
}

func (s *Service) loadFeed(ctx context.Context, url string) ([]byte, error) {
	raw, ok, err := s.cache.Get(ctx, url)
	if err != nil {
		log.Warnf("⚠️ Feed cache read failed, fetching instead: %v", err)
	}
	if ok {
		log.Infof("📦 Using cached feed for %s", url)
		return raw, nil
	}

	log.Infof("🔄 Fetching feed %s", url)
	raw, err = s.client.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	if err := s.cache.Set(ctx, url, raw); err != nil {
		log.Warnf("⚠️ Failed to cache feed: %v", err)
	}

	return raw, nil
}

func (s *Service) runSinks(ctx context.Context, rpt *domain.Report, output string) error {
	g, ctx := errgroup.WithContext(ctx)

	if s.debug.Enabled && s.debug.ResultsFile != "" {
		g.Go(func() error {
			return s.writeResults(output)
		})
	}

	if s.repository != nil {
		g.Go(func() error {
			if err := s.repository.SaveReport(ctx, rpt); err != nil {
				return err
			}
			log.Infof("💾 Saved %d report rows", len(rpt.Rows))
			return nil
		})
	}

	if s.publisher != nil {
		g.Go(func() error {
			id, err := s.publisher.Publish(ctx, task.NewReportTask(rpt))
			if err != nil {
				return err
			}
			log.Infof("📨 Published report as message %s", id)
			return nil
		})
	}

	return g.Wait()
}

func (s *Service) writeResults(output string) error {
	path := s.debug.ResultsFile
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	log.Debugf("Wrote report to %s", path)
	return nil
}
