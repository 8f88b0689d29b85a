// Package pipeline drives a single fetch, merge and resolve run over the
// upstream feeds and assembles the display sections.
package pipeline

import (
	"context"
	"feedstitch/aggregator"
	"feedstitch/config"
	"feedstitch/fetcher"
	"feedstitch/models"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Driver struct {
	fetcher    *fetcher.Fetcher
	endpoints  []string
	sequential bool
}

type Option func(*Driver)

// WithEndpoints replaces the default feed endpoints
func WithEndpoints(endpoints []string) Option {
	return func(d *Driver) {
		d.endpoints = endpoints
	}
}

// WithSequential fetches the feeds one after another instead of concurrently
func WithSequential() Option {
	return func(d *Driver) {
		d.sequential = true
	}
}

func New(f *fetcher.Fetcher, opts ...Option) *Driver {
	d := &Driver{
		fetcher:   f,
		endpoints: []string{config.FirstEndpoint, config.SecondEndpoint},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run fetches the feeds, merges their records and, when a merged item's text
// is an https URL, resolves that URL into a second section. Any failure fails
// the whole run.
func (d *Driver) Run(ctx context.Context) ([]models.Section, error) {
	runID := uuid.New().String()
	logger := log.WithField("run", runID)
	start := time.Now()

	sections, err := d.run(ctx, logger)
	if err != nil {
		pipelineRuns.WithLabelValues("failure").Inc()
		logger.WithFields(log.Fields{
			"error":   err,
			"latency": time.Since(start),
		}).Error("Pipeline run failed")
		return nil, err
	}

	pipelineRuns.WithLabelValues("success").Inc()
	logger.WithFields(log.Fields{
		"sections": len(sections),
		"latency":  time.Since(start),
	}).Info("Pipeline run finished")

	return sections, nil
}

func (d *Driver) run(ctx context.Context, logger *log.Entry) ([]models.Section, error) {
	records, err := d.fetchRecords(ctx, logger)
	if err != nil {
		return nil, err
	}

	firstItems := aggregator.MergeAll(records)
	logger.WithFields(log.Fields{
		"records": len(records),
		"items":   len(firstItems),
	}).Info("Merged records")

	target, ok := aggregator.DetectCascade(firstItems)
	if !ok {
		return []models.Section{models.FirstSection(firstItems)}, nil
	}

	second, err := d.resolve(ctx, logger, target)
	if err != nil {
		return nil, err
	}

	return []models.Section{models.FirstSection(firstItems), second}, nil
}

// resolve fetches the single record a cascade URL points at
func (d *Driver) resolve(ctx context.Context, logger *log.Entry, target *url.URL) (models.Section, error) {
	pipelineCascades.Inc()
	logger.WithField("url", target.String()).Info("Resolving cascade record")

	record, err := fetcher.Fetch[models.Record](ctx, d.fetcher, target)
	if err != nil {
		return models.Section{}, fmt.Errorf("failed to resolve cascade record: %w", err)
	}

	return models.SecondSection(models.MergedItem{
		Text:         record.Text,
		ThumbnailURL: record.ThumbnailURL,
	}), nil
}

// FetchRecords fetches every configured feed and returns their records
// concatenated in endpoint order.
func (d *Driver) FetchRecords(ctx context.Context) ([]models.Record, error) {
	return d.fetchRecords(ctx, log.WithField("run", uuid.New().String()))
}

func (d *Driver) fetchRecords(ctx context.Context, logger *log.Entry) ([]models.Record, error) {
	endpoints := parseEndpoints(d.endpoints, logger)
	feeds := make([]models.Feed, len(endpoints))

	fetchFeed := func(ctx context.Context, i int) error {
		logger.WithField("url", endpoints[i].String()).Info("Fetching feed")
		feed, err := fetcher.Fetch[models.Feed](ctx, d.fetcher, endpoints[i])
		if err != nil {
			return fmt.Errorf("failed to fetch feed: %w", err)
		}
		feeds[i] = feed
		return nil
	}

	if d.sequential {
		for i := range endpoints {
			if err := fetchFeed(ctx, i); err != nil {
				return nil, err
			}
		}
	} else {
		// Each goroutine writes only its own slot of feeds
		g, gctx := errgroup.WithContext(ctx)
		for i := range endpoints {
			g.Go(func() error {
				return fetchFeed(gctx, i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return lo.FlatMap(feeds, func(feed models.Feed, _ int) []models.Record {
		return feed.Models
	}), nil
}

// parseEndpoints drops endpoints that are not absolute URLs
func parseEndpoints(endpoints []string, logger *log.Entry) []*url.URL {
	return lo.FilterMap(endpoints, func(raw string, _ int) (*url.URL, bool) {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			skippedEndpoints.Inc()
			logger.WithField("endpoint", raw).Warn("Skipping invalid endpoint")
			return nil, false
		}
		return u, true
	})
}
