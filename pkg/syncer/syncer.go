package syncer

import (
	"fmt"
	"io"
	"time"

	"chandl/internal/downloader"
	"chandl/pkg/config"
	"chandl/pkg/fourchan"
	"chandl/pkg/ledger"
	"chandl/pkg/logger"
	"chandl/pkg/ratelimit"
	"chandl/pkg/storage"
)

// Outcome summarizes one completed sync cycle. It is consumed for logging
// only and never feeds back into scheduling decisions.
type Outcome struct {
	LinksSeen  int
	Downloaded int
	Skipped    int
	Failed     int
	Elapsed    time.Duration
}

func (o Outcome) String() string {
	return fmt.Sprintf("links=%d downloaded=%d skipped=%d failed=%d elapsed=%s",
		o.LinksSeen, o.Downloaded, o.Skipped, o.Failed, o.Elapsed.Round(time.Millisecond))
}

// threadClient is the HTTP surface a cycle needs: the thread page itself and
// a stream per discovered media file.
type threadClient interface {
	FetchPage(url string) (string, error)
	OpenMedia(url string) (io.ReadCloser, error)
}

// Syncer drives repeated sync cycles against a single thread: fetch the
// page, extract media links and run the download pool to completion. Cycles
// never overlap; the dedup ledger is owned here and threaded into every
// cycle's workers.
type Syncer struct {
	threadURL string
	ref       fourchan.ThreadRef
	client    threadClient
	store     *storage.Manager
	ledger    *ledger.Ledger
	limiter   ratelimit.Limiter
	config    *config.Config
	logger    logger.Logger

	interval time.Duration
	budget   time.Duration
}

// New creates a Syncer for the given thread URL. A malformed thread URL is a
// configuration-level failure and returned as an error; a directory creation
// failure is reported and the run continues.
func New(threadURL string, cfg *config.Config) (*Syncer, error) {
	log := logger.GetLogger()

	ref, err := fourchan.ParseThreadURL(threadURL)
	if err != nil {
		return nil, err
	}

	client := fourchan.NewClient(cfg.Download.DownloadTimeout, cfg.Download.UserAgent, log)

	dir := storage.Resolve(cfg.Output.BaseDirectory, ref, cfg.Output.UseNames)
	store, err := storage.NewManager(dir)
	if err != nil {
		// Individual writes into the missing directory will fail per-link.
		log.WithError(err).WithField("directory", dir).Error("failed to create download directory")
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter = ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)
	} else {
		limiter = ratelimit.NewUnlimited()
	}

	log.InfoWithFields("watching thread", map[string]interface{}{
		"thread":    ref.String(),
		"directory": dir,
	})

	return &Syncer{
		threadURL: threadURL,
		ref:       ref,
		client:    client,
		store:     store,
		ledger:    ledger.New(),
		limiter:   limiter,
		config:    cfg,
		logger:    log,
		interval:  cfg.Reload.Interval(),
		budget:    cfg.Reload.Budget(),
	}, nil
}

// Ledger exposes the dedup ledger shared across cycles
func (s *Syncer) Ledger() *ledger.Ledger {
	return s.ledger
}

// Dir returns the resolved download directory
func (s *Syncer) Dir() string {
	return s.store.Dir()
}

// RunOnce performs one full sync cycle. A page fetch failure degrades to an
// empty-content cycle: it is logged as an error and the cycle completes with
// zero work rather than aborting the run.
func (s *Syncer) RunOnce() Outcome {
	start := time.Now()

	page, err := s.client.FetchPage(s.threadURL)
	if err != nil {
		s.logger.WithError(err).WithField("url", s.threadURL).Error("failed to load thread page")
		page = ""
	}

	links := fourchan.ExtractLinks(page)

	pool := downloader.NewWorkerPool(
		s.config.Download.ConcurrentDownloads,
		s.client,
		s.store,
		s.ledger,
		s.limiter,
		s.logger,
	)
	tally := pool.Run(links)

	outcome := Outcome{
		LinksSeen:  len(links),
		Downloaded: tally.Downloaded,
		Skipped:    tally.Skipped,
		Failed:     tally.Failed,
		Elapsed:    time.Since(start),
	}

	s.logger.InfoWithFields("sync cycle complete", map[string]interface{}{
		"thread":     s.ref.String(),
		"links":      outcome.LinksSeen,
		"downloaded": outcome.Downloaded,
		"skipped":    outcome.Skipped,
		"failed":     outcome.Failed,
		"elapsed":    outcome.Elapsed,
	})

	return outcome
}

// Run drives the poll loop. With reload disabled it performs exactly one
// cycle. With reload enabled it runs a cycle, stops once the total elapsed
// time exceeds the budget (checked only after a cycle completes, so a cycle
// in flight always finishes and a slow cycle may overshoot the budget), and
// otherwise sleeps out the remainder of the interval before the next cycle.
// A cycle that outlasts the interval is followed immediately by the next.
func (s *Syncer) Run() {
	if !s.config.Reload.Enabled {
		s.RunOnce()
		return
	}

	schedulerStart := time.Now()
	for {
		cycleStart := time.Now()
		s.RunOnce()

		if elapsed := time.Since(schedulerStart); elapsed > s.budget {
			s.logger.InfoWithFields("time budget exhausted, stopping", map[string]interface{}{
				"elapsed": elapsed,
				"budget":  s.budget,
			})
			return
		}

		if remaining := s.interval - time.Since(cycleStart); remaining > 0 {
			s.logger.DebugWithFields("sleeping until next cycle", map[string]interface{}{
				"duration": remaining,
			})
			time.Sleep(remaining)
		}
	}
}
