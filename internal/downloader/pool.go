package downloader

import (
	"io"
	"sync"
	"time"

	"chandl/pkg/fourchan"
	"chandl/pkg/logger"
	"chandl/pkg/ratelimit"
)

// Status classifies the outcome of one download job
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Job represents a single media download task
type Job struct {
	Link fourchan.Link
}

// Result represents the outcome of a download job
type Result struct {
	Job      Job
	Status   Status
	Err      error
	Duration time.Duration
}

// MediaFetcher opens a media resource for streaming
type MediaFetcher interface {
	OpenMedia(url string) (io.ReadCloser, error)
}

// FileStore resolves candidate paths and persists media files
type FileStore interface {
	Exists(name string) bool
	Path(name string) string
	Save(r io.Reader, name string) error
}

// DedupLedger records files already handled during this process run
type DedupLedger interface {
	Contains(path string) bool
	Record(path string)
}

// Tally aggregates per-worker outcomes for one cycle
type Tally struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// WorkerPool manages concurrent download workers. At most numWorkers jobs
// execute at any instant; completion order is unspecified.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	client      MediaFetcher
	store       FileStore
	ledger      DedupLedger
	limiter     ratelimit.Limiter
	logger      logger.Logger
}

// NewWorkerPool creates a new download worker pool
func NewWorkerPool(
	numWorkers int,
	client MediaFetcher,
	store FileStore,
	ledger DedupLedger,
	limiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if limiter == nil {
		limiter = ratelimit.NewUnlimited()
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		client:      client,
		store:       store,
		ledger:      ledger,
		limiter:     limiter,
		logger:      log,
	}
}

// Start launches all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for all in-flight workers to finish and
// closes the result queue.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)

	wp.logger.Debug("worker pool stopped")
}

// Submit adds a new download job to the queue, blocking while the queue is full
func (wp *WorkerPool) Submit(job Job) {
	wp.jobQueue <- job
}

// Results returns the result channel for consuming download results
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

// Run dispatches all links across the pool, waits for every worker to finish
// and returns the aggregated counts. The pool is single-use: a new pool is
// created for each cycle.
func (wp *WorkerPool) Run(links []fourchan.Link) Tally {
	wp.Start()

	done := make(chan Tally, 1)
	go func() {
		var t Tally
		for result := range wp.Results() {
			switch result.Status {
			case StatusDownloaded:
				t.Downloaded++
			case StatusSkipped:
				t.Skipped++
			case StatusFailed:
				t.Failed++
			}
		}
		done <- t
	}()

	for _, link := range links {
		wp.Submit(Job{Link: link})
	}

	wp.Stop()
	return <-done
}

// worker is the main worker routine
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		wp.resultQueue <- wp.processJob(job, id)
	}
}

// processJob handles a single link: consult the ledger, check the disk, then
// download and save. A failure leaves the ledger untouched so a later cycle
// retries the link, and never affects other in-flight workers.
func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}
	path := wp.store.Path(job.Link.LocalName)

	// Already handled this run
	if wp.ledger.Contains(path) {
		result.Status = StatusSkipped
		result.Duration = time.Since(start)
		return result
	}

	// Present from a prior run: record so concurrent checks short-circuit
	if wp.store.Exists(job.Link.LocalName) {
		wp.ledger.Record(path)
		wp.logger.DebugWithFields("file already on disk", map[string]interface{}{
			"worker_id": workerID,
			"file":      job.Link.LocalName,
		})
		result.Status = StatusSkipped
		result.Duration = time.Since(start)
		return result
	}

	if !wp.limiter.Allow() {
		wp.limiter.Wait()
	}

	body, err := wp.client.OpenMedia(job.Link.ResolvedURL())
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		result.Duration = time.Since(start)

		wp.logger.ErrorWithFields("failed to download media", map[string]interface{}{
			"worker_id": workerID,
			"url":       job.Link.ResolvedURL(),
			"error":     err.Error(),
		})
		return result
	}

	err = wp.store.Save(body, job.Link.LocalName)
	body.Close()
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		result.Duration = time.Since(start)

		wp.logger.ErrorWithFields("failed to save media", map[string]interface{}{
			"worker_id": workerID,
			"url":       job.Link.ResolvedURL(),
			"file":      job.Link.LocalName,
			"error":     err.Error(),
		})
		return result
	}

	wp.ledger.Record(path)
	result.Status = StatusDownloaded
	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("downloaded media file", map[string]interface{}{
		"worker_id": workerID,
		"file":      job.Link.LocalName,
		"duration":  result.Duration,
	})

	return result
}
