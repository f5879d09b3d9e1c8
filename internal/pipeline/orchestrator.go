package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/dgallion1/steelbid/internal/archive"
	"github.com/dgallion1/steelbid/internal/chunker"
	"github.com/dgallion1/steelbid/internal/config"
	"github.com/dgallion1/steelbid/internal/extract"
	"github.com/dgallion1/steelbid/internal/parser"
)

// Orchestrator manages the drawing extraction pipeline.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	extractor extract.Extractor
	archiver  archive.Archiver
	log       *slog.Logger
	cfg       config.Config
	parseOpts parser.Options
	batchCfg  chunker.Config
	cron      *cron.Cron

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, ex extract.Extractor, ar archive.Archiver, log *slog.Logger) *Orchestrator {
	if ar == nil {
		ar = archive.Noop{}
	}
	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		extractor: ex,
		archiver:  ar,
		log:       log,
		cfg:       cfg,
		parseOpts: parser.Options{
			PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
			MinTextChars:         cfg.TextModeMinChars,
		},
		batchCfg: chunker.Config{
			MaxChars:  cfg.BatchMaxChars,
			MaxSheets: cfg.BatchMaxSheets,
		},
	}
}

// Start launches worker goroutines and the job cleanup schedule.
func (o *Orchestrator) Start(ctx context.Context) error {
	schedule := o.cfg.CleanupSchedule
	if schedule == "" {
		schedule = "@every 5m"
	}
	o.cron = cron.New()
	if _, err := o.cron.AddFunc(schedule, func() {
		if n := o.jobs.Cleanup(); n > 0 {
			o.log.Info("expired jobs removed", "count", n)
		}
	}); err != nil {
		return fmt.Errorf("cleanup schedule %q: %w", schedule, err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.extractor, o.archiver, o.log, o.parseOpts, o.batchCfg, o.cfg.MaxConcurrentExtract)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.cron.Start()
	return nil
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cron != nil {
		<-o.cron.Stop().Done()
	}
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Model names the extraction model in use.
func (o *Orchestrator) Model() string {
	if o.extractor == nil {
		return ""
	}
	return o.extractor.Model()
}
