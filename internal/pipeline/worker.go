package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/steelbid/internal/aisc"
	"github.com/dgallion1/steelbid/internal/archive"
	"github.com/dgallion1/steelbid/internal/chunker"
	"github.com/dgallion1/steelbid/internal/drawing"
	"github.com/dgallion1/steelbid/internal/estimate"
	"github.com/dgallion1/steelbid/internal/extract"
	"github.com/dgallion1/steelbid/internal/metrics"
	"github.com/dgallion1/steelbid/internal/parser"
)

// Worker processes a single drawing job.
type Worker struct {
	extractor extract.Extractor
	archiver  archive.Archiver
	log       *slog.Logger
	parseOpts parser.Options
	batchCfg  chunker.Config

	maxConcurrentExtract int
	backoff              func(attempt int) time.Duration
}

func NewWorker(ex extract.Extractor, ar archive.Archiver, log *slog.Logger, parseOpts parser.Options, batchCfg chunker.Config, maxExtract int) *Worker {
	if ar == nil {
		ar = archive.Noop{}
	}
	if maxExtract <= 0 {
		maxExtract = 1
	}
	return &Worker{
		extractor:            ex,
		archiver:             ar,
		log:                  log,
		parseOpts:            parseOpts,
		batchCfg:             batchCfg,
		maxConcurrentExtract: maxExtract,
		backoff:              Backoff,
	}
}

// Process runs the full takeoff pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	defer job.releaseFileData()
	data := job.FileData()

	// Phase 0: Archive. Failure is logged, never fatal.
	key := archive.Key(job.ID, job.Filename, job.CreatedAt)
	if err := w.archiver.Put(ctx, key, parser.MIMEType(job.Filename), data); err != nil {
		log.Warn("archive failed", "key", key, "error", err)
	}
	hash := ContentHashHex(data)
	job.mu.Lock()
	job.ContentHash = hash
	job.mu.Unlock()

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "Analyzing drawing...")
	p, err := parser.ForFile(job.Filename, w.parseOpts)
	if err != nil {
		w.fail(log, job, "parsing", err.Error(), err)
		return
	}
	d, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		w.fail(log, job, "parsing", fmt.Sprintf("parse: %s", err), err)
		return
	}
	if job.Name != "" {
		d.Title = job.Name
	}
	job.mu.Lock()
	job.Title = d.Title
	job.mu.Unlock()

	// Phase 2: Batch
	job.SetStatus(StatusBatching, describeDrawing(d))
	batches := chunker.Batches(d, w.batchCfg)
	job.SetTotalBatches(len(batches))
	log.Info("batched drawing", "batches", len(batches), "pages", d.Pages, "scanned", d.Scanned())

	if len(batches) == 0 {
		w.fail(log, job, "batching", "no extractable content", nil)
		return
	}

	// Phase 3: Extract members from batches with bounded concurrency.
	job.SetStatus(StatusExtracting, fmt.Sprintf("Extracting from %d batch(es)...", len(batches)))
	type batchResult struct {
		members []extract.RawMember
		err     error
		idx     int
	}
	results := make(chan batchResult, len(batches))
	sem := make(chan struct{}, w.maxConcurrentExtract)

	for i, b := range batches {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results <- batchResult{err: ctx.Err(), idx: i}
			continue
		}
		go func(i int, b drawing.Batch) {
			defer func() { <-sem }()
			members, err := w.extractWithRetry(ctx, log, d.Title, b)
			results <- batchResult{members: members, err: err, idx: i}
		}(i, b)
	}

	// Collect results in batch order so member order follows the drawing.
	perBatch := make([][]extract.RawMember, len(batches))
	hadErrors := false
	failed := 0
	for range batches {
		r := <-results
		b := batches[r.idx]
		if r.err != nil {
			log.Error("extraction failed", "batch", r.idx, "error", r.err)
			job.AddError(fmt.Sprintf("batch %d: %s", r.idx+1, r.err))
			job.IncrBatchesProcessed(0)
			job.Publish(Event{
				Status:       fmt.Sprintf("%s: error - %s", batchLabel(b), r.err),
				State:        StatusExtracting,
				Batch:        r.idx + 1,
				TotalBatches: len(batches),
				Page:         b.PageStart,
			})
			hadErrors = true
			failed++
			continue
		}
		perBatch[r.idx] = r.members
		job.IncrBatchesProcessed(len(r.members))
		job.Publish(Event{
			Status:       fmt.Sprintf("%s: found %d members", batchLabel(b), len(r.members)),
			State:        StatusExtracting,
			Batch:        r.idx + 1,
			TotalBatches: len(batches),
			Page:         b.PageStart,
			Found:        len(r.members),
		})
	}

	if failed == len(batches) {
		job.SetStatus(StatusFailed, "extracting")
		metrics.RecordJob(string(StatusFailed))
		return
	}

	// Phase 4: Validate, convert and resolve weights.
	job.SetStatus(StatusResolving, "Resolving section weights...")
	var members []estimate.Member
	for i, raws := range perBatch {
		for j := range raws {
			raw := &raws[j]
			if !extract.ValidateMember(raw) {
				continue
			}
			m := raw.ToMember()
			page := batches[i].PageStart
			if raw.Page.Valid && raw.Page.Value >= 1 {
				page = int(raw.Page.Value)
			}
			m.Notes = extract.TagPage(m.Notes, page)
			members = append(members, m)
		}
	}
	unknown := resolveSections(members)
	metrics.MembersExtracted.Add(float64(len(members)))
	job.SetResult(members, unknown, extractionMethod(batches), d.Pages)
	log.Info("extraction complete", "members", len(members), "unknown_sections", unknown, "errors", hadErrors)

	status := StatusCompleted
	if hadErrors {
		status = StatusPartial
	}
	job.SetStatus(status, "done")
	metrics.RecordJob(string(status))
}

func (w *Worker) extractWithRetry(ctx context.Context, log *slog.Logger, title string, b drawing.Batch) ([]extract.RawMember, error) {
	start := time.Now()
	log.Info("extracting batch",
		"batch", b.Index,
		"label", batchLabel(b),
		"attachment", b.HasAttachment(),
		"est_tokens", chunker.EstimateTokens(b.Text),
	)
	var members []extract.RawMember
	var lastErr error
	for attempt := range MaxRetries {
		members, lastErr = w.extractor.ExtractMembers(ctx, extract.Request{Title: title, Batch: b})
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable extraction error", "batch", b.Index, "attempt", attempt, "error", lastErr)
		if attempt == MaxRetries-1 {
			break
		}
		select {
		case <-time.After(retryDelay(lastErr, attempt, w.backoff)):
		case <-ctx.Done():
			lastErr = ctx.Err()
			metrics.RecordBatch(w.extractor.Model(), false, time.Since(start))
			return nil, lastErr
		}
	}
	metrics.RecordBatch(w.extractor.Model(), lastErr == nil, time.Since(start))
	if lastErr != nil {
		return nil, lastErr
	}
	return members, nil
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase, msg string, err error) {
	log.Error("job failed", "phase", phase, "reason", msg, "error", err)
	job.AddError(msg)
	job.SetStatus(StatusFailed, phase)
	metrics.RecordJob(string(StatusFailed))
}

// resolveSections looks up every member's section and returns how many did
// not resolve. Members without a section are not counted.
func resolveSections(members []estimate.Member) int {
	unknown := 0
	for _, m := range members {
		if strings.TrimSpace(m.Section) == "" {
			continue
		}
		pf := aisc.LbsPerFt(m.Section)
		switch {
		case pf.Varies:
			metrics.RecordResolution(metrics.Plate)
		case pf.Known:
			metrics.RecordResolution(metrics.Resolved)
		default:
			metrics.RecordResolution(metrics.Unknown)
			unknown++
		}
	}
	return unknown
}

func extractionMethod(batches []drawing.Batch) string {
	attached := 0
	for _, b := range batches {
		if b.HasAttachment() {
			attached++
		}
	}
	switch {
	case attached > 1:
		return MethodChunked
	case attached == 1:
		return MethodVision
	default:
		return MethodText
	}
}

func describeDrawing(d *drawing.Drawing) string {
	switch {
	case d.Scanned():
		return "Scanned drawing, sending as attachment..."
	case d.Pages > 0:
		return fmt.Sprintf("Extracting from %d-page drawing (text mode)...", d.Pages)
	default:
		return "Extracting from drawing text..."
	}
}

func batchLabel(b drawing.Batch) string {
	switch {
	case b.PageStart > 0 && b.PageEnd > b.PageStart:
		return fmt.Sprintf("Pages %d-%d", b.PageStart, b.PageEnd)
	case b.PageStart > 0:
		return fmt.Sprintf("Page %d", b.PageStart)
	default:
		return fmt.Sprintf("Batch %d", b.Index+1)
	}
}
