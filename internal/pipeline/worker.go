package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dgallion1/cirgest/internal/bureau"
	"github.com/dgallion1/cirgest/internal/export"
	"github.com/dgallion1/cirgest/internal/parser"
)

const tracerName = "github.com/dgallion1/cirgest/internal/pipeline"

// Worker processes a single extraction job.
type Worker struct {
	log        *slog.Logger
	opts       bureau.Options
	parserOpts parser.Options
	stats      *ProcessingStats
	metrics    *Metrics
	tracer     trace.Tracer
}

func NewWorker(log *slog.Logger, opts bureau.Options, parserOpts parser.Options, stats *ProcessingStats, metrics *Metrics) *Worker {
	return &Worker{
		log:        log,
		opts:       opts,
		parserOpts: parserOpts,
		stats:      stats,
		metrics:    metrics,
		tracer:     otel.Tracer(tracerName),
	}
}

// Process decodes every file of the job, extracts the batch and renders the
// workbook. Files that fail to decode are reported and skipped.
func (w *Worker) Process(ctx context.Context, job *Job) {
	started := time.Now()
	log := w.log.With("job_id", job.ID)

	ctx, span := w.tracer.Start(ctx, "pipeline.process_job", trace.WithAttributes(
		attribute.String("job.id", job.ID),
		attribute.Int("job.files", len(job.Files)),
	))
	defer span.End()

	if w.metrics != nil {
		w.metrics.JobsInFlight.Inc()
		defer w.metrics.JobsInFlight.Dec()
	}
	finish := func(status JobStatus, phase string) {
		job.SetStatus(status, phase)
		span.SetAttributes(attribute.String("job.status", string(status)))
		if status == StatusFailed {
			span.SetStatus(codes.Error, phase)
		}
		if w.metrics != nil {
			w.metrics.ObserveJob(status, time.Since(started))
		}
		log.Info("job finished", "status", status, "duration_ms", time.Since(started).Milliseconds())
	}

	// Phase 1: Decode
	job.SetStatus(StatusDecoding, "decoding")
	docs := w.decode(ctx, job, log)
	if len(docs) == 0 {
		job.AddError("no decodable reports")
		finish(StatusFailed, "decoding")
		return
	}
	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		finish(StatusFailed, "decoding")
		return
	}

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	batch := w.Extract(ctx, docs)
	for _, d := range batch.Documents {
		if d.Truncated {
			job.AddWarning(fmt.Sprintf("%s: report text truncated", d.SourceID))
		}
		if missing := d.Summary.Missing(); len(missing) > 0 {
			log.Warn("summary fields not found", "source", d.SourceID, "fields", missing)
		}
	}
	log.Info("extraction complete", "documents", len(batch.Documents), "accounts", batch.AccountCount())

	// Phase 3: Export
	job.SetStatus(StatusExporting, "exporting")
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, batch); err != nil {
		log.Error("workbook export failed", "error", err)
		job.AddError(fmt.Sprintf("export: %s", err))
		job.SetResult(batch, nil)
		finish(StatusFailed, "exporting")
		return
	}
	job.SetResult(batch, buf.Bytes())

	if len(docs) < len(job.Files) {
		finish(StatusPartial, "done")
		return
	}
	finish(StatusCompleted, "done")
}

func (w *Worker) decode(ctx context.Context, job *Job, log *slog.Logger) []bureau.Document {
	_, span := w.tracer.Start(ctx, "pipeline.decode")
	defer span.End()

	docs := make([]bureau.Document, 0, len(job.Files))
	for _, f := range job.Files {
		if ctx.Err() != nil {
			break
		}
		tree, err := parser.ParseFile(bytes.NewReader(f.Data()), f.Name, w.parserOpts)
		if err != nil {
			log.Error("decode failed", "file", f.Name, "error", err)
			job.AddError(fmt.Sprintf("%s: %s", f.Name, err))
			if w.metrics != nil {
				w.metrics.DecodeFailures.Inc()
			}
			continue
		}
		text := tree.Text()
		if len(tree.Pages) == 0 {
			job.AddWarning(fmt.Sprintf("%s: no text found", f.Name))
		}
		job.IncrFilesDecoded()
		log.Debug("decoded file", "file", f.Name, "pages", len(tree.Pages), "bytes", len(text))
		docs = append(docs, bureau.Document{Text: text, BorrowerType: f.BorrowerType, SourceID: f.Name})
	}
	span.SetAttributes(attribute.Int("documents", len(docs)))
	return docs
}

// Extract runs the batch extraction and records stats and metrics for it.
func (w *Worker) Extract(ctx context.Context, docs []bureau.Document) bureau.Batch {
	_, span := w.tracer.Start(ctx, "pipeline.extract", trace.WithAttributes(
		attribute.Int("documents", len(docs)),
	))
	defer span.End()

	start := time.Now()
	batch := bureau.ProcessBatch(docs, w.opts)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int("accounts", batch.AccountCount()))
	if w.stats != nil {
		w.stats.Record(elapsed, len(batch.Documents), batch.AccountCount())
	}
	if w.metrics != nil {
		w.metrics.ObserveBatch(batch)
	}
	return batch
}
