package pipeline

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/cirgest/internal/bureau"
	"github.com/dgallion1/cirgest/internal/config"
	"github.com/dgallion1/cirgest/internal/parser"
)

const johnReport = `CONSUMER: JOHN DOE
DATE: 01-02-2023
CREDITVISION® SCORE 750
STATUS
TYPE: PERSONAL LOAN
OPENED: 05-01-2020
SANCTIONED: 100,000
CURRENT BALANCE: 40,000
EMI: 5,000
DAYS PAST DUE/ASSET CLASSIFICATION (UP TO 36 MONTHS; LEFT TO RIGHT)
000 01-23 030 12-22
ACCOUNT DATES
STATUS
TYPE: CREDIT CARD
CREDIT LIMIT: 50,000
CLOSED: 10-10-2022
ENQUIRIES:
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(t *testing.T) (*Worker, *Metrics, *ProcessingStats) {
	t.Helper()
	metrics := NewMetrics(prometheus.NewRegistry())
	stats := NewProcessingStats(time.Hour)
	return NewWorker(discardLogger(), bureau.Options{Workers: 2}, parser.Options{}, stats, metrics), metrics, stats
}

func TestWorker_ProcessCompleted(t *testing.T) {
	w, metrics, stats := newTestWorker(t)
	job := NewJob([]File{
		NewFile("john.txt", bureau.Applicant, []byte(johnReport)),
		NewFile("blank.txt", bureau.CoApplicant, nil),
	})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	require.Equal(t, StatusCompleted, snap.Status, snap.Progress.Errors)
	assert.Equal(t, 2, snap.Progress.FilesDecoded)
	assert.Equal(t, 2, snap.Progress.Documents)
	assert.Equal(t, 2, snap.Progress.Accounts)
	assert.Contains(t, snap.Progress.Warnings, "blank.txt: no text found")

	batch, workbook, ok := job.Result()
	require.True(t, ok)
	require.Len(t, batch.Documents, 2)
	john := batch.Documents[0]
	assert.Equal(t, "JOHN DOE", john.Summary.CustomerName)
	assert.Equal(t, 30, john.Records[0].MaxDPD12)
	assert.Equal(t, "50,000", john.Records[1].SanctionedAmount)
	assert.Equal(t, bureau.StatusClosed, john.Records[1].Status)
	assert.Equal(t, bureau.Unknown, batch.Documents[1].Summary.CustomerName)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"JOHN DOE_Applicant", "Unknown_Co-Applicant", "Summary"}, f.GetSheetList())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DocumentsProcessed.WithLabelValues("Applicant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AccountsExtracted.WithLabelValues("Closed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SentinelMisses.WithLabelValues("score")))
	assert.Equal(t, 1, stats.Snapshot().Runs)
}

func TestWorker_ProcessPartial(t *testing.T) {
	w, metrics, _ := newTestWorker(t)
	job := NewJob([]File{
		NewFile("john.txt", bureau.Applicant, []byte(johnReport)),
		NewFile("scan.png", bureau.Applicant, []byte{0x89, 'P', 'N', 'G'}),
	})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusPartial, snap.Status)
	assert.Equal(t, 1, snap.Progress.Documents)
	require.Len(t, snap.Progress.Errors, 1)
	assert.Contains(t, snap.Progress.Errors[0], "scan.png")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DecodeFailures))
}

func TestWorker_ProcessFailed(t *testing.T) {
	w, _, _ := newTestWorker(t)
	job := NewJob([]File{NewFile("notes.md", bureau.Applicant, []byte("# hi"))})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Contains(t, snap.Progress.Errors, "no decodable reports")
	_, _, ok := job.Result()
	assert.False(t, ok)
}

func TestOrchestrator_SubmitAndProcess(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, BatchWorkers: 1, JobTTL: time.Hour, CleanupSchedule: "@every 1m"}
	o := NewOrchestrator(cfg, NewMetrics(prometheus.NewRegistry()), discardLogger())
	require.NoError(t, o.Start(context.Background()))
	defer o.Stop()

	job := NewJob([]File{NewFile("john.txt", bureau.Applicant, []byte(johnReport))})
	require.NoError(t, o.Submit(job))
	assert.Same(t, job, o.GetJob(job.ID))

	require.Eventually(t, func() bool {
		return job.Snapshot().Status.Done()
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, StatusCompleted, job.Snapshot().Status)
	assert.Equal(t, 1, o.Stats().Snapshot().Runs)
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour, CleanupSchedule: "@every 1m"}
	o := NewOrchestrator(cfg, nil, discardLogger())

	// Not started: nothing drains the queue.
	require.NoError(t, o.Submit(NewJob(nil)))
	job := NewJob(nil)
	err := o.Submit(job)

	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, StatusFailed, job.Snapshot().Status)
	assert.Equal(t, 1, o.QueueDepth())
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 2, JobTTL: time.Hour, CleanupSchedule: "@every 1m"}
	o := NewOrchestrator(cfg, nil, discardLogger())
	require.NoError(t, o.Start(context.Background()))
	o.Stop()
	o.Stop()

	job := NewJob(nil)
	var err error
	assert.NotPanics(t, func() { err = o.Submit(job) })
	assert.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, StatusFailed, job.Snapshot().Status)
	assert.Nil(t, o.GetJob(job.ID))
}

func TestOrchestrator_StopFailsQueuedJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 2, JobTTL: time.Hour, CleanupSchedule: "@every 1m"}
	o := NewOrchestrator(cfg, nil, discardLogger())

	// Not started: the job stays queued until Stop.
	job := NewJob([]File{NewFile("john.txt", bureau.Applicant, []byte(johnReport))})
	require.NoError(t, o.Submit(job))
	o.Stop()

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Contains(t, snap.Progress.Errors, "pipeline stopped before the job ran")
	assert.Equal(t, 0, o.QueueDepth())
}

func TestOrchestrator_BadCleanupSchedule(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, CleanupSchedule: "whenever"}
	o := NewOrchestrator(cfg, nil, discardLogger())
	assert.Error(t, o.Start(context.Background()))
}

func TestOrchestrator_Extract(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, nil, discardLogger())

	batch := o.Extract(context.Background(), []bureau.Document{
		{Text: johnReport, BorrowerType: bureau.Applicant, SourceID: "inline"},
	})

	require.Len(t, batch.Documents, 1)
	assert.Len(t, batch.Documents[0].Records, 2)
}
