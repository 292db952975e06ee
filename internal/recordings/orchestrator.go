package recordings

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"recording-extract-go/internal/analytics"
	"recording-extract-go/internal/genesys"
	"recording-extract-go/internal/logger"
	"recording-extract-go/internal/lookup"
	"recording-extract-go/internal/report"
)

var (
	// ErrSubmissionExhausted marks a chunk whose batch job could never be
	// submitted. The chunk is skipped and counted; the run continues.
	ErrSubmissionExhausted = errors.New("batch submission exhausted")
	// ErrPollTimeout marks a batch job that did not complete within the
	// configured poll deadline.
	ErrPollTimeout = errors.New("batch poll timeout")
)

// BatchAPI is the batch-job slice of the platform client.
type BatchAPI interface {
	SubmitBatchDownload(ctx context.Context, pairs []genesys.BatchDownloadRequest) (string, error)
	BatchDownloadStatus(ctx context.Context, jobID string) (*genesys.BatchJobStatus, error)
}

// Summary is the run result surfaced to the operator. Failed covers skipped
// chunks, rejected pairs and exhausted downloads alike.
type Summary struct {
	Downloaded int
	Failed     int
}

// Options tunes the orchestrator. Day and HourLabel only feed report naming.
type Options struct {
	DownloadDir         string
	Day                 string
	HourLabel           string
	ChunkSize           int
	ChunkConcurrency    int
	SubmitRetries       int
	SubmitRetryDelay    time.Duration
	PollInterval        time.Duration
	PollTimeout         time.Duration
	DownloadConcurrency int
	EmitMissingReport   bool
}

// Orchestrator drives chunks through submit, poll, download and report
// assembly. Chunks are independent: separate job, separate poll loop,
// separate report file. The lookup cache is the only state shared between
// them.
type Orchestrator struct {
	batch      BatchAPI
	downloader *Downloader
	cache      *lookup.Cache
	writer     report.Writer
	opts       Options
	log        *logger.Logger
}

func NewOrchestrator(batch BatchAPI, downloader *Downloader, cache *lookup.Cache, writer report.Writer, opts Options) *Orchestrator {
	if opts.ChunkSize < 1 {
		opts.ChunkSize = 50
	}
	if opts.ChunkConcurrency < 1 {
		opts.ChunkConcurrency = 1
	}
	if opts.DownloadConcurrency < 1 {
		opts.DownloadConcurrency = 1
	}
	return &Orchestrator{
		batch:      batch,
		downloader: downloader,
		cache:      cache,
		writer:     writer,
		opts:       opts,
		log:        logger.New(),
	}
}

// Run processes every recording and reports aggregate counts. The recording
// and session lists are treated as immutable snapshots; nothing here mutates
// them.
func (o *Orchestrator) Run(ctx context.Context, recs []Recording, sessions []analytics.ValidSession) (Summary, error) {
	byConv := make(map[string][]analytics.ValidSession, len(sessions))
	for _, s := range sessions {
		byConv[s.ConversationID] = append(byConv[s.ConversationID], s)
	}

	chunks := chunkRecordings(recs, o.opts.ChunkSize)
	o.log.WithField("recordings", len(recs)).WithField("chunks", len(chunks)).Info("starting batch downloads")

	var (
		mu    sync.Mutex
		total Summary
		wg    sync.WaitGroup
		sem   = make(chan struct{}, o.opts.ChunkConcurrency)
	)
	for i, chunk := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(chunkNo int, chunk []Recording) {
			defer wg.Done()
			defer func() { <-sem }()
			s := o.processChunk(ctx, chunkNo, chunk, byConv)
			mu.Lock()
			total.Downloaded += s.Downloaded
			total.Failed += s.Failed
			mu.Unlock()
		}(i+1, chunk)
	}
	wg.Wait()

	if o.opts.EmitMissingReport {
		if err := o.writeMissingReport(ctx, sessions, recs); err != nil {
			o.log.WithError(err).Error("missing-recordings report failed")
		}
	}
	return total, nil
}

func (o *Orchestrator) processChunk(ctx context.Context, chunkNo int, chunk []Recording, byConv map[string][]analytics.ValidSession) Summary {
	log := o.log.WithField("chunk", chunkNo)

	pairs := make([]genesys.BatchDownloadRequest, len(chunk))
	for i, r := range chunk {
		pairs[i] = genesys.BatchDownloadRequest{ConversationID: r.ConversationID, RecordingID: r.RecordingID}
	}

	jobID, err := o.submitWithRetry(ctx, pairs)
	if err != nil {
		log.WithError(err).Error("chunk skipped")
		return Summary{Failed: len(chunk)}
	}
	log = log.WithField("job_id", jobID)

	status, err := o.pollJob(ctx, jobID)
	if err != nil {
		log.WithError(err).Error("chunk skipped")
		return Summary{Failed: len(chunk)}
	}

	results := make(map[string]*genesys.BatchDownloadResult, len(status.Results))
	for i := range status.Results {
		results[status.Results[i].RecordingID] = &status.Results[i]
	}

	var (
		mu       sync.Mutex
		sum      Summary
		rejected int
		records  []report.Record
		wg       sync.WaitGroup
		sem      = make(chan struct{}, o.opts.DownloadConcurrency)
	)
	for _, rec := range chunk {
		res := results[rec.RecordingID]
		if reason := rejectReason(res); reason != "" {
			log.WithField("recording_id", rec.RecordingID).
				WithField("conversation_id", rec.ConversationID).
				WithField("reason", reason).
				Warn("result rejected")
			rejected++
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(rec Recording, url string) {
			defer wg.Done()
			defer func() { <-sem }()

			fileName := rec.ConversationID + "_" + rec.RecordingID + ".wav"
			filePath := filepath.Join(o.opts.DownloadDir, fileName)
			if _, err := o.downloader.Download(ctx, url, filePath); err != nil {
				log.WithField("recording_id", rec.RecordingID).WithError(err).Warn("download failed")
				mu.Lock()
				sum.Failed++
				mu.Unlock()
				return
			}
			mu.Lock()
			sum.Downloaded++
			mu.Unlock()

			record, ok := o.buildRecord(ctx, rec, byConv[rec.ConversationID], fileName, filePath)
			if !ok {
				// filtered correlation should have made a match inevitable
				log.WithField("recording_id", rec.RecordingID).
					WithField("conversation_id", rec.ConversationID).
					WithField("session_id", rec.SessionID).
					Warn("correlation miss: no session for downloaded recording")
				return
			}
			mu.Lock()
			records = append(records, record)
			mu.Unlock()
		}(rec, res.ResultURL)
	}
	wg.Wait()
	sum.Failed += rejected

	reportName := fmt.Sprintf("%s_%s_batch%d.%s", o.opts.Day, o.opts.HourLabel, chunkNo, o.writer.Ext())
	reportPath := filepath.Join(o.opts.DownloadDir, reportName)
	if err := o.writer.Write(reportPath, records); err != nil {
		log.WithError(err).Error("report write failed")
	} else {
		log.WithField("report", reportPath).WithField("records", len(records)).Info("chunk done")
	}
	return sum
}

func (o *Orchestrator) submitWithRetry(ctx context.Context, pairs []genesys.BatchDownloadRequest) (string, error) {
	retries := o.opts.SubmitRetries
	if retries < 1 {
		retries = 1
	}
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(o.opts.SubmitRetryDelay), uint64(retries-1)), ctx)

	var jobID string
	op := func() error {
		id, err := o.batch.SubmitBatchDownload(ctx, pairs)
		if err != nil {
			o.log.WithError(err).Warn("batch submit failed, will retry")
			return err
		}
		jobID = id
		return nil
	}
	if err := backoff.Retry(op, bo); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmissionExhausted, err)
	}
	return jobID, nil
}

// pollJob waits until the job reports as many results as it expects. Poll
// errors are transient by assumption and only logged; the deadline is the
// real bound.
func (o *Orchestrator) pollJob(ctx context.Context, jobID string) (*genesys.BatchJobStatus, error) {
	deadline := time.Now().Add(o.opts.PollTimeout)
	for {
		status, err := o.batch.BatchDownloadStatus(ctx, jobID)
		if err != nil {
			o.log.WithField("job_id", jobID).WithError(err).Warn("poll failed")
		} else if status.ResultCount > 0 && status.ResultCount == status.ExpectedResultCount {
			return status, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: job %s after %s", ErrPollTimeout, jobID, o.opts.PollTimeout)
		}
		select {
		case <-time.After(o.opts.PollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// rejectReason classifies a batch result. Empty means the pair may proceed
// to download.
func rejectReason(res *genesys.BatchDownloadResult) string {
	switch {
	case res == nil:
		return "no result entry"
	case res.ErrorMsg != "":
		return "provider error: " + res.ErrorMsg
	case strings.Contains(res.ContentType, "screen"):
		return "screen recording: " + res.ContentType
	case res.ResultURL == "":
		return "no result url"
	}
	return ""
}

func chunkRecordings(recs []Recording, size int) [][]Recording {
	var out [][]Recording
	for i := 0; i < len(recs); i += size {
		end := i + size
		if end > len(recs) {
			end = len(recs)
		}
		out = append(out, recs[i:end])
	}
	return out
}
