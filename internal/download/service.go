package download

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidl-app/vidl/internal/model"
	"github.com/vidl-app/vidl/internal/platform"
)

// Export formats
const (
	ExportMP4 = "mp4"
	ExportMP3 = "mp3"
)

// Service constants
const (
	JobIDPrefix = "job-"

	eventBufferSize  = 64
	fallbackBaseName = "video"
)

// Request describes one download to start.
type Request struct {
	URL           string
	FormatID      string
	Title         string // used for the output file name; may be empty
	OutputDir     string
	Format        string // ExportMP4 or ExportMP3
	CookieBrowser string // enables the age-gate cookie retry when set
}

// Service runs download jobs and publishes their lifecycle on Events.
type Service struct {
	jobsMutex sync.RWMutex
	jobs      map[string]*model.DownloadJob
	runners   map[string]*platform.AgeGateRunner

	events chan Event
}

// NewService creates a new download service.
func NewService() *Service {
	return &Service{
		jobs:    make(map[string]*model.DownloadJob),
		runners: make(map[string]*platform.AgeGateRunner),
		events:  make(chan Event, eventBufferSize),
	}
}

// Events returns the job notification stream. Status transitions are
// always delivered; progress updates are best-effort.
func (s *Service) Events() <-chan Event {
	return s.events
}

// StartJob validates the request, reserves a collision-free output path
// and launches the download in the background.
func (s *Service) StartJob(req Request) (*model.DownloadJob, error) {
	if !strings.HasPrefix(req.URL, "http") {
		return nil, fmt.Errorf("invalid URL: %s", req.URL)
	}
	if req.Format != ExportMP4 && req.Format != ExportMP3 {
		return nil, fmt.Errorf("unsupported export format: %s", req.Format)
	}
	if req.FormatID == "" {
		return nil, fmt.Errorf("no stream selected")
	}
	if err := platform.CreateDirectoryIfNotExists(req.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	base := platform.SanitizeFilename(req.Title)
	if strings.TrimSpace(base) == "" {
		base = fallbackBaseName
	}
	outputPath := platform.UniquePath(req.OutputDir, base, req.Format)

	job := &model.DownloadJob{
		ID:         generateJobID(),
		URL:        req.URL,
		FormatID:   req.FormatID,
		OutputPath: outputPath,
		FinalPath:  outputPath,
		Status:     model.StatusPending,
		Title:      req.Title,
		StartedAt:  time.Now(),
	}
	runner := &platform.AgeGateRunner{CookieBrowser: req.CookieBrowser}

	s.jobsMutex.Lock()
	s.jobs[job.ID] = job
	s.runners[job.ID] = runner
	s.jobsMutex.Unlock()

	go s.runJob(job, runner, buildArgs(req, outputPath))

	return s.snapshot(job.ID), nil
}

// StopJob requests cancellation of an active job.
func (s *Service) StopJob(id string) error {
	s.jobsMutex.Lock()
	job, exists := s.jobs[id]
	if !exists {
		s.jobsMutex.Unlock()
		return fmt.Errorf("job not found: %s", id)
	}
	if !job.Status.IsActive() {
		s.jobsMutex.Unlock()
		return fmt.Errorf("job is not active: %s", job.Status)
	}
	job.Status = model.StatusStopping
	job.Cancelled = true
	runner := s.runners[id]
	s.jobsMutex.Unlock()

	s.emitStatus(id, model.StatusStopping)
	runner.Terminate()
	return nil
}

// Job returns a snapshot of the job with the given ID.
func (s *Service) Job(id string) *model.DownloadJob {
	return s.snapshot(id)
}

// Jobs returns snapshots of all known jobs.
func (s *Service) Jobs() []*model.DownloadJob {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	jobs := make([]*model.DownloadJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		copied := *job
		jobs = append(jobs, &copied)
	}
	return jobs
}

// runJob is the worker goroutine for one download.
func (s *Service) runJob(job *model.DownloadJob, runner *platform.AgeGateRunner, args []string) {
	s.setStatus(job.ID, model.StatusStarting)
	s.setStatus(job.ID, model.StatusRunning)

	tracker := platform.NewProgressTracker()
	merged := false

	// The cookie retry spawns a fresh subprocess whose premature first
	// percentage line must be discarded again.
	runner.OnRetry = tracker.Reset

	onLine := func(line string) {
		event, ok := platform.ParseProgressLine(line)
		if !ok {
			return
		}
		switch event.Kind {
		case platform.EventPercent:
			value, emit := tracker.Update(event.Percent)
			if !emit {
				return
			}
			s.jobsMutex.Lock()
			job.Progress = value
			s.jobsMutex.Unlock()
			s.emitProgress(job.ID, value)
		case platform.EventDestination:
			s.jobsMutex.Lock()
			if !merged {
				job.FinalPath = event.Path
			}
			s.jobsMutex.Unlock()
		case platform.EventMerged:
			s.jobsMutex.Lock()
			job.FinalPath = event.Path
			merged = true
			s.jobsMutex.Unlock()
		}
	}

	err := runner.Run(context.Background(), args, onLine)

	s.jobsMutex.Lock()
	var final model.JobStatus
	switch {
	case runner.WasCancelled():
		final = model.StatusStopped
	case err != nil:
		final = model.StatusError
		job.LastError = err.Error()
		log.Printf("Download job %s failed: %v", job.ID, err)
	default:
		final = model.StatusCompleted
		job.Progress = 100
	}
	job.Status = final
	job.FinishedAt = time.Now()
	s.jobsMutex.Unlock()

	s.emitStatus(job.ID, final)
}

func (s *Service) setStatus(id string, status model.JobStatus) {
	s.jobsMutex.Lock()
	job, exists := s.jobs[id]
	if !exists || job.Status.IsFinished() || job.Status == model.StatusStopping {
		// A concurrent stop request outranks lifecycle bookkeeping.
		s.jobsMutex.Unlock()
		return
	}
	job.Status = status
	s.jobsMutex.Unlock()

	s.emitStatus(id, status)
}

// emitStatus delivers a lifecycle event. Terminal transitions must reach
// the consumer, so this send blocks if the buffer is full.
func (s *Service) emitStatus(id string, status model.JobStatus) {
	s.events <- Event{JobID: id, Kind: EventStatus, Status: status}
}

// emitProgress delivers a progress update unless the consumer is behind.
func (s *Service) emitProgress(id string, progress float64) {
	select {
	case s.events <- Event{JobID: id, Kind: EventProgress, Progress: progress}:
	default:
	}
}

func (s *Service) snapshot(id string) *model.DownloadJob {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return nil
	}
	copied := *job
	return &copied
}

// buildArgs maps the request onto a yt-dlp argument list.
func buildArgs(req Request, outputPath string) []string {
	if req.Format == ExportMP3 {
		return platform.BuildAudioDownloadArgs(req.FormatID, outputPath, req.URL)
	}
	return platform.BuildVideoDownloadArgs(req.FormatID, outputPath, req.URL)
}

// generateJobID generates a unique job ID using UUID v7 for time ordering.
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
