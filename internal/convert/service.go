package convert

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidl-app/vidl/internal/model"
	"github.com/vidl-app/vidl/internal/platform"
)

// FFmpeg invocation constants
const (
	FFmpegCommand = "ffmpeg"

	// Re-encode settings: maximum-compatibility H.264 with untouched audio.
	ReencodeVideoCodec = "libx264"
	ReencodePreset     = "slow"
	ReencodeCRF        = "18"
	CopyCodec          = "copy"
	FastStartFlag      = "faststart"

	ReencodedSuffix    = "_reencoded"
	OutputExtensionMP4 = ".mp4"

	JobIDPrefix = "convert-"

	stopPollInterval = 100 * time.Millisecond
)

// Options tunes a format conversion. Zero values leave the corresponding
// ffmpeg parameter at its default.
type Options struct {
	VideoCodec   string
	AudioCodec   string
	VideoBitrate string // e.g. "2000k"
	AudioBitrate string // e.g. "128k"
	Scale        string // e.g. "1280:720"
	FrameRate    int
	Preset       string
	CRF          string
}

// Service runs ffmpeg jobs. One UI callback receives every state change.
type Service struct {
	jobs      map[string]*model.ConversionJob
	jobsMutex sync.RWMutex
	onUpdate  func(*model.ConversionJob)
}

// NewService creates a new conversion service.
func NewService() *Service {
	return &Service{
		jobs: make(map[string]*model.ConversionJob),
	}
}

// SetUpdateCallback sets the callback function for job updates.
func (s *Service) SetUpdateCallback(callback func(*model.ConversionJob)) {
	s.onUpdate = callback
}

// StartReencode re-encodes inputPath into a maximally compatible mp4 and,
// on success, replaces the original file with the result.
func (s *Service) StartReencode(inputPath string) (*model.ConversionJob, error) {
	outputPath := reencodeOutputPath(inputPath)
	args := BuildReencodeArgs(inputPath, outputPath)
	return s.start(inputPath, outputPath, args, true)
}

// StartConversion transcodes inputPath to outputPath with opts.
func (s *Service) StartConversion(inputPath, outputPath string, opts Options) (*model.ConversionJob, error) {
	args := BuildConversionArgs(inputPath, outputPath, opts)
	return s.start(inputPath, outputPath, args, false)
}

func (s *Service) start(inputPath, outputPath string, args []string, replaceOriginal bool) (*model.ConversionJob, error) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	for _, job := range s.jobs {
		if job.InputPath == inputPath && job.Status.IsActive() {
			return nil, fmt.Errorf("conversion already in progress for file: %s", inputPath)
		}
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file does not exist: %s", inputPath)
	}

	job := &model.ConversionJob{
		ID:         generateJobID(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Status:     model.StatusPending,
		StartedAt:  time.Now(),
	}
	s.jobs[job.ID] = job

	go s.runJob(job, args, replaceOriginal)

	return job, nil
}

// StopJob stops a running conversion job.
func (s *Service) StopJob(id string) error {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("conversion job not found: %s", id)
	}
	if !job.Status.IsActive() {
		return fmt.Errorf("conversion job is not active: %s", job.Status)
	}

	job.Status = model.StatusStopping
	job.Cancelled = true
	s.notifyUpdate(job)
	return nil
}

// GetJob returns a conversion job by ID.
func (s *Service) GetJob(id string) (*model.ConversionJob, bool) {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()
	job, exists := s.jobs[id]
	return job, exists
}

// runJob performs the actual transcode.
func (s *Service) runJob(job *model.ConversionJob, args []string, replaceOriginal bool) {
	s.setStatus(job, model.StatusStarting)

	// Duration drives the progress mapping; without it the bar stays put
	// but the job still runs.
	var totalDuration float64
	if info, err := Probe(job.InputPath); err != nil {
		log.Printf("Failed to probe %s: %v", job.InputPath, err)
	} else {
		totalDuration = info.Duration
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Monitor for stop requests
	go func() {
		for {
			s.jobsMutex.RLock()
			status := job.Status
			s.jobsMutex.RUnlock()

			if status == model.StatusStopping {
				cancel()
				return
			}
			if status.IsFinished() {
				return
			}
			time.Sleep(stopPollInterval)
		}
	}()

	s.setStatus(job, model.StatusRunning)

	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.setJobError(job, fmt.Errorf("failed to create stderr pipe: %w", err))
		return
	}
	if err := cmd.Start(); err != nil {
		s.setJobError(job, fmt.Errorf("failed to start ffmpeg: %w", err))
		return
	}

	go s.monitorProgress(stderr, job, totalDuration)

	err = cmd.Wait()

	s.jobsMutex.Lock()
	if ctx.Err() == context.Canceled {
		job.Status = model.StatusStopped
		os.Remove(job.OutputPath)
	} else if err != nil {
		job.Status = model.StatusError
		job.LastError = err.Error()
		os.Remove(job.OutputPath)
	} else {
		job.Status = model.StatusCompleted
		job.Progress = 100
		if replaceOriginal {
			if swapErr := swapFiles(job.OutputPath, job.InputPath); swapErr != nil {
				log.Printf("Failed to replace %s: %v", job.InputPath, swapErr)
				job.Status = model.StatusError
				job.LastError = swapErr.Error()
			} else {
				job.OutputPath = job.InputPath
			}
		}
	}
	job.FinishedAt = time.Now()
	s.jobsMutex.Unlock()

	s.notifyUpdate(job)
}

// monitorProgress reads ffmpeg stderr. ffmpeg rewrites its stats line
// with carriage returns, so the stream is split on CR as well as LF.
func (s *Service) monitorProgress(stderr io.ReadCloser, job *model.ConversionJob, totalDuration float64) {
	defer stderr.Close()

	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanCRLines)

	for scanner.Scan() {
		line := scanner.Text()

		// ffmpeg's stats line carries size= alongside time=, so the size
		// readout is extracted independently of the line classification.
		if sizeMB, ok := platform.ParseOutputSizeMB(line); ok {
			s.jobsMutex.Lock()
			job.EstimatedSizeMB = sizeMB
			s.jobsMutex.Unlock()
		}

		event, ok := platform.ParseProgressLine(line)
		if !ok || event.Kind != platform.EventTimecode {
			continue
		}
		if totalDuration <= 0 {
			continue
		}
		progress := event.Seconds / totalDuration * 100
		if progress > 100 {
			progress = 100
		}
		s.jobsMutex.Lock()
		job.Progress = progress
		s.jobsMutex.Unlock()
		s.notifyUpdate(job)
	}
}

func (s *Service) setStatus(job *model.ConversionJob, status model.JobStatus) {
	s.jobsMutex.Lock()
	if job.Status.IsFinished() || job.Status == model.StatusStopping {
		s.jobsMutex.Unlock()
		return
	}
	job.Status = status
	s.jobsMutex.Unlock()
	s.notifyUpdate(job)
}

func (s *Service) setJobError(job *model.ConversionJob, err error) {
	s.jobsMutex.Lock()
	job.Status = model.StatusError
	job.LastError = err.Error()
	job.FinishedAt = time.Now()
	s.jobsMutex.Unlock()

	s.notifyUpdate(job)
}

func (s *Service) notifyUpdate(job *model.ConversionJob) {
	if s.onUpdate != nil {
		s.onUpdate(job)
	}
}

// BuildReencodeArgs builds the ffmpeg argv for the compatibility
// re-encode: new H.264 video, audio copied as is.
func BuildReencodeArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-c:v", ReencodeVideoCodec,
		"-preset", ReencodePreset,
		"-crf", ReencodeCRF,
		"-c:a", CopyCodec,
		"-movflags", FastStartFlag,
		outputPath,
	}
}

// BuildConversionArgs builds the ffmpeg argv for a tuned conversion.
func BuildConversionArgs(inputPath, outputPath string, opts Options) []string {
	args := []string{"-y", "-i", inputPath}

	if opts.VideoCodec != "" {
		args = append(args, "-c:v", opts.VideoCodec)
	}
	if opts.Preset != "" {
		args = append(args, "-preset", opts.Preset)
	}
	if opts.CRF != "" {
		args = append(args, "-crf", opts.CRF)
	}
	if opts.VideoBitrate != "" {
		args = append(args, "-b:v", opts.VideoBitrate)
	}
	if opts.Scale != "" {
		args = append(args, "-vf", "scale="+opts.Scale)
	}
	if opts.FrameRate > 0 {
		args = append(args, "-r", fmt.Sprintf("%d", opts.FrameRate))
	}
	if opts.AudioCodec != "" {
		args = append(args, "-c:a", opts.AudioCodec)
	}
	if opts.AudioBitrate != "" {
		args = append(args, "-b:a", opts.AudioBitrate)
	}

	return append(args, outputPath)
}

// scanCRLines is a bufio.SplitFunc that treats both \r and \n as line
// terminators.
func scanCRLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// swapFiles replaces dst with src.
func swapFiles(src, dst string) error {
	if err := os.Remove(dst); err != nil {
		return fmt.Errorf("failed to remove original: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move re-encoded file: %w", err)
	}
	return nil
}

// reencodeOutputPath derives the temporary target next to the input.
func reencodeOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return base + ReencodedSuffix + OutputExtensionMP4
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
