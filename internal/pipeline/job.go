package pipeline

import (
	"time"

	"autosub/internal/subtitles"
)

// Status is the outcome of a stage or a whole job.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Stage names, in execution order.
const (
	StageCopy       = "copy"
	StageProbe      = "probe"
	StageExtract    = "extract"
	StageTranscribe = "transcribe"
	StageSubtitle   = "subtitle"
	StageTranslate  = "translate"
	StageMux        = "mux"
	StagePublish    = "publish"
)

// StageResult records how one stage went for one file.
type StageResult struct {
	Stage   string
	Status  Status
	Reason  string
	Err     error
	Elapsed time.Duration
}

// Job tracks one input file through the pipeline.
type Job struct {
	Seq    int
	ID     string
	Source string
	Base   string

	VideoPath      string
	AudioPath      string
	SubtitlePath   string
	TranslatedPath string
	MuxedPath      string

	SizeBytes int64
	Size      string
	Start     time.Time
	End       time.Time
	Elapsed   string

	// MediaDuration is the container duration reported by ffprobe.
	MediaDuration time.Duration
	// Language is the language of the primary subtitle track.
	Language string
	Stages   []StageResult
	Failed   []int
	// Published lists the files written to the output directory.
	Published []string

	segments []subtitles.Segment
}

// Status is failed when any stage failed and ok otherwise.
func (j *Job) Status() Status {
	for _, st := range j.Stages {
		if st.Status == StatusFailed {
			return StatusFailed
		}
	}
	return StatusOK
}

// Result returns the recorded result for stage.
func (j *Job) Result(stage string) (StageResult, bool) {
	for _, st := range j.Stages {
		if st.Stage == stage {
			return st, true
		}
	}
	return StageResult{}, false
}

// FirstFailure returns the first failed stage, if any.
func (j *Job) FirstFailure() (StageResult, bool) {
	for _, st := range j.Stages {
		if st.Status == StatusFailed {
			return st, true
		}
	}
	return StageResult{}, false
}

func (j *Job) succeeded(stage string) bool {
	st, ok := j.Result(stage)
	return ok && st.Status == StatusOK
}

// Report is the outcome of a run.
type Report struct {
	Jobs []*Job
}

// FailedLines is the total number of subtitle cues that could not be
// translated across all jobs.
func (r Report) FailedLines() int {
	total := 0
	for _, job := range r.Jobs {
		total += len(job.Failed)
	}
	return total
}

// FailedJobs counts jobs with at least one failed stage.
func (r Report) FailedJobs() int {
	count := 0
	for _, job := range r.Jobs {
		if job.Status() == StatusFailed {
			count++
		}
	}
	return count
}
