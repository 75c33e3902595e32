package jobs

import "context"

// Status is the transient lifecycle state of a job.
type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusErrored   Status = "errored"
)

// TranscriptExt is appended to the requested output name.
const TranscriptExt = ".txt"

// Job is one transcription of one uploaded file.
type Job struct {
	// ID identifies the job in every event it emits.
	ID string
	// InputPath is the storage name of the uploaded audio.
	InputPath string
	// OutputName, when set, saves the transcript as OutputName + ".txt".
	OutputName string
}

// OutputFile returns the storage name of the transcript, or "" when the
// job does not save one.
func (j Job) OutputFile() string {
	if j.OutputName == "" {
		return ""
	}
	return j.OutputName + TranscriptExt
}

// Executor runs a job to completion and returns its terminal status.
type Executor interface {
	Run(ctx context.Context, job Job) Status
}
