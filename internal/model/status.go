package model

// JobStatus is the lifecycle state shared by download and conversion jobs.
type JobStatus string

// Lifecycle: Pending -> Starting -> Running -> Completed. A user cancel
// routes through Stopping to Stopped; failures land on Error.
const (
	StatusPending   JobStatus = "Pending"
	StatusStarting  JobStatus = "Starting"
	StatusRunning   JobStatus = "Running"
	StatusStopping  JobStatus = "Stopping"
	StatusStopped   JobStatus = "Stopped"
	StatusCompleted JobStatus = "Completed"
	StatusError     JobStatus = "Error"
)

func (js JobStatus) String() string {
	return string(js)
}

// IsActive reports whether the job's subprocess may still produce output.
func (js JobStatus) IsActive() bool {
	return js == StatusStarting || js == StatusRunning || js == StatusStopping
}

// IsFinished reports whether the job reached a terminal state.
func (js JobStatus) IsFinished() bool {
	return js == StatusCompleted || js == StatusStopped || js == StatusError
}
