package download

import "github.com/vidl-app/vidl/internal/model"

// EventKind distinguishes the two classes of job notifications.
type EventKind int

const (
	// EventStatus marks a lifecycle transition. Delivery is guaranteed.
	EventStatus EventKind = iota

	// EventProgress carries a percentage update. Progress events may be
	// dropped when the consumer lags; the latest value is always
	// recoverable from the job snapshot.
	EventProgress
)

// Event is one notification on the service's event stream.
type Event struct {
	JobID    string
	Kind     EventKind
	Status   model.JobStatus
	Progress float64
}
