package queue

import "context"

// Job is a registered handler for one message type on the queue. Background
// work such as the scheduled news refresh is expressed as a Job.
type Job interface {
	// Name returns the unique identifier of the job.
	Name() string

	// Type returns the type of message that the job handles.
	Type() string

	// Handle processes the job with the given payload.
	Handle(ctx context.Context, payload interface{}) error
}
