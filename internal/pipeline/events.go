package pipeline

import "github.com/dgallion1/steelbid/internal/estimate"

const subscriberBuffer = 64

// Event is a progress update streamed to clients while a job runs.
type Event struct {
	Status       string    `json:"status"`
	State        JobStatus `json:"state,omitempty"`
	Batch        int       `json:"batch,omitempty"`
	TotalBatches int       `json:"total_batches,omitempty"`
	Page         int       `json:"page,omitempty"`
	Found        int       `json:"found,omitempty"`
}

// DoneEvent is the last message of a job that produced members.
type DoneEvent struct {
	Done            bool              `json:"done"`
	Status          JobStatus         `json:"status"`
	Members         []estimate.Member `json:"members"`
	Method          string            `json:"method"`
	Pages           int               `json:"pages"`
	UnknownSections int               `json:"unknown_sections"`
	Errors          []string          `json:"errors,omitempty"`
}

// ErrorEvent is the last message of a failed job.
type ErrorEvent struct {
	Error string `json:"error"`
}

// Subscribe returns a channel of progress events and a cancel func. The
// channel is closed when the job reaches a terminal status; read Final then.
// Slow readers miss progress events rather than blocking the worker.
func (j *Job) Subscribe() (<-chan Event, func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	ch := make(chan Event, subscriberBuffer)
	if j.Status.Terminal() {
		close(ch)
		return ch, func() {}
	}
	j.subs = append(j.subs, ch)
	return ch, func() { j.unsubscribe(ch) }
}

func (j *Job) unsubscribe(ch chan Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, c := range j.subs {
		if c == ch {
			j.subs = append(j.subs[:i], j.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish sends an event to every subscriber without blocking.
func (j *Job) Publish(ev Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.publishLocked(ev)
}

func (j *Job) publishLocked(ev Event) {
	for _, ch := range j.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Final returns the closing event for a terminal job: *DoneEvent for
// completed and partial jobs, *ErrorEvent for failed ones. It returns nil
// while the job is still running.
func (j *Job) Final() any {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.Status {
	case StatusCompleted, StatusPartial:
		members := make([]estimate.Member, len(j.members))
		copy(members, j.members)
		var errs []string
		if len(j.errors) > 0 {
			errs = append(errs, j.errors...)
		}
		return &DoneEvent{
			Done:            true,
			Status:          j.Status,
			Members:         members,
			Method:          j.method,
			Pages:           j.pages,
			UnknownSections: j.Progress.UnknownSections,
			Errors:          errs,
		}
	case StatusFailed:
		msg := "extraction failed"
		if n := len(j.errors); n > 0 {
			msg = j.errors[n-1]
		}
		return &ErrorEvent{Error: msg}
	default:
		return nil
	}
}
