package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/clock"
)

// ErrSubmissionFailed wraps errors returned by a Submitter.
var ErrSubmissionFailed = errors.New("contact: submission failed")

type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the message shown under the form.
type Status struct {
	Kind    StatusKind
	Message string
}

const (
	msgInvalid = "Please fix the errors above"
	msgSending = "Sending your message..."
	msgSent    = "Thank you! Your message has been sent successfully."
	msgFailed  = "Sorry, there was an error sending your message. Please try again."
)

// StatusHideAfter is how long a success message stays visible.
const StatusHideAfter = 5 * time.Second

// Form is one contact form instance. At most one submission is in flight at
// a time; while it is, the submit control is disabled and further submits
// fail with ErrSubmissionPending. Field values survive failed submissions.
type Form struct {
	submitter Submitter
	clock     clock.Clock

	mu         sync.Mutex
	values     Payload
	fieldErrs  FieldErrors
	submitting bool
	status     Status
	hideTimer  clock.Timer
	closed     bool
}

func NewForm(s Submitter, c clock.Clock) *Form {
	if c == nil {
		c = clock.Real()
	}
	return &Form{submitter: s, clock: c, fieldErrs: FieldErrors{}}
}

// Set replaces the field values. It fails while a submission is pending.
func (f *Form) Set(p Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return ErrSubmissionPending
	}
	f.values = p
	return nil
}

func (f *Form) Values() Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// SubmitDisabled reports whether the submit control is disabled.
func (f *Form) SubmitDisabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *Form) FieldErrors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(FieldErrors, len(f.fieldErrs))
	for k, v := range f.fieldErrs {
		out[k] = v
	}
	return out
}

// Submit sends the current values.
func (f *Form) Submit(ctx context.Context) error {
	return f.submit(ctx, nil)
}

// SubmitWith sets the values and sends them as one step.
func (f *Form) SubmitWith(ctx context.Context, p Payload) error {
	return f.submit(ctx, &p)
}

func (f *Form) submit(ctx context.Context, p *Payload) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmissionPending
	}
	if p != nil {
		f.values = *p
	}
	payload := f.values.Normalize()
	f.fieldErrs = payload.Validate()
	f.stopHideLocked()
	if len(f.fieldErrs) > 0 {
		f.status = Status{Kind: StatusError, Message: msgInvalid}
		f.mu.Unlock()
		return ErrInvalid
	}
	f.submitting = true
	f.status = Status{Kind: StatusInfo, Message: msgSending}
	f.mu.Unlock()

	err := f.submitter.Submit(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.status = Status{Kind: StatusError, Message: msgFailed}
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	f.values = Payload{}
	f.status = Status{Kind: StatusSuccess, Message: msgSent}
	if !f.closed {
		f.hideTimer = f.clock.AfterFunc(StatusHideAfter, f.hideSuccess)
	}
	return nil
}

func (f *Form) hideSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status.Kind == StatusSuccess {
		f.status = Status{}
	}
	f.hideTimer = nil
}

func (f *Form) stopHideLocked() {
	if f.hideTimer != nil {
		f.hideTimer.Stop()
		f.hideTimer = nil
	}
}

// Close releases the pending status timer.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.stopHideLocked()
}
