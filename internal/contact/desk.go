package contact

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/clock"
)

// Result is what the visitor sees after a submission attempt.
type Result struct {
	ID          string
	Status      Status
	Values      Payload
	FieldErrors FieldErrors
}

// Desk serves contact submissions for many visitors. Each client key has at
// most one submission in flight, claimed and checked under one lock.
type Desk struct {
	submitter Submitter
	clock     clock.Clock
	logger    *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
	closed   bool
}

// ErrDeskClosed is returned by Submit after Close.
var ErrDeskClosed = errors.New("contact: desk closed")

func NewDesk(s Submitter, c clock.Clock, logger *zap.Logger) *Desk {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Desk{
		submitter: s,
		clock:     c,
		logger:    logger,
		inflight:  make(map[string]bool),
	}
}

// Submit runs one submission for clientKey. The returned error is
// ErrSubmissionPending, ErrInvalid, ErrDeskClosed, or wraps
// ErrSubmissionFailed.
func (d *Desk) Submit(ctx context.Context, clientKey string, p Payload) (Result, error) {
	id := uuid.NewString()
	log := d.logger.With(zap.String("submission", id), zap.String("client", clientKey))

	ok, err := d.claim(clientKey)
	if err != nil {
		return Result{ID: id, Status: Status{Kind: StatusError, Message: msgFailed}, Values: p, FieldErrors: FieldErrors{}}, err
	}
	if !ok {
		log.Info("contact submission rejected, another is pending")
		return Result{
			ID:          id,
			Status:      Status{Kind: StatusInfo, Message: msgSending},
			Values:      p,
			FieldErrors: FieldErrors{},
		}, ErrSubmissionPending
	}
	defer d.release(clientKey)

	f := NewForm(d.submitter, d.clock)
	defer f.Close()
	err = f.SubmitWith(ctx, p)
	res := Result{ID: id, Status: f.Status(), Values: f.Values(), FieldErrors: f.FieldErrors()}

	switch {
	case err == nil:
		log.Info("contact submission sent")
	case errors.Is(err, ErrInvalid):
		log.Debug("contact submission invalid", zap.Int("fields", len(res.FieldErrors)))
	default:
		log.Warn("contact submission failed", zap.Error(err))
	}
	return res, err
}

// Pending reports how many clients have a submission in flight.
func (d *Desk) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inflight)
}

func (d *Desk) claim(key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false, ErrDeskClosed
	}
	if d.inflight[key] {
		return false, nil
	}
	d.inflight[key] = true
	return true, nil
}

func (d *Desk) release(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inflight, key)
}

// Close stops accepting submissions. Those already in flight finish on
// their own.
func (d *Desk) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}
