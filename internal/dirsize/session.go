package dirsize

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrBusy is returned when a session is asked to scan while a scan is running.
var ErrBusy = errors.New("scan already in progress")

// Options configures a Session.
type Options struct {
	// Workers is the number of size computation goroutines (0 = default).
	Workers int
	// Debug enables debug output.
	Debug bool
	// Diagnose, if set, receives every unreadable path.
	Diagnose func(path string, err error)
}

// Result is the outcome of one scan.
type Result struct {
	// ID identifies the scan.
	ID uuid.UUID `json:"id"`
	// Params are the validated parameters of the scan.
	Params Params `json:"params"`
	// Records are the qualifying directories in discovery order.
	Records []Record `json:"records"`
	// Diagnostics lists paths that could not be read.
	Diagnostics []string `json:"diagnostics"`
	// Cancelled reports whether the scan stopped early.
	Cancelled bool `json:"cancelled"`
	// Elapsed is the duration of the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// Report renders the records with the scan's sort key.
func (r *Result) Report() string {
	return Report(r.Records, r.Params.Sort)
}

// Session runs scans one at a time and keeps the records of the last one.
// All methods are safe for concurrent use.
type Session struct {
	opt     Options
	busy    atomic.Bool
	mu      sync.Mutex
	cancel  context.CancelFunc
	records []Record
}

// NewSession creates a Session.
func NewSession(opt Options) *Session {
	return &Session{opt: opt}
}

// Busy reports whether a scan is running.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Cancel requests the running scan to stop. It is a no-op when idle.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
}

// Records returns a copy of the records of the last completed scan.
func (s *Session) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.records)
}

// Clear drops the records of the last scan.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

// Run validates params and scans synchronously, calling onProgress for every
// qualifying directory in discovery order. Cancellation, via ctx or Cancel,
// is not an error: the result holds what was found and is marked Cancelled.
func (s *Session) Run(ctx context.Context, params Params, onProgress func(Record)) (*Result, error) {
	ctx, params, err := s.acquire(ctx, params)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, params, onProgress), nil
}

// Start is Run on a separate goroutine. Validation and the busy check happen
// before Start returns, and Cancel takes effect from then on; the result is
// delivered on the returned channel.
func (s *Session) Start(ctx context.Context, params Params, onProgress func(Record)) (<-chan *Result, error) {
	ctx, params, err := s.acquire(ctx, params)
	if err != nil {
		return nil, err
	}

	done := make(chan *Result, 1)

	go func() {
		defer close(done)

		done <- s.run(ctx, params, onProgress)
	}()

	return done, nil
}

// acquire validates params, marks the session busy and installs the scan's
// cancel function.
func (s *Session) acquire(ctx context.Context, params Params) (context.Context, Params, error) {
	params, err := params.Validate()
	if err != nil {
		return ctx, params, err
	}

	if !s.busy.CompareAndSwap(false, true) {
		return ctx, params, ErrBusy
	}

	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.records = nil
	s.mu.Unlock()

	return ctx, params, nil
}

// release drops the cancel function and clears the busy flag.
func (s *Session) release(records []Record) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}

	s.cancel = nil
	s.records = slices.Clone(records)
	s.mu.Unlock()

	s.busy.Store(false)
}

// run scans with a context obtained from acquire and releases the session.
func (s *Session) run(ctx context.Context, params Params, onProgress func(Record)) *Result {
	result := &Result{
		ID:          uuid.New(),
		Params:      params,
		Records:     make([]Record, 0),
		Diagnostics: make([]string, 0),
	}

	scanner := Scanner{
		Calculator: Calculator{
			Workers: s.opt.Workers,
			Diagnose: func(path string, err error) {
				result.Diagnostics = append(result.Diagnostics, fmt.Sprintf("can't determine the size of %q: %v", path, err))

				if s.opt.Diagnose != nil {
					s.opt.Diagnose(path, err)
				}
			},
		},
		Debug: s.opt.Debug,
	}

	start := time.Now()

	for record := range scanner.Scan(ctx, params) {
		result.Records = append(result.Records, record)

		if onProgress != nil {
			onProgress(record)
		}
	}

	result.Elapsed = time.Since(start)
	result.Cancelled = ctx.Err() != nil

	s.release(result.Records)

	return result
}
