package runner

import (
	"context"
	"errors"
	"time"
)

// State tracks where a batch run is in its lifecycle. A run moves
// Idle -> Confirming -> Running -> Done and settles back on Idle.
type State int

const (
	StateIdle State = iota
	StateConfirming
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirming:
		return "confirming"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	}
	return "unknown"
}

var ErrNothingToDo = errors.New("no creators found, nothing to block")

// Source produces the identifiers for one run. Extraction happens inside the
// confirming step so the count shown to the user matches what will be blocked.
type Source interface {
	Creators(ctx context.Context) ([]string, error)
}

type SourceFunc func(ctx context.Context) ([]string, error)

func (f SourceFunc) Creators(ctx context.Context) ([]string, error) { return f(ctx) }

// Blocker performs one mutating call per identifier.
type Blocker interface {
	Block(ctx context.Context, mid string) error
}

type BlockerFunc func(ctx context.Context, mid string) error

func (f BlockerFunc) Block(ctx context.Context, mid string) error { return f(ctx, mid) }

type Result struct {
	MID string
	Err error
}

func (r Result) Success() bool { return r.Err == nil }

type Summary struct {
	Total    int
	Blocked  int
	Failed   int
	Declined bool
	Canceled bool
	Results  []Result
}

type Options struct {
	// Delay is slept after every call, success or not. The throttle is the
	// point, not a performance knob.
	Delay time.Duration

	// Confirm is shown the identifier count and decides whether to proceed.
	// Nil means proceed.
	Confirm func(count int) bool

	// Progress is invoked before each call with the 0-based index, the total
	// and the identifier about to be processed.
	Progress func(index, total int, mid string)

	// OnState observes lifecycle transitions.
	OnState func(State)

	Log interface {
		Infof(string, ...any)
		Warnf(string, ...any)
	}
}

type Runner struct {
	src   Source
	block Blocker
	opts  Options
	state State
}

func New(src Source, block Blocker, opts Options) *Runner {
	return &Runner{src: src, block: block, opts: opts, state: StateIdle}
}

func (r *Runner) State() State { return r.state }

func (r *Runner) setState(s State) {
	r.state = s
	if r.opts.OnState != nil {
		r.opts.OnState(s)
	}
}

// Run drives one batch end to end. Identifiers are processed strictly in
// order, one request in flight at a time. Per-item failures are counted and
// the loop continues; only cancellation stops it early.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	r.setState(StateConfirming)

	mids, err := r.src.Creators(ctx)
	if err != nil {
		r.setState(StateIdle)
		return nil, err
	}
	if len(mids) == 0 {
		r.setState(StateIdle)
		return nil, ErrNothingToDo
	}

	if r.opts.Confirm != nil && !r.opts.Confirm(len(mids)) {
		r.setState(StateIdle)
		return &Summary{Total: len(mids), Declined: true}, nil
	}

	r.setState(StateRunning)

	sum := &Summary{Total: len(mids), Results: make([]Result, 0, len(mids))}

	for i, mid := range mids {
		if ctx.Err() != nil {
			sum.Canceled = true
			break
		}

		if r.opts.Progress != nil {
			r.opts.Progress(i, len(mids), mid)
		}

		err := r.block.Block(ctx, mid)
		sum.Results = append(sum.Results, Result{MID: mid, Err: err})

		if err != nil {
			sum.Failed++
			if r.opts.Log != nil {
				r.opts.Log.Warnf("block %s failed: %v", mid, err)
			}
		} else {
			sum.Blocked++
		}

		sleep(ctx, r.opts.Delay)
	}

	r.setState(StateDone)
	r.setState(StateIdle)

	return sum, nil
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
