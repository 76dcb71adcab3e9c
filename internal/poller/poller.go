// Package poller implements a generic repeated fetch on top of the Bubble Tea
// event loop. Timer ticks and fetch results travel as messages, so all state
// changes happen inside Update on the UI goroutine.
package poller

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/vkterm/internal/logger"
)

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 30 * time.Second

// FetchFunc loads the current value of a resource.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// TickFunc schedules a message after a delay. tea.Tick is the default.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// TickMsg triggers a poll cycle.
type TickMsg struct {
	PollerID uint64
	Gen      uint64
}

// ResultMsg carries the outcome of one fetch.
type ResultMsg struct {
	PollerID uint64
	Gen      uint64
	Value    any
	Err      error
}

// Outcome tells the owner what a message did to the poller.
type Outcome struct {
	Handled bool  // the message belonged to this poller
	Changed bool  // Value() was replaced
	Err     error // the fetch failed; Value() is unchanged
}

type options struct {
	tick    TickFunc
	timeout time.Duration
}

// Option configures a Poller.
type Option func(*options)

// WithTickFunc replaces tea.Tick. Tests use it to drive ticks by hand.
func WithTickFunc(f TickFunc) Option {
	return func(o *options) { o.tick = f }
}

// WithTimeout sets the per-fetch deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

var nextID atomic.Uint64

// Poller keeps a value fresh by calling fetch every interval while active.
//
// At most one fetch is in flight at a time. A tick that arrives while a fetch is
// pending only re-arms the timer. Messages from a previous generation (before
// Stop) are dropped, so a late response never overwrites state after teardown.
type Poller[T any] struct {
	id       uint64
	gen      uint64
	name     string
	interval time.Duration
	opts     options
	fetch    FetchFunc[T]
	value    T

	active         bool
	inFlight       bool
	refreshPending bool
	cancel         context.CancelFunc

	log *slog.Logger
}

// New creates an inactive poller holding initial.
func New[T any](name string, interval time.Duration, initial T, fetch FetchFunc[T], opts ...Option) *Poller[T] {
	o := options{tick: tea.Tick, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &Poller[T]{
		id:       nextID.Add(1),
		name:     name,
		interval: interval,
		opts:     o,
		fetch:    fetch,
		value:    initial,
		log:      logger.WithComponent("poller").With("name", name),
	}
}

// ID identifies the poller in its messages.
func (p *Poller[T]) ID() uint64 { return p.id }

// Value returns the latest successfully fetched value.
func (p *Poller[T]) Value() T { return p.value }

// Active reports whether the poller is running.
func (p *Poller[T]) Active() bool { return p.active }

// InFlight reports whether a fetch is pending.
func (p *Poller[T]) InFlight() bool { return p.inFlight }

// Start fetches immediately and arms the timer. Starting an active poller is a no-op.
func (p *Poller[T]) Start() tea.Cmd {
	if p.active {
		return nil
	}
	p.active = true
	p.gen++
	p.log.Debug("started", "interval", p.interval)
	return tea.Batch(p.fetchCmd(), p.schedule())
}

// Stop halts polling. The pending tick and any in-flight result will be ignored.
func (p *Poller[T]) Stop() {
	if !p.active {
		return
	}
	p.active = false
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.inFlight = false
	p.refreshPending = false
	p.log.Debug("stopped")
}

// Refresh requests an out-of-cycle fetch. If one is already in flight, a single
// follow-up fetch is issued when it completes.
func (p *Poller[T]) Refresh() tea.Cmd {
	if !p.active {
		return nil
	}
	if p.inFlight {
		p.refreshPending = true
		return nil
	}
	return p.fetchCmd()
}

// SetFetch swaps the fetch function. The timer phase is untouched; the new
// function is first used on the next cycle.
func (p *Poller[T]) SetFetch(fetch FetchFunc[T]) {
	p.fetch = fetch
}

// Update handles the poller's own messages and ignores everything else.
func (p *Poller[T]) Update(msg tea.Msg) (Outcome, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if msg.PollerID != p.id {
			return Outcome{}, nil
		}
		if msg.Gen != p.gen || !p.active {
			return Outcome{Handled: true}, nil
		}
		next := p.schedule()
		if p.inFlight {
			p.log.Debug("tick skipped, fetch in flight")
			return Outcome{Handled: true}, next
		}
		return Outcome{Handled: true}, tea.Batch(p.fetchCmd(), next)

	case ResultMsg:
		if msg.PollerID != p.id {
			return Outcome{}, nil
		}
		if msg.Gen != p.gen || !p.active {
			p.log.Debug("discarding stale result", "gen", msg.Gen)
			return Outcome{Handled: true}, nil
		}
		p.inFlight = false
		if p.cancel != nil {
			p.cancel()
			p.cancel = nil
		}

		var cmd tea.Cmd
		if p.refreshPending {
			p.refreshPending = false
			cmd = p.fetchCmd()
		}

		if msg.Err != nil {
			p.log.Warn("fetch failed", "error", msg.Err)
			return Outcome{Handled: true, Err: msg.Err}, cmd
		}
		v, _ := msg.Value.(T)
		p.value = v
		return Outcome{Handled: true, Changed: true}, cmd
	}
	return Outcome{}, nil
}

func (p *Poller[T]) schedule() tea.Cmd {
	id, gen := p.id, p.gen
	return p.opts.tick(p.interval, func(time.Time) tea.Msg {
		return TickMsg{PollerID: id, Gen: gen}
	})
}

// fetchCmd marks a fetch in flight and returns the command that performs it.
func (p *Poller[T]) fetchCmd() tea.Cmd {
	fetch := p.fetch
	if fetch == nil {
		return nil
	}
	id, gen := p.id, p.gen
	ctx, cancel := context.WithTimeout(context.Background(), p.opts.timeout)
	p.cancel = cancel
	p.inFlight = true

	return func() tea.Msg {
		v, err := fetch(ctx)
		return ResultMsg{PollerID: id, Gen: gen, Value: v, Err: err}
	}
}
