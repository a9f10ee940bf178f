// Package controller holds the per-entity view controllers. Each one owns the
// local state for a console screen: it fetches stats and a page concurrently,
// applies filters, and drives mutations as validate -> call -> optimistic
// patch -> background refresh. The remote API is the only source of truth;
// whatever the server sends last always wins.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minedash-admin/pkg/store"
)

/// ErrReasonRequired guards the reject flows: an empty or whitespace-only
// reason must never reach the network.
var ErrReasonRequired = errors.New("rejection reason is required")

// ErrNameRequired and ErrEmailRequired guard user creation.
var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
)

// ErrAmountInvalid guards coin adjustments.
var ErrAmountInvalid = errors.New("amount must be greater than zero")

// ErrNoUserSelected means a balance adjustment was attempted before a user
// was picked.
var ErrNoUserSelected = errors.New("no user selected")

// refreshTimeout bounds the background reconcile fetch that follows a
// mutation; it runs detached from the caller's context.
const refreshTimeout = 30 * time.Second

// ActionLogger records admin actions locally. *store.Store satisfies it; a
// no-op stub does for tests.
type ActionLogger interface {
	LogAction(a store.Action) error
}

// NopLogger drops every action.
type NopLogger struct{}

func (NopLogger) LogAction(store.Action) error { return nil }

// base carries the state every controller shares: a mutex, the loading/error
// pair, a one-shot status message (the toast equivalent), and a generation
// counter that lets a superseded fetch discard its own result instead of
// overwriting newer state.
type base struct {
	mu      sync.Mutex
	gen     uint64
	loading bool
	err     error
	message string
}

// begin marks a new fetch generation and returns it. Any fetch started
// earlier becomes stale the moment this returns.
func (b *base) begin() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.loading = true
	b.err = nil
	return b.gen
}

// stale reports whether the given generation has been superseded. Callers
// must hold b.mu.
func (b *base) stale(gen uint64) bool {
	return gen != b.gen
}

// finish records the fetch outcome unless a newer fetch took over.
func (b *base) finish(gen uint64, err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stale(gen) {
		return false
	}
	b.loading = false
	b.err = err
	return true
}

func (b *base) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

func (b *base) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Message returns the last status message and clears it, so each toast shows
// once.
func (b *base) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.message
	b.message = ""
	return m
}

func (b *base) setMessage(format string, args ...interface{}) {
	b.mu.Lock()
	b.message = fmt.Sprintf(format, args...)
	b.mu.Unlock()
}

// logAction writes to the audit log and never fails the caller over it.
func logAction(l ActionLogger, a store.Action) {
	if l == nil {
		return
	}
	if err := l.LogAction(a); err != nil {
		log.Warn().Err(err).Str("entity", a.Entity).Str("action", a.Action).Msg("action log write failed")
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// containsFold is the client-side substring filter used by the views that
// search without a network round-trip.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// debouncer delays free-text search fetches until typing pauses.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// trigger schedules fn after the delay, cancelling any pending run. A zero
// delay fires synchronously, which keeps tests deterministic.
func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.delay <= 0 {
		d.timer = nil
		d.mu.Unlock()
		fn()
		return
	}
	d.timer = time.AfterFunc(d.delay, fn)
	d.mu.Unlock()
}

// backgroundCtx is the detached context used by post-mutation reconcile
// fetches; the mutation's own context may be gone by the time they run.
func backgroundCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), refreshTimeout)
}
