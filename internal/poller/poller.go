// Package poller drives the periodic Graph synchronization of every
// task-list device bound to an account.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/mstodo-bridge/internal/bridge"
	"github.com/custodia-labs/mstodo-bridge/internal/graph"
	"github.com/custodia-labs/mstodo-bridge/internal/logger"
	"github.com/custodia-labs/mstodo-bridge/internal/metrics"
	"github.com/custodia-labs/mstodo-bridge/internal/options"
	"github.com/custodia-labs/mstodo-bridge/internal/tasklist"
)

// Poller periodically syncs the task-list handlers of one account. Two
// accounts' pollers are fully independent; handlers of the same account
// run in parallel per list, with per-handler serialization enforced by the
// handlers themselves.
type Poller struct {
	account  *bridge.Account
	interval time.Duration
	opts     *options.Provider

	mu       sync.Mutex
	handlers []*tasklist.Handler
}

// New creates a Poller for the given account. Fetched task lists feed the
// option set of the account's list-selector channel through opts.
func New(account *bridge.Account, interval time.Duration, opts *options.Provider) *Poller {
	return &Poller{account: account, interval: interval, opts: opts}
}

// AddHandler registers a task-list handler with the poll cycle.
func (p *Poller) AddHandler(h *tasklist.Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// RemoveHandler detaches a handler and marks it removed so an in-flight
// sync discards its results.
func (p *Poller) RemoveHandler(h *tasklist.Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, known := range p.handlers {
		if known == h {
			p.handlers = append(p.handlers[:i], p.handlers[i+1:]...)
			break
		}
	}
	h.Remove()
}

// Run polls until the context is cancelled. The first cycle runs
// immediately.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.SyncOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.SyncOnce(ctx)
		}
	}
}

// SyncOnce runs one sync cycle. An unauthorized account skips the cycle
// entirely; a failed cycle is logged and retried at the next tick only.
func (p *Poller) SyncOnce(ctx context.Context) {
	if !p.account.IsAuthorized() {
		logger.Debugf("account %s: not authorized, skipping sync", p.account.Thing().ID())
		return
	}

	start := time.Now()
	lists, err := p.account.TaskLists()
	if err != nil {
		logger.Warnf("account %s: fetching task lists failed: %v", p.account.Thing().ID(), err)
		metrics.RecordSyncCycle(false, time.Since(start))
		return
	}

	p.opts.SetTaskLists(tasklist.ChannelKey(p.account.Thing().ID(), bridge.ChannelTaskLists), lists)

	byID := make(map[string]graph.TaskList, len(lists))
	for _, l := range lists {
		byID[l.ID] = l
	}

	p.mu.Lock()
	handlers := make([]*tasklist.Handler, len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.Unlock()

	var failed atomic.Bool
	var wg sync.WaitGroup
	for _, h := range handlers {
		list, found := byID[h.TaskListID()]
		if !found {
			logger.Warnf("task list %s not found for account %s", h.TaskListID(), p.account.Thing().ID())
			continue
		}
		wg.Add(1)
		go func(h *tasklist.Handler, list graph.TaskList) {
			defer wg.Done()
			if _, err := h.UpdateListStatus(ctx, list); err != nil {
				logger.Warnf("sync of list %s failed: %v", list.ID, err)
				failed.Store(true)
			}
		}(h, list)
	}
	wg.Wait()

	metrics.RecordSyncCycle(!failed.Load(), time.Since(start))
}
