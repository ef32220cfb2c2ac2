// Package tasklist publishes one Microsoft To Do task list as a device
// with channels for counts, due dates and joined title strings.
package tasklist

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/mstodo-bridge/internal/framework"
	"github.com/custodia-labs/mstodo-bridge/internal/graph"
	"github.com/custodia-labs/mstodo-bridge/internal/logger"
	"github.com/custodia-labs/mstodo-bridge/internal/options"
)

// TaskFetcher fetches the full task collection of one list.
type TaskFetcher interface {
	Tasks(ctx context.Context, listID string) ([]graph.Task, error)
}

// Config holds the task-list thing configuration.
type Config struct {
	// TaskListID is the Graph id of the list this thing is bound to.
	TaskListID string
	// Delimiter joins task titles in the derived strings.
	Delimiter string
}

// Handler computes and publishes the derived channel values of one task
// list. Syncs for the same handler are serialized; two different handlers
// may run in parallel.
type Handler struct {
	thing   framework.Thing
	cfg     Config
	fetcher TaskFetcher
	opts    *options.Provider

	mu      sync.Mutex
	removed atomic.Bool
}

// NewHandler creates a Handler for one task-list thing.
func NewHandler(thing framework.Thing, cfg Config, fetcher TaskFetcher, opts *options.Provider) *Handler {
	if cfg.Delimiter == "" {
		cfg.Delimiter = DefaultDelimiter
	}
	return &Handler{thing: thing, cfg: cfg, fetcher: fetcher, opts: opts}
}

// TaskListID returns the Graph id of the bound list.
func (h *Handler) TaskListID() string {
	return h.cfg.TaskListID
}

// Thing returns the published-to thing.
func (h *Handler) Thing() framework.Thing {
	return h.thing
}

// Remove marks the handler as removed. In-flight syncs complete their
// network calls but discard their results, and the tracked option sets
// are forgotten.
func (h *Handler) Remove() {
	h.removed.Store(true)
	h.opts.Forget(
		ChannelKey(h.thing.ID(), ChannelTasks),
		ChannelKey(h.thing.ID(), ChannelCompletedTasks),
		ChannelKey(h.thing.ID(), ChannelOpenTasks),
	)
}

// Removed reports whether the handler was removed.
func (h *Handler) Removed() bool {
	return h.removed.Load()
}

// UpdateListStatus refreshes all channels from the given task list if it
// is the list this handler is bound to. Returns false without touching
// any channel when the ids differ.
func (h *Handler) UpdateListStatus(ctx context.Context, list graph.TaskList) (bool, error) {
	if list.ID != h.cfg.TaskListID {
		return false, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.removed.Load() {
		return false, nil
	}

	logger.Debugf("updating task list %s (%s)", list.ID, list.DisplayName)
	tasks, err := h.fetcher.Tasks(ctx, list.ID)
	if err != nil {
		return false, fmt.Errorf("update task list %s: %w", list.ID, err)
	}

	// The device may have been removed while the fetch was in flight;
	// results are discarded then, not applied.
	if h.removed.Load() {
		return false, nil
	}

	h.publish(list, tasks)
	h.thing.UpdateStatus(framework.StatusOnline, framework.DetailNone, "")
	return true, nil
}

func (h *Handler) publish(list graph.TaskList, tasks []graph.Task) {
	view := Compute(tasks, h.cfg.Delimiter)
	completed, open := Partition(tasks)

	h.updateChannelState(ChannelID, framework.StringState(list.ID))
	h.updateChannelState(ChannelDisplayName, framework.StringState(list.DisplayName))
	h.updateChannelState(ChannelIsOwner, framework.SwitchState(list.IsOwner))
	h.updateChannelState(ChannelIsShared, framework.SwitchState(list.IsShared))
	h.updateChannelState(ChannelWellknownListName, framework.StringState(list.WellknownListName))

	if view.EarliestOpenDue == nil {
		h.updateChannelState(ChannelNextDueDateTime, framework.Undef)
	} else {
		h.updateChannelState(ChannelNextDueDateTime, framework.DateTimeState(*view.EarliestOpenDue))
	}
	h.updateChannelState(ChannelTaskCount, framework.NumberState(view.Total))
	h.updateChannelState(ChannelCompletedTaskCount, framework.NumberState(view.Completed))
	h.updateChannelState(ChannelOpenTaskCount, framework.NumberState(view.Open))
	h.updateChannelState(ChannelTasksString, framework.StringState(view.AllTitles))
	h.updateChannelState(ChannelCompletedTasksString, framework.StringState(view.CompletedTitles))
	h.updateChannelState(ChannelOpenTasksString, framework.StringState(view.OpenTitles))

	h.opts.SetTasks(ChannelKey(h.thing.ID(), ChannelTasks), tasks)
	h.opts.SetTasks(ChannelKey(h.thing.ID(), ChannelCompletedTasks), completed)
	h.opts.SetTasks(ChannelKey(h.thing.ID(), ChannelOpenTasks), open)
}

// updateChannelState publishes a value only when the channel has a
// downstream consumer.
func (h *Handler) updateChannelState(channelID string, state framework.State) {
	if h.thing.IsLinked(channelID) {
		h.thing.UpdateState(channelID, state)
	}
}
