// Package options keeps the selectable (id, label) option sets of the
// bridge's selection channels in sync with the latest fetched task lists
// and tasks.
//
// A channel's option set is only republished when it actually changed:
// same size and an id+label match for every new item means no event. Any
// single change rebuilds and replaces the entire set, so stale identifiers
// are never offered. Identifier and label comparison is exact,
// case-sensitive string equality.
package options

import (
	"sync"

	"github.com/custodia-labs/mstodo-bridge/internal/framework"
	"github.com/custodia-labs/mstodo-bridge/internal/graph"
	"github.com/custodia-labs/mstodo-bridge/internal/metrics"
)

// Provider tracks the previously published collection per channel and
// forwards rebuilt option sets to the sink.
type Provider struct {
	sink framework.OptionSink

	mu             sync.Mutex
	listsByChannel map[string][]graph.TaskList
	tasksByChannel map[string][]graph.Task
}

// NewProvider creates a Provider publishing through the given sink.
func NewProvider(sink framework.OptionSink) *Provider {
	return &Provider{
		sink:           sink,
		listsByChannel: make(map[string][]graph.TaskList),
		tasksByChannel: make(map[string][]graph.Task),
	}
}

// SetTaskLists updates the option set of a task-list selector channel.
// Returns true when a republish event was emitted.
func (p *Provider) SetTaskLists(channelID string, lists []graph.TaskList) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	previous, known := p.listsByChannel[channelID]
	if known && taskListsEqual(lists, previous) {
		return false
	}

	p.listsByChannel[channelID] = lists
	opts := make([]framework.StateOption, 0, len(lists))
	for _, list := range lists {
		opts = append(opts, framework.StateOption{Value: list.ID, Label: list.DisplayName})
	}
	p.publish(channelID, opts)
	return true
}

// SetTasks updates the option set of a task selector channel. Returns true
// when a republish event was emitted.
func (p *Provider) SetTasks(channelID string, tasks []graph.Task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	previous, known := p.tasksByChannel[channelID]
	if known && tasksEqual(tasks, previous) {
		return false
	}

	p.tasksByChannel[channelID] = tasks
	opts := make([]framework.StateOption, 0, len(tasks))
	for _, task := range tasks {
		opts = append(opts, framework.StateOption{Value: task.ID, Label: task.Title})
	}
	p.publish(channelID, opts)
	return true
}

// Forget drops the tracked collections for a channel, forcing the next
// update to republish. Called when the owning device is removed.
func (p *Provider) Forget(channelIDs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range channelIDs {
		delete(p.listsByChannel, id)
		delete(p.tasksByChannel, id)
	}
}

func (p *Provider) publish(channelID string, opts []framework.StateOption) {
	metrics.RecordOptionRepublish()
	p.sink.SetStateOptions(channelID, opts)
}

// taskListsEqual reports whether every new list has a previous list with
// the same id and display name, and the sizes match.
func taskListsEqual(next, previous []graph.TaskList) bool {
	if len(next) != len(previous) {
		return false
	}
	for _, n := range next {
		if !containsList(previous, n) {
			return false
		}
	}
	return true
}

func containsList(lists []graph.TaskList, want graph.TaskList) bool {
	for _, l := range lists {
		if l.ID == want.ID && l.DisplayName == want.DisplayName {
			return true
		}
	}
	return false
}

// tasksEqual reports whether every new task has a previous task with the
// same id and title, and the sizes match.
func tasksEqual(next, previous []graph.Task) bool {
	if len(next) != len(previous) {
		return false
	}
	for _, n := range next {
		if !containsTask(previous, n) {
			return false
		}
	}
	return true
}

func containsTask(tasks []graph.Task, want graph.Task) bool {
	for _, t := range tasks {
		if t.ID == want.ID && t.Title == want.Title {
			return true
		}
	}
	return false
}
