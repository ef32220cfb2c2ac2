package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mstodo-bridge/internal/framework"
	"github.com/custodia-labs/mstodo-bridge/internal/graph"
)

// countingSink records publish events per channel.
type countingSink struct {
	events int
	last   map[string][]framework.StateOption
}

func newCountingSink() *countingSink {
	return &countingSink{last: make(map[string][]framework.StateOption)}
}

func (s *countingSink) SetStateOptions(channelID string, options []framework.StateOption) {
	s.events++
	s.last[channelID] = options
}

func someTasks() []graph.Task {
	return []graph.Task{
		{ID: "t1", Title: "Buy milk", Status: graph.StatusNotStarted},
		{ID: "t2", Title: "Call mom", Status: graph.StatusCompleted},
		{ID: "t3", Title: "Water plants", Status: graph.StatusNotStarted},
	}
}

func TestProvider_SetTasks_FirstPublish(t *testing.T) {
	sink := newCountingSink()
	p := NewProvider(sink)

	republished := p.SetTasks("ch", someTasks())

	assert.True(t, republished)
	assert.Equal(t, 1, sink.events)
	require.Len(t, sink.last["ch"], 3)
	assert.Equal(t, framework.StateOption{Value: "t1", Label: "Buy milk"}, sink.last["ch"][0])
}

func TestProvider_SetTasks_IdenticalRefetchIsIdempotent(t *testing.T) {
	sink := newCountingSink()
	p := NewProvider(sink)

	assert.True(t, p.SetTasks("ch", someTasks()))
	// Identical re-fetch: exactly one publish event in total, not two.
	assert.False(t, p.SetTasks("ch", someTasks()))
	assert.Equal(t, 1, sink.events)
}

func TestProvider_SetTasks_TitleChangeRepublishes(t *testing.T) {
	sink := newCountingSink()
	p := NewProvider(sink)
	p.SetTasks("ch", someTasks())

	changed := someTasks()
	changed[0].Title = "Buy oat milk" // same id, same count

	assert.True(t, p.SetTasks("ch", changed))
	assert.Equal(t, 2, sink.events)
	assert.Equal(t, "Buy oat milk", sink.last["ch"][0].Label)
}

func TestProvider_SetTasks_SizeChangeRepublishes(t *testing.T) {
	sink := newCountingSink()
	p := NewProvider(sink)
	p.SetTasks("ch", someTasks())

	shrunk := someTasks()[:2]
	assert.True(t, p.SetTasks("ch", shrunk))
	// Stale identifiers are gone from the rebuilt set.
	assert.Len(t, sink.last["ch"], 2)
}

func TestProvider_SetTasks_ReorderOnlyDoesNotRepublish(t *testing.T) {
	sink := newCountingSink()
	p := NewProvider(sink)
	p.SetTasks("ch", someTasks())

	reordered := []graph.Task{
		{ID: "t3", Title: "Water plants", Status: graph.StatusNotStarted},
		{ID: "t1", Title: "Buy milk", Status: graph.StatusNotStarted},
		{ID: "t2", Title: "Call mom", Status: graph.StatusCompleted},
	}

	// Same ids and labels in a different order count as equal sets.
	assert.False(t, p.SetTasks("ch", reordered))
	assert.Equal(t, 1, sink.events)
}

func TestProvider_SetTasks_CaseSensitiveComparison(t *testing.T) {
	sink := newCountingSink()
	p := NewProvider(sink)
	p.SetTasks("ch", someTasks())

	changed := someTasks()
	changed[0].Title = "buy milk"

	assert.True(t, p.SetTasks("ch", changed))
}

func TestProvider_SetTaskLists(t *testing.T) {
	sink := newCountingSink()
	p := NewProvider(sink)

	lists := []graph.TaskList{
		{ID: "l1", DisplayName: "Groceries"},
		{ID: "l2", DisplayName: "Work"},
	}
	assert.True(t, p.SetTaskLists("ch", lists))
	assert.False(t, p.SetTaskLists("ch", lists))

	renamed := []graph.TaskList{
		{ID: "l1", DisplayName: "Groceries"},
		{ID: "l2", DisplayName: "Projects"},
	}
	assert.True(t, p.SetTaskLists("ch", renamed))
	assert.Equal(t, 2, sink.events)
	assert.Equal(t, "Projects", sink.last["ch"][1].Label)
}

func TestProvider_ChannelsAreIndependent(t *testing.T) {
	sink := newCountingSink()
	p := NewProvider(sink)

	p.SetTasks("ch-a", someTasks())
	assert.True(t, p.SetTasks("ch-b", someTasks()))
	assert.Equal(t, 2, sink.events)
}

func TestProvider_ForgetForcesRepublish(t *testing.T) {
	sink := newCountingSink()
	p := NewProvider(sink)

	p.SetTasks("ch", someTasks())
	p.Forget("ch")

	assert.True(t, p.SetTasks("ch", someTasks()))
	assert.Equal(t, 2, sink.events)
}

func TestProvider_EmptyCollection(t *testing.T) {
	sink := newCountingSink()
	p := NewProvider(sink)

	assert.True(t, p.SetTasks("ch", nil))
	assert.Empty(t, sink.last["ch"])
	assert.False(t, p.SetTasks("ch", nil))
}
