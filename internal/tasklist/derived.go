package tasklist

import (
	"strings"
	"time"

	"github.com/custodia-labs/mstodo-bridge/internal/graph"
)

// DefaultDelimiter joins task titles when no delimiter is configured.
const DefaultDelimiter = ", "

// DerivedView is the aggregate computed from a task list's full task
// collection. Counts always satisfy Total == Completed + Open.
type DerivedView struct {
	Total     int
	Completed int
	Open      int

	// EarliestOpenDue is the minimum due timestamp among open tasks that
	// have one; nil when no open task has a due date.
	EarliestOpenDue *time.Time

	// Joined title strings, in source-collection order within each
	// partition.
	AllTitles       string
	CompletedTitles string
	OpenTitles      string
}

// Compute builds the DerivedView for a task collection. Tasks are
// partitioned into completed and open preserving their relative order;
// tasks without a due date are ignored for the earliest-due reduction.
func Compute(tasks []graph.Task, delimiter string) DerivedView {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	var completed, open []graph.Task
	for _, t := range tasks {
		if t.Completed() {
			completed = append(completed, t)
		} else {
			open = append(open, t)
		}
	}

	view := DerivedView{
		Total:           len(tasks),
		Completed:       len(completed),
		Open:            len(open),
		AllTitles:       joinTitles(tasks, delimiter),
		CompletedTitles: joinTitles(completed, delimiter),
		OpenTitles:      joinTitles(open, delimiter),
	}

	for _, t := range open {
		due, ok := t.Due()
		if !ok {
			continue
		}
		if view.EarliestOpenDue == nil || due.Before(*view.EarliestOpenDue) {
			d := due
			view.EarliestOpenDue = &d
		}
	}

	return view
}

func joinTitles(tasks []graph.Task, delimiter string) string {
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	return strings.Join(titles, delimiter)
}

// Partition returns the completed and open subsets in source order,
// matching the partitions used for the joined strings and the selector
// option sets.
func Partition(tasks []graph.Task) (completed, open []graph.Task) {
	for _, t := range tasks {
		if t.Completed() {
			completed = append(completed, t)
		} else {
			open = append(open, t)
		}
	}
	return completed, open
}
