// Package framework abstracts the device platform that consumes channel
// state. The bridge publishes task-list data through these interfaces; the
// hosting automation platform (or the in-memory implementation in this
// package) decides what to do with it.
package framework

import (
	"fmt"
	"strconv"
	"time"
)

// Status is the externally visible status of a thing.
type Status string

const (
	// StatusUnknown is the initial status before the first sync.
	StatusUnknown Status = "UNKNOWN"
	// StatusOnline means the thing is operating normally.
	StatusOnline Status = "ONLINE"
	// StatusOffline means the thing cannot currently operate.
	StatusOffline Status = "OFFLINE"
)

// StatusDetail qualifies an offline status.
type StatusDetail string

const (
	// DetailNone means no additional detail.
	DetailNone StatusDetail = "NONE"
	// DetailConfigurationError means the thing is misconfigured, for
	// example rejected OAuth credentials.
	DetailConfigurationError StatusDetail = "CONFIGURATION_ERROR"
	// DetailCommunicationError means a transport failure talking to the
	// remote service.
	DetailCommunicationError StatusDetail = "COMMUNICATION_ERROR"
)

// State is a channel value. Concrete types mirror the platform's state
// kinds: string, number, switch, date-time and undefined.
type State interface {
	fmt.Stringer
}

// StringState is a textual channel value.
type StringState string

func (s StringState) String() string { return string(s) }

// NumberState is a numeric channel value.
type NumberState int

func (n NumberState) String() string { return strconv.Itoa(int(n)) }

// SwitchState is an on/off channel value.
type SwitchState bool

func (s SwitchState) String() string {
	if s {
		return "ON"
	}
	return "OFF"
}

// DateTimeState is a timestamp channel value.
type DateTimeState time.Time

func (d DateTimeState) String() string { return time.Time(d).Format(time.RFC3339) }

// Time returns the underlying timestamp.
func (d DateTimeState) Time() time.Time { return time.Time(d) }

// UndefState is the undefined channel value, published when a value has no
// meaningful content (for example no open task has a due date).
type UndefState struct{}

func (UndefState) String() string { return "UNDEF" }

// Undef is the singleton undefined state.
var Undef = UndefState{}

// StateOption is one selectable (value, label) pair offered on a selection
// channel.
type StateOption struct {
	Value string
	Label string
}

// Thing is the device the bridge publishes state to. UpdateState must be a
// no-op for channels without a linked consumer; callers use IsLinked to skip
// the work of computing a value nobody consumes.
type Thing interface {
	// ID returns the stable thing identifier.
	ID() string

	// UpdateState publishes a channel value.
	UpdateState(channelID string, state State)

	// UpdateProperties merges the given properties into the thing's
	// property map.
	UpdateProperties(props map[string]string)

	// UpdateStatus moves the thing to a new status. The message may be
	// empty.
	UpdateStatus(status Status, detail StatusDetail, message string)

	// IsLinked reports whether the channel has a downstream consumer.
	IsLinked(channelID string) bool
}

// OptionSink receives the currently valid option set for a selection
// channel. Implementations replace the previous set wholesale.
type OptionSink interface {
	SetStateOptions(channelID string, options []StateOption)
}
