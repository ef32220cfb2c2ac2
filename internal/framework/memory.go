package framework

import (
	"sync"

	"github.com/custodia-labs/mstodo-bridge/internal/logger"
)

// MemoryThing is an in-process Thing implementation. It records the latest
// published value per channel, the property map and the current status. The
// daemon uses it as the default publishing target; tests use it to observe
// what a handler published.
type MemoryThing struct {
	id string

	mu         sync.Mutex
	states     map[string]State
	properties map[string]string
	linked     map[string]bool
	status     Status
	detail     StatusDetail
	message    string
}

var _ Thing = (*MemoryThing)(nil)

// NewMemoryThing creates a MemoryThing with the given identifier. No
// channels are linked initially.
func NewMemoryThing(id string) *MemoryThing {
	return &MemoryThing{
		id:         id,
		states:     make(map[string]State),
		properties: make(map[string]string),
		linked:     make(map[string]bool),
		status:     StatusUnknown,
		detail:     DetailNone,
	}
}

// ID returns the thing identifier.
func (t *MemoryThing) ID() string { return t.id }

// Link marks channels as having a downstream consumer.
func (t *MemoryThing) Link(channelIDs ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range channelIDs {
		t.linked[id] = true
	}
}

// Unlink removes the consumers of a channel.
func (t *MemoryThing) Unlink(channelID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.linked, channelID)
}

// IsLinked reports whether the channel has a consumer.
func (t *MemoryThing) IsLinked(channelID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.linked[channelID]
}

// UpdateState records the latest value for a channel. Updates for channels
// without a consumer are dropped.
func (t *MemoryThing) UpdateState(channelID string, state State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.linked[channelID] {
		return
	}
	t.states[channelID] = state
	logger.Debugf("thing %s: channel %s = %s", t.id, channelID, state)
}

// LastState returns the last published value for a channel, or nil.
func (t *MemoryThing) LastState(channelID string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[channelID]
}

// UpdateProperties merges the given properties.
func (t *MemoryThing) UpdateProperties(props map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range props {
		t.properties[k] = v
	}
}

// Property returns the value of a property, or the empty string.
func (t *MemoryThing) Property(key string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.properties[key]
}

// UpdateStatus records the thing status.
func (t *MemoryThing) UpdateStatus(status Status, detail StatusDetail, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
	t.detail = detail
	t.message = message
	logger.Debugf("thing %s: status %s (%s) %s", t.id, status, detail, message)
}

// Status returns the current status, detail and message.
func (t *MemoryThing) Status() (Status, StatusDetail, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status, t.detail, t.message
}
