package framework

import (
	"sync"

	"github.com/custodia-labs/mstodo-bridge/internal/logger"
)

// MemoryOptionSink records the latest option set per channel. It backs the
// daemon's dynamic state descriptions and lets tests observe republish
// results.
type MemoryOptionSink struct {
	mu      sync.Mutex
	options map[string][]StateOption
}

var _ OptionSink = (*MemoryOptionSink)(nil)

// NewMemoryOptionSink creates an empty sink.
func NewMemoryOptionSink() *MemoryOptionSink {
	return &MemoryOptionSink{options: make(map[string][]StateOption)}
}

// SetStateOptions replaces the option set of a channel.
func (s *MemoryOptionSink) SetStateOptions(channelID string, options []StateOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[channelID] = options
	logger.Debugf("channel %s: %d options", channelID, len(options))
}

// Options returns the current option set of a channel.
func (s *MemoryOptionSink) Options(channelID string) []StateOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options[channelID]
}
