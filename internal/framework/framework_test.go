package framework

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStates(t *testing.T) {
	assert.Equal(t, "hello", StringState("hello").String())
	assert.Equal(t, "42", NumberState(42).String())
	assert.Equal(t, "0", NumberState(0).String())
	assert.Equal(t, "ON", SwitchState(true).String())
	assert.Equal(t, "OFF", SwitchState(false).String())
	assert.Equal(t, "UNDEF", Undef.String())

	at := time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-02-01T08:30:00Z", DateTimeState(at).String())
	assert.True(t, DateTimeState(at).Time().Equal(at))
}

func TestMemoryThing(t *testing.T) {
	thing := NewMemoryThing("thing-1")
	assert.Equal(t, "thing-1", thing.ID())

	status, detail, _ := thing.Status()
	assert.Equal(t, StatusUnknown, status)
	assert.Equal(t, DetailNone, detail)

	// Updates for unlinked channels are dropped.
	thing.UpdateState("ch", StringState("ignored"))
	assert.Nil(t, thing.LastState("ch"))

	thing.Link("ch")
	assert.True(t, thing.IsLinked("ch"))
	thing.UpdateState("ch", StringState("kept"))
	assert.Equal(t, "kept", thing.LastState("ch").String())

	thing.Unlink("ch")
	assert.False(t, thing.IsLinked("ch"))

	thing.UpdateProperties(map[string]string{"user": "Ada"})
	thing.UpdateProperties(map[string]string{"email": "ada@example.com"})
	assert.Equal(t, "Ada", thing.Property("user"))
	assert.Equal(t, "ada@example.com", thing.Property("email"))

	thing.UpdateStatus(StatusOffline, DetailCommunicationError, "down")
	status, detail, message := thing.Status()
	assert.Equal(t, StatusOffline, status)
	assert.Equal(t, DetailCommunicationError, detail)
	assert.Equal(t, "down", message)
}

func TestMemoryOptionSink(t *testing.T) {
	sink := NewMemoryOptionSink()
	assert.Nil(t, sink.Options("ch"))

	sink.SetStateOptions("ch", []StateOption{{Value: "a", Label: "A"}})
	sink.SetStateOptions("ch", []StateOption{{Value: "b", Label: "B"}})

	opts := sink.Options("ch")
	assert.Equal(t, []StateOption{{Value: "b", Label: "B"}}, opts)
}
