package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeTimeZone_Time(t *testing.T) {
	d := &DateTimeTimeZone{DateTime: "2026-01-15T09:30:00.0000000", TimeZone: "UTC"}

	got, err := d.Time()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC), got.UTC())
}

func TestDateTimeTimeZone_Time_UnknownZoneFallsBackToUTC(t *testing.T) {
	d := &DateTimeTimeZone{DateTime: "2026-01-15T09:30:00.0000000", TimeZone: "Not/AZone"}

	got, err := d.Time()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
}

func TestTask_Due(t *testing.T) {
	noDue := Task{ID: "t1", Title: "No due"}
	_, ok := noDue.Due()
	assert.False(t, ok)

	withDue := Task{
		ID:          "t2",
		Title:       "With due",
		DueDateTime: &DateTimeTimeZone{DateTime: "2026-02-01T00:00:00.0000000", TimeZone: "UTC"},
	}
	due, ok := withDue.Due()
	require.True(t, ok)
	assert.Equal(t, 2026, due.Year())

	malformed := Task{
		ID:          "t3",
		DueDateTime: &DateTimeTimeZone{DateTime: "not a timestamp"},
	}
	_, ok = malformed.Due()
	assert.False(t, ok)
}

func TestTask_Completed(t *testing.T) {
	assert.True(t, (&Task{Status: StatusCompleted}).Completed())
	assert.False(t, (&Task{Status: StatusNotStarted}).Completed())
	assert.False(t, (&Task{Status: StatusInProgress}).Completed())
	assert.False(t, (&Task{Status: StatusWaiting}).Completed())
}

func TestUser_Email(t *testing.T) {
	withMail := User{Mail: "a@example.test", UserPrincipalName: "b@example.test"}
	assert.Equal(t, "a@example.test", withMail.Email())

	withoutMail := User{UserPrincipalName: "b@example.test"}
	assert.Equal(t, "b@example.test", withoutMail.Email())
}
