package graph

import (
	"time"
)

// User contains the user's basic profile information from Microsoft Graph.
type User struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// Email returns the user's email address. Falls back to userPrincipalName
// if mail is not set.
func (u *User) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// TaskList represents a To Do task list from Microsoft Graph.
type TaskList struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	IsOwner           bool   `json:"isOwner"`
	IsShared          bool   `json:"isShared"`
	WellknownListName string `json:"wellknownListName"`
}

// TaskStatus is the completion status of a task.
type TaskStatus string

// Task statuses returned by Microsoft Graph.
const (
	StatusNotStarted TaskStatus = "notStarted"
	StatusInProgress TaskStatus = "inProgress"
	StatusCompleted  TaskStatus = "completed"
	StatusWaiting    TaskStatus = "waitingOnOthers"
	StatusDeferred   TaskStatus = "deferred"
)

// DateTimeTimeZone is the Graph representation of a timestamp with an
// explicit time zone, e.g. {"dateTime": "2026-01-15T09:00:00.0000000",
// "timeZone": "UTC"}.
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// graphDateTimeLayout matches the fractional-second format Graph emits.
const graphDateTimeLayout = "2006-01-02T15:04:05.9999999"

// Time parses the timestamp in its declared time zone. Unknown zone names
// fall back to UTC rather than failing the whole sync.
func (d *DateTimeTimeZone) Time() (time.Time, error) {
	loc := time.UTC
	if d.TimeZone != "" {
		if l, err := time.LoadLocation(d.TimeZone); err == nil {
			loc = l
		}
	}
	return time.ParseInLocation(graphDateTimeLayout, d.DateTime, loc)
}

// Task represents a To Do task from Microsoft Graph.
type Task struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Status      TaskStatus        `json:"status"`
	DueDateTime *DateTimeTimeZone `json:"dueDateTime,omitempty"`
}

// Completed reports whether the task is done. Any status other than
// completed counts as open.
func (t *Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Due returns the task's due timestamp, if one is set and parseable.
func (t *Task) Due() (time.Time, bool) {
	if t.DueDateTime == nil {
		return time.Time{}, false
	}
	due, err := t.DueDateTime.Time()
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// page is one page of a Graph collection response.
type page[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}
