// Package notify turns calendar events into device-local reminders.
//
// The Scheduler holds the scheduling policy (lead time, past-event
// filtering, cancel-before-reschedule); the Platform interface abstracts
// the device notification subsystem behind it. The production Platform is
// the SQLite-backed Store in this package.
package notify

import (
	"context"
	"time"
)

// PermissionStatus is the typed result of a notification permission
// request, with an explicit field per requested capability. Platform
// adapters validate whatever shape their host returns and map it here.
type PermissionStatus struct {
	Alert bool
	Sound bool
	Badge bool
}

// Granted reports whether notifications may be shown at all.
func (p PermissionStatus) Granted() bool {
	return p.Alert
}

// Importance mirrors the host platform's channel importance scale.
type Importance int

// ImportanceMax requests heads-up presentation where the platform
// supports it.
const ImportanceMax Importance = 5

// Channel describes the notification channel ensured before scheduling.
type Channel struct {
	ID               string
	Name             string
	Importance       Importance
	VibrationPattern []time.Duration
	LightColor       string
}

// DefaultChannelID is the fixed channel all event reminders go through.
const DefaultChannelID = "jetcal_schedule"

// DefaultChannel returns the channel definition used for every batch:
// maximum importance, a short on/off/on/off vibration pulse, and the
// application accent color for the notification light.
func DefaultChannel() Channel {
	return Channel{
		ID:         DefaultChannelID,
		Name:       "Schedule reminders",
		Importance: ImportanceMax,
		VibrationPattern: []time.Duration{
			0,
			250 * time.Millisecond,
			250 * time.Millisecond,
			250 * time.Millisecond,
		},
		LightColor: "#2196F3",
	}
}

// Notification is one reminder handed to the platform. EventID travels as
// opaque payload data so the host can route taps back to the event.
type Notification struct {
	ID      string
	EventID string
	Title   string
	Body    string
	Sound   string
	FireAt  time.Time
}

// Platform abstracts the device notification subsystem. All operations
// are safe to repeat; none of their results are cached across scheduling
// calls.
type Platform interface {
	// RequestPermission asks the host for notification permission.
	RequestPermission(ctx context.Context) (PermissionStatus, error)
	// EnsureChannel creates the channel if it does not exist yet.
	EnsureChannel(ctx context.Context, ch Channel) error
	// CancelAll removes every pending notification owned by this app.
	CancelAll(ctx context.Context) error
	// Schedule registers a single notification to fire at n.FireAt.
	Schedule(ctx context.Context, n Notification) error
}
