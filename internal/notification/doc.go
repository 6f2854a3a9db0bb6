// Package notification creates and stores user-facing event records and
// pushes them to connected WebSocket clients.
//
// Message text is fixed per event type so clients can pattern-match on it:
//
//	Tracker {id} has been locked.
//	Tracker {id} has been unlocked.
//	Motion detected on locked tracker {id}.
package notification
