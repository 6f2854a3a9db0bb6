// Package motion records tracker motion sensor events and alerts on
// motion detected while a tracker is locked.
//
// Persistence and alerting are deliberately decoupled: every event is
// stored, but only motion on a locked tracker produces a notification.
// Unknown trackers still get their events stored.
package motion
