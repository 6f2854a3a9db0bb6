// Package tracker manages the fleet's tracker devices and their lock
// state reconciliation.
//
// Each tracker carries two lock states: the state the device last
// acknowledged (lock_state) and the state an operator last requested
// (desired_lock_state). The Reconciler persists desired state before
// publishing the command so a lost message never loses the request; the
// two fields diverging is exactly what NeedsSync reports.
//
// The package exposes:
//   - Repository: SQLite-backed persistence for trackers
//   - Service: registration, user linking and lifecycle operations
//   - Reconciler: lock command dispatch and device acknowledgements
package tracker
