// Package lock manages physical locks attached to trackers.
//
// A lock's status is its own report, received on the tracker's lockStatus
// topic, and is tracked independently of the tracker's commanded lock
// state. A tracker can be "unlocked" while one of its locks still reports
// "locked" (e.g. a jammed bolt); keeping the two apart makes that visible.
package lock
