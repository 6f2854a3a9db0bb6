// Package wire defines the MQTT topic scheme and message payloads shared
// between Argus Core and the tracker fleet.
//
// Every per-tracker topic has the shape {trackerId}/{topicType}. The core
// publishes commands on lockStateUpdate and consumes ack, motion, location
// and lockStatus, subscribing with single-level wildcards ("+/ack") to
// cover all trackers.
//
// Payloads are JSON. Decode helpers return wrapped errors so callers can
// log and drop malformed messages without tearing down the subscription.
package wire
