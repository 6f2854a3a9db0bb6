// Package ingest wires the MQTT transport to the domain services.
//
// It subscribes to the device-to-core topic families (+/ack, +/motion,
// +/location, +/lockStatus), decodes each message with the wire package
// and hands it to the owning service. Decode or handler failures are
// surfaced to the transport's handler wrapper, which logs and drops the
// message without affecting the subscription.
package ingest
