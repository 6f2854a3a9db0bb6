package mqtt

// System topics published by the transport itself.
//
// Per-tracker topics ({trackerId}/{topicType}) are owned by the wire
// package; the transport only knows about its own status topic.
const (
	// SystemStatusTopic carries online/offline status for the core process.
	// Used for the Last Will and Testament and graceful shutdown messages.
	SystemStatusTopic = "argus/system/status"
)
