// Package mqtt provides MQTT client connectivity for Argus Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Argus uses MQTT as the message bus between the Core and the tracker
// fleet. Each tracker owns a topic namespace rooted at its identifier
// ({trackerId}/lockStateUpdate, {trackerId}/ack, {trackerId}/motion, ...);
// the Core subscribes with single-level wildcards to cover the whole fleet.
//
//	Argus Core ↔ MQTT Broker ↔ Tracker Devices
//
// Topic construction and payload codecs live in internal/wire; this
// package only knows raw topics and byte payloads.
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to acknowledgements from every tracker
//	err = client.Subscribe("+/ack", 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish a lock command
//	client.Publish("tracker-001/lockStateUpdate", []byte(`{"state":"locked"}`), 1, false)
package mqtt
