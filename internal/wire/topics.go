package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Topic types recognised on the tracker message bus. Every per-tracker
// topic has the shape {trackerId}/{topicType}.
const (
	// TopicLockStateUpdate carries lock commands from the core to a tracker.
	TopicLockStateUpdate = "lockStateUpdate"

	// TopicAck carries a tracker's acknowledgement of its applied lock state.
	TopicAck = "ack"

	// TopicMotion carries motion sensor events from a tracker.
	TopicMotion = "motion"

	// TopicLocation carries GPS position updates from a tracker.
	TopicLocation = "location"

	// TopicLockStatus carries status reports from locks attached to a tracker.
	TopicLockStatus = "lockStatus"
)

// Sentinel errors for topic parsing.
var (
	// ErrMalformedTopic indicates a topic that does not match {trackerId}/{topicType}.
	ErrMalformedTopic = errors.New("wire: malformed topic")

	// ErrEmptyTrackerID indicates a topic with an empty tracker segment.
	ErrEmptyTrackerID = errors.New("wire: empty tracker id in topic")
)

// EncodeTopic builds the MQTT topic for a tracker and topic type.
//
// The result is {trackerID}/{topicType}, e.g. "tracker-001/lockStateUpdate".
func EncodeTopic(trackerID, topicType string) string {
	return trackerID + "/" + topicType
}

// Wildcard returns a subscription pattern matching the given topic type
// for every tracker, e.g. "+/ack".
func Wildcard(topicType string) string {
	return "+/" + topicType
}

// DecodeTopic splits a received topic into its tracker identifier and
// topic type.
//
// The tracker identifier is everything before the first separator, so
// identifiers themselves must not contain "/". A topic with no separator,
// an empty tracker segment, or an empty type segment is malformed.
func DecodeTopic(topic string) (trackerID, topicType string, err error) {
	idx := strings.Index(topic, "/")
	if idx < 0 {
		return "", "", fmt.Errorf("%w: %q has no separator", ErrMalformedTopic, topic)
	}

	trackerID = topic[:idx]
	topicType = topic[idx+1:]

	if trackerID == "" {
		return "", "", fmt.Errorf("%w: %q", ErrEmptyTrackerID, topic)
	}
	if topicType == "" {
		return "", "", fmt.Errorf("%w: %q has empty topic type", ErrMalformedTopic, topic)
	}

	return trackerID, topicType, nil
}
