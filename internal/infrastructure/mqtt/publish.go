package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// Maximum payload size for MQTT messages (1MB).
// This prevents resource exhaustion and aligns with typical broker limits.
const maxPayloadSize = 1 << 20 // 1MB

// Publish sends a message to the specified MQTT topic.
//
// Parameters:
//   - topic: The topic to publish to
//   - payload: The message payload (JSON, max 1MB)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// EntityRenamedEvent is the payload announcing one confirmed rename.
type EntityRenamedEvent struct {
	StableID  string `json:"stable_id"`
	OldID     string `json:"old_id"`
	NewID     string `json:"new_id"`
	NewName   string `json:"new_name,omitempty"`
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
}

// RunCompletedEvent is the payload summarising a finished run.
type RunCompletedEvent struct {
	RunID     string         `json:"run_id"`
	Mode      string         `json:"mode"`
	Counts    map[string]int `json:"counts"`
	Timestamp string         `json:"timestamp"`
}

// PublishEntityRenamed announces a confirmed identifier change so
// panels and bridges can refresh their entity maps. Not retained:
// subscribers that miss it resynchronise from the registry anyway.
func (c *Client) PublishEntityRenamed(event EntityRenamedEvent) error {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return c.Publish(Topics{}.EntityRenamed(event.StableID), payload, byte(c.cfg.QoS), false)
}

// PublishRunCompleted announces the end of a rename run with its
// aggregate outcome counts.
func (c *Client) PublishRunCompleted(event RunCompletedEvent) error {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return c.Publish(Topics{}.RegistryEvent("run_completed"), payload, byte(c.cfg.QoS), false)
}
