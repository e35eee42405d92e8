package mqtt

import "fmt"

// Topic prefixes per the Gray Logic MQTT topic hierarchy.
const (
	// TopicPrefixCore is the base for all core topics.
	TopicPrefixCore = "graylogic/core"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "graylogic/system"
)

// Topics provides builders for the rename tool's MQTT topics.
// Using these helpers keeps topic naming consistent with the rest of
// the Gray Logic stack.
type Topics struct{}

// EntityRenamed returns the topic announcing one entity's identifier
// change. Subscribers key on the stable id, which survives the rename.
//
// Example: graylogic/core/registry/entity/01J3ZK.../renamed
func (Topics) EntityRenamed(stableID string) string {
	return fmt.Sprintf("%s/registry/entity/%s/renamed", TopicPrefixCore, stableID)
}

// RegistryEvent returns the topic for registry-wide events.
//
// Example: graylogic/core/registry/event/run_completed
func (Topics) RegistryEvent(eventType string) string {
	return fmt.Sprintf("%s/registry/event/%s", TopicPrefixCore, eventType)
}

// SystemStatus returns the topic for online/offline status.
//
// Example: graylogic/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
