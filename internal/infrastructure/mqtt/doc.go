// Package mqtt publishes rename events onto the Gray Logic message bus.
//
// This package manages:
//   - Connection to the Mosquitto broker with auto-reconnect
//   - Publishing rename and run-summary events with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The Gray Logic stack uses MQTT as its internal message bus. The
// rename tool is a publish-only participant: after a confirmed
// identifier change it announces the old and new identifiers keyed by
// the entity's stable id, so panels and bridges can refresh their
// entity maps without polling the registry.
//
//	Rename Tool → MQTT Broker → Panels / Bridges
//
// Event publishing is optional. When the mqtt config section is
// disabled, Connect returns ErrDisabled and the engine runs without a
// client (all engine publish paths are nil-safe).
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if errors.Is(err, mqtt.ErrDisabled) {
//	    client = nil // run without events
//	} else if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.PublishEntityRenamed(mqtt.EntityRenamedEvent{
//	    StableID: "01J3ZK...", OldID: "light.office", NewID: "office.light.main",
//	})
package mqtt
