// Package influxdb records rename history in InfluxDB.
//
// Each executed operation produces one point in the entity_renames
// measurement (tags: run id, outcome; fields: identifiers, attempt
// count), and each finished run produces a summary point in
// rename_runs. Writes are non-blocking and batched; the engine calls
// Flush at the end of a run.
//
// History recording is optional. When the influxdb config section is
// disabled, Connect returns ErrDisabled and the engine simply skips
// recording (all engine recorder paths are nil-safe).
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    client = nil
//	} else if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteRenameOutcome(runID, stableID, oldID, newID, "confirmed", 1)
package influxdb
