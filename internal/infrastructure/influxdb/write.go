package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteRenameOutcome records one operation's outcome in the rename
// history measurement.
//
// The write is non-blocking; points are batched and sent
// asynchronously.
//
// Parameters:
//   - runID: The run this operation belongs to
//   - stableID: The entity's registry stable id (survives the rename)
//   - oldID, newID: The identifier transition
//   - outcome: Final outcome (confirmed, applied-with-warnings, ...)
//   - attempts: Registry attempts consumed, including retries
func (c *Client) WriteRenameOutcome(runID, stableID, oldID, newID, outcome string, attempts int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"entity_renames",
		map[string]string{
			"run_id":  runID,
			"outcome": outcome,
		},
		map[string]interface{}{
			"stable_id": stableID,
			"old_id":    oldID,
			"new_id":    newID,
			"attempts":  attempts,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRunSummary records aggregate counts for one finished run.
//
// Parameters:
//   - runID: The run identifier
//   - mode: "dry-run" or "apply"
//   - counts: Outcome name to operation count
//   - duration: Wall-clock run duration
func (c *Client) WriteRunSummary(runID, mode string, counts map[string]int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"duration_ms": duration.Milliseconds(),
	}
	for outcome, n := range counts {
		fields[outcome] = n
	}

	point := write.NewPoint(
		"rename_runs",
		map[string]string{
			"run_id": runID,
			"mode":   mode,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
