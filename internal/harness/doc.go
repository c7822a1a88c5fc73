// Package harness runs YAML scenarios against a fresh ad history store and
// compares the resulting trace with golden files.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: ranked_placements
//	description: "Clicks outrank views"
//	start: 2024-01-01T00:00:00Z   # optional, clock start
//	batch_size: 2                 # optional
//	retention: 720h               # optional
//	steps:
//	  - name: record
//	    save:
//	      - { at: 10s, placement_id: p1, confirmation_type: view }
//	      - { at: 11s, placement_id: p1, confirmation_type: click }
//	  - name: ranked
//	    query: { op: ranked, from: 0s, to: 60s }
//	  - name: later
//	    advance: 744h
//	  - name: expire
//	    purge: true
//	assertions:
//	  - type: result_placements
//	    step: ranked
//	    placements: [p1]
//	  - type: row_count
//	    count: 0
//
// Event times and query bounds are offsets from the scenario start. Event
// fields that are omitted get valid defaults derived from placement_id, so
// a scenario only spells out what it is testing.
//
// # Assertions
//
//   - result_count: the query step returned exactly count events
//   - result_placements: the query step returned these placement ids, in order
//   - row_count: the table holds exactly count rows after the last step
//   - diagnostics: exactly count defects were reported, optionally with reason
//
// # Golden Files
//
// RunWithGolden writes the trace as indented JSON to
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
