package harness

import (
	"time"

	"github.com/roach88/adhistory/internal/ad"
)

// Trace operations besides the query ops.
const (
	OpSave    = "save"
	OpAdvance = "advance"
	OpPurge   = "purge"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Step string `json:"step"`
	Op   string `json:"op"`

	// Now is the clock after the step.
	Now time.Time `json:"now"`

	// Saved counts events handed to Save.
	Saved int `json:"saved,omitempty"`

	// Events is the query result; omitted when empty.
	Events []TraceRow `json:"events,omitempty"`
}

// TraceRow is the part of an event a scenario can observe.
type TraceRow struct {
	CreatedAt          time.Time `json:"created_at"`
	Type               string    `json:"type"`
	ConfirmationType   string    `json:"confirmation_type"`
	PlacementID        string    `json:"placement_id"`
	CreativeInstanceID string    `json:"creative_instance_id"`
}

func traceRows(events []ad.Event) []TraceRow {
	rows := make([]TraceRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, TraceRow{
			CreatedAt:          e.CreatedAt,
			Type:               string(e.Type),
			ConfirmationType:   string(e.ConfirmationType),
			PlacementID:        e.PlacementID,
			CreativeInstanceID: e.CreativeInstanceID,
		})
	}
	return rows
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace contains every step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Rows is the ad_history row count after the last step.
	Rows int `json:"rows"`

	// Diagnostics holds the reason of every reported defect, in order.
	Diagnostics []string `json:"diagnostics"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Trace:       []TraceEvent{},
		Errors:      []string{},
		Diagnostics: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// step returns the trace entry of the named step.
func (r *Result) step(name string) (TraceEvent, bool) {
	for _, e := range r.Trace {
		if e.Step == name {
			return e, true
		}
	}
	return TraceEvent{}, false
}
