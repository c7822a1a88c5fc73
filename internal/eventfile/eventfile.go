// Package eventfile loads ad events and selection candidates from YAML or
// JSON documents.
//
// Documents are checked against an embedded CUE schema before decoding, so
// structural problems (missing keys, unknown confirmation types, stray
// fields) fail the load with a positioned error. Semantic checks such as
// URL validity are left to the history store, which drops and reports
// invalid events.
package eventfile

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/roach88/adhistory/internal/ad"
)

//go:embed schema.cue
var schemaSource []byte

// SchemaError is a document that does not match the schema.
type SchemaError struct {
	Message string
	Pos     token.Pos
}

func (e *SchemaError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// Loader decodes event and candidate documents.
type Loader struct {
	ctx       *cue.Context
	schema    cue.Value
	generator ad.PlacementIDGenerator
}

// Option configures a Loader.
type Option func(*Loader)

// WithGenerator sets the generator used for events without a placement id.
// Defaults to ad.UUIDv7Generator.
func WithGenerator(g ad.PlacementIDGenerator) Option {
	return func(l *Loader) {
		l.generator = g
	}
}

// NewLoader compiles the embedded schema.
func NewLoader(opts ...Option) (*Loader, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile event schema: %w", err)
	}

	l := &Loader{ctx: ctx, schema: schema, generator: ad.UUIDv7Generator{}}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

type eventDocument struct {
	Events []eventRecord `json:"events"`
}

type eventRecord struct {
	CreatedAt          string `json:"created_at"`
	Type               string `json:"type"`
	ConfirmationType   string `json:"confirmation_type"`
	PlacementID        string `json:"placement_id"`
	CreativeInstanceID string `json:"creative_instance_id"`
	CreativeSetID      string `json:"creative_set_id"`
	CampaignID         string `json:"campaign_id"`
	AdvertiserID       string `json:"advertiser_id"`
	Segment            string `json:"segment"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	TargetURL          string `json:"target_url"`
}

// LoadEvents reads an event file from disk.
func (l *Loader) LoadEvents(path string) ([]ad.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event file: %w", err)
	}
	return l.ParseEvents(path, data)
}

// ParseEvents decodes an event document. filename is used in error
// positions only.
func (l *Loader) ParseEvents(filename string, data []byte) ([]ad.Event, error) {
	var doc eventDocument
	if err := l.decode(filename, data, "#Events", &doc); err != nil {
		return nil, err
	}

	events := make([]ad.Event, 0, len(doc.Events))
	for i, r := range doc.Events {
		createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: events.%d.created_at: %w", filename, i, err)
		}

		placementID := r.PlacementID
		if placementID == "" {
			placementID = l.generator.Generate()
		}

		events = append(events, ad.Event{
			CreatedAt:          createdAt,
			Type:               ad.Type(r.Type),
			ConfirmationType:   ad.ConfirmationType(r.ConfirmationType),
			PlacementID:        placementID,
			CreativeInstanceID: r.CreativeInstanceID,
			CreativeSetID:      r.CreativeSetID,
			CampaignID:         r.CampaignID,
			AdvertiserID:       r.AdvertiserID,
			Segment:            r.Segment,
			Title:              r.Title,
			Description:        r.Description,
			TargetURL:          r.TargetURL,
		})
	}

	return events, nil
}

// decode unifies the document with the named schema definition and
// decodes the concrete result into out.
func (l *Loader) decode(filename string, data []byte, definition string, out any) error {
	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}

	doc := l.ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return formatCUEError(err)
	}

	unified := l.schema.LookupPath(cue.ParsePath(definition)).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}

	if err := unified.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", filename, err)
	}
	return nil
}

// formatCUEError keeps the first error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	se := &SchemaError{Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		se.Pos = positions[0]
	}
	return se
}
