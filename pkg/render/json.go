package render

import (
	"encoding/json"

	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	runID     string
	generator string
}

// WithJSONRunID records the pipeline run identifier in the output so
// artifacts can be traced back to a logged run.
func WithJSONRunID(id string) JSONOption {
	return func(r *jsonRenderer) { r.runID = id }
}

// WithJSONGenerator records the generator name/version in the output.
func WithJSONGenerator(g string) JSONOption {
	return func(r *jsonRenderer) { r.generator = g }
}

type jsonOutput struct {
	Generator string                    `json:"generator,omitempty"`
	RunID     string                    `json:"run_id,omitempty"`
	Range     timeline.DateRange        `json:"range"`
	Threshold float64                   `json:"threshold"`
	Ascending bool                      `json:"ascending,omitempty"`
	Items     []timeline.PositionedItem `json:"items"`
	Markers   []timeline.YearMarker     `json:"markers,omitempty"`
}

// RenderJSON renders a layout as pretty-printed JSON.
// Any renderer-agnostic consumer (HTML, terminal, tests) can rebuild
// the visualization from this output alone.
func RenderJSON(l timeline.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Generator: r.generator,
		RunID:     r.runID,
		Range:     l.Range,
		Threshold: l.Threshold,
		Ascending: l.Ascending,
		Items:     l.Items,
		Markers:   l.Markers,
	}
	return json.MarshalIndent(out, "", "  ")
}
