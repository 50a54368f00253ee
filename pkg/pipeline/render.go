package pipeline

import (
	"fmt"

	"github.com/irfanahm3d/obsidian-timeline/pkg/buildinfo"
	"github.com/irfanahm3d/obsidian-timeline/pkg/render"
	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
)

// RenderFromLayout renders all requested formats from a computed layout.
func RenderFromLayout(l timeline.Layout, opts Options, runID string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		switch format {
		case render.FormatSVG:
			var svgOpts []render.SVGOption
			if opts.Snippets {
				svgOpts = append(svgOpts, render.WithSnippets())
			}
			artifacts[format] = render.RenderSVG(l, svgOpts...)

		case render.FormatJSON:
			data, err := render.RenderJSON(l,
				render.WithJSONRunID(runID),
				render.WithJSONGenerator("timeline "+buildinfo.Version))
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data

		case render.FormatText:
			artifacts[format] = render.RenderText(l)

		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}

	return artifacts, nil
}
