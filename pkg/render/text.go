package render

import (
	"bytes"
	"fmt"

	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
)

// RenderText renders a layout as a plain-text listing, one item per
// line, suitable for terminals and pipes.
func RenderText(l timeline.Layout) []byte {
	var buf bytes.Buffer

	if len(l.Items) > 0 {
		fmt.Fprintf(&buf, "timeline %s .. %s (%d items)\n\n",
			l.Range.Earliest.Format("2006-01-02"),
			l.Range.Latest.Format("2006-01-02"),
			len(l.Items))
	}

	for _, it := range l.Items {
		side := "R"
		if it.Side == timeline.SideLeft {
			side = "L"
		}
		fmt.Fprintf(&buf, "%6.1f%%  %s  %s  %s", it.Position, side, it.Date.Format("2006-01-02"), it.Label)
		if it.Snippet != "" {
			fmt.Fprintf(&buf, "  · %s", it.Snippet)
		}
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}
