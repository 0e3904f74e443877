package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/gkquad/internal/quad"
)

type ExportData struct {
	RunMetadata
	Partition []quad.Leaf `json:"partition"`
}

func ExportJSON(w io.Writer, meta RunMetadata, leaves []quad.Leaf) error {
	data := ExportData{RunMetadata: meta, Partition: leaves}
	if data.Partition == nil {
		data.Partition = []quad.Leaf{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteLeavesCSV writes the accepted partition with a header row. Guards are
// stored as their numeric code.
func WriteLeavesCSV(w io.Writer, leaves []quad.Leaf) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(leafHeader); err != nil {
		return err
	}
	for _, l := range leaves {
		row := []string{
			formatFloat(l.A),
			formatFloat(l.B),
			formatFloat(l.Value),
			formatFloat(l.AbsErr),
			strconv.Itoa(l.Depth),
			strconv.Itoa(int(l.Guard)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PartitionSVG draws each leaf as a bar over its subinterval, height
// proportional to depth. Guard-tripped leaves are drawn red.
func PartitionSVG(leaves []quad.Leaf, a, b float64, width, height int) string {
	if a > b {
		a, b = b, a
	}
	maxDepth := 1
	for _, l := range leaves {
		maxDepth = max(maxDepth, l.Depth)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	span := b - a
	if span > 0 {
		for _, l := range leaves {
			lo, hi := math.Min(l.A, l.B), math.Max(l.A, l.B)
			x := (lo - a) / span * float64(width)
			w := math.Max((hi-lo)/span*float64(width), 0.5)
			h := float64(l.Depth) / float64(maxDepth) * float64(height)
			fill := "#00ccff"
			if l.Guard != quad.GuardNone {
				fill = "#ff4444"
			}
			fmt.Fprintf(&sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#0a0a0a" stroke-width="0.2"/>
`, x, float64(height)-h, w, h, fill)
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
