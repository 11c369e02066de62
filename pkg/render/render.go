// Package render turns graphs and layouts into visual artifacts.
//
// Three artifact families are supported:
//
//   - DOT/SVG/PNG/PDF: static images via Graphviz. The DOT output carries
//     the kind colors, so the static artifacts match the interactive view.
//   - HTML: a self-contained interactive page with pan, zoom, node drag,
//     and hover details. No external assets; the graph is embedded.
//   - JSON: the graph and layout serialized together, for tooling.
//
// PDF and PNG conversion shells out to rsvg-convert (librsvg).
package render

import (
	"fmt"
	"sort"
	"strings"
)

// Supported artifact formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatHTML = "html"
	FormatJSON = "json"
)

// DefaultFormats is used when no formats are requested.
var DefaultFormats = []string{FormatSVG}

// ValidFormats lists the supported formats in stable order.
func ValidFormats() []string {
	return []string{FormatDOT, FormatSVG, FormatPNG, FormatPDF, FormatHTML, FormatJSON}
}

// ValidateFormats checks that every requested format is supported.
func ValidateFormats(formats []string) error {
	valid := make(map[string]bool)
	for _, f := range ValidFormats() {
		valid[f] = true
	}
	var bad []string
	for _, f := range formats {
		if !valid[f] {
			bad = append(bad, f)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("unsupported format(s) %s (valid: %s)",
			strings.Join(bad, ", "), strings.Join(ValidFormats(), ", "))
	}
	return nil
}

// Options configures artifact rendering.
type Options struct {
	// Dark renders on the dark editor background instead of transparent.
	Dark bool

	// Scale is the raster scale factor for PNG output. Defaults to 2.0.
	Scale float64
}

// DarkBackground is the page and canvas color in dark mode.
const DarkBackground = "#1A202C"
