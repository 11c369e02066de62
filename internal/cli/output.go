package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsonatlas/jsonatlas/pkg/render"
)

// isKnownFormat reports whether name is a supported output format.
func isKnownFormat(name string) bool {
	for _, f := range render.ValidFormats() {
		if f == name {
			return true
		}
	}
	return false
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known format extension (.svg, .pdf, ...), that extension is stripped so
// per-format suffixes can be appended.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return "document"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if isKnownFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each requested format's artifact next to the base
// path and prints a summary.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string, cacheHit bool, nodeCount, edgeCount int) error {
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format

		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		printFile(path)
	}

	printStats(nodeCount, edgeCount, cacheHit)
	return nil
}
