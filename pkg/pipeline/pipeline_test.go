package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jsonatlas/jsonatlas/pkg/cache"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
	"github.com/jsonatlas/jsonatlas/pkg/render"
)

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"html", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateEngine(t *testing.T) {
	tests := []struct {
		engine  string
		wantErr bool
	}{
		{"hierarchical", false},
		{"force", false},
		{"invalid", true},
	}

	for _, tt := range tests {
		err := ValidateEngine(tt.engine)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEngine(%q) error = %v, wantErr %v", tt.engine, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	// Document or file is required
	var empty Options
	if err := empty.ValidateAndSetDefaults(); err == nil {
		t.Error("empty options should fail validation")
	}

	// Document and file are mutually exclusive
	both := Options{Document: "{}", File: "doc.json"}
	if err := both.ValidateAndSetDefaults(); err == nil {
		t.Error("document and file together should fail validation")
	}

	// Defaults fill in
	opts := Options{Document: `{"a": 1}`}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if opts.LabelLength != DefaultLabelLength {
		t.Errorf("LabelLength = %d, want %d", opts.LabelLength, DefaultLabelLength)
	}
	if opts.Engine != DefaultEngine {
		t.Errorf("Engine = %q, want %q", opts.Engine, DefaultEngine)
	}
	if opts.Seed != layout.DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, layout.DefaultSeed)
	}
	if opts.IterationCap != layout.DefaultIterationCap {
		t.Errorf("IterationCap = %d", opts.IterationCap)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != render.FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Name != DefaultName {
		t.Errorf("Name = %q, want %q", opts.Name, DefaultName)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	opts.Formats = append(opts.Formats, "html")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op: %v", err)
	}

	// Bad engine surfaces
	bad := Options{Document: "{}", Engine: "spiral"}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid engine should fail validation")
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, discardLogger())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Document: `{"a": 1, "b": [true, null]}`,
		Engine:   layout.EngineHierarchical,
		Formats:  []string{"dot", "json", "html"},
		Name:     "sample",
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.Stats.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", result.Stats.NodeCount)
	}
	if result.Stats.EdgeCount != 4 {
		t.Errorf("EdgeCount = %d, want 4", result.Stats.EdgeCount)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if result.Layout.State != layout.StateConverged.String() {
		t.Errorf("layout state = %q, want converged", result.Layout.State)
	}
	if len(result.Layout.Positions) != 5 {
		t.Errorf("positions for %d nodes, want 5", len(result.Layout.Positions))
	}

	for _, format := range []string{"dot", "json", "html"} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("artifact %q is empty", format)
		}
	}
	if !strings.Contains(string(result.Artifacts["dot"]), "digraph G") {
		t.Error("dot artifact should contain a digraph")
	}

	// NullCache never hits.
	if result.CacheInfo.BuildHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("NullCache should never hit: %+v", result.CacheInfo)
	}
}

func TestRunnerCacheHits(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	runner := NewRunner(c, nil, discardLogger())
	defer runner.Close()

	opts := Options{
		Document: `{"users": ["ada", "grace"]}`,
		Formats:  []string{"dot", "json"},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", second.CacheInfo)
	}
	if second.GraphHash != first.GraphHash {
		t.Error("graph hash should be identical across runs")
	}

	// Refresh bypasses the graph cache.
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("third Execute error: %v", err)
	}
	if third.CacheInfo.BuildHit {
		t.Error("Refresh should bypass the graph cache")
	}
}

func TestRunnerPreviousBypassesLayoutCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	runner := NewRunner(c, nil, discardLogger())
	defer runner.Close()

	ctx := context.Background()
	opts := Options{Document: `{"a": 1}`, Formats: []string{"json"}}

	g, err := runner.Build(ctx, opts)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	// Warm the layout cache.
	if _, _, _, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts); err != nil {
		t.Fatalf("layout error: %v", err)
	}

	// A pinned node forces a recompute and preserves the pin.
	leafID := ""
	for _, n := range g.Nodes {
		if n.ID != g.RootID {
			leafID = n.ID
		}
	}
	opts.Previous = layout.Positions{
		leafID: {X: 777, Y: 888, Pinned: true},
	}

	l, _, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if hit {
		t.Error("carried positions must bypass the layout cache")
	}
	if p := l.Positions[leafID]; p.X != 777 || p.Y != 888 || !p.Pinned {
		t.Errorf("pinned position not preserved: %+v", p)
	}
}

func TestRunnerLayoutSuperseded(t *testing.T) {
	runner := NewRunner(nil, nil, discardLogger())
	defer runner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Execute(ctx, Options{
		Document: `{"a": [1, 2, 3]}`,
		Engine:   layout.EngineForce,
		Formats:  []string{"json"},
	})
	if err == nil {
		t.Fatal("cancelled context should supersede the layout")
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("error should mention supersession: %v", err)
	}
}

func TestLoadDocumentFromFile(t *testing.T) {
	opts := Options{File: "testdata/missing.json"}
	if _, err := LoadDocument(opts); err == nil {
		t.Error("missing file should error")
	}

	v, err := LoadDocument(Options{Document: `[1, 2]`})
	if err != nil {
		t.Fatalf("LoadDocument error: %v", err)
	}
	h1, err := DocumentHash(v)
	if err != nil {
		t.Fatalf("DocumentHash error: %v", err)
	}

	// Whitespace differences hash identically.
	v2, _ := LoadDocument(Options{Document: "[ 1,\n  2 ]"})
	h2, _ := DocumentHash(v2)
	if h1 != h2 {
		t.Error("hash should be insensitive to whitespace")
	}
}
