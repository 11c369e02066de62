// Package pipeline provides the core visualization pipeline for JSON Atlas.
//
// This package implements the complete build → layout → render pipeline that
// can be used by CLI, API, and TUI components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Parse the document and derive the node/edge graph
//  2. Layout: Compute visual positions for the graph
//  3. Render: Generate output in various formats (SVG, PNG, PDF, HTML, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Document: `{"name": "ada"}`,
//	    Engine:   "force",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Build only
//	g, err := runner.Build(ctx, buildOpts)
//
//	// Layout with existing graph
//	layout, err := runner.ComputeLayout(ctx, g, layoutOpts)
//
//	// Render with existing layout
//	artifacts, err := runner.Render(ctx, layout, g, renderOpts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jsonatlas/jsonatlas/pkg/cache"
	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
	"github.com/jsonatlas/jsonatlas/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

const (
	// DefaultLabelLength is the rune cap for node labels.
	// This matches graph.DefaultLabelLength so CLI and API agree.
	DefaultLabelLength = graph.DefaultLabelLength

	// DefaultScale is the raster scale factor for PNG output.
	// 2.0 produces 2x resolution images suitable for high-DPI displays.
	DefaultScale = 2.0

	// DefaultName is the document title used when none is given.
	DefaultName = "document"
)

// DefaultEngine is the default layout engine.
const DefaultEngine = layout.DefaultEngine

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Document    string `json:"document,omitempty"` // raw JSON text
	File        string `json:"file,omitempty"`     // path to a .json/.csv/.xlsx file
	Name        string `json:"name,omitempty"`     // document title for artifacts
	LabelLength int    `json:"label_length,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"` // bypass the graph cache

	// Layout options
	Engine       string  `json:"engine,omitempty"`
	Seed         uint64  `json:"seed,omitempty"`
	IterationCap int     `json:"iteration_cap,omitempty"`
	Threshold    float64 `json:"threshold,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Dark    bool     `json:"dark,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger      `json:"-"`
	Previous layout.Positions `json:"-"` // prior positions, pins carry over

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the derived node/edge graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the computed positions and termination state.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Iterations int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the graph came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return render.ValidateFormats([]string{format})
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	return render.ValidateFormats(formats)
}

// ValidateEngine checks that a layout engine is valid.
func ValidateEngine(engine string) error {
	return layout.ValidateEngine(engine)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for graph building.
func (o *Options) ValidateForBuild() error {
	if o.Document == "" && o.File == "" {
		return fmt.Errorf("document or file is required")
	}
	if o.Document != "" && o.File != "" {
		return fmt.Errorf("document and file are mutually exclusive")
	}

	// Build defaults
	if o.LabelLength == 0 {
		o.LabelLength = DefaultLabelLength
	}
	if o.Name == "" {
		o.Name = DefaultName
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}
	if o.IterationCap == 0 {
		o.IterationCap = layout.DefaultIterationCap
	}
	if o.Threshold == 0 {
		o.Threshold = layout.DefaultThreshold
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return layout.ValidateEngine(o.Engine)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), render.DefaultFormats...)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return render.ValidateFormats(o.Formats)
}

// RenderOptions converts pipeline options to render options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Dark:  o.Dark,
		Scale: o.Scale,
	}
}

// GraphKeyOpts returns cache key options for graph building.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		LabelLength: o.LabelLength,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Engine:       o.Engine,
		Seed:         o.Seed,
		IterationCap: o.IterationCap,
		Threshold:    o.Threshold,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Dark:   o.Dark,
	}
}
