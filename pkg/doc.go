// Package pkg provides the core libraries for JSON Atlas graph visualization.
//
// # Overview
//
// JSON Atlas turns JSON documents into interactive node/edge graphs: every
// value becomes a type-colored node, every containment relation an edge.
// The pkg directory is organized into five main areas:
//
//  1. [jsontree] - Document model (ordered values, classification, codec)
//  2. [graph] - Graph derivation (builder, path-hash IDs, serialization)
//  3. [layout] - Position computation (hierarchical and force engines)
//  4. [render] - Artifact generation (DOT/SVG/PNG/PDF/HTML/JSON)
//  5. [pipeline] - Orchestration (build → layout → render with caching)
//
// Supporting packages: [cache] (file/redis/null backends with stage-keyed
// entries), [store] (memory/mongo document storage), [ingest] (JSON, CSV,
// XLSX input), [view] (the interaction surface for drag/zoom/pan/hover),
// [observability] (hook registry), [errors] (coded errors), and
// [buildinfo] (version stamping).
//
// # Architecture
//
// The typical data flow through JSON Atlas:
//
//	JSON / CSV / XLSX document
//	         ↓
//	jsontree.Value (ordered, literal-preserving)
//	         ↓
//	graph.Graph (stable node IDs, type colors)
//	         ↓
//	layout.Positions (hierarchical or force)
//	         ↓
//	render artifacts (SVG, PNG, PDF, HTML, JSON)
//
// Each arrow is a cached pipeline stage; identical inputs reuse earlier
// results. The interactive surfaces (the TUI explorer, the served HTML
// viewer) sit on top of the same pipeline.
package pkg
