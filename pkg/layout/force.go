package layout

import (
	"context"
	"math"
	"math/rand"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
)

// Force simulation defaults.
const (
	DefaultIterationCap = 300
	DefaultThreshold    = 0.01
	DefaultSeed         = uint64(42)

	defaultSpringLength   = 120.0
	defaultSpringStrength = 0.08
	defaultRepulsion      = 25000.0
	defaultGravity        = 0.01
	defaultDamping        = 0.85
	defaultMaxStep        = 40.0
)

// ForceOptions configures the physics simulation. Zero values are
// replaced with defaults.
type ForceOptions struct {
	// IterationCap bounds the relaxation loop; hitting it is best
	// effort, not an error.
	IterationCap int

	// Threshold is the per-iteration maximum displacement below which
	// the simulation counts as converged.
	Threshold float64

	// Seed drives the deterministic jitter used for initial placement.
	Seed uint64

	SpringLength   float64 // rest length of edge springs
	SpringStrength float64 // spring force factor
	Repulsion      float64 // pairwise node repulsion factor
	Gravity        float64 // pull toward the origin, keeps parts together
}

func (o *ForceOptions) setDefaults() {
	if o.IterationCap == 0 {
		o.IterationCap = DefaultIterationCap
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.SpringLength == 0 {
		o.SpringLength = defaultSpringLength
	}
	if o.SpringStrength == 0 {
		o.SpringStrength = defaultSpringStrength
	}
	if o.Repulsion == 0 {
		o.Repulsion = defaultRepulsion
	}
	if o.Gravity == 0 {
		o.Gravity = defaultGravity
	}
}

// Force is a force-directed engine: nodes repel each other, edges act as
// springs, and the system relaxes until quiet. Runs are deterministic for
// a given graph, previous positions, and seed.
type Force struct {
	opts ForceOptions
}

// NewForce creates a force engine with the given options.
func NewForce(opts ForceOptions) *Force {
	opts.setDefaults()
	return &Force{opts: opts}
}

// Name returns "force".
func (f *Force) Name() string { return EngineForce }

// Layout runs the relaxation loop. The state machine has a single
// terminal transition out of Running:
//
//	Converged            max displacement fell below the threshold
//	Superseded           ctx was cancelled (a newer document arrived)
//	IterationCapReached  best effort after the cap
//
// Pinned nodes exert forces but never move. Unpinned nodes present in
// previous start from their old position; new nodes seed near their
// parent with deterministic jitter.
func (f *Force) Layout(ctx context.Context, g *graph.Graph, previous Positions) Result {
	pos := f.seed(g, previous)
	if g.NodeCount() <= 1 {
		carryPinned(pos, previous)
		return Result{Positions: pos, State: StateConverged}
	}

	ids := make([]string, g.NodeCount())
	for i := range g.Nodes {
		ids[i] = g.Nodes[i].ID
	}
	pinned := make(map[string]bool, len(previous))
	for id, p := range previous {
		if p.Pinned {
			pinned[id] = true
		}
	}

	state := StateRunning
	iter := 0
	for state == StateRunning {
		select {
		case <-ctx.Done():
			state = StateSuperseded
			continue
		default:
		}
		if iter >= f.opts.IterationCap {
			state = StateIterationCapReached
			continue
		}

		maxDisp := f.step(g, ids, pos, pinned)
		iter++
		if maxDisp < f.opts.Threshold {
			state = StateConverged
		}
	}

	carryPinned(pos, previous)
	return Result{Positions: pos, State: state, Iterations: iter}
}

// step advances the simulation one tick and returns the largest node
// displacement.
func (f *Force) step(g *graph.Graph, ids []string, pos Positions, pinned map[string]bool) float64 {
	fx := make(map[string]float64, len(ids))
	fy := make(map[string]float64, len(ids))

	// Pairwise repulsion.
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := pos[ids[i]], pos[ids[j]]
			dx, dy := a.X-b.X, a.Y-b.Y
			distSq := dx*dx + dy*dy
			if distSq < 0.01 {
				// Coincident nodes get a deterministic nudge apart.
				dx, dy = 0.1*float64(i-j), 0.1
				distSq = dx*dx + dy*dy
			}
			force := f.opts.Repulsion / distSq
			dist := math.Sqrt(distSq)
			fx[ids[i]] += force * dx / dist
			fy[ids[i]] += force * dy / dist
			fx[ids[j]] -= force * dx / dist
			fy[ids[j]] -= force * dy / dist
		}
	}

	// Edge springs.
	for _, e := range g.Edges {
		a, b := pos[e.From], pos[e.To]
		dx, dy := b.X-a.X, b.Y-a.Y
		dist := math.Hypot(dx, dy)
		if dist < 0.1 {
			dist = 0.1
		}
		force := f.opts.SpringStrength * (dist - f.opts.SpringLength)
		fx[e.From] += force * dx / dist
		fy[e.From] += force * dy / dist
		fx[e.To] -= force * dx / dist
		fy[e.To] -= force * dy / dist
	}

	// Gravity toward the origin.
	for _, id := range ids {
		p := pos[id]
		fx[id] -= p.X * f.opts.Gravity
		fy[id] -= p.Y * f.opts.Gravity
	}

	maxDisp := 0.0
	for _, id := range ids {
		if pinned[id] {
			continue
		}
		dx := clamp(fx[id]*defaultDamping, defaultMaxStep)
		dy := clamp(fy[id]*defaultDamping, defaultMaxStep)
		p := pos[id]
		p.X += dx
		p.Y += dy
		pos[id] = p
		if d := math.Hypot(dx, dy); d > maxDisp {
			maxDisp = d
		}
	}
	return maxDisp
}

// seed builds the initial position map: previous positions where they
// exist, parent-adjacent jittered spots for new nodes, depth-scaled rings
// for a cold start.
func (f *Force) seed(g *graph.Graph, previous Positions) Positions {
	rng := rand.New(rand.NewSource(int64(f.opts.Seed)))
	pos := make(Positions, g.NodeCount())

	// Nodes slice is in depth-first order, so a parent is always placed
	// before its children.
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if prev, ok := previous[n.ID]; ok {
			pos[n.ID] = Position{X: prev.X, Y: prev.Y, Pinned: prev.Pinned}
			continue
		}
		if parentID, ok := g.ParentID(n.ID); ok {
			parent := pos[parentID]
			pos[n.ID] = Position{
				X: parent.X + (rng.Float64()-0.5)*f.opts.SpringLength,
				Y: parent.Y + f.opts.SpringLength*0.5 + rng.Float64()*f.opts.SpringLength*0.5,
			}
			continue
		}
		pos[n.ID] = Position{} // root anchors the origin
	}
	return pos
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
