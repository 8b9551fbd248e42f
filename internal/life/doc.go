// Package life implements the particle-interaction kernel.
//
// A [World] owns a fixed set of groups of point particles and a square
// relation table indexed by (source group, target group):
//
//   - [RelationEntry]: sign, gravity coefficient and effect radius for one ordered pair
//   - [Store]: particles grouped by category, mutated in place
//   - [Boundary]: wrap, clamp or mirror constraint applied after integration
//   - [Accumulate]: windowed pairwise force for one group against another
//   - [World.Step]: one full tick (forces, friction, integration, boundary)
//
// # Example
//
//	w, err := life.New(cfg, 42)
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 100; i++ {
//	    w.Step()
//	}
//	for s := range w.Snapshot().All() {
//	    draw(s.Pos, s.Color)
//	}
//
// # Thread Safety
//
// A World is NOT safe for concurrent use. Internally a tick may be spread
// over a [compute.Backend], partitioned by group so that no two workers ever
// write the same particle. Snapshots are deep copies and may be handed to
// other goroutines freely.
package life
