// Package layout implements the force-directed layout engine.
//
// Engine.Step advances the simulation by one frame. Only devices with at
// least one link move; isolated devices keep their position.
//
// A step runs four passes in order, each completing before the next:
//
//   - repulsion between every pair of linked devices (inverse square)
//   - a damped spring along every link, pulling toward RestLength
//   - a damped spring pulling the centroid of linked devices toward the
//     viewport center, accumulated into a collective velocity
//   - integration: position += velocity + collective velocity
//
// Forces read positions from before the step (explicit Euler). The
// simulation is intentionally not reproducible across runs.
package layout
