// Package dynamo provides the shared primitives of the fluid simulation.
//
// The package defines the small value types every other package exchanges:
//
//   - [Bounds]: axis-aligned container extent (x/y in the engine plane, z as depth)
//   - [Ratio]: the frame-wide interpolation ratio, re-set once per rendered frame
//   - [Interpolated]: a (previous, current) pair read through a shared [Ratio]
//   - [Containment]: which basin, if any, currently holds a body
//
// # Invariants
//
// Invariant violations are checked with [Assert], which panics only in builds
// tagged buoysim_debug. Release builds rely on clamping at the call site.
package dynamo
