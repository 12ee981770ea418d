// Package viz draws a running fluid scene in the terminal.
//
// [Model] is a Bubble Tea program: the scene advances one frame per tick
// and is drawn on a Braille [Canvas], with the pool height plotted beside
// it and per-body buoyancy and drag listed underneath.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scene
//	T     - Cycle color themes
//	?     - Show help overlay
//	[]    - Step back/forward one frame
package viz
