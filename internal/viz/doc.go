// Package viz provides the terminal presentation of a particle world.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of a running world, paced by wall-clock time
//   - [Canvas]: Braille-based pixel canvas that remembers which group lit each cell
//   - [Recorder]: GIF capture of the world at full colour
//   - Theme selection with 4 built-in colour schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reshuffle positions and relations
//	N     - Single tick while paused
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
//
// # Recording
//
// Recordings are written to plife.gif in the current directory when
// recording is toggled off or the program quits.
package viz
