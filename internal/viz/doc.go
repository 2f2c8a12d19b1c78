// Package viz renders a particle field in the terminal with Bubble Tea.
//
//   - [Canvas]: colour Braille surface; each cell is 2x4 dots and
//     CellWidth x CellHeight pixels of field space
//   - [Model]: interactive program hosting a field.Animator
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	Tab   - Next agent preset
//	M     - Next mode
//	T     - Cycle color themes
//	R     - Restart the field
//	?     - Show help overlay
//	Q     - Quit
//
// Frames are paced by a tea.Tick chain. Each tick flushes the frames the
// animator requested since the last one, so the field advances at most
// once per repaint.
package viz
