// Package viz draws a running servo loop in the terminal with Bubble Tea.
//
// [Run] shows one experiment live; [RunInteractive] first offers the
// presets of every registered controller.
//
// # Key Bindings
//
//	←/→ h/l  Move the seek position by 16 counts (H/L by 64)
//	r        Toggle the reverse sense, keeping the target in place
//	e        Enable or disable the drive
//	Tab      Select a controller gain, ↑/↓ to change it
//	Space    Pause or resume, s to single step
//	+/-      Cycles per frame
//	t        Cycle color themes
//	?        Show help
package viz
