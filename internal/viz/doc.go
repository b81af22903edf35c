// Package viz is the terminal front-end: a Bubble Tea program that hosts one
// scene at a time on a braille canvas.
//
//   - [Model]: the live view for a running scene
//   - [Menu]: scene and preset picker shown before the live view
//   - [Canvas]: braille dot canvas the scenes draw on
//
// # Key Bindings
//
//	Arrows/HJKL - Move the spawn cursor
//	Space/Enter - Spawn at the cursor (water) or move the emitter (particles)
//	+/-         - Grow/shrink the next body's radius
//	]/[         - Heavier/lighter next body
//	S           - Cycle emitter shape
//	1/2         - Switch to water/particles
//	P           - Pause/Resume
//	R           - Reset the scene
//	T           - Cycle color themes
//	G           - Toggle GIF recording
//	?           - Show help overlay
//
// # Recording
//
// G starts capturing canvas frames; pressing it again writes them to
// splash.gif in the current directory.
package viz
