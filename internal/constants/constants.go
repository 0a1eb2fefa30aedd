// Package constants holds values shared by the simulation, the renderer and the host.
package constants

import "time"

// DrawListMax is the capacity of every entity store and of every per-instance GPU buffer.
const DrawListMax = 4096

// Frame timing. The host holds each frame to at least MinFrameTime and caps the delta
// handed to the simulation at MaxFrameTime.
const (
	MinFrameTime = 3 * time.Millisecond
	MaxFrameTime = 50 * time.Millisecond
)

// Window
const (
	DefaultWindowedWidth  = 1200
	DefaultWindowedHeight = 600
	MSAASamples           = 4
)

// TextSpacingScale is the advance between glyphs as a fraction of the scaled panel width.
const TextSpacingScale = 0.6
