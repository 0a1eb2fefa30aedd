// Package sprite describes sprite sheets: the texture, the pixel size of one panel and
// the animations that walk over panels. Sheets are built once at startup and are
// read-only afterwards.
package sprite

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrBadSheet is returned for sheet definitions that cannot be drawn.
var ErrBadSheet = errors.New("sprite: bad sheet")

// NoGlyph is returned by CharToAnimation for characters without a panel.
const NoGlyph = -1

// EndBehavior decides what happens when an animation runs past its last frame.
type EndBehavior int

const (
	Loop EndBehavior = iota
	Kill             // mark the entity dead so it is removed at the end of the frame
)

func (b EndBehavior) String() string {
	switch b {
	case Loop:
		return "loop"
	case Kill:
		return "kill"
	default:
		return fmt.Sprintf("EndBehavior(%d)", int(b))
	}
}

// UnmarshalText accepts "loop" (or empty) and "kill".
func (b *EndBehavior) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "loop":
		*b = Loop
	case "kill":
		*b = Kill
	default:
		return fmt.Errorf("%w: unknown end behavior %q", ErrBadSheet, text)
	}
	return nil
}

// Animation is an ordered list of panel indices (column, row) in the sheet.
type Animation struct {
	Name   string
	Frames []mgl32.Vec2
	End    EndBehavior
}

func (a *Animation) NumFrames() int32 {
	return int32(len(a.Frames))
}

// GlyphMap maps a character to the animation that draws it.
type GlyphMap map[rune]int32

// Sheet is one texture plus the animations defined on it.
type Sheet struct {
	Name       string
	Texture    uint32
	PanelDims  mgl32.Vec2 // pixels
	SheetDims  mgl32.Vec2 // pixels
	Animations []Animation
	Glyphs     GlyphMap
}

// CharToAnimation returns the animation index for r, or NoGlyph.
func (s *Sheet) CharToAnimation(r rune) int32 {
	if idx, ok := s.Glyphs[r]; ok {
		return idx
	}
	return NoGlyph
}

// AnimationIndex looks an animation up by name.
func (s *Sheet) AnimationIndex(name string) (int32, bool) {
	for i := range s.Animations {
		if s.Animations[i].Name == name {
			return int32(i), true
		}
	}
	return 0, false
}

// Validate checks that every frame lies inside the sheet.
func (s *Sheet) Validate() error {
	if s.PanelDims.X() <= 0 || s.PanelDims.Y() <= 0 {
		return fmt.Errorf("%w: %s: panel size %v", ErrBadSheet, s.Name, s.PanelDims)
	}
	cols := int(s.SheetDims.X() / s.PanelDims.X())
	rows := int(s.SheetDims.Y() / s.PanelDims.Y())
	for i, anim := range s.Animations {
		if len(anim.Frames) == 0 {
			return fmt.Errorf("%w: %s: animation %d (%s) has no frames", ErrBadSheet, s.Name, i, anim.Name)
		}
		for _, f := range anim.Frames {
			if f.X() < 0 || f.Y() < 0 || int(f.X()) >= cols || int(f.Y()) >= rows {
				return fmt.Errorf("%w: %s: animation %s frame %v outside %dx%d panels", ErrBadSheet, s.Name, anim.Name, f, cols, rows)
			}
		}
	}
	for r, idx := range s.Glyphs {
		if idx < 0 || int(idx) >= len(s.Animations) {
			return fmt.Errorf("%w: %s: glyph %q maps to missing animation %d", ErrBadSheet, s.Name, r, idx)
		}
	}
	return nil
}

// TextureCreator uploads RGBA pixels and returns the texture handle.
type TextureCreator interface {
	CreateTexture(pix []byte, width, height int32) uint32
}
