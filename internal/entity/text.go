package entity

import (
	"github.com/go-gl/mathgl/mgl32"

	"go-space-shooter/internal/constants"
	"go-space-shooter/internal/sprite"
)

type TextOptions struct {
	Position     mgl32.Vec2
	Scale        float32 // <= 0 means 1
	Transparency float32
	Reset        bool // clear the store first
}

// FromText spawns one entity per character that the sheet has a glyph for. Characters
// without a glyph still take up their slot width so spacing stays uniform.
func (s *Store) FromText(text string, opts TextOptions) {
	if opts.Reset {
		s.Clear()
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	advance := s.sheet.PanelDims.X() * scale * constants.TextSpacingScale

	i := 0
	for _, r := range text {
		if s.count == constants.DrawListMax {
			return
		}
		anim := s.sheet.CharToAnimation(r)
		if anim != sprite.NoGlyph {
			s.Spawn(SpawnOptions{
				Position:     mgl32.Vec2{opts.Position.X() + float32(i)*advance, opts.Position.Y()},
				Scale:        scale,
				Transparency: opts.Transparency,
				Animation:    anim,
			})
		}
		i++
	}
}
