package entity

import "go-space-shooter/internal/sprite"

// UpdatePanel copies the panel of entity i's current frame into the panel column.
func (s *Store) UpdatePanel(i int) {
	frame := s.sheet.Animations[s.animation[i]].Frames[s.tick[i]]
	s.panel[i*2] = frame.X()
	s.panel[i*2+1] = frame.Y()
}

// SetAnimation restarts entity i on animation. Setting the animation it already plays
// does nothing, so callers may set it every frame.
func (s *Store) SetAnimation(i int, animation int32) {
	if s.animation[i] == animation {
		return
	}

	s.animation[i] = animation
	s.tick[i] = 0
	s.UpdatePanel(i)
}

// AdvanceAll moves every live entity one frame forward. Entities whose Kill animation
// ends are marked dead and keep their old panel; FilterDead removes them before drawing.
func (s *Store) AdvanceAll() {
	for i := 0; i < s.count; i++ {
		anim := &s.sheet.Animations[s.animation[i]]
		s.tick[i]++
		if s.tick[i] == anim.NumFrames() {
			if anim.End == sprite.Kill {
				s.dead[i] = true
				continue
			}
			s.tick[i] = 0
		}

		s.UpdatePanel(i)
	}
}
