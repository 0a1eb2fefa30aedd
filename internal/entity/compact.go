package entity

// FilterDead removes dead entities by moving the last live entity into each dead slot.
// The scan runs from the end so a slot refilled from the tail is never one the scan
// still has to visit. Returns the number of entities removed.
func (s *Store) FilterDead() int {
	removed := 0
	for i := s.count - 1; i >= 0; i-- {
		if !s.dead[i] {
			continue
		}
		last := s.count - 1
		s.moveSlot(i, last)
		s.count--
		removed++
	}
	return removed
}

func (s *Store) moveSlot(dst, src int) {
	if dst == src {
		return
	}
	s.position[dst*2] = s.position[src*2]
	s.position[dst*2+1] = s.position[src*2+1]
	s.velocity[dst*2] = s.velocity[src*2]
	s.velocity[dst*2+1] = s.velocity[src*2+1]
	s.panel[dst*2] = s.panel[src*2]
	s.panel[dst*2+1] = s.panel[src*2+1]
	s.animation[dst] = s.animation[src]
	s.tick[dst] = s.tick[src]
	s.scale[dst] = s.scale[src]
	s.alpha[dst] = s.alpha[src]
	s.health[dst] = s.health[src]
	s.highlight[dst] = s.highlight[src]
	s.dead[dst] = s.dead[src]
}
