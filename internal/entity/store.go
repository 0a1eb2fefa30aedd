// Package entity holds game objects as parallel arrays so that the renderer can upload
// whole columns at once. A Store has a fixed capacity and stays dense: live entities
// occupy indices [0, Len()). Indices are not stable across FilterDead.
package entity

import (
	"github.com/go-gl/mathgl/mgl32"

	"go-space-shooter/internal/constants"
	"go-space-shooter/internal/sprite"
)

// Store is one group of entities drawn from a single sprite sheet.
type Store struct {
	sheet *sprite.Sheet
	count int

	position  []float32 // x, y
	velocity  []float32 // x, y
	panel     []float32 // column, row of the current frame
	scale     []float32
	alpha     []float32
	highlight []float32
	health    []int32
	animation []int32
	tick      []int32
	dead      []bool
}

// NewStore allocates every column at full capacity.
func NewStore(sheet *sprite.Sheet) *Store {
	const n = constants.DrawListMax
	return &Store{
		sheet:     sheet,
		position:  make([]float32, n*2),
		velocity:  make([]float32, n*2),
		panel:     make([]float32, n*2),
		scale:     make([]float32, n),
		alpha:     make([]float32, n),
		highlight: make([]float32, n),
		health:    make([]int32, n),
		animation: make([]int32, n),
		tick:      make([]int32, n),
		dead:      make([]bool, n),
	}
}

// SpawnOptions are the initial values of a new entity.
type SpawnOptions struct {
	Position     mgl32.Vec2
	Velocity     mgl32.Vec2 // pixels per millisecond
	Animation    int32
	Health       int32
	Scale        float32 // <= 0 means 1
	Transparency float32 // 0 is fully opaque
	Highlight    float32
}

// Spawn appends an entity. A full store drops the entity and returns false.
func (s *Store) Spawn(opts SpawnOptions) bool {
	if s.count == constants.DrawListMax {
		return false
	}

	i := s.count
	s.position[i*2] = opts.Position.X()
	s.position[i*2+1] = opts.Position.Y()
	s.velocity[i*2] = opts.Velocity.X()
	s.velocity[i*2+1] = opts.Velocity.Y()
	s.animation[i] = opts.Animation
	s.tick[i] = 0
	s.scale[i] = 1
	if opts.Scale > 0 {
		s.scale[i] = opts.Scale
	}
	s.alpha[i] = 1 - opts.Transparency
	s.health[i] = opts.Health
	s.highlight[i] = opts.Highlight
	s.dead[i] = false

	if len(s.sheet.Animations) > 0 {
		s.UpdatePanel(i)
	}

	s.count++
	return true
}

// Integrate moves every live entity by its velocity over elapsed milliseconds.
func (s *Store) Integrate(elapsed float32) {
	n := s.count * 2
	for i := 0; i < n; i++ {
		s.position[i] += s.velocity[i] * elapsed
	}
}

// Clear drops every entity.
func (s *Store) Clear() {
	s.count = 0
}

func (s *Store) Len() int { return s.count }
func (s *Store) Cap() int { return constants.DrawListMax }
func (s *Store) Sheet() *sprite.Sheet { return s.sheet }
func (s *Store) Dead(i int) bool { return s.dead[i] }
func (s *Store) Kill(i int) { s.dead[i] = true }
func (s *Store) Health(i int) int32 { return s.health[i] }
func (s *Store) SetHealth(i int, h int32) { s.health[i] = h }
func (s *Store) Scale(i int) float32 { return s.scale[i] }
func (s *Store) Alpha(i int) float32 { return s.alpha[i] }
func (s *Store) Animation(i int) int32 { return s.animation[i] }
func (s *Store) Tick(i int) int32 { return s.tick[i] }
func (s *Store) Highlight(i int) float32 { return s.highlight[i] }

func (s *Store) SetAlpha(i int, a float32) { s.alpha[i] = a }
func (s *Store) SetHighlight(i int, h float32) { s.highlight[i] = h }

func (s *Store) Position(i int) mgl32.Vec2 {
	return mgl32.Vec2{s.position[i*2], s.position[i*2+1]}
}

func (s *Store) SetPosition(i int, p mgl32.Vec2) {
	s.position[i*2] = p.X()
	s.position[i*2+1] = p.Y()
}

func (s *Store) Velocity(i int) mgl32.Vec2 {
	return mgl32.Vec2{s.velocity[i*2], s.velocity[i*2+1]}
}

func (s *Store) SetVelocity(i int, v mgl32.Vec2) {
	s.velocity[i*2] = v.X()
	s.velocity[i*2+1] = v.Y()
}

// Panel is the cached panel index of the entity's current frame.
func (s *Store) Panel(i int) mgl32.Vec2 {
	return mgl32.Vec2{s.panel[i*2], s.panel[i*2+1]}
}

// Live columns, as uploaded by the renderer. The slices alias the store and are only
// valid until the next mutation.

func (s *Store) Positions() []float32 { return s.position[:s.count*2] }
func (s *Store) Panels() []float32 { return s.panel[:s.count*2] }
func (s *Store) Scales() []float32 { return s.scale[:s.count] }
func (s *Store) Alphas() []float32 { return s.alpha[:s.count] }
func (s *Store) Highlights() []float32 { return s.highlight[:s.count] }
