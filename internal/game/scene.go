// Package game is a small shooter scene built on entity stores: a scrolling star field,
// the player's ship, enemies, bullets, explosions and a score line.
package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"go-space-shooter/internal/entity"
	"go-space-shooter/internal/logging"
	"go-space-shooter/internal/render"
	"go-space-shooter/internal/sprite"
)

// Tuning, in world pixels and milliseconds.
const (
	starCount       = 64
	playerSpeed     = 0.12
	bulletSpeed     = 0.3
	fireCooldown    = 150
	enemyInterval   = 700
	enemyHealth     = 3
	respawnDelay    = 1500
	highlightDecay  = 1.0 / 120
	hitRadius       = 8
	explosionScale  = 2
	enemyScore      = 100
	textMargin      = 4
	offscreenMargin = 32
)

// Drawer is the part of the renderer the scene needs.
type Drawer interface {
	BeforeFrame()
	Draw(b render.Batch)
}

// Sounds plays loaded sound effects by id.
type Sounds interface {
	Play(id int32, loop bool) error
}

// Input is the player's controls for one frame.
type Input struct {
	Left, Right, Up, Down bool
	Fire                  bool
}

type Options struct {
	WorldWidth, WorldHeight int32
	Seed                    uint64
	Sounds                  Sounds
	// Cues maps "shot" and "explosion" to sound ids.
	Cues map[string]int32
	Log  *zap.Logger
}

type animations struct {
	star, ship, bullet, explosion int32
}

// Scene owns one entity store per draw group. Stores are drawn back to front in the
// order of the groups field.
type Scene struct {
	log    *zap.Logger
	rng    *rand.Rand
	sounds Sounds
	cues   map[string]int32

	world mgl32.Vec2
	panel mgl32.Vec2
	anim  animations

	stars      *entity.Store
	enemies    *entity.Store
	bullets    *entity.Store
	player     *entity.Store
	explosions *entity.Store
	text       *entity.Store
	groups     []*entity.Store

	score        int
	status       string
	fireTimer    float32
	enemyTimer   float32
	respawnTimer float32
}

// NewScene builds the scene from the sprite sheet and the text sheet. The sprite
// sheet must define the star, ship, bullet and explosion animations.
func NewScene(sprites, text *sprite.Sheet, opts Options) (*Scene, error) {
	if opts.WorldWidth <= 0 || opts.WorldHeight <= 0 {
		return nil, fmt.Errorf("game: invalid world size %dx%d", opts.WorldWidth, opts.WorldHeight)
	}
	s := &Scene{
		log:    logging.OrNop(opts.Log),
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		sounds: opts.Sounds,
		cues:   opts.Cues,
		world:  mgl32.Vec2{float32(opts.WorldWidth), float32(opts.WorldHeight)},
		panel:  sprites.PanelDims,
	}
	for name, idx := range map[string]*int32{
		"star":      &s.anim.star,
		"ship":      &s.anim.ship,
		"bullet":    &s.anim.bullet,
		"explosion": &s.anim.explosion,
	} {
		i, ok := sprites.AnimationIndex(name)
		if !ok {
			return nil, fmt.Errorf("game: sheet %s has no %q animation", sprites.Name, name)
		}
		*idx = i
	}

	s.stars = entity.NewStore(sprites)
	s.enemies = entity.NewStore(sprites)
	s.bullets = entity.NewStore(sprites)
	s.player = entity.NewStore(sprites)
	s.explosions = entity.NewStore(sprites)
	s.text = entity.NewStore(text)
	s.groups = []*entity.Store{s.stars, s.enemies, s.bullets, s.player, s.explosions, s.text}

	for range starCount {
		s.spawnStar(s.rng.Float32() * s.world.X())
	}
	s.spawnPlayer()
	return s, nil
}

// SetStatus sets a second text line, e.g. the frame rate.
func (s *Scene) SetStatus(status string) {
	s.status = status
}

func (s *Scene) Score() int {
	return s.score
}

// Frame runs one frame: game logic, animation, compaction, then drawing. Dead entities
// are compacted away before any store reaches the renderer.
func (s *Scene) Frame(elapsed float32, in Input, d Drawer) {
	s.step(elapsed, in)

	for _, g := range s.groups {
		g.AdvanceAll()
	}
	for _, g := range s.groups {
		g.FilterDead()
	}

	d.BeforeFrame()
	for _, g := range s.groups {
		d.Draw(g)
	}
}

func (s *Scene) step(elapsed float32, in Input) {
	s.steerPlayer(elapsed, in)

	s.enemyTimer -= elapsed
	if s.enemyTimer <= 0 {
		s.enemyTimer += enemyInterval
		s.spawnEnemy()
	}
	if s.rng.Float32() < elapsed/100 {
		s.spawnStar(s.world.X())
	}

	for _, g := range s.groups {
		g.Integrate(elapsed)
	}
	s.confinePlayer()

	s.collide()
	s.cull(s.stars)
	s.cull(s.enemies)
	s.cull(s.bullets)

	for i := 0; i < s.enemies.Len(); i++ {
		if h := s.enemies.Highlight(i); h > 0 {
			s.enemies.SetHighlight(i, max(0, h-elapsed*highlightDecay))
		}
	}

	s.text.FromText(fmt.Sprintf("SCORE %06d", s.score), entity.TextOptions{
		Position: mgl32.Vec2{textMargin, s.world.Y() - s.text.Sheet().PanelDims.Y() - textMargin},
		Reset:    true,
	})
	if s.status != "" {
		s.text.FromText(s.status, entity.TextOptions{
			Position:     mgl32.Vec2{textMargin, textMargin},
			Transparency: 0.4,
		})
	}
}

func (s *Scene) steerPlayer(elapsed float32, in Input) {
	if s.player.Len() == 0 {
		s.respawnTimer -= elapsed
		if s.respawnTimer <= 0 {
			s.spawnPlayer()
		}
		return
	}

	var v mgl32.Vec2
	if in.Left {
		v[0] -= playerSpeed
	}
	if in.Right {
		v[0] += playerSpeed
	}
	if in.Up {
		v[1] += playerSpeed
	}
	if in.Down {
		v[1] -= playerSpeed
	}
	s.player.SetVelocity(0, v)

	s.fireTimer -= elapsed
	if in.Fire && s.fireTimer <= 0 {
		s.fireTimer = fireCooldown
		s.bullets.Spawn(entity.SpawnOptions{
			Position:  s.player.Position(0).Add(mgl32.Vec2{s.panel.X() / 2, 0}),
			Velocity:  mgl32.Vec2{bulletSpeed, 0},
			Animation: s.anim.bullet,
		})
		s.play("shot")
	}
}

func (s *Scene) confinePlayer() {
	if s.player.Len() == 0 {
		return
	}
	p := s.player.Position(0)
	p[0] = mgl32.Clamp(p[0], 0, s.world.X()-s.panel.X())
	p[1] = mgl32.Clamp(p[1], 0, s.world.Y()-s.panel.Y())
	s.player.SetPosition(0, p)
}

// collide resolves bullet hits on enemies and enemy hits on the player.
func (s *Scene) collide() {
	for b := 0; b < s.bullets.Len(); b++ {
		bp := s.bullets.Position(b)
		for e := 0; e < s.enemies.Len(); e++ {
			if s.enemies.Dead(e) || !touching(bp, s.enemies.Position(e)) {
				continue
			}
			s.bullets.Kill(b)
			s.hitEnemy(e)
			break
		}
	}

	if s.player.Len() == 0 || s.player.Dead(0) {
		return
	}
	pp := s.player.Position(0)
	for e := 0; e < s.enemies.Len(); e++ {
		if s.enemies.Dead(e) || !touching(pp, s.enemies.Position(e)) {
			continue
		}
		s.enemies.Kill(e)
		s.explode(s.enemies.Position(e))
		s.player.Kill(0)
		s.explode(pp)
		s.respawnTimer = respawnDelay
		s.log.Debug("player destroyed", zap.Int("score", s.score))
		return
	}
}

func (s *Scene) hitEnemy(e int) {
	h := s.enemies.Health(e) - 1
	s.enemies.SetHealth(e, h)
	s.enemies.SetHighlight(e, 1)
	if h > 0 {
		return
	}
	s.enemies.Kill(e)
	s.explode(s.enemies.Position(e))
	s.score += enemyScore
}

func (s *Scene) explode(at mgl32.Vec2) {
	// Center the larger explosion on the destroyed sprite.
	offset := s.panel.Mul((explosionScale - 1) / 2.0)
	s.explosions.Spawn(entity.SpawnOptions{
		Position:  at.Sub(offset),
		Animation: s.anim.explosion,
		Scale:     explosionScale,
	})
	s.play("explosion")
}

// cull kills entities that left the play area.
func (s *Scene) cull(g *entity.Store) {
	for i := 0; i < g.Len(); i++ {
		p := g.Position(i)
		if p.X() < -offscreenMargin || p.X() > s.world.X()+offscreenMargin ||
			p.Y() < -offscreenMargin || p.Y() > s.world.Y()+offscreenMargin {
			g.Kill(i)
		}
	}
}

func (s *Scene) spawnStar(x float32) {
	s.stars.Spawn(entity.SpawnOptions{
		Position:     mgl32.Vec2{x, s.rng.Float32() * s.world.Y()},
		Velocity:     mgl32.Vec2{-(0.01 + s.rng.Float32()*0.04), 0},
		Animation:    s.anim.star,
		Scale:        0.25 + s.rng.Float32()*0.5,
		Transparency: s.rng.Float32() * 0.6,
	})
}

func (s *Scene) spawnEnemy() {
	s.enemies.Spawn(entity.SpawnOptions{
		Position:  mgl32.Vec2{s.world.X(), s.rng.Float32() * (s.world.Y() - s.panel.Y())},
		Velocity:  mgl32.Vec2{-(0.04 + s.rng.Float32()*0.04), 0},
		Animation: s.anim.ship,
		Health:    enemyHealth,
	})
}

func (s *Scene) spawnPlayer() {
	s.player.Clear()
	s.player.Spawn(entity.SpawnOptions{
		Position:  mgl32.Vec2{s.panel.X(), (s.world.Y() - s.panel.Y()) / 2},
		Animation: s.anim.ship,
	})
	s.fireTimer = 0
}

func (s *Scene) play(cue string) {
	if s.sounds == nil {
		return
	}
	id, ok := s.cues[cue]
	if !ok {
		return
	}
	if err := s.sounds.Play(id, false); err != nil {
		s.log.Debug("sound failed", zap.String("cue", cue), zap.Error(err))
	}
}

func touching(a, b mgl32.Vec2) bool {
	return a.Sub(b).Len() < hitRadius
}
