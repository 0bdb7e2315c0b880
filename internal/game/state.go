package game

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/vovakirdan/term-invaders/internal/core"
)

// DefaultStarGlyph is used when StateOptions carries no glyphs.
const DefaultStarGlyph = '*'

// StateOptions configures the decorative and deterministic parts of a run.
type StateOptions struct {
	StarCount     int    // Target number of falling stars
	StarGlyphs    string // Glyphs picked at random for each new star
	StarFallTicks int    // Stars move one row every N ticks (minimum 1)
	Seed          int64  // RNG seed; 0 means time based
}

// State owns every entity of a run plus the last accepted terminal size.
type State struct {
	dims        Dimensions
	player      Player
	aliens      []Alien
	projectiles []Projectile
	stars       []FallingStar

	opts      StateOptions
	glyphs    []rune
	rng       *rand.Rand
	placed    bool // Player and stars have been placed on a real grid
	tickCount int  // Successful Advance calls
}

// NewState creates an empty state with a zeroed player.
// Entities are placed on the first successful EvaluateState.
func NewState(opts StateOptions) *State {
	if opts.StarFallTicks < 1 {
		opts.StarFallTicks = 1
	}
	if opts.StarCount < 0 {
		opts.StarCount = 0
	}
	glyphs := []rune(opts.StarGlyphs)
	if len(glyphs) == 0 {
		glyphs = []rune{DefaultStarGlyph}
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	return &State{
		aliens:      []Alien{},
		projectiles: []Projectile{},
		stars:       []FallingStar{},
		opts:        opts,
		glyphs:      glyphs,
		rng:         rand.New(rand.NewSource(opts.Seed)),
	}
}

// Init starts a fresh run: every entity is discarded, the player is zeroed
// and the state is evaluated against query so that the player and star
// field are placed on the current grid. When the evaluation fails the state
// stays empty and placement happens on the first later success.
func (s *State) Init(query SizeQuery) error {
	s.dims = Dimensions{}
	s.player = Player{}
	s.aliens = s.aliens[:0]
	s.projectiles = s.projectiles[:0]
	s.stars = s.stars[:0]
	s.placed = false
	s.tickCount = 0
	return s.EvaluateState(query)
}

// EvaluateState refreshes the terminal dimensions from query and validates
// them. On failure the state is left untouched. On the first accepted size
// the player is placed at half the row count and the star field is spawned;
// on later size changes every entity is pulled back inside the grid.
func (s *State) EvaluateState(query SizeQuery) error {
	dims, ok := query()
	if !ok {
		return ErrTerminalQueryFailed
	}
	if !dims.Renderable() {
		return fmt.Errorf("%w: %dx%d (need at least %dx%d)",
			ErrTerminalTooSmall, dims.Cols, dims.Rows, MinCols, MinRows)
	}

	changed := dims != s.dims
	s.dims = dims

	if !s.placed {
		s.player.Position = dims.Rows / 2
		s.SpawnFallingStars(s.opts.StarCount)
		s.placed = true
		return nil
	}

	if changed {
		s.fitToGrid()
	}
	return nil
}

// fitToGrid clamps the player and drops entities outside the current grid.
func (s *State) fitToGrid() {
	rows, cols := s.dims.Rows, s.dims.Cols

	s.player.Position = core.Clamp(s.player.Position, 0, rows-1)

	s.stars = slices.DeleteFunc(s.stars, func(st FallingStar) bool {
		return st.Row >= rows || st.Col >= cols
	})
	s.aliens = slices.DeleteFunc(s.aliens, func(a Alien) bool {
		return a.Row >= rows || a.Col >= cols
	})
	s.projectiles = slices.DeleteFunc(s.projectiles, func(p Projectile) bool {
		return p.Row >= rows || p.Col >= cols
	})
}

// Advance moves the simulation forward by one successful tick. Every
// StarFallTicks ticks each star drops one row; stars that leave the grid
// are replaced by new ones at row 0 so the field keeps its target size.
func (s *State) Advance() {
	if !s.placed {
		return
	}
	s.tickCount++
	if s.tickCount%s.opts.StarFallTicks != 0 {
		return
	}

	for i := range s.stars {
		s.stars[i].Row++
	}
	s.stars = slices.DeleteFunc(s.stars, func(st FallingStar) bool {
		return st.Row >= s.dims.Rows
	})

	if missing := s.opts.StarCount - len(s.stars); missing > 0 {
		s.SpawnFallingStars(missing)
	}
}

// SpawnFallingStars adds up to n stars at row 0, each on a column in
// [1, cols) that no existing star occupies. Columns are drawn from the
// free ones, so a crowded row costs no extra draws. Returns how many were
// added, which is less than n only when the free columns run out.
func (s *State) SpawnFallingStars(n int) int {
	if n <= 0 || s.dims.Cols < 2 {
		return 0
	}

	taken := make(map[int]struct{}, len(s.stars))
	for _, st := range s.stars {
		taken[st.Col] = struct{}{}
	}
	free := make([]int, 0, s.dims.Cols-1)
	for col := 1; col < s.dims.Cols; col++ {
		if _, ok := taken[col]; !ok {
			free = append(free, col)
		}
	}

	spawned := 0
	for spawned < n && len(free) > 0 {
		i := s.rng.Intn(len(free))
		col := free[i]
		free[i] = free[len(free)-1]
		free = free[:len(free)-1]

		s.stars = append(s.stars, FallingStar{
			Row:   0,
			Col:   col,
			Glyph: s.glyphs[s.rng.Intn(len(s.glyphs))],
		})
		spawned++
	}
	return spawned
}

// PlaceScriptedStar appends a star exactly as given, bypassing spawning
// and its column uniqueness check. It exists for scripted scenes such as
// fixed test frames; gameplay only adds stars through SpawnFallingStars.
func (s *State) PlaceScriptedStar(st FallingStar) {
	s.stars = append(s.stars, st)
}

// Dimensions returns the last accepted terminal size.
func (s *State) Dimensions() Dimensions {
	return s.dims
}

// Player returns the player record.
func (s *State) Player() Player {
	return s.player
}

// Aliens returns a copy of the enemy collection in storage order.
func (s *State) Aliens() []Alien {
	return slices.Clone(s.aliens)
}

// Projectiles returns a copy of the projectile collection in storage order.
func (s *State) Projectiles() []Projectile {
	return slices.Clone(s.projectiles)
}

// FallingStars returns a copy of the star collection in storage order.
func (s *State) FallingStars() []FallingStar {
	return slices.Clone(s.stars)
}

// Seed returns the seed the star field RNG was created with.
func (s *State) Seed() int64 {
	return s.opts.Seed
}

// Ticks returns the number of successful Advance calls.
func (s *State) Ticks() int {
	return s.tickCount
}
