// Package game holds the entity model and the game state store.
// State is the single mutable root of a run: it owns every entity
// collection plus the last accepted terminal dimensions, and it is
// mutated only through its own methods once per tick.
package game

// MinRows and MinCols are the smallest terminal a tick will render to.
const (
	MinRows = 8
	MinCols = 8
)

// Dimensions is the row/column size of the terminal grid.
type Dimensions struct {
	Rows int
	Cols int
}

// Renderable reports whether a frame can be drawn at this size.
func (d Dimensions) Renderable() bool {
	return d.Rows >= MinRows && d.Cols >= MinCols
}

// SizeQuery reports the current terminal dimensions.
// ok is false when the size could not be determined.
type SizeQuery func() (dims Dimensions, ok bool)

// Player is the player's ship. Position is a row index in [0, rows).
type Player struct {
	Position int
}

// Owner identifies who fired a projectile.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerAlien
)

// String returns a human-readable owner name.
func (o Owner) String() string {
	switch o {
	case OwnerPlayer:
		return "player"
	case OwnerAlien:
		return "alien"
	default:
		return "unknown"
	}
}

// Projectile is a fired shot. It carries no behaviour yet; the cadence
// parameters for it live in the configuration as bullet_time.
type Projectile struct {
	Row   int
	Col   int
	Owner Owner
}

// Alien is an enemy ship. Like Projectile it is a placeholder record;
// enemy_time is reserved for its cadence.
type Alien struct {
	Row int
	Col int
}

// FallingStar is a decorative background glyph drifting down the playfield.
// Col is 1-based; the renderer converts it to a 0-based offset.
type FallingStar struct {
	Row   int
	Col   int
	Glyph rune
}
