package attacks

import "github.com/hailam/attackgen/internal/board"

// Piece describes one piece class the tables are generated for.
type Piece interface {
	Name() string
}

// Slider is a piece whose rays are truncated by blockers.
type Slider struct {
	name       string
	Directions []board.Direction
	mask       func(board.Square) board.Bitboard
}

// Name returns the lowercase piece name.
func (s Slider) Name() string { return s.name }

// Mask returns the relevant occupancy mask for sq.
func (s Slider) Mask(sq board.Square) board.Bitboard { return s.mask(sq) }

// Attacks returns the attack set from sq under blockers.
func (s Slider) Attacks(sq board.Square, blockers board.Bitboard) board.Bitboard {
	return SlidingAttacks(sq, s.Directions, blockers)
}

// Jumper is a piece with a fixed, blocker independent attack set.
type Jumper struct {
	name    string
	Offsets []board.Direction
}

// Name returns the lowercase piece name.
func (j Jumper) Name() string { return j.name }

// Attacks returns the attack set from sq.
func (j Jumper) Attacks(sq board.Square) board.Bitboard {
	return JumpAttacks(sq, j.Offsets)
}

var (
	Rook   = Slider{name: "rook", Directions: board.OrthogonalDirections, mask: RookMask}
	Bishop = Slider{name: "bishop", Directions: board.DiagonalDirections, mask: BishopMask}
	Knight = Jumper{name: "knight", Offsets: board.KnightDirections}
	King   = Jumper{name: "king", Offsets: board.KingDirections}
)

// Sliders and Jumpers list the generated piece classes in output order.
var (
	Sliders = []Slider{Rook, Bishop}
	Jumpers = []Jumper{Knight, King}
)

// Pieces lists every generated piece class, sliders first.
var Pieces = []Piece{Rook, Bishop, Knight, King}
