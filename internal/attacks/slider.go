package attacks

import "github.com/hailam/attackgen/internal/board"

// SlidingAttacks casts a ray from sq along each direction. Every stepped
// square is attacked; a ray stops after the first occupied square or at the
// board edge.
func SlidingAttacks(sq board.Square, dirs []board.Direction, blockers board.Bitboard) board.Bitboard {
	var attacks board.Bitboard
	for _, d := range dirs {
		for s, ok := sq.Offset(d); ok; s, ok = s.Offset(d) {
			attacks |= board.SquareBB(s)
			if blockers.IsSet(s) {
				break
			}
		}
	}
	return attacks
}

// RookAttacks returns the rook attack set from sq under blockers.
func RookAttacks(sq board.Square, blockers board.Bitboard) board.Bitboard {
	return SlidingAttacks(sq, board.OrthogonalDirections, blockers)
}

// BishopAttacks returns the bishop attack set from sq under blockers.
func BishopAttacks(sq board.Square, blockers board.Bitboard) board.Bitboard {
	return SlidingAttacks(sq, board.DiagonalDirections, blockers)
}
