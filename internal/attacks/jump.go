package attacks

import "github.com/hailam/attackgen/internal/board"

// JumpAttacks returns every square reachable from sq by one of the offsets.
// Occupancy is irrelevant for jumping pieces.
func JumpAttacks(sq board.Square, dirs []board.Direction) board.Bitboard {
	var attacks board.Bitboard
	for _, d := range dirs {
		if s, ok := sq.Offset(d); ok {
			attacks |= board.SquareBB(s)
		}
	}
	return attacks
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq board.Square) board.Bitboard {
	return JumpAttacks(sq, board.KnightDirections)
}

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq board.Square) board.Bitboard {
	return JumpAttacks(sq, board.KingDirections)
}
