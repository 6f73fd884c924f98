package attacks

import "github.com/hailam/attackgen/internal/board"

// RookMask returns the relevant occupancy mask for a rook at sq.
// The terminal edge of each ray is excluded, except for the edge the rook
// itself stands on, which the rook's own rank or file runs along.
func RookMask(sq board.Square) board.Bitboard {
	rank, file := sq.Rank(), sq.File()
	mask := board.RankMask[rank] | board.FileMask[file]

	if rank != 0 {
		mask &^= board.Rank1
	}
	if rank != 7 {
		mask &^= board.Rank8
	}
	if file != 0 {
		mask &^= board.FileA
	}
	if file != 7 {
		mask &^= board.FileH
	}

	return mask.Clear(sq)
}

// BishopMask returns the relevant occupancy mask for a bishop at sq.
// Diagonal rays always end on the board's outer ring, so the ring is removed.
func BishopMask(sq board.Square) board.Bitboard {
	return BishopAttacks(sq, board.Empty) &^ board.Edges
}
