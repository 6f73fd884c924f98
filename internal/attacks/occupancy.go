package attacks

import "github.com/hailam/attackgen/internal/board"

// MaxRelevantBits bounds the popcount of any relevant occupancy mask.
const MaxRelevantBits = 12

// Occupancy maps an index to a subset of mask: bit i of index selects the
// i-th lowest set square of mask.
func Occupancy(index int, mask board.Bitboard) board.Bitboard {
	var occ board.Bitboard
	for i := 0; mask != 0; i++ {
		sq := mask.PopLSB()
		if index&(1<<i) != 0 {
			occ |= board.SquareBB(sq)
		}
	}
	return occ
}

// Subsets enumerates all 2^popcount(mask) blocker configurations of mask
// in index order. The first is empty and the last is mask itself.
func Subsets(mask board.Bitboard) []board.Bitboard {
	n := 1 << mask.PopCount()
	subsets := make([]board.Bitboard, n)
	for i := 0; i < n; i++ {
		subsets[i] = Occupancy(i, mask)
	}
	return subsets
}
