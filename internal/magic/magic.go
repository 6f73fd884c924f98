// Package magic builds magic bitboard indexes over generated move databases.
//
// A magic index replaces a square's blocker to attack map with a dense
// array: idx = ((occupied & mask) * magic) >> shift. The multipliers are
// searched with a seeded generator so the same seed always yields the same
// index.
package magic

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/bits"

	"lukechampine.com/frand"

	"github.com/hailam/attackgen/internal/board"
	"github.com/hailam/attackgen/internal/tables"
)

// Entry holds the magic bitboard data for a single square.
type Entry struct {
	Mask   board.Bitboard // Relevant occupancy mask (excludes edges)
	Magic  uint64         // Magic multiplier
	Shift  uint8          // Bits to shift right
	Offset uint32         // Index into the attack array
}

// Table is a magic index over one slider's move database.
type Table struct {
	Piece   string
	Entries [board.NumSquares]Entry
	Slots   []board.Bitboard
}

// DefaultMaxTries bounds the multiplier search per square.
const DefaultMaxTries = 1 << 24

// ErrNoMagic is returned when no multiplier is found within the try budget.
var ErrNoMagic = errors.New("magic: no multiplier found")

// Attacks returns the attack set for sq under the full board occupancy.
func (t *Table) Attacks(sq board.Square, occupied board.Bitboard) board.Bitboard {
	e := &t.Entries[sq]
	idx := (uint64(occupied&e.Mask) * e.Magic) >> e.Shift
	return t.Slots[e.Offset+uint32(idx)]
}

// NewRNG returns a deterministic generator for seed.
func NewRNG(seed uint64, piece string) *frand.RNG {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	copy(key[8:], piece)
	return frand.NewCustom(key[:], 1024, 12)
}

// sparse returns a random number with few set bits; those make good magics.
func sparse(rng *frand.RNG) uint64 {
	return rng.Uint64n(math.MaxUint64) & rng.Uint64n(math.MaxUint64) & rng.Uint64n(math.MaxUint64)
}

// Find searches a multiplier that maps every blocker of st into 2^k slots,
// k being the mask popcount, with no two different attack sets sharing a
// slot. It returns the multiplier and the filled slots.
func Find(st *tables.SquareTable, rng *frand.RNG, maxTries int) (uint64, []board.Bitboard, error) {
	n := st.Mask.PopCount()
	shift := uint(64 - n)
	slots := make([]board.Bitboard, 1<<n)
	epoch := make([]int, 1<<n)

	for try := 1; try <= maxTries; try++ {
		m := sparse(rng)
		if bits.OnesCount64((uint64(st.Mask)*m)&0xFF00000000000000) < 6 {
			continue
		}

		ok := true
		for _, e := range st.Entries {
			idx := (uint64(e.Blocker) * m) >> shift
			if epoch[idx] != try {
				epoch[idx] = try
				slots[idx] = e.Attack
			} else if slots[idx] != e.Attack {
				ok = false
				break
			}
		}
		if ok {
			return m, slots, nil
		}
	}
	return 0, nil, ErrNoMagic
}

// Build finds a multiplier for every square of db.
func Build(db *tables.MoveDatabase, seed uint64, maxTries int) (*Table, error) {
	rng := NewRNG(seed, db.Piece)
	t := &Table{Piece: db.Piece, Slots: make([]board.Bitboard, 0, db.Len())}

	var offset uint32
	for sq := range db.Squares {
		st := &db.Squares[sq]
		m, slots, err := Find(st, rng, maxTries)
		if err != nil {
			return nil, fmt.Errorf("%s %v: %w", db.Piece, board.Square(sq), err)
		}

		t.Entries[sq] = Entry{
			Mask:   st.Mask,
			Magic:  m,
			Shift:  uint8(64 - st.Mask.PopCount()),
			Offset: offset,
		}
		t.Slots = append(t.Slots, slots...)
		offset += uint32(len(slots))
	}
	return t, nil
}
