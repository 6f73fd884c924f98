// Package tables assembles per-square attack data into the move databases
// and jump tables consumed by the serializer.
package tables

import (
	"fmt"

	"github.com/hailam/attackgen/internal/board"
)

// Entry pairs one blocker configuration with the attack set it produces.
type Entry struct {
	Blocker board.Bitboard
	Attack  board.Bitboard
}

// SquareTable holds every blocker configuration for one square.
type SquareTable struct {
	Mask    board.Bitboard
	Entries []Entry
	index   map[board.Bitboard]board.Bitboard
}

// NewSquareTable wraps entries with a lookup index. Duplicate blockers are
// kept in Entries but only the first is indexed; Verify reports them.
func NewSquareTable(mask board.Bitboard, entries []Entry) SquareTable {
	index := make(map[board.Bitboard]board.Bitboard, len(entries))
	for _, e := range entries {
		if _, ok := index[e.Blocker]; !ok {
			index[e.Blocker] = e.Attack
		}
	}
	return SquareTable{Mask: mask, Entries: entries, index: index}
}

// Lookup returns the attack set stored for blocker.
func (st *SquareTable) Lookup(blocker board.Bitboard) (board.Bitboard, bool) {
	a, ok := st.index[blocker]
	return a, ok
}

// Map returns the blocker to attack mapping of the square.
func (st *SquareTable) Map() map[board.Bitboard]board.Bitboard {
	m := make(map[board.Bitboard]board.Bitboard, len(st.index))
	for k, v := range st.index {
		m[k] = v
	}
	return m
}

// MoveDatabase is the complete blocker table of a sliding piece.
type MoveDatabase struct {
	Piece   string
	Squares [board.NumSquares]SquareTable
}

// Len returns the total number of entries over all squares.
func (db *MoveDatabase) Len() int {
	n := 0
	for i := range db.Squares {
		n += len(db.Squares[i].Entries)
	}
	return n
}

// Masks returns the relevant occupancy masks of the database.
func (db *MoveDatabase) Masks() *MaskTable {
	mt := &MaskTable{Piece: db.Piece}
	for sq := range db.Squares {
		mt.Masks[sq] = db.Squares[sq].Mask
	}
	return mt
}

// Verify checks the database against its masks.
func (db *MoveDatabase) Verify() error {
	for sq := range db.Squares {
		if err := verifySquare(db.Piece, board.Square(sq), &db.Squares[sq]); err != nil {
			return err
		}
	}
	return nil
}

// JumpTable is the fixed attack set of a jumping piece on every square.
type JumpTable struct {
	Piece   string
	Attacks [board.NumSquares]board.Bitboard
}

// MaskTable is the relevant occupancy mask of a sliding piece on every square.
type MaskTable struct {
	Piece string
	Masks [board.NumSquares]board.Bitboard
}

// Set groups every generated artifact.
type Set struct {
	Rook        *MoveDatabase
	Bishop      *MoveDatabase
	Knight      *JumpTable
	King        *JumpTable
	RookMasks   *MaskTable
	BishopMasks *MaskTable
}

// InvariantError reports a table that does not match its mask. It means the
// mask or attack code is wrong, never bad input.
type InvariantError struct {
	Piece  string
	Square board.Square
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s table invariant violated on %v: %s", e.Piece, e.Square, e.Reason)
}

func verifySquare(piece string, sq board.Square, st *SquareTable) error {
	fail := func(format string, args ...any) error {
		return &InvariantError{Piece: piece, Square: sq, Reason: fmt.Sprintf(format, args...)}
	}

	if st.Mask.IsSet(sq) {
		return fail("mask contains origin")
	}
	want := 1 << st.Mask.PopCount()
	if len(st.Entries) != want {
		return fail("%d entries, want %d", len(st.Entries), want)
	}
	if len(st.index) != len(st.Entries) {
		return fail("%d duplicate blocker keys", len(st.Entries)-len(st.index))
	}
	for _, e := range st.Entries {
		if !e.Blocker.SubsetOf(st.Mask) {
			return fail("blocker %#x outside mask", uint64(e.Blocker))
		}
		if e.Attack.IsSet(sq) {
			return fail("attack set for blocker %#x contains origin", uint64(e.Blocker))
		}
		if st.index[e.Blocker] != e.Attack {
			return fail("blocker %#x stored with two attack sets", uint64(e.Blocker))
		}
	}
	return nil
}
