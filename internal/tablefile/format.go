// Package tablefile reads and writes the binary attack table files.
//
// All integers are little-endian. Slider files hold, for squares 0..63 in
// order, a uint32 entry count followed by that many (uint64 blocker,
// uint64 attack) pairs. Scalar files hold exactly 64 uint64 values and no
// header.
package tablefile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hailam/attackgen/internal/attacks"
	"github.com/hailam/attackgen/internal/board"
	"github.com/hailam/attackgen/internal/tables"
)

// Output file names.
const (
	RookMovesFile   = "rook_moves.bin"
	BishopMovesFile = "bishop_moves.bin"
	KnightMovesFile = "knight_moves.bin"
	KingMovesFile   = "king_moves.bin"
	RookMasksFile   = "horizontal_vertical_masks.bin"
	BishopMasksFile = "diagonal_masks.bin"
)

var (
	ErrTruncated    = errors.New("tablefile: truncated data")
	ErrTrailingData = errors.New("tablefile: trailing data")
	ErrEntryCount   = errors.New("tablefile: entry count out of range")
)

var order = binary.LittleEndian

const maxEntries = 1 << attacks.MaxRelevantBits

// WriteMoveDatabase writes a slider database in square order. Entries keep
// their in-memory order.
func WriteMoveDatabase(w io.Writer, db *tables.MoveDatabase) error {
	bw := bufio.NewWriter(w)
	var rec [16]byte
	for sq := range db.Squares {
		entries := db.Squares[sq].Entries
		var count [4]byte
		order.PutUint32(count[:], uint32(len(entries)))
		if _, err := bw.Write(count[:]); err != nil {
			return err
		}
		for _, e := range entries {
			order.PutUint64(rec[0:8], uint64(e.Blocker))
			order.PutUint64(rec[8:16], uint64(e.Attack))
			if _, err := bw.Write(rec[:]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadMoveDatabase reads a slider database. The mask of each square is the
// union of its blockers, which always includes the full mask itself.
func ReadMoveDatabase(r io.Reader, piece string) (*tables.MoveDatabase, error) {
	br := bufio.NewReader(r)
	db := &tables.MoveDatabase{Piece: piece}

	var rec [16]byte
	for sq := range db.Squares {
		if _, err := io.ReadFull(br, rec[:4]); err != nil {
			return nil, truncated(err, "square %d count", sq)
		}
		n := order.Uint32(rec[:4])
		if n == 0 || n > maxEntries {
			return nil, fmt.Errorf("%w: square %d has %d entries", ErrEntryCount, sq, n)
		}

		entries := make([]tables.Entry, n)
		var mask board.Bitboard
		for i := range entries {
			if _, err := io.ReadFull(br, rec[:]); err != nil {
				return nil, truncated(err, "square %d entry %d", sq, i)
			}
			entries[i] = tables.Entry{
				Blocker: board.Bitboard(order.Uint64(rec[0:8])),
				Attack:  board.Bitboard(order.Uint64(rec[8:16])),
			}
			mask |= entries[i].Blocker
		}
		db.Squares[sq] = tables.NewSquareTable(mask, entries)
	}

	if err := expectEOF(br); err != nil {
		return nil, err
	}
	return db, nil
}

// WriteBoards writes 64 bitboards in square order.
func WriteBoards(w io.Writer, boards *[board.NumSquares]board.Bitboard) error {
	var buf [board.NumSquares * 8]byte
	for sq, b := range boards {
		order.PutUint64(buf[sq*8:], uint64(b))
	}
	_, err := w.Write(buf[:])
	return err
}

// ReadBoards reads exactly 64 bitboards.
func ReadBoards(r io.Reader) ([board.NumSquares]board.Bitboard, error) {
	var boards [board.NumSquares]board.Bitboard
	var buf [board.NumSquares * 8]byte

	br := bufio.NewReader(r)
	if _, err := io.ReadFull(br, buf[:]); err != nil {
		return boards, truncated(err, "scalar table")
	}
	for sq := range boards {
		boards[sq] = board.Bitboard(order.Uint64(buf[sq*8:]))
	}
	return boards, expectEOF(br)
}

func truncated(err error, format string, args ...any) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", ErrTruncated, fmt.Sprintf(format, args...))
	}
	return err
}

func expectEOF(br *bufio.Reader) error {
	if _, err := br.ReadByte(); err == nil {
		return ErrTrailingData
	} else if err != io.EOF {
		return err
	}
	return nil
}
