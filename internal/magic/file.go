package magic

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hailam/attackgen/internal/board"
	"github.com/hailam/attackgen/internal/tablefile"
)

// Output file names.
const (
	RookMagicsFile   = "rook_magics.bin"
	BishopMagicsFile = "bishop_magics.bin"
)

// FileName returns the output file name of a piece's magic table.
func FileName(piece string) string {
	return piece + "_magics.bin"
}

// ErrBadShift is returned by Read when a record's shift disagrees with its
// mask. Such a record would index outside the slot array.
var ErrBadShift = errors.New("magic: shift does not match mask")

// Write encodes t: 64 records of (uint64 mask, uint64 magic, uint32 shift,
// uint32 offset), then a uint32 slot count and the slots, little-endian.
func Write(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	var rec [24]byte
	for _, e := range t.Entries {
		binary.LittleEndian.PutUint64(rec[0:8], uint64(e.Mask))
		binary.LittleEndian.PutUint64(rec[8:16], e.Magic)
		binary.LittleEndian.PutUint32(rec[16:20], uint32(e.Shift))
		binary.LittleEndian.PutUint32(rec[20:24], e.Offset)
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}

	binary.LittleEndian.PutUint32(rec[:4], uint32(len(t.Slots)))
	if _, err := bw.Write(rec[:4]); err != nil {
		return err
	}
	for _, s := range t.Slots {
		binary.LittleEndian.PutUint64(rec[:8], uint64(s))
		if _, err := bw.Write(rec[:8]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read decodes a table written by Write.
func Read(r io.Reader, piece string) (*Table, error) {
	br := bufio.NewReader(r)
	t := &Table{Piece: piece}

	var rec [24]byte
	for sq := range t.Entries {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			return nil, fmt.Errorf("%w: magic entry %d", tablefile.ErrTruncated, sq)
		}
		mask := board.Bitboard(binary.LittleEndian.Uint64(rec[0:8]))
		shift := binary.LittleEndian.Uint32(rec[16:20])
		if shift != uint32(64-mask.PopCount()) {
			return nil, fmt.Errorf("%w: square %d shift %d, mask has %d bits", ErrBadShift, sq, shift, mask.PopCount())
		}
		t.Entries[sq] = Entry{
			Mask:   mask,
			Magic:  binary.LittleEndian.Uint64(rec[8:16]),
			Shift:  uint8(shift),
			Offset: binary.LittleEndian.Uint32(rec[20:24]),
		}
	}

	if _, err := io.ReadFull(br, rec[:4]); err != nil {
		return nil, fmt.Errorf("%w: slot count", tablefile.ErrTruncated)
	}
	n := binary.LittleEndian.Uint32(rec[:4])
	t.Slots = make([]board.Bitboard, n)
	for i := range t.Slots {
		if _, err := io.ReadFull(br, rec[:8]); err != nil {
			return nil, fmt.Errorf("%w: slot %d", tablefile.ErrTruncated, i)
		}
		t.Slots[i] = board.Bitboard(binary.LittleEndian.Uint64(rec[:8]))
	}

	for sq, e := range t.Entries {
		if uint64(e.Offset)+1<<(64-uint64(e.Shift)) > uint64(n) {
			return nil, fmt.Errorf("magic: square %d slots exceed table of %d", sq, n)
		}
	}
	return t, nil
}

// Artifact encodes t as an output file.
func (t *Table) Artifact() (tablefile.Artifact, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return tablefile.Artifact{}, err
	}
	return tablefile.Artifact{Name: FileName(t.Piece), Data: buf.Bytes()}, nil
}
