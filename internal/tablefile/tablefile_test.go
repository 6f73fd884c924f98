package tablefile

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/maps"
	"lukechampine.com/frand"

	"github.com/hailam/attackgen/internal/attacks"
	"github.com/hailam/attackgen/internal/board"
	"github.com/hailam/attackgen/internal/tables"
)

func buildSet(t *testing.T) *tables.Set {
	t.Helper()
	set, err := tables.Build(context.Background(), 4)
	require.NoError(t, err)
	return set
}

func TestMoveDatabaseRoundTripIgnoresOrder(t *testing.T) {
	db, err := tables.BuildSliding(context.Background(), attacks.Rook, 4)
	require.NoError(t, err)

	shuffled := &tables.MoveDatabase{Piece: db.Piece}
	for sq := range db.Squares {
		entries := append([]tables.Entry(nil), db.Squares[sq].Entries...)
		frand.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
		shuffled.Squares[sq] = tables.NewSquareTable(db.Squares[sq].Mask, entries)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMoveDatabase(&buf, shuffled))
	assert.Equal(t, 64*4+db.Len()*16, buf.Len())

	got, err := ReadMoveDatabase(&buf, "rook")
	require.NoError(t, err)
	require.NoError(t, got.Verify())

	for sq := range db.Squares {
		assert.Equal(t, db.Squares[sq].Mask, got.Squares[sq].Mask)
		assert.True(t, maps.Equal(db.Squares[sq].Map(), got.Squares[sq].Map()), "square %d", sq)
	}
}

func TestBoardsLayout(t *testing.T) {
	knight := tables.BuildJump(attacks.Knight)

	var buf bytes.Buffer
	require.NoError(t, WriteBoards(&buf, &knight.Attacks))
	require.Equal(t, 512, buf.Len())

	// a1 knight: c2 and b3.
	first := binary.LittleEndian.Uint64(buf.Bytes()[:8])
	assert.Equal(t, uint64(1<<10|1<<17), first)

	got, err := ReadBoards(&buf)
	require.NoError(t, err)
	assert.Equal(t, knight.Attacks, got)
}

func TestSliderFileHeader(t *testing.T) {
	db, err := tables.BuildSliding(context.Background(), attacks.Bishop, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMoveDatabase(&buf, db))

	data := buf.Bytes()
	assert.Equal(t, uint32(1<<6), binary.LittleEndian.Uint32(data[:4]), "a1 bishop has 6 relevant bits")
	assert.Equal(t, uint64(0), binary.LittleEndian.Uint64(data[4:12]), "first blocker is empty")
	assert.Equal(t, uint64(attacks.BishopAttacks(board.A1, 0)), binary.LittleEndian.Uint64(data[12:20]))
}

func TestDecodeErrors(t *testing.T) {
	db, err := tables.BuildSliding(context.Background(), attacks.Bishop, 1)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteMoveDatabase(&buf, db))
	good := buf.Bytes()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"cut mid entry", good[:len(good)-3], ErrTruncated},
		{"trailing byte", append(append([]byte(nil), good...), 0), ErrTrailingData},
		{"zero count", make([]byte, 4), ErrEntryCount},
		{"huge count", []byte{0xff, 0xff, 0xff, 0xff}, ErrEntryCount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadMoveDatabase(bytes.NewReader(tc.data), "bishop")
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err = ReadBoards(bytes.NewReader(make([]byte, 511)))
	assert.ErrorIs(t, err, ErrTruncated)
	_, err = ReadBoards(bytes.NewReader(make([]byte, 513)))
	assert.ErrorIs(t, err, ErrTrailingData)
}

func TestWriteDirReadDir(t *testing.T) {
	set := buildSet(t)
	artifacts, err := Encode(set)
	require.NoError(t, err)
	require.Len(t, artifacts, 6)

	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, WriteDir(dir, artifacts))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		RookMovesFile, BishopMovesFile, KnightMovesFile,
		KingMovesFile, RookMasksFile, BishopMasksFile,
	}, names, "no temporary files left behind")

	got, err := ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, set.Knight.Attacks, got.Knight.Attacks)
	assert.Equal(t, set.King.Attacks, got.King.Attacks)
	assert.Equal(t, set.RookMasks.Masks, got.RookMasks.Masks)
	assert.Equal(t, set.Rook.Len(), got.Rook.Len())
	assert.Equal(t, set.Bishop.Len(), got.Bishop.Len())
}

func TestWriteDirKeepsPreviousSetOnFailure(t *testing.T) {
	dir := t.TempDir()
	old := []Artifact{{Name: "a.bin", Data: []byte("old a")}, {Name: "b.bin", Data: []byte("old b")}}
	require.NoError(t, WriteDir(dir, old))

	// b.bin cannot be staged because its parent directory does not exist.
	err := WriteDir(dir, []Artifact{
		{Name: "a.bin", Data: []byte("new a")},
		{Name: filepath.Join("missing", "b.bin"), Data: []byte("new b")},
	})
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "a.bin"))
	require.NoError(t, err)
	assert.Equal(t, "old a", string(data), "a.bin replaced although the set failed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"a.bin", "b.bin"}, names, "no staged files left behind")
}

func TestReadDirRejectsMismatchedMasks(t *testing.T) {
	set := buildSet(t)
	set.BishopMasks.Masks[board.D4] = 0
	artifacts, err := Encode(set)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteDir(dir, artifacts))
	_, err = ReadDir(dir)
	assert.Error(t, err)
}

func TestEncodeIsIdempotent(t *testing.T) {
	first, err := Encode(buildSet(t))
	require.NoError(t, err)
	second, err := Encode(buildSet(t))
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.True(t, bytes.Equal(first[i].Data, second[i].Data), first[i].Name)
	}
	assert.Equal(t, NewManifest(first), NewManifest(second))
}

func TestManifest(t *testing.T) {
	artifacts := []Artifact{{Name: "a.bin", Data: []byte("abc")}, {Name: "b.bin", Data: nil}}
	m := NewManifest(artifacts)

	require.Len(t, m.Artifacts, 2)
	assert.Equal(t, 3, m.Artifacts[0].Size)
	assert.Len(t, m.Artifacts[0].Digest, 16)
	assert.NoError(t, m.Check(artifacts))

	artifacts[0].Data = []byte("abd")
	assert.Error(t, m.Check(artifacts))
	assert.Error(t, m.Check([]Artifact{{Name: "c.bin"}}))

	dir := t.TempDir()
	require.NoError(t, WriteManifest(dir, m))
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"xxhash64"`)
}
