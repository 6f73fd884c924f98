package tablefile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hailam/attackgen/internal/board"
	"github.com/hailam/attackgen/internal/tables"
)

// Artifact is one fully encoded output file.
type Artifact struct {
	Name string
	Data []byte
}

// Encode serializes every table of the set, in output order.
func Encode(set *tables.Set) ([]Artifact, error) {
	var artifacts []Artifact

	for _, sl := range []struct {
		name string
		db   *tables.MoveDatabase
	}{
		{RookMovesFile, set.Rook},
		{BishopMovesFile, set.Bishop},
	} {
		var buf bytes.Buffer
		if err := WriteMoveDatabase(&buf, sl.db); err != nil {
			return nil, fmt.Errorf("encode %s: %w", sl.name, err)
		}
		artifacts = append(artifacts, Artifact{Name: sl.name, Data: buf.Bytes()})
	}

	scalars := []struct {
		name string
		enc  func(*bytes.Buffer) error
	}{
		{KnightMovesFile, func(b *bytes.Buffer) error { return WriteBoards(b, &set.Knight.Attacks) }},
		{KingMovesFile, func(b *bytes.Buffer) error { return WriteBoards(b, &set.King.Attacks) }},
		{RookMasksFile, func(b *bytes.Buffer) error { return WriteBoards(b, &set.RookMasks.Masks) }},
		{BishopMasksFile, func(b *bytes.Buffer) error { return WriteBoards(b, &set.BishopMasks.Masks) }},
	}
	for _, s := range scalars {
		var buf bytes.Buffer
		if err := s.enc(&buf); err != nil {
			return nil, fmt.Errorf("encode %s: %w", s.name, err)
		}
		artifacts = append(artifacts, Artifact{Name: s.name, Data: buf.Bytes()})
	}

	return artifacts, nil
}

// WriteDir writes each artifact into dir in two phases. Every file is first
// written and synced to a temporary sibling; only when all of them are on
// disk are they renamed into place. A failed write therefore leaves the
// previous set untouched. The renames themselves are not one atomic step:
// a crash between two of them mixes old and new files, which the manifest
// written afterwards by WriteManifest exposes.
func WriteDir(dir string, artifacts []Artifact) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	staged := make([]string, 0, len(artifacts))
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}()
	for _, a := range artifacts {
		tmp, err := stage(filepath.Join(dir, a.Name), a.Data)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	for i, a := range artifacts {
		path := filepath.Join(dir, a.Name)
		if err := os.Rename(staged[i], path); err != nil {
			return fmt.Errorf("rename %s: %w", path, err)
		}
	}
	return nil
}

// WriteFileAtomic writes data to path through a temporary file in the same
// directory.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := stage(path, data)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// stage writes data to a synced temporary file next to path and returns its
// name. The caller renames or removes it.
func stage(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp for %s: %w", path, err)
	}

	fail := func(err error) (string, error) {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		return fail(fmt.Errorf("write %s: %w", path, err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("sync %s: %w", path, err))
	}
	if err := tmp.Chmod(0644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return tmp.Name(), nil
}

// ReadDir loads a table set previously written by WriteDir and verifies the
// slider databases.
func ReadDir(dir string) (*tables.Set, error) {
	set := &tables.Set{
		Knight:      &tables.JumpTable{Piece: "knight"},
		King:        &tables.JumpTable{Piece: "king"},
		RookMasks:   &tables.MaskTable{Piece: "rook"},
		BishopMasks: &tables.MaskTable{Piece: "bishop"},
	}

	var err error
	if set.Rook, err = readMoveFile(dir, RookMovesFile, "rook"); err != nil {
		return nil, err
	}
	if set.Bishop, err = readMoveFile(dir, BishopMovesFile, "bishop"); err != nil {
		return nil, err
	}

	for _, s := range []struct {
		name string
		dst  *[board.NumSquares]board.Bitboard
	}{
		{KnightMovesFile, &set.Knight.Attacks},
		{KingMovesFile, &set.King.Attacks},
		{RookMasksFile, &set.RookMasks.Masks},
		{BishopMasksFile, &set.BishopMasks.Masks},
	} {
		f, err := os.Open(filepath.Join(dir, s.name))
		if err != nil {
			return nil, err
		}
		*s.dst, err = ReadBoards(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.name, err)
		}
	}

	if set.Rook.Masks().Masks != set.RookMasks.Masks {
		return nil, fmt.Errorf("%s does not match %s", RookMasksFile, RookMovesFile)
	}
	if set.Bishop.Masks().Masks != set.BishopMasks.Masks {
		return nil, fmt.Errorf("%s does not match %s", BishopMasksFile, BishopMovesFile)
	}
	return set, nil
}

func readMoveFile(dir, name, piece string) (*tables.MoveDatabase, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	db, err := ReadMoveDatabase(f, piece)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := db.Verify(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return db, nil
}
