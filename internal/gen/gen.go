// Package gen runs the full table generation pipeline: build, encode,
// write, and the optional magic, store and diagram sinks.
package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/attackgen/internal/attacks"
	"github.com/hailam/attackgen/internal/board"
	"github.com/hailam/attackgen/internal/config"
	"github.com/hailam/attackgen/internal/magic"
	"github.com/hailam/attackgen/internal/render"
	"github.com/hailam/attackgen/internal/storage"
	"github.com/hailam/attackgen/internal/tablefile"
	"github.com/hailam/attackgen/internal/tables"
)

// Result summarizes a run.
type Result struct {
	Set       *tables.Set
	Artifacts []tablefile.Artifact
	Manifest  *tablefile.Manifest
	Diagrams  []string
}

// Run generates every table described by cfg. Nothing is written until all
// tables are built and encoded.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	start := time.Now()
	set, err := tables.Build(ctx, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("build tables: %w", err)
	}
	logger.Info().
		Int("rook-entries", set.Rook.Len()).
		Int("bishop-entries", set.Bishop.Len()).
		Int("workers", cfg.Workers).
		Dur("took", time.Since(start)).
		Msg("tables-built")

	artifacts, err := tablefile.Encode(set)
	if err != nil {
		return nil, err
	}

	if cfg.Magics {
		for _, db := range []*tables.MoveDatabase{set.Rook, set.Bishop} {
			start := time.Now()
			mt, err := magic.Build(db, cfg.MagicSeed, magic.DefaultMaxTries)
			if err != nil {
				return nil, err
			}
			a, err := mt.Artifact()
			if err != nil {
				return nil, err
			}
			artifacts = append(artifacts, a)
			logger.Info().Str("piece", db.Piece).Int("slots", len(mt.Slots)).
				Dur("took", time.Since(start)).Msg("magics-found")
		}
	}

	manifest := tablefile.NewManifest(artifacts)

	if err := tablefile.WriteDir(cfg.OutDir, artifacts); err != nil {
		return nil, err
	}
	if err := tablefile.WriteManifest(cfg.OutDir, manifest); err != nil {
		return nil, err
	}
	for _, a := range artifacts {
		logger.Debug().Str("file", a.Name).Int("bytes", len(a.Data)).Msg("wrote-artifact")
	}
	logger.Info().Str("dir", cfg.OutDir).Int("files", len(artifacts)).Msg("tables-written")

	if cfg.StoreDir != "" {
		if err := publish(cfg.StoreDir, artifacts, manifest); err != nil {
			return nil, err
		}
		logger.Info().Str("store", cfg.StoreDir).Msg("tables-published")
	}

	res := &Result{Set: set, Artifacts: artifacts, Manifest: manifest}
	if cfg.Diagrams {
		if res.Diagrams, err = writeDiagrams(cfg, set); err != nil {
			return nil, err
		}
		logger.Info().Int("files", len(res.Diagrams)).Msg("diagrams-written")
	}
	return res, nil
}

func publish(dir string, artifacts []tablefile.Artifact, m *tablefile.Manifest) error {
	s, err := storage.OpenDir(dir)
	if err != nil {
		return err
	}
	if err := s.PutArtifacts(artifacts, m); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}

// writeDiagrams renders every table of the set on the configured squares.
func writeDiagrams(cfg *config.Config, set *tables.Set) ([]string, error) {
	squares, err := cfg.Squares()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(cfg.OutDir, "diagrams")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var files []string
	for _, sq := range squares {
		for _, p := range attacks.Pieces {
			for _, v := range pieceViews(p, sq, set) {
				base := filepath.Join(dir, fmt.Sprintf("%s_%s", v.name, sq))

				var svgBuf, pngBuf bytes.Buffer
				if err := render.SVG(&svgBuf, v.bb, sq, render.Options{Cell: cfg.DiagramSize / 8, Labels: true}); err != nil {
					return nil, err
				}
				if err := render.PNG(&pngBuf, v.bb, sq, cfg.DiagramSize); err != nil {
					return nil, err
				}
				if err := tablefile.WriteFileAtomic(base+".svg", svgBuf.Bytes()); err != nil {
					return nil, err
				}
				if err := tablefile.WriteFileAtomic(base+".png", pngBuf.Bytes()); err != nil {
					return nil, err
				}
				files = append(files, base+".svg", base+".png")
			}
		}
	}
	return files, nil
}

type view struct {
	name string
	bb   board.Bitboard
}

// pieceViews returns the boards drawn for p on sq: a slider's relevant mask
// and empty-board attacks, a jumper's attack set.
func pieceViews(p attacks.Piece, sq board.Square, set *tables.Set) []view {
	switch p := p.(type) {
	case attacks.Slider:
		var views []view
		for _, mt := range []*tables.MaskTable{set.RookMasks, set.BishopMasks} {
			if mt.Piece == p.Name() {
				views = append(views, view{p.Name() + "_mask", mt.Masks[sq]})
			}
		}
		return append(views, view{p.Name() + "_attacks", p.Attacks(sq, board.Empty)})
	case attacks.Jumper:
		for _, jt := range []*tables.JumpTable{set.Knight, set.King} {
			if jt.Piece == p.Name() {
				return []view{{p.Name() + "_attacks", jt.Attacks[sq]}}
			}
		}
		return []view{{p.Name() + "_attacks", p.Attacks(sq)}}
	}
	return nil
}
