package tables

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/attackgen/internal/attacks"
	"github.com/hailam/attackgen/internal/board"
)

// BuildSquare enumerates every blocker configuration of the slider's mask on
// sq and records the resulting attack set.
func BuildSquare(s attacks.Slider, sq board.Square) SquareTable {
	mask := s.Mask(sq)
	subsets := attacks.Subsets(mask)
	entries := make([]Entry, len(subsets))
	for i, blockers := range subsets {
		entries[i] = Entry{Blocker: blockers, Attack: s.Attacks(sq, blockers)}
	}
	return NewSquareTable(mask, entries)
}

// BuildSliding builds the move database of a slider. Squares are computed by
// up to workers goroutines and stored by square index. A table that fails
// its invariants panics with an *InvariantError.
func BuildSliding(ctx context.Context, s attacks.Slider, workers int) (*MoveDatabase, error) {
	db := &MoveDatabase{Piece: s.Name()}

	g, ctx := errgroup.WithContext(ctx)
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for sq := board.A1; sq <= board.H8; sq++ {
		sq := sq
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			st := BuildSquare(s, sq)
			if err := verifySquare(db.Piece, sq, &st); err != nil {
				panic(err)
			}
			db.Squares[sq] = st
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return db, nil
}

// BuildJump builds the attack table of a jumping piece.
func BuildJump(j attacks.Jumper) *JumpTable {
	jt := &JumpTable{Piece: j.Name()}
	for sq := board.A1; sq <= board.H8; sq++ {
		jt.Attacks[sq] = j.Attacks(sq)
		if jt.Attacks[sq].IsSet(sq) {
			panic(&InvariantError{Piece: j.Name(), Square: sq, Reason: "attack set contains origin"})
		}
	}
	return jt
}

// BuildMasks builds the relevant occupancy masks of a slider.
func BuildMasks(s attacks.Slider) *MaskTable {
	mt := &MaskTable{Piece: s.Name()}
	for sq := board.A1; sq <= board.H8; sq++ {
		mt.Masks[sq] = s.Mask(sq)
	}
	return mt
}

// Build generates every artifact.
func Build(ctx context.Context, workers int) (*Set, error) {
	rook, err := BuildSliding(ctx, attacks.Rook, workers)
	if err != nil {
		return nil, err
	}
	bishop, err := BuildSliding(ctx, attacks.Bishop, workers)
	if err != nil {
		return nil, err
	}

	return &Set{
		Rook:        rook,
		Bishop:      bishop,
		Knight:      BuildJump(attacks.Knight),
		King:        BuildJump(attacks.King),
		RookMasks:   BuildMasks(attacks.Rook),
		BishopMasks: BuildMasks(attacks.Bishop),
	}, nil
}
