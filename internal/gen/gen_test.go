package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/attackgen/internal/attacks"
	"github.com/hailam/attackgen/internal/board"
	"github.com/hailam/attackgen/internal/config"
	"github.com/hailam/attackgen/internal/magic"
	"github.com/hailam/attackgen/internal/storage"
	"github.com/hailam/attackgen/internal/tablefile"
	"github.com/hailam/attackgen/internal/tables"
)

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{OutDir: filepath.Join(t.TempDir(), "data"), Workers: 4, MagicSeed: 1}
}

func TestRunWritesTables(t *testing.T) {
	cfg := testConfig(t)
	res, err := Run(testContext(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Artifacts, 6)

	set, err := tablefile.ReadDir(cfg.OutDir)
	require.NoError(t, err)
	assert.Equal(t, res.Set.Knight.Attacks, set.Knight.Attacks)

	_, err = os.Stat(filepath.Join(cfg.OutDir, tablefile.ManifestFile))
	assert.NoError(t, err)
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	_, err := Run(testContext(), cfg)
	require.NoError(t, err)

	first := map[string][]byte{}
	for _, name := range []string{tablefile.RookMovesFile, tablefile.BishopMovesFile, tablefile.KingMovesFile, tablefile.ManifestFile} {
		data, err := os.ReadFile(filepath.Join(cfg.OutDir, name))
		require.NoError(t, err)
		first[name] = data
	}

	_, err = Run(testContext(), cfg)
	require.NoError(t, err)
	for name, want := range first {
		got, err := os.ReadFile(filepath.Join(cfg.OutDir, name))
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestRunWithAllSinks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Magics = true
	cfg.StoreDir = filepath.Join(t.TempDir(), "store")
	cfg.Diagrams = true
	cfg.DiagramSquares = []string{"d4"}
	cfg.DiagramSize = 80

	res, err := Run(testContext(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Artifacts, 8)
	assert.Len(t, res.Diagrams, 12)

	_, err = os.Stat(filepath.Join(cfg.OutDir, magic.RookMagicsFile))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.OutDir, "diagrams", "knight_attacks_d4.png"))
	assert.NoError(t, err)

	s, err := storage.Open(cfg.StoreDir)
	require.NoError(t, err)
	defer s.Close()

	loaded, err := s.LoadArtifacts()
	require.NoError(t, err)
	assert.Len(t, loaded, 8)
}

func TestRunPublishesToDefaultStore(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", home)
	t.Setenv("APPDATA", home)
	t.Setenv("HOME", home)

	cfg := testConfig(t)
	cfg.StoreDir = storage.DefaultDir
	res, err := Run(testContext(), cfg)
	require.NoError(t, err)

	dir, err := storage.GetStoreDir()
	require.NoError(t, err)
	s, err := storage.Open(dir)
	require.NoError(t, err)
	defer s.Close()

	loaded, err := s.LoadArtifacts()
	require.NoError(t, err)
	require.Len(t, loaded, len(res.Artifacts))
	for i := range loaded {
		assert.Equal(t, res.Artifacts[i].Name, loaded[i].Name)
	}
}

func TestPieceViews(t *testing.T) {
	set, err := tables.Build(context.Background(), 4)
	require.NoError(t, err)

	var names []string
	for _, p := range attacks.Pieces {
		views := pieceViews(p, board.D4, set)
		require.NotEmpty(t, views, p.Name())
		for _, v := range views {
			names = append(names, v.name)
		}
	}
	assert.Equal(t, []string{
		"rook_mask", "rook_attacks",
		"bishop_mask", "bishop_attacks",
		"knight_attacks", "king_attacks",
	}, names)

	views := pieceViews(attacks.Bishop, board.D4, set)
	assert.Equal(t, set.BishopMasks.Masks[board.D4], views[0].bb)
	assert.Equal(t, attacks.BishopAttacks(board.D4, board.Empty), views[1].bb)
	assert.Equal(t, set.Knight.Attacks[board.D4], pieceViews(attacks.Knight, board.D4, set)[0].bb)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	cancel()

	cfg := testConfig(t)
	_, err := Run(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(cfg.OutDir)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when generation fails")
}
