package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/attackgen/internal/attacks"
	"github.com/hailam/attackgen/internal/board"
)

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	mask := attacks.RookMask(board.A1)
	require.NoError(t, SVG(&buf, mask, board.A1, DefaultOptions()))

	out := buf.String()
	assert.True(t, strings.Contains(out, "<svg"))
	assert.Equal(t, 64+mask.PopCount(), strings.Count(out, "<rect"), "one rect per square plus one per set square")
	assert.Equal(t, 1, strings.Count(out, "<circle"))
	assert.Contains(t, out, `viewBox="0 0 320 320"`)

	buf.Reset()
	require.NoError(t, SVG(&buf, board.Empty, board.NoSquare, Options{Cell: 10}))
	assert.Equal(t, 0, strings.Count(buf.String(), "<circle"))
	assert.Equal(t, 0, strings.Count(buf.String(), "<text"))

	assert.Error(t, SVG(&buf, board.Empty, board.NoSquare, Options{}))
}

func TestRasterize(t *testing.T) {
	img, err := Rasterize(attacks.KnightAttacks(board.D4), board.D4, 160)
	require.NoError(t, err)
	assert.Equal(t, 160+labelMargin, img.Bounds().Dx())
	assert.Equal(t, 160+labelMargin, img.Bounds().Dy())

	// Centre of a1 (dark square, not set) versus centre of c2 (set).
	a1 := img.RGBAAt(labelMargin+10, 7*20+10)
	c2 := img.RGBAAt(labelMargin+2*20+10, 6*20+10)
	assert.NotEqual(t, a1, c2)

	_, err = Rasterize(board.Empty, board.NoSquare, 4)
	assert.Error(t, err)
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, attacks.BishopMask(board.D4), board.D4, 80))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 80+labelMargin, img.Bounds().Dx())
}
