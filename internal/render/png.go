package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/attackgen/internal/board"
)

// labelMargin leaves room for basicfont's 7x13 glyphs.
const labelMargin = 16

// Rasterize renders the diagram of bb into an RGBA image whose board area is
// size pixels square, with file and rank labels in a margin.
func Rasterize(bb board.Bitboard, origin board.Square, size int) (*image.RGBA, error) {
	if size < 8 {
		return nil, fmt.Errorf("render: image size %d", size)
	}

	var buf bytes.Buffer
	if err := SVG(&buf, bb, origin, Options{Cell: size / 8}); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("render: parse diagram: %w", err)
	}

	side := (size / 8) * 8
	rgba := image.NewRGBA(image.Rect(0, 0, side+labelMargin, side+labelMargin))
	draw.Draw(rgba, rgba.Bounds(), image.White, image.Point{}, draw.Src)

	icon.SetTarget(float64(labelMargin), 0, float64(side), float64(side))
	scanner := rasterx.NewScannerGV(rgba.Bounds().Dx(), rgba.Bounds().Dy(), rgba, rgba.Bounds())
	raster := rasterx.NewDasher(rgba.Bounds().Dx(), rgba.Bounds().Dy(), scanner)
	icon.Draw(raster, 1.0)

	drawLabels(rgba, side)
	return rgba, nil
}

func drawLabels(dst *image.RGBA, side int) {
	cell := side / 8
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{0x33, 0x33, 0x33, 0xff}),
		Face: basicfont.Face7x13,
	}
	for i := 0; i < 8; i++ {
		d.Dot = fixed.P(labelMargin+i*cell+cell/2-3, side+13)
		d.DrawString(string(rune('a' + i)))

		d.Dot = fixed.P(4, (7-i)*cell+cell/2+5)
		d.DrawString(string(rune('1' + i)))
	}
}

// PNG writes the rasterized diagram of bb as a PNG image.
func PNG(w io.Writer, bb board.Bitboard, origin board.Square, size int) error {
	img, err := Rasterize(bb, origin, size)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
