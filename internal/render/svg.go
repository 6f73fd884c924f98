// Package render draws bitboards as board diagrams for inspecting
// generated masks and attack sets.
package render

import (
	"bytes"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/attackgen/internal/board"
)

const (
	lightSquare = "fill:#f0d9b5"
	darkSquare  = "fill:#b58863"
	setSquare   = "fill:#d9534f;fill-opacity:0.75"
	originMark  = "fill:#1f3a93"
)

// Options controls diagram layout.
type Options struct {
	Cell   int  // Side of one square in pixels
	Labels bool // Draw file and rank labels as SVG text
}

// DefaultOptions returns a 40px board with labels.
func DefaultOptions() Options {
	return Options{Cell: 40, Labels: true}
}

// SVG writes an 8x8 diagram of bb, rank 8 on top, with origin marked.
// Pass board.NoSquare to omit the marker.
func SVG(w io.Writer, bb board.Bitboard, origin board.Square, opts Options) error {
	if opts.Cell <= 0 {
		return fmt.Errorf("render: cell size %d", opts.Cell)
	}
	var buf bytes.Buffer
	drawBoard(svg.New(&buf), bb, origin, opts)
	_, err := w.Write(buf.Bytes())
	return err
}

func drawBoard(canvas *svg.SVG, bb board.Bitboard, origin board.Square, opts Options) {
	c := opts.Cell
	side := 8 * c
	canvas.Startview(side, side, 0, 0, side, side)

	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			x, y := file*c, (7-rank)*c

			style := darkSquare
			if (file+rank)%2 == 1 {
				style = lightSquare
			}
			canvas.Rect(x, y, c, c, style)
			if bb.IsSet(sq) {
				canvas.Rect(x, y, c, c, setSquare)
			}
			if sq == origin {
				canvas.Circle(x+c/2, y+c/2, c/3, originMark)
			}
		}
	}

	if opts.Labels {
		size := c / 4
		for i := 0; i < 8; i++ {
			canvas.Text(i*c+2, side-2, string(rune('a'+i)), fmt.Sprintf("font-size:%dpx;fill:#333", size))
			canvas.Text(2, (7-i)*c+size+1, string(rune('1'+i)), fmt.Sprintf("font-size:%dpx;fill:#333", size))
		}
	}

	canvas.End()
}
