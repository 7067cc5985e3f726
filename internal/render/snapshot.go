// Package render exports screen snapshots as PPM images for offline
// inspection of a session's terminal state.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/spakin/netpbm"

	"github.com/rmacedo/rotinactl/internal/term"
)

// Cell block size in pixels
const (
	cellWidth  = 8
	cellHeight = 16
)

// palette maps terminal foreground color codes to RGB. Unknown codes fall
// back to light gray.
var palette = map[int]color.RGBA{
	0:  {0x00, 0x00, 0x00, 0xff},
	1:  {0xcd, 0x00, 0x00, 0xff},
	2:  {0x00, 0xcd, 0x00, 0xff},
	3:  {0xcd, 0xcd, 0x00, 0xff},
	4:  {0x00, 0x00, 0xee, 0xff},
	5:  {0xcd, 0x00, 0xcd, 0xff},
	6:  {0x00, 0xcd, 0xcd, 0xff},
	7:  {0xe5, 0xe5, 0xe5, 0xff},
	10: {0x00, 0xff, 0x00, 0xff},
}

var (
	background = color.RGBA{0x10, 0x10, 0x10, 0xff}
	fallback   = color.RGBA{0xaa, 0xaa, 0xaa, 0xff}
)

// Snapshot renders the terminal buffer into an image. Each cell becomes a
// block colored by its foreground when it holds a glyph, background
// otherwise, so field layout and highlights stay recognizable without a
// font rasterizer.
func Snapshot(t term.Terminal) (image.Image, error) {
	rows, cols := t.Size()
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("terminal has no geometry")
	}

	img := image.NewRGBA(image.Rect(0, 0, cols*cellWidth, rows*cellHeight))
	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			cell, err := t.Cell(row, col)
			if err != nil {
				return nil, err
			}

			fill := background
			if cell.Char != ' ' && cell.Char != 0 {
				if c, ok := palette[cell.FG]; ok {
					fill = c
				} else {
					fill = fallback
				}
			}

			x0 := (col - 1) * cellWidth
			y0 := (row - 1) * cellHeight
			for y := y0; y < y0+cellHeight; y++ {
				for x := x0; x < x0+cellWidth; x++ {
					img.SetRGBA(x, y, fill)
				}
			}
		}
	}
	return img, nil
}

// WriteSnapshot encodes the terminal buffer as a raw PPM image
func WriteSnapshot(w io.Writer, t term.Terminal) error {
	img, err := Snapshot(t)
	if err != nil {
		return err
	}
	opts := &netpbm.EncodeOptions{
		Format:   netpbm.PPM,
		MaxValue: 255,
	}
	if err := netpbm.Encode(w, img, opts); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// SaveSnapshot writes the terminal buffer to a PPM file
func SaveSnapshot(path string, t term.Terminal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()
	return WriteSnapshot(f, t)
}
