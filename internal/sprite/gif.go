package sprite

import (
	"fmt"
	"image"
	"image/gif"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// BuildGIFSheet turns every frame of a GIF into a panel. The frames form a single
// animation named after the sheet.
func BuildGIFSheet(name string, r io.Reader, columns int, end EndBehavior) (*Sheet, *image.RGBA, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("decode GIF %s: %w", name, err)
	}
	if len(g.Image) == 0 {
		return nil, nil, fmt.Errorf("%w: %s: GIF contains no frames", ErrBadSheet, name)
	}

	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}

	packer := NewGridPacker(w, h, columns, len(g.Image))
	sheet := packer.Sheet(name)
	anim := Animation{Name: name, End: end, Frames: make([]mgl32.Vec2, 0, len(g.Image))}

	// Frames may only cover part of the canvas, so they are composed in order.
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, frame := range g.Image {
		var restore *image.RGBA
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalPrevious {
			restore = image.NewRGBA(canvas.Bounds())
			copy(restore.Pix, canvas.Pix)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		panel, ok := packer.Pack(canvas)
		if !ok {
			break
		}
		anim.Frames = append(anim.Frames, panel)

		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				canvas = restore
			}
		}
	}

	sheet.Animations = []Animation{anim}
	return sheet, packer.Image, nil
}
