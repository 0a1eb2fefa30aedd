package sprite

import (
	"image"
	"image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// GridPacker places equally sized panels into a sheet image, left to right, top to bottom.
type GridPacker struct {
	CellW, CellH  int
	Columns, Rows int
	Image         *image.RGBA
	next          int
}

// NewGridPacker sizes a sheet for count cells of cellW x cellH laid out in columns.
func NewGridPacker(cellW, cellH, columns, count int) *GridPacker {
	if columns <= 0 {
		columns = 1
	}
	if count < 1 {
		count = 1
	}
	if columns > count {
		columns = count
	}
	rows := (count + columns - 1) / columns
	return &GridPacker{
		CellW:   cellW,
		CellH:   cellH,
		Columns: columns,
		Rows:    rows,
		Image:   image.NewRGBA(image.Rect(0, 0, columns*cellW, rows*cellH)),
	}
}

// Pack copies src into the next free cell and returns its panel index.
// ok is false once the grid is full.
func (p *GridPacker) Pack(src image.Image) (panel mgl32.Vec2, ok bool) {
	if p.next >= p.Columns*p.Rows {
		return mgl32.Vec2{}, false
	}
	col, row := p.next%p.Columns, p.next/p.Columns
	p.next++

	dst := image.Rect(col*p.CellW, row*p.CellH, (col+1)*p.CellW, (row+1)*p.CellH)
	draw.Draw(p.Image, dst, src, src.Bounds().Min, draw.Src)
	return mgl32.Vec2{float32(col), float32(row)}, true
}

// Packed reports how many cells are in use.
func (p *GridPacker) Packed() int {
	return p.next
}

// Sheet returns an empty sheet with the packer's dimensions.
func (p *GridPacker) Sheet(name string) *Sheet {
	b := p.Image.Bounds()
	return &Sheet{
		Name:      name,
		PanelDims: mgl32.Vec2{float32(p.CellW), float32(p.CellH)},
		SheetDims: mgl32.Vec2{float32(b.Dx()), float32(b.Dy())},
	}
}

// toRGBA converts any decoded image (paletted GIF frames included) to tightly packed RGBA.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// DumpPNG writes a sheet image to disk for inspection.
func DumpPNG(img image.Image, fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
