package sprite

import (
	"fmt"
	"image"
	"image/color"
	"unicode"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultCharset is the set of characters given panels when no charset is configured.
const DefaultCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,:;!?'\"-+*/()#%"

type GlyphSheetOptions struct {
	Charset string // whitespace is skipped; empty means DefaultCharset
	Columns int
	Padding int
}

// ParseFace loads a TrueType face at the given pixel size.
func ParseFace(ttf []byte, size float64) (font.Face, error) {
	tt, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse ttf: %w", err)
	}
	return truetype.NewFace(tt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// DefaultFace is the fallback bitmap face used when no font file is configured.
func DefaultFace() font.Face {
	return basicfont.Face7x13
}

// BuildGlyphSheet rasterises every character of the charset into its own panel. Each
// glyph gets a single-frame looping animation and an entry in the sheet's glyph map.
func BuildGlyphSheet(name string, face font.Face, opts GlyphSheetOptions) (*Sheet, *image.RGBA, error) {
	charset := opts.Charset
	if charset == "" {
		charset = DefaultCharset
	}
	var runes []rune
	seen := make(map[rune]bool)
	for _, r := range charset {
		if unicode.IsSpace(r) || seen[r] {
			continue
		}
		seen[r] = true
		runes = append(runes, r)
	}
	if len(runes) == 0 {
		return nil, nil, fmt.Errorf("%w: %s: empty charset", ErrBadSheet, name)
	}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	cellH := ascent + metrics.Descent.Ceil() + opts.Padding*2
	cellW := 0
	for _, r := range runes {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		if w := adv.Ceil(); w > cellW {
			cellW = w
		}
	}
	if cellW < 1 {
		cellW = cellH / 2
	}
	cellW += opts.Padding * 2

	columns := opts.Columns
	if columns <= 0 {
		columns = 16
	}
	packer := NewGridPacker(cellW, cellH, columns, len(runes))
	sheet := packer.Sheet(name)
	sheet.Glyphs = make(GlyphMap, len(runes))

	for _, r := range runes {
		panel, ok := packer.Pack(rasterizeGlyph(face, r, cellW, cellH, ascent, opts.Padding))
		if !ok {
			break
		}
		sheet.Glyphs[r] = int32(len(sheet.Animations))
		sheet.Animations = append(sheet.Animations, Animation{Name: string(r), Frames: []mgl32.Vec2{panel}, End: Loop})
	}
	return sheet, packer.Image, nil
}

func rasterizeGlyph(face font.Face, r rune, w, h, ascent, pad int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(pad),
			Y: fixed.I(pad + ascent),
		},
	}
	d.DrawString(string(r))
	return img
}
