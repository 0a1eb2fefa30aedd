package sprite

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
)

type recordingTextures struct {
	calls []image.Point
}

func (r *recordingTextures) CreateTexture(pix []byte, width, height int32) uint32 {
	r.calls = append(r.calls, image.Pt(int(width), int(height)))
	return uint32(len(r.calls))
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeGIF(t *testing.T, frames, w, h int) []byte {
	t.Helper()
	pal := color.Palette{color.Transparent, color.White}
	g := &gif.GIF{}
	for i := 0; i < frames; i++ {
		img := image.NewPaletted(image.Rect(0, 0, w, h), pal)
		img.SetColorIndex(i%w, 0, 1)
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 5)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

func TestEndBehaviorText(t *testing.T) {
	var b EndBehavior
	if err := b.UnmarshalText([]byte("kill")); err != nil || b != Kill {
		t.Fatalf("kill: got %v, %v", b, err)
	}
	if err := b.UnmarshalText([]byte("")); err != nil || b != Loop {
		t.Fatalf("empty: got %v, %v", b, err)
	}
	if err := b.UnmarshalText([]byte("bounce")); !errors.Is(err, ErrBadSheet) {
		t.Fatalf("expected ErrBadSheet, got %v", err)
	}
}

func TestSheetLookups(t *testing.T) {
	s := &Sheet{
		Animations: []Animation{{Name: "idle"}, {Name: "boom"}},
		Glyphs:     GlyphMap{'A': 0, 'B': 1},
	}
	if got := s.CharToAnimation('B'); got != 1 {
		t.Errorf("B: got %d", got)
	}
	if got := s.CharToAnimation(' '); got != NoGlyph {
		t.Errorf("space: got %d, want NoGlyph", got)
	}
	if idx, ok := s.AnimationIndex("boom"); !ok || idx != 1 {
		t.Errorf("boom: got %d, %v", idx, ok)
	}
	if _, ok := s.AnimationIndex("missing"); ok {
		t.Errorf("missing animation should not resolve")
	}
}

func TestSheetValidate(t *testing.T) {
	base := func() *Sheet {
		return &Sheet{
			Name:      "ship",
			PanelDims: mgl32.Vec2{16, 16},
			SheetDims: mgl32.Vec2{32, 16},
			Animations: []Animation{
				{Name: "fly", Frames: []mgl32.Vec2{{0, 0}, {1, 0}}},
			},
		}
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("valid sheet: %v", err)
	}

	tests := map[string]func(s *Sheet){
		"zero panel":    func(s *Sheet) { s.PanelDims = mgl32.Vec2{} },
		"frame outside": func(s *Sheet) { s.Animations[0].Frames[1] = mgl32.Vec2{2, 0} },
		"no frames":     func(s *Sheet) { s.Animations[0].Frames = nil },
		"bad glyph":     func(s *Sheet) { s.Glyphs = GlyphMap{'X': 4} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			s := base()
			mutate(s)
			if err := s.Validate(); !errors.Is(err, ErrBadSheet) {
				t.Fatalf("expected ErrBadSheet, got %v", err)
			}
		})
	}
}

func TestGridPacker(t *testing.T) {
	p := NewGridPacker(8, 4, 3, 5)
	if p.Columns != 3 || p.Rows != 2 {
		t.Fatalf("grid %dx%d, want 3x2", p.Columns, p.Rows)
	}
	if b := p.Image.Bounds(); b.Dx() != 24 || b.Dy() != 8 {
		t.Fatalf("image %v", b)
	}
	cell := image.NewRGBA(image.Rect(0, 0, 8, 4))
	var last mgl32.Vec2
	for i := 0; i < 6; i++ {
		panel, ok := p.Pack(cell)
		if !ok {
			t.Fatalf("pack %d failed", i)
		}
		last = panel
	}
	if last != (mgl32.Vec2{2, 1}) {
		t.Errorf("last panel %v", last)
	}
	if _, ok := p.Pack(cell); ok {
		t.Errorf("expected full grid")
	}
	if p.Packed() != 6 {
		t.Errorf("packed %d", p.Packed())
	}
}

func TestBuildGlyphSheet(t *testing.T) {
	sheet, img, err := BuildGlyphSheet("text", DefaultFace(), GlyphSheetOptions{Charset: "AB C", Columns: 2})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(sheet.Animations) != 3 {
		t.Fatalf("expected 3 glyphs, got %d", len(sheet.Animations))
	}
	if sheet.CharToAnimation(' ') != NoGlyph {
		t.Errorf("space must not map")
	}
	if sheet.CharToAnimation('C') != 2 {
		t.Errorf("C: got %d", sheet.CharToAnimation('C'))
	}
	if got := sheet.Animations[2].Frames[0]; got != (mgl32.Vec2{0, 1}) {
		t.Errorf("C panel %v", got)
	}
	if b := img.Bounds(); float32(b.Dx()) != sheet.SheetDims.X() || float32(b.Dy()) != sheet.SheetDims.Y() {
		t.Errorf("sheet dims %v vs image %v", sheet.SheetDims, b)
	}
	if err := sheet.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}

	if _, _, err := BuildGlyphSheet("empty", DefaultFace(), GlyphSheetOptions{Charset: " \t"}); !errors.Is(err, ErrBadSheet) {
		t.Errorf("expected ErrBadSheet for empty charset, got %v", err)
	}
}

func TestBuildGIFSheet(t *testing.T) {
	sheet, img, err := BuildGIFSheet("smoke", bytes.NewReader(encodeGIF(t, 5, 6, 6)), 4, Kill)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(sheet.Animations) != 1 || sheet.Animations[0].NumFrames() != 5 {
		t.Fatalf("unexpected animations %+v", sheet.Animations)
	}
	if sheet.Animations[0].End != Kill {
		t.Errorf("end behavior %v", sheet.Animations[0].End)
	}
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 12 {
		t.Errorf("image bounds %v", b)
	}
	if err := sheet.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

const tableYAML = `
sheets:
  - name: explosion
    file: img/explosion.png
    panel: [16, 16]
    animations:
      - name: boom
        end: kill
        frames: [[0, 0], [1, 0], [2, 0], [3, 0]]
  - name: digits
    file: img/explosion.png
    panel: [16, 16]
    glyphs: "01"
    animations:
      - name: zero
        frames: [[0, 0]]
      - name: one
        frames: [[1, 0]]
  - name: smoke
    kind: gif
    file: img/smoke.gif
    columns: 2
    end: kill
  - name: text
    kind: glyphs
    charset: "HELO"
`

func TestLoadTable(t *testing.T) {
	fsys := fstest.MapFS{
		"sprites/sprites.yaml":      {Data: []byte(tableYAML)},
		"sprites/img/explosion.png": {Data: encodePNG(t, 64, 16)},
		"sprites/img/smoke.gif":     {Data: encodeGIF(t, 3, 4, 4)},
	}
	tex := &recordingTextures{}
	table, err := LoadTable(fsys, "sprites/sprites.yaml", tex)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tex.calls) != 4 {
		t.Fatalf("expected 4 texture uploads, got %d", len(tex.calls))
	}

	explosion, ok := table.Sheet("explosion")
	if !ok {
		t.Fatalf("explosion sheet missing")
	}
	if explosion.Texture != 1 || explosion.SheetDims != (mgl32.Vec2{64, 16}) {
		t.Errorf("explosion: texture %d dims %v", explosion.Texture, explosion.SheetDims)
	}
	if explosion.Animations[0].End != Kill || explosion.Animations[0].NumFrames() != 4 {
		t.Errorf("boom animation %+v", explosion.Animations[0])
	}

	digits, _ := table.Sheet("digits")
	if digits.CharToAnimation('1') != 1 || digits.CharToAnimation('2') != NoGlyph {
		t.Errorf("digit glyphs %v", digits.Glyphs)
	}

	smoke, _ := table.Sheet("smoke")
	if smoke.Animations[0].NumFrames() != 3 || smoke.Animations[0].End != Kill {
		t.Errorf("smoke animation %+v", smoke.Animations[0])
	}

	text, _ := table.Sheet("text")
	if text.CharToAnimation('L') < 0 {
		t.Errorf("text sheet should map L")
	}
	if got := len(table.Sheets()); got != 4 {
		t.Errorf("sheets: %d", got)
	}
}

func TestLoadTableErrors(t *testing.T) {
	pngData := encodePNG(t, 16, 16)
	tests := map[string]string{
		"missing image": "sheets:\n  - name: a\n    file: nope.png\n    panel: [16, 16]\n",
		"bad frame":     "sheets:\n  - name: a\n    file: a.png\n    panel: [16, 16]\n    animations:\n      - name: x\n        frames: [[1, 0]]\n",
		"duplicate":     "sheets:\n  - name: a\n    file: a.png\n    panel: [16, 16]\n  - name: a\n    file: a.png\n    panel: [16, 16]\n",
		"unknown kind":  "sheets:\n  - name: a\n    kind: svg\n",
		"bad end":       "sheets:\n  - name: a\n    file: a.png\n    panel: [16, 16]\n    animations:\n      - name: x\n        end: bounce\n        frames: [[0, 0]]\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"t.yaml": {Data: []byte(body)},
				"a.png":  {Data: pngData},
			}
			if _, err := LoadTable(fsys, "t.yaml", nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
