package sprite

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Table holds every sheet of the game indexed by name.
type Table struct {
	sheets map[string]*Sheet
	order  []*Sheet
	images map[string]*image.RGBA
}

type tableFile struct {
	Sheets []sheetDef `yaml:"sheets"`
}

type sheetDef struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // image (default), gif, glyphs
	File string `yaml:"file"`

	// image sheets
	Panel      [2]int         `yaml:"panel"`
	Glyphs     string         `yaml:"glyphs"` // i-th character draws animation i
	Animations []animationDef `yaml:"animations"`

	// gif and glyph sheets
	Columns  int         `yaml:"columns"`
	End      EndBehavior `yaml:"end"`
	FontSize float64     `yaml:"font_size"`
	Charset  string      `yaml:"charset"`
	Padding  int         `yaml:"padding"`
}

type animationDef struct {
	Name   string       `yaml:"name"`
	End    EndBehavior  `yaml:"end"`
	Frames [][2]float32 `yaml:"frames"`
}

// LoadTable reads a YAML sheet table from fsys and uploads every sheet through tex.
// File names inside the table are relative to the table's directory.
func LoadTable(fsys fs.FS, name string, tex TextureCreator) (*Table, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read sprite table %s: %w", name, err)
	}
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sprite table %s: %w", name, err)
	}

	t := &Table{
		sheets: make(map[string]*Sheet, len(file.Sheets)),
		images: make(map[string]*image.RGBA, len(file.Sheets)),
	}
	dir := path.Dir(name)
	for i := range file.Sheets {
		def := &file.Sheets[i]
		if def.Name == "" {
			return nil, fmt.Errorf("%s: %w: sheet %d has no name", name, ErrBadSheet, i)
		}
		if _, dup := t.sheets[def.Name]; dup {
			return nil, fmt.Errorf("%s: %w: duplicate sheet %q", name, ErrBadSheet, def.Name)
		}
		sheet, img, err := buildSheet(fsys, dir, def)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err := sheet.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if tex != nil {
			b := img.Bounds()
			sheet.Texture = tex.CreateTexture(img.Pix, int32(b.Dx()), int32(b.Dy()))
		}
		t.sheets[sheet.Name] = sheet
		t.order = append(t.order, sheet)
		t.images[sheet.Name] = img
	}
	return t, nil
}

func buildSheet(fsys fs.FS, dir string, def *sheetDef) (*Sheet, *image.RGBA, error) {
	switch def.Kind {
	case "", "image":
		return buildImageSheet(fsys, dir, def)
	case "gif":
		data, err := fs.ReadFile(fsys, path.Join(dir, def.File))
		if err != nil {
			return nil, nil, fmt.Errorf("sheet %s: %w", def.Name, err)
		}
		return BuildGIFSheet(def.Name, bytes.NewReader(data), def.Columns, def.End)
	case "glyphs":
		face := DefaultFace()
		if def.File != "" {
			data, err := fs.ReadFile(fsys, path.Join(dir, def.File))
			if err != nil {
				return nil, nil, fmt.Errorf("sheet %s: %w", def.Name, err)
			}
			size := def.FontSize
			if size <= 0 {
				size = 16
			}
			if face, err = ParseFace(data, size); err != nil {
				return nil, nil, fmt.Errorf("sheet %s: %w", def.Name, err)
			}
		}
		return BuildGlyphSheet(def.Name, face, GlyphSheetOptions{Charset: def.Charset, Columns: def.Columns, Padding: def.Padding})
	default:
		return nil, nil, fmt.Errorf("%w: sheet %s: unknown kind %q", ErrBadSheet, def.Name, def.Kind)
	}
}

func buildImageSheet(fsys fs.FS, dir string, def *sheetDef) (*Sheet, *image.RGBA, error) {
	f, err := fsys.Open(path.Join(dir, def.File))
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %s: %w", def.Name, err)
	}
	defer f.Close()
	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("decode sheet %s: %w", def.Name, err)
	}
	img := toRGBA(decoded)

	sheet := &Sheet{
		Name:       def.Name,
		PanelDims:  mgl32.Vec2{float32(def.Panel[0]), float32(def.Panel[1])},
		SheetDims:  mgl32.Vec2{float32(img.Rect.Dx()), float32(img.Rect.Dy())},
		Animations: make([]Animation, 0, len(def.Animations)),
	}
	for _, a := range def.Animations {
		anim := Animation{Name: a.Name, End: a.End, Frames: make([]mgl32.Vec2, len(a.Frames))}
		for i, f := range a.Frames {
			anim.Frames[i] = mgl32.Vec2{f[0], f[1]}
		}
		sheet.Animations = append(sheet.Animations, anim)
	}
	if def.Glyphs != "" {
		sheet.Glyphs = make(GlyphMap)
		var i int32
		for _, r := range def.Glyphs {
			sheet.Glyphs[r] = i
			i++
		}
	}
	return sheet, img, nil
}

// Sheet returns the sheet called name.
func (t *Table) Sheet(name string) (*Sheet, bool) {
	s, ok := t.sheets[name]
	return s, ok
}

// Sheets returns the sheets in table order.
func (t *Table) Sheets() []*Sheet {
	return t.order
}

// DumpPNGs writes every sheet image to dir as <name>.png.
func (t *Table) DumpPNGs(dir string) error {
	for _, s := range t.order {
		if err := DumpPNG(t.images[s.Name], filepath.Join(dir, s.Name+".png")); err != nil {
			return fmt.Errorf("dump sheet %s: %w", s.Name, err)
		}
	}
	return nil
}
