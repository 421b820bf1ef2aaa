package thumbnail

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Face is a parsed font plus a measuring face at its base size.
type Face struct {
	Font     *truetype.Font
	Face     font.Face
	baseSize float64
}

// Fonts is the set of faces a thumbnail is drawn with.
type Fonts struct {
	Regular *Face
	Bold    *Face
	Mono    *Face
}

func (f Fonts) complete() bool {
	return f.Regular != nil && f.Bold != nil && f.Mono != nil
}

// FontConfig names TrueType files to load; empty paths select the bundled
// Go fonts. SizeBase is the paragraph size in points.
type FontConfig struct {
	RegularPath string
	BoldPath    string
	MonoPath    string
	SizeBase    float64
}

func parseFace(ttf []byte, size float64) (*Face, error) {
	ft, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(ft, &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull})
	return &Face{Font: ft, Face: face, baseSize: size}, nil
}

func loadFace(path string, fallback []byte, size float64) (*Face, error) {
	ttf := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		ttf = b
	}
	f, err := parseFace(ttf, size)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		return nil, err
	}
	return f, nil
}

// LoadFonts loads the faces named by cfg.
func LoadFonts(cfg FontConfig) (Fonts, error) {
	if cfg.SizeBase <= 0 {
		cfg.SizeBase = DefaultFontSize
	}
	var (
		f   Fonts
		err error
	)
	if f.Regular, err = loadFace(cfg.RegularPath, goregular.TTF, cfg.SizeBase); err != nil {
		return Fonts{}, err
	}
	if f.Bold, err = loadFace(cfg.BoldPath, gobold.TTF, cfg.SizeBase); err != nil {
		return Fonts{}, err
	}
	if f.Mono, err = loadFace(cfg.MonoPath, gomono.TTF, cfg.SizeBase); err != nil {
		return Fonts{}, err
	}
	return f, nil
}
