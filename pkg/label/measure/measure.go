// Package measure sizes label text.
//
// Two measurers are provided: [Font], which reads advances and line metrics
// from a TrueType/OpenType font, and [Estimator], a fixed per-character
// heuristic with no font dependency. Both return [label.Size] in the same
// units as the font size.
package measure

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/datalabels/pkg/label"
)

// DefaultFontSize is used when a scene does not set one.
const DefaultFontSize = 12.0

// maxCached bounds the size cache. It is cleared when full.
const maxCached = 8192

// Measurer returns the rendered extent of a single line of text.
type Measurer interface {
	Measure(text string, size float64) label.Size
}

// Label measures a label with an optional second line. The width is the
// wider of the two lines and the height is their sum.
func Label(m Measurer, text, secondary string, size float64) label.Size {
	s := m.Measure(text, size)
	if secondary == "" {
		return s
	}
	t := m.Measure(secondary, size)
	return label.Size{Width: max(s.Width, t.Width), Height: s.Height + t.Height}
}

type sizeKey struct {
	text string
	size float64
}

// Font measures text with real glyph advances. It is safe for concurrent
// use; faces and results are cached per size.
type Font struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
	sizes map[sizeKey]label.Size
}

// NewFont parses a TrueType or OpenType font.
func NewFont(data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Font{
		font:  f,
		faces: make(map[float64]font.Face),
		sizes: make(map[sizeKey]label.Size),
	}, nil
}

var (
	defaultOnce sync.Once
	defaultFont *Font
	defaultErr  error
)

// Default returns a shared measurer for the Go Regular font.
func Default() (*Font, error) {
	defaultOnce.Do(func() {
		defaultFont, defaultErr = NewFont(goregular.TTF)
	})
	return defaultFont, defaultErr
}

// Measure returns the advance width of text and the font's ascent plus
// descent at the given size. Empty text or a non-positive size measure as
// zero.
func (f *Font) Measure(text string, size float64) label.Size {
	if text == "" || !(size > 0) {
		return label.Size{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := sizeKey{text, size}
	if s, ok := f.sizes[key]; ok {
		return s
	}

	face, err := f.face(size)
	if err != nil {
		return label.Size{}
	}
	m := face.Metrics()
	s := label.Size{
		Width:  fixedToFloat(font.MeasureString(face, text)),
		Height: fixedToFloat(m.Ascent + m.Descent),
	}

	if len(f.sizes) >= maxCached {
		clear(f.sizes)
	}
	f.sizes[key] = s
	return s
}

// face must be called with mu held.
func (f *Font) face(size float64) (font.Face, error) {
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	f.faces[size] = face
	return face, nil
}

// cached reports how many measurements are held.
func (f *Font) cached() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sizes)
}

func fixedToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// Estimator approximates text size from the character count.
type Estimator struct {
	// CharWidth is the average glyph advance as a fraction of the font size.
	CharWidth float64
	// LineHeight is the line height as a fraction of the font size.
	LineHeight float64
}

// DefaultEstimator matches the proportions of common sans-serif fonts.
var DefaultEstimator = Estimator{CharWidth: 0.55, LineHeight: 1.2}

// Measure implements [Measurer].
func (e Estimator) Measure(text string, size float64) label.Size {
	n := utf8.RuneCountInString(text)
	if n == 0 || !(size > 0) {
		return label.Size{}
	}
	return label.Size{
		Width:  float64(n) * size * e.CharWidth,
		Height: size * e.LineHeight,
	}
}
