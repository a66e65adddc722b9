package measure

import (
	"fmt"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/datalabels/pkg/label"
)

func TestEstimator(t *testing.T) {
	tests := []struct {
		text string
		size float64
		want label.Size
	}{
		{"text", 10, label.Size{Width: 22, Height: 12}},
		{"héllo", 20, label.Size{Width: 55, Height: 24}},
		{"", 10, label.Size{}},
		{"x", 0, label.Size{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q@%v", tt.text, tt.size), func(t *testing.T) {
			got := DefaultEstimator.Measure(tt.text, tt.size)
			if diff(got.Width, tt.want.Width) > 1e-9 || diff(got.Height, tt.want.Height) > 1e-9 {
				t.Errorf("Measure() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestLabel(t *testing.T) {
	got := Label(DefaultEstimator, "ab", "abcd", 10)
	want := label.Size{Width: 22, Height: 24}
	if diff(got.Width, want.Width) > 1e-9 || diff(got.Height, want.Height) > 1e-9 {
		t.Errorf("Label() = %+v, want %+v", got, want)
	}
	if got := Label(DefaultEstimator, "ab", "", 10); diff(got.Height, 12) > 1e-9 {
		t.Errorf("single line height = %v", got.Height)
	}
}

func TestFont(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	short := f.Measure("text", 12)
	long := f.Measure("text text", 12)
	if !short.Valid() {
		t.Fatalf("Measure(text) = %+v, want positive size", short)
	}
	if long.Width <= short.Width {
		t.Errorf("longer text not wider: %v <= %v", long.Width, short.Width)
	}
	if short.Height != long.Height {
		t.Errorf("height depends on text: %v vs %v", short.Height, long.Height)
	}
	if short.Height < 8 || short.Height > 20 {
		t.Errorf("height %v out of range for 12pt", short.Height)
	}

	big := f.Measure("text", 24)
	if diff(big.Width, 2*short.Width) > 1 {
		t.Errorf("24pt width %v is not about twice 12pt width %v", big.Width, short.Width)
	}

	if got := f.Measure("", 12); got != (label.Size{}) {
		t.Errorf("empty text = %+v", got)
	}
	if got := f.Measure("x", -1); got != (label.Size{}) {
		t.Errorf("negative size = %+v", got)
	}
}

func TestFontCache(t *testing.T) {
	f, err := NewFont(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	a := f.Measure("cached", 10)
	b := f.Measure("cached", 10)
	if a != b {
		t.Errorf("cached result differs: %+v vs %+v", a, b)
	}
	if n := f.cached(); n != 1 {
		t.Errorf("cached() = %d, want 1", n)
	}

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Measure(fmt.Sprintf("label %d", i%4), 10)
		}()
	}
	wg.Wait()
	if n := f.cached(); n != 5 {
		t.Errorf("cached() = %d, want 5", n)
	}
}

func TestNewFontInvalid(t *testing.T) {
	if _, err := NewFont([]byte("not a font")); err == nil {
		t.Error("expected error")
	}
}
