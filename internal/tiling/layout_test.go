package tiling

import (
	"reflect"
	"testing"

	"github.com/1broseidon/bsptile/internal/platform"
)

func ids(n int) []platform.WindowID {
	out := make([]platform.WindowID, n)
	for i := range out {
		out[i] = platform.WindowID(i + 1)
	}
	return out
}

func TestBSP_ThreeWindowsHalfRatio(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	got := BSP{}.Apply(ids(3), area, 0, 0.5)
	want := []Placement{
		{ID: 1, Rect: platform.Rect{X: 0, Y: 0, Width: 960, Height: 1080}},
		{ID: 2, Rect: platform.Rect{X: 960, Y: 0, Width: 960, Height: 540}},
		{ID: 3, Rect: platform.Rect{X: 960, Y: 540, Width: 960, Height: 540}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Apply() = %+v, want %+v", got, want)
	}
}

func TestBSP_EmptyAndSingle(t *testing.T) {
	area := platform.Rect{X: 100, Y: 50, Width: 800, Height: 600}

	if got := (BSP{}).Apply(nil, area, 10, 0.5); len(got) != 0 {
		t.Fatalf("expected no placements for empty input, got %+v", got)
	}

	got := BSP{}.Apply(ids(1), area, 10, 0.5)
	want := platform.Rect{X: 110, Y: 60, Width: 780, Height: 580}
	if len(got) != 1 || got[0].Rect != want {
		t.Fatalf("single window = %+v, want %+v", got, want)
	}
}

func TestBSP_AlternatesOrientation(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}

	got := BSP{}.Apply(ids(4), area, 0, 0.5)
	want := []platform.Rect{
		{X: 0, Y: 0, Width: 500, Height: 1000},
		{X: 500, Y: 0, Width: 500, Height: 500},
		{X: 500, Y: 500, Width: 250, Height: 500},
		{X: 750, Y: 500, Width: 250, Height: 500},
	}
	for i, p := range got {
		if p.Rect != want[i] {
			t.Errorf("placement %d = %+v, want %+v", i, p.Rect, want[i])
		}
	}
}

func TestBSP_RatioOutOfRangeFallsBackToDefault(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1000, Height: 500}

	for _, ratio := range []float64{0, -1, 1, 2} {
		got := BSP{}.Apply(ids(2), area, 0, ratio)
		if got[0].Rect.Width != 500 {
			t.Errorf("ratio %v: first width = %d, want 500", ratio, got[0].Rect.Width)
		}
	}
}

func TestBSP_MinimumOnePixel(t *testing.T) {
	tests := []struct {
		name string
		area platform.Rect
		gap  int
		n    int
	}{
		{"gap larger than area", platform.Rect{Width: 20, Height: 20}, 50, 3},
		{"many windows in tiny area", platform.Rect{Width: 3, Height: 3}, 0, 8},
		{"zero area", platform.Rect{}, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BSP{}.Apply(ids(tt.n), tt.area, tt.gap, 0.3)
			if len(got) != tt.n {
				t.Fatalf("expected %d placements, got %d", tt.n, len(got))
			}
			for _, p := range got {
				if p.Rect.Width < 1 || p.Rect.Height < 1 {
					t.Fatalf("placement %d has degenerate rect %+v", p.ID, p.Rect)
				}
			}
		})
	}
}

func TestBSP_Deterministic(t *testing.T) {
	area := platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}
	a := BSP{}.Apply(ids(5), area, 8, 0.6)
	b := BSP{}.Apply(ids(5), area, 8, 0.6)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical output, got %+v and %+v", a, b)
	}
}
