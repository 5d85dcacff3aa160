package geometry

import (
	"testing"
)

func TestNewBounds(t *testing.T) {
	tests := []struct {
		name    string
		min     [2]float64
		max     [2]float64
		wantErr bool
	}{
		{"Valid world", [2]float64{-180, -90}, [2]float64{180, 90}, false},
		{"Valid small", [2]float64{6.5, 46.5}, [2]float64{6.7, 46.6}, false},
		{"Zero width", [2]float64{10, 0}, [2]float64{10, 1}, true},
		{"Inverted lat", [2]float64{0, 5}, [2]float64{1, 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBounds(tt.min[0], tt.min[1], tt.max[0], tt.max[1])
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBounds(%v, %v) error = %v; wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestBounds_Contains(t *testing.T) {
	b := Bounds{MinLng: 0, MinLat: 0, MaxLng: 10, MaxLat: 5}

	tests := []struct {
		name string
		p    Vector2D
		want bool
	}{
		{"Center", Vector2D{5, 2.5}, true},
		{"On min corner", Vector2D{0, 0}, true},
		{"On max corner", Vector2D{10, 5}, true},
		{"On edge", Vector2D{10, 2}, true},
		{"Outside lng", Vector2D{10.001, 2}, false},
		{"Outside lat", Vector2D{5, -0.001}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("%s.Contains(%v) = %v; want %v", b, tt.p, got, tt.want)
			}
			if got := b.ContainsXY(tt.p.X, tt.p.Y); got != tt.want {
				t.Errorf("%s.ContainsXY(%v) = %v; want %v", b, tt.p, got, tt.want)
			}
		})
	}
}

func TestBounds_Expand(t *testing.T) {
	b := Bounds{MinLng: 0, MinLat: 0, MaxLng: 10, MaxLat: 5}
	got := b.Expand(0.5)
	want := Bounds{MinLng: -0.5, MinLat: -0.5, MaxLng: 10.5, MaxLat: 5.5}
	if got != want {
		t.Errorf("Expand(0.5) = %v; want %v", got, want)
	}

	// A point just outside the raw rectangle falls inside the expanded one.
	p := Vector2D{10.3, 5.3}
	if b.Contains(p) {
		t.Errorf("%s should not contain %v", b, p)
	}
	if !got.Contains(p) {
		t.Errorf("%s should contain %v", got, p)
	}
}

func TestBounds_Clamp(t *testing.T) {
	b := Bounds{MinLng: 0, MinLat: 0, MaxLng: 1, MaxLat: 1}

	tests := []struct {
		name string
		p    Vector2D
		want Vector2D
	}{
		{"Inside unchanged", Vector2D{0.5, 0.5}, Vector2D{0.5, 0.5}},
		{"Beyond max lng", Vector2D{1.2, 0.5}, Vector2D{1, 0.5}},
		{"Beyond both mins", Vector2D{-3, -4}, Vector2D{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Clamp(tt.p); !got.Eq(tt.want) {
				t.Errorf("Clamp(%v) = %v; want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBounds_ApproxEq(t *testing.T) {
	b := Bounds{MinLng: 0, MinLat: 0, MaxLng: 10, MaxLat: 5}
	eps := 0.001

	// A sub-epsilon wiggle on every edge is still "the same viewport".
	wiggle := Bounds{MinLng: 0.0004, MinLat: -0.0004, MaxLng: 10.0004, MaxLat: 4.9996}
	if !b.ApproxEq(wiggle, eps) {
		t.Errorf("%s.ApproxEq(%s, %v) = false; want true", b, wiggle, eps)
	}

	// One edge moved past epsilon breaks the match.
	moved := Bounds{MinLng: 0.002, MinLat: 0, MaxLng: 10, MaxLat: 5}
	if b.ApproxEq(moved, eps) {
		t.Errorf("%s.ApproxEq(%s, %v) = true; want false", b, moved, eps)
	}
}

func TestBounds_Dimensions(t *testing.T) {
	b := Bounds{MinLng: -2, MinLat: 1, MaxLng: 3, MaxLat: 4}
	if got := b.Width(); got != 5 {
		t.Errorf("Width = %v; want 5", got)
	}
	if got := b.Height(); got != 3 {
		t.Errorf("Height = %v; want 3", got)
	}
	if got := b.Center(); !got.Eq(Vector2D{0.5, 2.5}) {
		t.Errorf("Center = %v; want (0.5, 2.5)", got)
	}
}
