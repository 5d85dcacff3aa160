package viewer

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-dot-field/pkg/geometry"
)

func TestCamera_ViewportCoversWorldAtStart(t *testing.T) {
	world := geometry.Bounds{MinLng: -180, MinLat: -90, MaxLng: 180, MaxLat: 90}
	cam := newCamera(world, 1280, 800)

	vp := cam.viewport()
	if !vp.Valid() {
		t.Fatalf("viewport %s is degenerate", vp)
	}
	if vp.MinLng > world.MinLng || vp.MaxLng < world.MaxLng ||
		vp.MinLat > world.MinLat || vp.MaxLat < world.MaxLat {
		t.Errorf("initial viewport %s does not cover world %s", vp, world)
	}
}

func TestCamera_WorldToScreen(t *testing.T) {
	world := geometry.Bounds{MinLng: -180, MinLat: -90, MaxLng: 180, MaxLat: 90}
	cam := newCamera(world, 1000, 500)

	// The world center lands on the screen center.
	cx, cy := cam.worldToScreen(0, 0)
	if cx != 500 || cy != 250 {
		t.Errorf("center projects to (%v, %v); want (500, 250)", cx, cy)
	}

	// North is up: a higher latitude gives a smaller pixel y.
	_, yNorth := cam.worldToScreen(0, 45)
	_, ySouth := cam.worldToScreen(0, -45)
	if yNorth >= ySouth {
		t.Errorf("north y %v should be above south y %v", yNorth, ySouth)
	}
}

func TestCamera_PanShiftsViewport(t *testing.T) {
	world := geometry.Bounds{MinLng: -180, MinLat: -90, MaxLng: 180, MaxLat: 90}
	cam := newCamera(world, 1000, 500)

	before := cam.viewport()
	cam.pan(100, 0)
	after := cam.viewport()

	wantShift := 100 * cam.degPerPixel
	if got := after.MinLng - before.MinLng; !floatNear(got, wantShift) {
		t.Errorf("pan shifted MinLng by %v; want %v", got, wantShift)
	}
	if after.MinLat != before.MinLat {
		t.Errorf("horizontal pan moved latitude: %v -> %v", before.MinLat, after.MinLat)
	}
}

func TestCamera_ZoomClamped(t *testing.T) {
	world := geometry.Bounds{MinLng: -180, MinLat: -90, MaxLng: 180, MaxLat: 90}
	cam := newCamera(world, 1000, 500)

	for i := 0; i < 500; i++ {
		cam.zoom(0.5)
	}
	if cam.degPerPixel < 1e-5 {
		t.Errorf("degPerPixel = %v; want clamped at 1e-5", cam.degPerPixel)
	}

	for i := 0; i < 500; i++ {
		cam.zoom(2)
	}
	if cam.degPerPixel > 10 {
		t.Errorf("degPerPixel = %v; want clamped at 10", cam.degPerPixel)
	}
}

func floatNear(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
