// Package viewer is the interactive ebiten front end for the dot-field
// engine: a pannable, zoomable map view with a control panel and a live
// stats overlay.
package viewer

import (
	"github.com/lao-tseu-is-alive/go-dot-field/pkg/geometry"
)

// camera maps between world coordinates (degrees, latitude up) and screen
// pixels (y down). Zoom is expressed as degrees per pixel.
type camera struct {
	center      geometry.Vector2D
	degPerPixel float64
	screenW     float64
	screenH     float64
}

func newCamera(world geometry.Bounds, screenW, screenH float64) *camera {
	// Fit the whole world into the window at start.
	dpp := world.Width() / screenW
	if v := world.Height() / screenH; v > dpp {
		dpp = v
	}
	return &camera{
		center:      world.Center(),
		degPerPixel: dpp,
		screenW:     screenW,
		screenH:     screenH,
	}
}

// viewport returns the world-space rectangle currently on screen.
func (c *camera) viewport() geometry.Bounds {
	halfW := c.screenW / 2 * c.degPerPixel
	halfH := c.screenH / 2 * c.degPerPixel
	return geometry.Bounds{
		MinLng: c.center.X - halfW,
		MinLat: c.center.Y - halfH,
		MaxLng: c.center.X + halfW,
		MaxLat: c.center.Y + halfH,
	}
}

// worldToScreen projects a world point into pixel coordinates. Latitude
// grows upward, pixels grow downward, so the y axis flips.
func (c *camera) worldToScreen(lng, lat float64) (float32, float32) {
	x := c.screenW/2 + (lng-c.center.X)/c.degPerPixel
	y := c.screenH/2 - (lat-c.center.Y)/c.degPerPixel
	return float32(x), float32(y)
}

// pan moves the view by a pixel delta.
func (c *camera) pan(dxPx, dyPx float64) {
	c.center.X += dxPx * c.degPerPixel
	c.center.Y -= dyPx * c.degPerPixel
}

// zoom scales degrees-per-pixel by factor, keeping the center fixed.
// Factors below one zoom in.
func (c *camera) zoom(factor float64) {
	c.degPerPixel *= factor
	if c.degPerPixel < 1e-5 {
		c.degPerPixel = 1e-5
	}
	if c.degPerPixel > 10 {
		c.degPerPixel = 10
	}
}
