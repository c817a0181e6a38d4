// Package geometry converts between canvas-local pixel coordinates and
// document coordinates. Document coordinates are signed integer offsets from
// the canvas centre at zoom 1 with no pan applied.
package geometry

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center is the midpoint of a canvas of this size.
func (s Size) Center() Point {
	return Point{X: s.Width / 2, Y: s.Height / 2}
}

// Viewport describes how the document is currently shown on a canvas.
// PanOffset is expressed in canvas pixels.
type Viewport struct {
	Size      Size    `json:"size"`
	PanOffset Size    `json:"pan_offset"`
	ZoomScale float64 `json:"zoom_scale"`
}

// NewViewport returns an unpanned viewport at zoom 1.
func NewViewport(size Size) Viewport {
	return Viewport{Size: size, ZoomScale: 1}
}

func (v Viewport) zoom() float64 {
	if v.ZoomScale <= 0 || math.IsNaN(v.ZoomScale) || math.IsInf(v.ZoomScale, 0) {
		return 1
	}
	return v.ZoomScale
}

// ToDocument maps a canvas-local point to document coordinates, truncating
// toward zero.
func (v Viewport) ToDocument(p Point) (x, y int) {
	center := v.Size.Center()
	zoom := v.zoom()
	dx := (p.X - v.PanOffset.Width - center.X) / zoom
	dy := (p.Y - v.PanOffset.Height - center.Y) / zoom
	return int(dx), int(dy)
}

// FromDocument maps document coordinates to a canvas-local point.
func (v Viewport) FromDocument(x, y int) Point {
	center := v.Size.Center()
	zoom := v.zoom()
	return Point{
		X: center.X + float64(x)*zoom + v.PanOffset.Width,
		Y: center.Y + float64(y)*zoom + v.PanOffset.Height,
	}
}

// EmojiSize is the document size that renders as defaultSize canvas pixels
// at the current zoom.
func (v Viewport) EmojiSize(defaultSize float64) int {
	size := int(defaultSize / v.zoom())
	if size < 1 {
		return 1
	}
	return size
}

// ZoomToFit returns a viewport that shows the whole image inside the view,
// with the pan reset. ok is false when either size is degenerate.
func ZoomToFit(image, view Size) (Viewport, bool) {
	if image.Width <= 0 || image.Height <= 0 || view.Width <= 0 || view.Height <= 0 {
		return Viewport{}, false
	}
	hZoom := view.Width / image.Width
	vZoom := view.Height / image.Height
	return Viewport{Size: view, ZoomScale: math.Min(hZoom, vZoom)}, true
}
