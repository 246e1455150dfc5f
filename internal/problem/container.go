package problem

import "github.com/rbscholtus/glsstrip/internal/geo"

// Container is the strip: fixed height, a width that the optimizer shrinks
// over the course of a run (spec.md §3, GLOSSARY "Strip"). Origin is always
// (0, 0).
type Container struct {
	Width  float64
	Height float64
}

// NewContainer builds a container of the given starting width and fixed height.
func NewContainer(width, height float64) Container {
	return Container{Width: width, Height: height}
}

// Rect returns the container's current bounding rectangle.
func (c Container) Rect() geo.AARectangle {
	return geo.NewAARectangle(0, 0, c.Width, c.Height)
}
