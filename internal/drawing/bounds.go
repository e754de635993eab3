package drawing

import "math"

// Area is an axis-aligned rectangle on the canvas.
type Area struct {
	X, Y          float64
	Width, Height float64
}

func (a Area) Empty() bool { return a.Width <= 0 && a.Height <= 0 }

// Union returns the smallest area covering both.
func (a Area) Union(b Area) Area {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	minX, minY := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	maxX := math.Max(a.X+a.Width, b.X+b.Width)
	maxY := math.Max(a.Y+a.Height, b.Y+b.Height)
	return Area{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ElementBounds is the area an element covers, padded by half its line width
// for strokes. Text is estimated from its length at the fixed font size.
func ElementBounds(el Element) Area {
	switch e := el.(type) {
	case Rectangle:
		return Area{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
	case Circle:
		return Area{X: e.CenterX - e.Radius, Y: e.CenterY - e.Radius, Width: 2 * e.Radius, Height: 2 * e.Radius}
	case Text:
		w := float64(len([]rune(e.Content))) * TextSize * 0.6
		return Area{X: e.X, Y: e.Y - TextSize, Width: w, Height: TextSize}
	case Stroke:
		if len(e.Points) == 0 {
			return Area{}
		}
		minX, minY := e.Points[0].X, e.Points[0].Y
		maxX, maxY := minX, minY
		for _, p := range e.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		pad := e.LineWidth / 2
		return Area{X: minX - pad, Y: minY - pad, Width: maxX - minX + 2*pad, Height: maxY - minY + 2*pad}
	}
	return Area{}
}

// Bounds covers every element of the document.
func Bounds(elements []Element) Area {
	var a Area
	for _, el := range elements {
		a = a.Union(ElementBounds(el))
	}
	return a
}
