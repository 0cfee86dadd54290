package importer

import (
	"errors"
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PosterCut/internal/model"
)

// ErrEmptyDrawing is returned when a DXF file has no measurable geometry.
var ErrEmptyDrawing = errors.New("DXF drawing has no measurable entities")

// arcSteps is how finely arcs are sampled when measuring extents.
const arcSteps = 32

// extents accumulates a 2D bounding box.
type extents struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func newExtents() extents {
	return extents{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
		empty: true,
	}
}

func (e *extents) add(x, y float64) {
	e.minX = math.Min(e.minX, x)
	e.minY = math.Min(e.minY, y)
	e.maxX = math.Max(e.maxX, x)
	e.maxY = math.Max(e.maxY, y)
	e.empty = false
}

func (e *extents) addArc(cx, cy, r, startRad, endRad float64) {
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}
	for i := 0; i <= arcSteps; i++ {
		a := startRad + (endRad-startRad)*float64(i)/arcSteps
		e.add(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
}

// addBulge adds the arc a DXF bulge draws between p1 and p2. The bulge is
// the tangent of a quarter of the included angle, positive counter-clockwise.
func (e *extents) addBulge(x1, y1, x2, y2, bulge float64) {
	dx, dy := x2-x1, y2-y1
	chord := math.Hypot(dx, dy)
	if chord < model.Epsilon {
		return
	}
	sagitta := math.Abs(bulge) * chord / 2
	r := (chord*chord/(4*sagitta) + sagitta) / 2
	nx, ny := -dy/chord, dx/chord
	if bulge < 0 {
		nx, ny = -nx, -ny
	}
	// The centre sits on the chord normal, away from the bulge side.
	d := r - sagitta
	cx := (x1+x2)/2 + nx*d
	cy := (y1+y2)/2 + ny*d

	start := math.Atan2(y1-cy, x1-cx)
	end := math.Atan2(y2-cy, x2-cx)
	if bulge < 0 {
		start, end = end, start
	}
	e.addArc(cx, cy, r, start, end)
}

func (e extents) size() model.Size {
	if e.empty {
		return model.Size{}
	}
	return model.NewSize(e.maxX-e.minX, e.maxY-e.minY)
}

// SourceFromDXF measures the drawing extents of a DXF file. Drawing units
// are taken as mm. Lines, polylines, circles and arcs count; text and
// other annotation does not.
func SourceFromDXF(path string) (model.Size, error) {
	drawing, err := dxf.Open(path)
	if err != nil {
		return model.Size{}, fmt.Errorf("cannot open DXF file: %w", err)
	}
	return measureEntities(drawing.Entities())
}

func measureEntities(entities entity.Entities) (model.Size, error) {
	ext := newExtents()
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			n := len(e.Vertices)
			for i, v := range e.Vertices {
				ext.add(v[0], v[1])
				if i < len(e.Bulges) && math.Abs(e.Bulges[i]) > model.Epsilon && n > 1 {
					next := e.Vertices[(i+1)%n]
					ext.addBulge(v[0], v[1], next[0], next[1], e.Bulges[i])
				}
			}
		case *entity.Line:
			ext.add(e.Start[0], e.Start[1])
			ext.add(e.End[0], e.End[1])
		case *entity.Circle:
			ext.add(e.Center[0]-e.Radius, e.Center[1]-e.Radius)
			ext.add(e.Center[0]+e.Radius, e.Center[1]+e.Radius)
		case *entity.Arc:
			ext.addArc(e.Circle.Center[0], e.Circle.Center[1], e.Circle.Radius,
				e.Angle[0]*math.Pi/180, e.Angle[1]*math.Pi/180)
		}
	}

	size := ext.size()
	if !size.Valid() {
		return model.Size{}, ErrEmptyDrawing
	}
	return size, nil
}
