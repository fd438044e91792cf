package selection

import (
	"fmt"

	"intelliscissors/internal/eventbus"
	"intelliscissors/pkg/geometry"
)

// PointToPoint is a Model variant connecting consecutive points with
// straight line segments.
//
// Grounded on original_source/src/selector/PointToPointSelectionModel.java.
type PointToPoint struct {
	base
}

// NewPointToPoint creates an empty PointToPoint model. Call SetImage before
// starting a selection.
func NewPointToPoint() *PointToPoint {
	return &PointToPoint{}
}

// NewPointToPointFromModel copies another model's in-progress selection into
// a new PointToPoint, so a caller can switch tool variants mid-selection
// without losing work. Grounded on the Java
// PointToPointSelectionModel(SelectionModel copy) constructor, including its
// `if (state == PROCESSING) state = SELECTING;` collapse: the copy starts
// with no background solve, so it can never claim the mid-solve state.
func NewPointToPointFromModel(m Model) *PointToPoint {
	p := &PointToPoint{}
	p.width, p.height = widthHeightOf(m)
	p.points = m.Points()
	p.segments = segmentsOf(m)
	p.state = collapseProcessing(m.State())
	return p
}

func widthHeightOf(m Model) (int, int) {
	switch v := m.(type) {
	case *PointToPoint:
		return v.width, v.height
	case *Scissors:
		return v.width, v.height
	default:
		return 0, 0
	}
}

// segmentsOf returns a copy of m's committed segments, mirroring Points()'s
// copy-on-read contract for the one other piece of selection state a
// copy-construct-on-variant-switch needs that the Model interface doesn't
// otherwise expose.
func segmentsOf(m Model) []geometry.Polyline {
	var src []geometry.Polyline
	switch v := m.(type) {
	case *PointToPoint:
		src = v.segments
	case *Scissors:
		src = v.segments
	default:
		return nil
	}
	cp := make([]geometry.Polyline, len(src))
	copy(cp, src)
	return cp
}

// collapseProcessing maps Processing to Selecting, matching
// SelectionModel.java's copy constructor: a freshly copy-constructed model
// has no background solve in flight, so it can't claim to be mid-solve.
func collapseProcessing(s State) State {
	if s == Processing {
		return Selecting
	}
	return s
}

// SetImage implements Model.
func (p *PointToPoint) SetImage(width, height int) {
	p.setImage(width, height)
}

// StartSelection implements Model.
func (p *PointToPoint) StartSelection(pt geometry.PointInt) error {
	return p.startSelection(pt)
}

// LiveWire implements Model, returning the straight-line path from the last
// confirmed point to pt.
func (p *PointToPoint) LiveWire(pt geometry.PointInt) (geometry.Polyline, error) {
	if p.state != Selecting {
		return geometry.Polyline{}, fmt.Errorf("%w: LiveWire requires Selecting, got %v", ErrIllegalState, p.state)
	}
	last, err := p.LastPoint()
	if err != nil {
		return geometry.Polyline{}, err
	}
	return straightLine(last, pt), nil
}

// AddPoint implements Model.
func (p *PointToPoint) AddPoint(pt geometry.PointInt) error {
	if p.state != Selecting {
		return fmt.Errorf("%w: AddPoint requires Selecting, got %v", ErrIllegalState, p.state)
	}
	if !p.inBounds(pt) {
		return fmt.Errorf("%w: point %v outside image bounds", ErrInvalidArgument, pt)
	}
	seg, err := p.LiveWire(pt)
	if err != nil {
		return err
	}
	p.segments = append(p.segments, seg)
	p.points = append(p.points, pt)
	p.events.Emit(eventbus.PropertySelection, nil, p.Points())
	return nil
}

// MovePoint implements Model, relocating the control point at index and
// re-resolving the straight-line segments joined at it. The selection is
// closed (segments[i] runs points[i] -> points[(i+1)%n]), so the segment
// before index 0 wraps around to the closing segment.
func (p *PointToPoint) MovePoint(index int, pt geometry.PointInt) error {
	if p.state != Selected {
		return fmt.Errorf("%w: MovePoint requires Selected, got %v", ErrIllegalState, p.state)
	}
	n := len(p.points)
	if index < 0 || index >= n {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidArgument, index)
	}
	if !p.inBounds(pt) {
		return fmt.Errorf("%w: point %v outside image bounds", ErrInvalidArgument, pt)
	}

	before := (index - 1 + n) % n
	after := (index + 1) % n
	p.points[index] = pt
	p.segments[before] = straightLine(p.points[before], pt)
	p.segments[index] = straightLine(pt, p.points[after])

	p.events.Emit(eventbus.PropertySelection, nil, p.Points())
	return nil
}

// FinishSelection implements Model, closing the selection with a straight
// segment back to the start point.
func (p *PointToPoint) FinishSelection() error {
	return p.finishSelection(func() (geometry.Polyline, error) {
		last, err := p.LastPoint()
		if err != nil {
			return geometry.Polyline{}, err
		}
		return straightLine(last, p.points[0]), nil
	})
}

// Undo implements Model. PointToPoint never enters Processing, so this is
// always equivalent to UndoPoint.
func (p *PointToPoint) Undo() error {
	return p.UndoPoint()
}

// CancelProcessing implements Model. PointToPoint never enters Processing,
// so this is always a no-op.
func (p *PointToPoint) CancelProcessing() {}

// ProcessingProgress implements Model. PointToPoint never enters Processing.
func (p *PointToPoint) ProcessingProgress() int {
	return 0
}

// straightLine builds the literal two-point segment from a to b, mirroring
// PolyLine.java's two-point constructor (new PolyLine(lastPoint(), p)) rather
// than rasterizing the intermediate pixels a renderer would later draw
// through.
func straightLine(a, b geometry.PointInt) geometry.Polyline {
	return geometry.NewPolyline([]geometry.PointInt{a, b})
}
