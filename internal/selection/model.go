// Package selection implements the interactive contour-selection state
// machine: a straight-line point-to-point variant and a least-cost
// "scissors" variant that solves each segment in the background.
//
// Grounded on original_source/src/selector/SelectionModel.java,
// PointToPointSelectionModel.java, and src/scissors/ScissorsSelectionModel.java.
package selection

import (
	"errors"
	"fmt"
	"image"
	"io"

	"intelliscissors/internal/eventbus"
	"intelliscissors/pkg/geometry"
)

// State is a selection's place in its lifecycle.
type State int

const (
	// NoSelection means no selection is in progress or committed.
	NoSelection State = iota
	// Selecting means the user has placed a start point and may append
	// further points.
	Selecting
	// Selected means the selection has been closed into a finished region.
	Selected
	// Processing means a scissors variant is waiting on a background solve
	// before a newly appended point can be confirmed.
	Processing
)

func (s State) String() string {
	switch s {
	case NoSelection:
		return "NoSelection"
	case Selecting:
		return "Selecting"
	case Selected:
		return "Selected"
	case Processing:
		return "Processing"
	default:
		return "Unknown"
	}
}

// Errors returned by Model operations. ErrIllegalState, ErrInvalidArgument
// and ErrWorkerFailure, together with ErrIoError in save.go, correspond to
// the error kinds IllegalState, InvalidArgument, WorkerFailure and IoError;
// ErrEmpty marks an operation on a selection with no committed point.
var (
	// ErrIllegalState is returned when an operation is invoked in a State
	// that does not support it (e.g. AddPoint while NoSelection).
	ErrIllegalState = errors.New("selection: illegal state for operation")
	// ErrInvalidArgument is returned for out-of-range indices or points
	// outside the image.
	ErrInvalidArgument = errors.New("selection: invalid argument")
	// ErrEmpty is returned when an operation requires a non-empty selection.
	ErrEmpty = errors.New("selection: selection is empty")
	// ErrWorkerFailure wraps an unexpected background-solve failure. Unlike
	// cancellation, this is fatal and is re-raised to the caller rather than
	// silently absorbed.
	ErrWorkerFailure = errors.New("selection: background worker failed")
)

// Model is the shared contract implemented by PointToPoint and Scissors.
// Grounded on SelectionModel.java's abstract base.
type Model interface {
	// SetImage resets the model and sets the image it selects within, given
	// as pixel dimensions.
	SetImage(width, height int)

	// State returns the model's current lifecycle state.
	State() State

	// StartSelection begins a new selection at p. Requires State() ==
	// NoSelection or Selected; transitions to Selecting.
	StartSelection(p geometry.PointInt) error

	// AddPoint appends p to the in-progress selection, connecting it to the
	// last point with this variant's path-finding rule. Requires State() ==
	// Selecting.
	AddPoint(p geometry.PointInt) error

	// LastPoint returns the end of the last committed segment (the start
	// point if there is none, and again once the selection is closed).
	// Requires a non-empty selection.
	LastPoint() (geometry.PointInt, error)

	// Points returns a copy of the confirmed points in the current
	// selection, in order.
	Points() []geometry.PointInt

	// LiveWire returns the speculative path from the last confirmed point to
	// p, without committing it. Requires State() == Selecting (Scissors also
	// accepts Processing).
	LiveWire(p geometry.PointInt) (geometry.Polyline, error)

	// UndoPoint removes the most recently confirmed point from the
	// selection. Requires State() == Selecting.
	UndoPoint() error

	// Undo cancels an in-progress background solve if State() == Processing,
	// otherwise removes the most recently confirmed point (equivalent to
	// UndoPoint). Mirrors the source's combined undo() dispatch.
	Undo() error

	// ClosestPoint returns the index of the confirmed point closest to p, if
	// any lies within maxDistSq (a squared-distance tolerance).
	ClosestPoint(p geometry.PointInt, maxDistSq int) (int, bool)

	// MovePoint relocates the confirmed point at index to p, re-resolving
	// its adjacent segments. Requires State() == Selected.
	MovePoint(index int, p geometry.PointInt) error

	// FinishSelection closes the selection into a polygon. Requires State()
	// == Selecting; transitions to Selected.
	FinishSelection() error

	// Reset discards the current selection. Transitions to NoSelection.
	Reset()

	// Polygon returns the finished selection's outline. Requires State() ==
	// Selected.
	Polygon() ([]geometry.PointInt, error)

	// SaveSelection encodes the region of src enclosed by the finished
	// selection as a PNG written to w. Requires State() == Selected and an
	// image set via SetImage.
	SaveSelection(src image.Image, w io.Writer) error

	// CancelProcessing cancels an in-progress background solve, if any.
	// No-op if State() != Processing.
	CancelProcessing()

	// ProcessingProgress returns the completion percentage (0 to 100) of an
	// in-progress background solve, or 0 if State() != Processing.
	ProcessingProgress() int

	// Events returns the model's event bus, emitting PropertyState,
	// PropertySelection, PropertyImage, and (for scissors variants)
	// PropertyProgress and PropertyPendingPaths.
	Events() *eventbus.Bus
}

// base holds the fields and state-machine mechanics shared by both Model
// implementations. Concrete types embed base and override the
// variant-specific operations (LiveWire, AddPoint's path-finding, MovePoint).
type base struct {
	width, height int

	state    State
	points   []geometry.PointInt
	segments []geometry.Polyline

	events eventbus.Bus
}

func (b *base) setImage(width, height int) {
	b.width, b.height = width, height
	b.points = nil
	b.segments = nil
	b.setState(NoSelection)
	b.events.Emit(eventbus.PropertyImage, nil, [2]int{width, height})
}

func (b *base) State() State {
	return b.state
}

func (b *base) setState(s State) {
	old := b.state
	b.state = s
	if old != s {
		b.events.Emit(eventbus.PropertyState, old, s)
	}
}

func (b *base) Events() *eventbus.Bus {
	return &b.events
}

func (b *base) inBounds(p geometry.PointInt) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

func (b *base) startSelection(p geometry.PointInt) error {
	if b.state != NoSelection && b.state != Selected {
		return fmt.Errorf("%w: StartSelection requires NoSelection or Selected, got %v", ErrIllegalState, b.state)
	}
	if !b.inBounds(p) {
		return fmt.Errorf("%w: point %v outside image bounds", ErrInvalidArgument, p)
	}
	b.points = []geometry.PointInt{p}
	b.segments = nil
	b.setState(Selecting)
	b.events.Emit(eventbus.PropertySelection, nil, b.Points())
	return nil
}

// LastPoint returns the end of the last committed segment, or the start
// point if no segment has been committed yet. Closing a selection appends a
// segment back to start, so LastPoint reports start again once Selected —
// matching a plain control point's LastPoint while a selection is still
// SELECTING in progress.
func (b *base) LastPoint() (geometry.PointInt, error) {
	if len(b.points) == 0 {
		return geometry.PointInt{}, ErrEmpty
	}
	if len(b.segments) == 0 {
		return b.points[0], nil
	}
	return b.segments[len(b.segments)-1].End(), nil
}

func (b *base) UndoPoint() error {
	if b.state != Selecting {
		return fmt.Errorf("%w: UndoPoint requires Selecting, got %v", ErrIllegalState, b.state)
	}
	if len(b.points) <= 1 {
		return ErrEmpty
	}
	b.popLastPoint()
	return nil
}

// popLastPoint drops the most recently confirmed point and its preceding
// segment without checking State(), so a Scissors worker can roll back a
// just-appended point when its background solve is cancelled.
func (b *base) popLastPoint() {
	if len(b.points) <= 1 {
		return
	}
	b.points = b.points[:len(b.points)-1]
	if len(b.segments) > 0 {
		b.segments = b.segments[:len(b.segments)-1]
	}
	b.events.Emit(eventbus.PropertySelection, nil, b.Points())
}

// ClosestPoint returns the index of the confirmed point closest to p whose
// squared distance to p is within maxDistSq. The tolerance is interpreted as
// a squared distance (matching its name), not a linear one, resolving an
// ambiguity left open by the source this is grounded on.
func (b *base) ClosestPoint(p geometry.PointInt, maxDistSq int) (int, bool) {
	best := -1
	bestDistSq := maxDistSq + 1
	for i, q := range b.points {
		d := p.DistanceSq(q)
		if d <= maxDistSq && d < bestDistSq {
			best = i
			bestDistSq = d
		}
	}
	return best, best >= 0
}

func (b *base) Points() []geometry.PointInt {
	cp := make([]geometry.PointInt, len(b.points))
	copy(cp, b.points)
	return cp
}

// finishSelection validates state, then either closes the selection or
// resets it to NoSelection depending on whether any segment has been
// committed yet. A non-empty selection is closed by appending the polyline
// closingSeg produces (the path from the last confirmed point back to
// start) and transitioning to Selected; an empty one (a bare start point
// with no committed segments) resets to NoSelection instead, matching the
// contract's SELECTING/empty case.
func (b *base) finishSelection(closingSeg func() (geometry.Polyline, error)) error {
	if b.state != Selecting {
		return fmt.Errorf("%w: FinishSelection requires Selecting, got %v", ErrIllegalState, b.state)
	}
	if len(b.segments) == 0 {
		b.Reset()
		return nil
	}
	seg, err := closingSeg()
	if err != nil {
		return err
	}
	b.segments = append(b.segments, seg)
	b.setState(Selected)
	b.events.Emit(eventbus.PropertySelection, nil, b.Points())
	return nil
}

func (b *base) Reset() {
	b.points = nil
	b.segments = nil
	b.setState(NoSelection)
	b.events.Emit(eventbus.PropertySelection, nil, nil)
}

func (b *base) Polygon() ([]geometry.PointInt, error) {
	if b.state != Selected {
		return nil, fmt.Errorf("%w: Polygon requires Selected, got %v", ErrIllegalState, b.state)
	}
	return geometry.MakePolygon(b.segments), nil
}
