package selection

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"intelliscissors/internal/eventbus"
	"intelliscissors/internal/grid"
	"intelliscissors/pkg/geometry"
	"intelliscissors/pkg/shortestpath"
)

// batchSize is how many vertices a background solve settles per
// ExtendSearch call between progress publishes and cancellation checks.
const batchSize = 1000

type resultKind int

const (
	resultProgress resultKind = iota
	resultDone
	resultCancelled
	resultFailed
)

// solveResult is what a background solve goroutine hands back to the model
// through its results channel. workerID lets the receiver (Drain) discard a
// result produced by a worker that a later StartSelection/AddPoint has since
// superseded, playing the role the Java original's `self == model.worker`
// identity check plays against its SwingWorker field.
type solveResult struct {
	workerID uint64
	kind     resultKind
	snapshot *shortestpath.Snapshot
	progress int
	err      error
}

// Scissors is a Model variant that connects consecutive points with the
// least-cost path through a pixel grid graph, solved incrementally in the
// background so the caller's event loop stays responsive.
//
// Grounded on original_source/src/scissors/ScissorsSelectionModel.java. The
// Java SwingWorker is replaced with a goroutine publishing coalesced
// snapshots over a channel that the model's owner drains at its own pace
// (analogous to the teacher's worker-goroutine-to-UI handoff in
// ui/panels/sidepanel.go and ui/panels/tracespanel.go), instead of Swing's
// EDT-marshaled publish/process/done callbacks.
type Scissors struct {
	base

	grid       *grid.Grid
	weigher    shortestpath.Weigher
	weightName string

	confirmed *shortestpath.Snapshot // fully solved search rooted at the last confirmed point
	pending   *shortestpath.Snapshot // partial snapshot from an in-progress solve
	progress  int                    // percentage, 0-100

	move *pendingMove // set while a MovePoint solve is in flight

	previousState State
	generation    atomic.Uint64
	cancel        context.CancelFunc
	results       chan solveResult
}

// pendingMove carries the context a MovePoint solve needs once it completes:
// which two segments to replace, and with what new endpoint.
type pendingMove struct {
	index, before, after int
	point                geometry.PointInt
}

// NewScissors creates an empty Scissors model using the named weigher over
// g. Call SetImage before starting a selection.
func NewScissors(weightName string, g *grid.Grid) (*Scissors, error) {
	w, err := grid.MakeWeigher(weightName, g)
	if err != nil {
		return nil, err
	}
	return &Scissors{
		grid:       g,
		weigher:    w,
		weightName: weightName,
		results:    make(chan solveResult, 1),
	}, nil
}

// NewScissorsFromModel copies another model's in-progress selection into a
// new Scissors, so a caller can switch tool variants mid-selection without
// losing work. Grounded on the Java
// ScissorsSelectionModel(SelectionModel copy) constructor, including its
// `if (state == PROCESSING) state = SELECTING;` collapse, after which it
// immediately relaunches a solve rooted at the last point if one is needed.
func NewScissorsFromModel(m Model, weightName string, g *grid.Grid) (*Scissors, error) {
	s, err := NewScissors(weightName, g)
	if err != nil {
		return nil, err
	}
	s.width, s.height = widthHeightOf(m)
	s.points = m.Points()
	s.segments = segmentsOf(m)
	s.state = collapseProcessing(m.State())
	if s.state == Selecting && len(s.points) > 0 {
		last := s.points[len(s.points)-1]
		s.findPaths(g.IDAt(last))
	}
	return s, nil
}

// SetImage implements Model.
func (s *Scissors) SetImage(width, height int) {
	s.CancelProcessing()
	s.setImage(width, height)
	s.confirmed = nil
	s.pending = nil
}

// StartSelection implements Model. It begins the background solve rooted at
// p immediately, so the first LiveWire call has a chance of already being
// resolved.
func (s *Scissors) StartSelection(p geometry.PointInt) error {
	if err := s.startSelection(p); err != nil {
		return err
	}
	s.findPaths(s.grid.IDAt(p))
	return nil
}

// findPaths launches a new background solve rooted at startID, superseding
// any solve already in flight.
func (s *Scissors) findPaths(startID int) {
	if s.cancel != nil {
		s.cancel()
	}
	s.previousState = s.state
	s.setState(Processing)
	s.pending = nil

	gen := s.generation.Add(1)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	engine := shortestpath.New(s.grid, s.weigher)
	engine.SetStart(startID)

	go s.runWorker(ctx, gen, engine)
}

// runWorker drives engine to completion, publishing a coalesced progress
// result after every batch. A panic inside the solver (a bug in the graph,
// weigher, or engine, never an expected runtime condition) is recovered and
// reported as a resultFailed rather than crashing the process, matching
// WorkerFailure's "re-raise to the caller unchanged" propagation policy:
// the panic's value survives into the error Drain returns.
func (s *Scissors) runWorker(ctx context.Context, gen uint64, engine *shortestpath.ShortestPaths) {
	defer func() {
		if r := recover(); r != nil {
			s.publish(solveResult{workerID: gen, kind: resultFailed, err: fmt.Errorf("%w: %v", ErrWorkerFailure, r)})
		}
	}()

	for !engine.AllPathsFound() {
		select {
		case <-ctx.Done():
			s.publish(solveResult{workerID: gen, kind: resultCancelled})
			return
		default:
		}
		engine.ExtendSearch(batchSize)
		progress := 100 * engine.SettledCount() / s.grid.VertexCount()
		s.publish(solveResult{workerID: gen, kind: resultProgress, snapshot: engine.Snapshot(), progress: progress})
	}

	select {
	case <-ctx.Done():
		s.publish(solveResult{workerID: gen, kind: resultCancelled})
	default:
		s.publish(solveResult{workerID: gen, kind: resultDone, snapshot: engine.Snapshot(), progress: 100})
	}
}

// publish sends r, discarding a previously unconsumed result if the channel
// is full so the model's owner only ever sees the most recent progress.
func (s *Scissors) publish(r solveResult) {
	for {
		select {
		case s.results <- r:
			return
		default:
			select {
			case <-s.results:
			default:
			}
		}
	}
}

// Drain applies at most one pending background-solve result to the model,
// firing PropertyProgress/PropertyPendingPaths/PropertyState events as
// appropriate. It is a no-op if no result is waiting. Callers that embed
// this model in an event loop should call Drain on every tick while
// State() == Processing.
//
// If the background solve panicked, Drain returns that failure wrapped in
// ErrWorkerFailure, unchanged, at this consumption boundary — the point where
// a UI thread would otherwise have no chance to see it. Unlike cancellation,
// this is never expected in ordinary operation and callers should treat a
// non-nil return as a bug to fix, not a condition to retry.
func (s *Scissors) Drain() error {
	select {
	case r := <-s.results:
		return s.apply(r)
	default:
		return nil
	}
}

func (s *Scissors) apply(r solveResult) error {
	if r.workerID != s.generation.Load() {
		// Superseded by a newer findPaths call; this result is stale.
		return nil
	}

	switch r.kind {
	case resultProgress:
		s.pending = r.snapshot
		s.progress = r.progress
		s.events.Emit(eventbus.PropertyProgress, nil, r.progress)
		s.events.Emit(eventbus.PropertyPendingPaths, nil, r.snapshot)

	case resultDone:
		s.pending = nil
		s.progress = 100
		if mv := s.move; mv != nil {
			s.move = nil
			s.setState(s.previousState)
			return s.applyMove(mv, r.snapshot)
		}
		s.confirmed = r.snapshot
		next := s.previousState
		if next == NoSelection {
			next = Selecting
		}
		s.setState(next)

	case resultCancelled:
		s.move = nil
		if s.previousState == Selecting {
			s.popLastPoint()
		}
		s.setState(s.previousState)

	case resultFailed:
		s.move = nil
		s.pending = nil
		s.setState(s.previousState)
		return r.err
	}
	return nil
}

// LiveWire implements Model, returning the least-cost path found so far from
// the last confirmed point to p. Returns ErrIllegalState if no solve has
// reached p yet.
func (s *Scissors) LiveWire(p geometry.PointInt) (geometry.Polyline, error) {
	if s.state != Selecting && s.state != Processing {
		return geometry.Polyline{}, fmt.Errorf("%w: LiveWire requires Selecting or Processing, got %v", ErrIllegalState, s.state)
	}
	return s.pathFromConfirmed(p)
}

// pathFromConfirmed consumes the current confirmed snapshot (rooted at the
// last committed endpoint) to resolve the least-cost path to p, without
// regard to State(). Used by both LiveWire and FinishSelection's closing
// segment.
func (s *Scissors) pathFromConfirmed(p geometry.PointInt) (geometry.Polyline, error) {
	snap := s.confirmed
	if snap == nil {
		return geometry.Polyline{}, fmt.Errorf("%w: no solve available yet", ErrIllegalState)
	}
	path, err := snap.PathTo(s.grid.IDAt(p))
	if err != nil {
		return geometry.Polyline{}, fmt.Errorf("%w: %v", ErrIllegalState, err)
	}
	return s.grid.PathToPolyline(path), nil
}

// AddPoint implements Model, committing the least-cost path to p and
// launching the next segment's background solve rooted at p.
func (s *Scissors) AddPoint(p geometry.PointInt) error {
	if s.state != Selecting {
		return fmt.Errorf("%w: AddPoint requires Selecting, got %v", ErrIllegalState, s.state)
	}
	if !s.inBounds(p) {
		return fmt.Errorf("%w: point %v outside image bounds", ErrInvalidArgument, p)
	}
	seg, err := s.LiveWire(p)
	if err != nil {
		return err
	}
	s.segments = append(s.segments, seg)
	s.points = append(s.points, p)
	s.events.Emit(eventbus.PropertySelection, nil, s.Points())

	s.findPaths(s.grid.IDAt(p))
	return nil
}

// MovePoint implements Model, launching a background solve rooted at the new
// point p through the same findPaths/worker/Drain protocol every other
// endpoint-changing operation uses, so a move is cancellable and never
// blocks the caller. Once the solve completes, apply splices in both
// replacement segments: the "after" segment is the path from p to the
// original successor; the "before" segment is that same solve's path from p
// to the original predecessor, reversed. The selection is closed
// (segments[i] runs points[i] -> points[(i+1)%n]), so the segment before
// index 0 wraps around to the closing segment. Requires Selected; the
// background solve transitions to Processing and, on success, back to
// Selected, matching the move_point row of the operation table.
func (s *Scissors) MovePoint(index int, p geometry.PointInt) error {
	if s.state != Selected {
		return fmt.Errorf("%w: MovePoint requires Selected, got %v", ErrIllegalState, s.state)
	}
	n := len(s.points)
	if index < 0 || index >= n {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidArgument, index)
	}
	if !s.inBounds(p) {
		return fmt.Errorf("%w: point %v outside image bounds", ErrInvalidArgument, p)
	}

	s.move = &pendingMove{
		index:  index,
		before: (index - 1 + n) % n,
		after:  (index + 1) % n,
		point:  p,
	}
	s.findPaths(s.grid.IDAt(p))
	return nil
}

// applyMove splices the replacement segments found by a MovePoint solve into
// the selection once it completes, using the snapshot rooted at the moved-to
// point.
func (s *Scissors) applyMove(mv *pendingMove, snap *shortestpath.Snapshot) error {
	afterPath, err := snap.PathTo(s.grid.IDAt(s.points[mv.after]))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalState, err)
	}
	beforePath, err := snap.PathTo(s.grid.IDAt(s.points[mv.before]))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalState, err)
	}

	s.points[mv.index] = mv.point
	s.segments[mv.index] = s.grid.PathToPolyline(afterPath)
	s.segments[mv.before] = s.grid.PathToPolyline(beforePath).Reversed()
	s.events.Emit(eventbus.PropertySelection, nil, s.Points())
	return nil
}

// FinishSelection implements Model, closing the selection with the
// least-cost path (from the current confirmed snapshot) back to start.
func (s *Scissors) FinishSelection() error {
	return s.finishSelection(func() (geometry.Polyline, error) {
		return s.pathFromConfirmed(s.points[0])
	})
}

// UndoPoint implements Model, dropping the most recently confirmed point and
// relaunching the background solve rooted at the new last point. Grounded on
// ScissorsSelectionModel.java#undoPoint: super.undoPoint() followed by
// findPaths(lastPoint()) while still Selecting.
func (s *Scissors) UndoPoint() error {
	if err := s.base.UndoPoint(); err != nil {
		return err
	}
	last, err := s.LastPoint()
	if err != nil {
		return err
	}
	s.findPaths(s.grid.IDAt(last))
	return nil
}

// Undo implements Model: cancels an in-progress background solve if one is
// running, otherwise drops the most recently confirmed point. Mirrors the
// Java original's combined undo() dispatch in SelectionModel.java.
func (s *Scissors) Undo() error {
	if s.state == Processing {
		s.CancelProcessing()
		return nil
	}
	return s.UndoPoint()
}

// CancelProcessing implements Model.
func (s *Scissors) CancelProcessing() {
	if s.state != Processing || s.cancel == nil {
		return
	}
	s.cancel()
}

// ProcessingProgress implements Model.
func (s *Scissors) ProcessingProgress() int {
	if s.state != Processing {
		return 0
	}
	return s.progress
}

// PendingPaths returns the most recent partial snapshot from an in-progress
// background solve, or nil if none is available.
func (s *Scissors) PendingPaths() *shortestpath.Snapshot {
	return s.pending
}

// Close cancels any in-progress solve and releases native resources held by
// the weigher (such as CrossGradMono's cloned grayscale Mat). Callers must
// call this once they are done with the model.
func (s *Scissors) Close() error {
	s.CancelProcessing()
	if c, ok := s.weigher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
