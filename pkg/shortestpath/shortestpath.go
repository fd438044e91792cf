// Package shortestpath implements an incremental, single-source Dijkstra
// search that can be extended a bounded number of vertices at a time, so a
// caller can interleave settling work with other responsibilities (UI
// progress updates, cancellation checks) instead of blocking until the whole
// graph is explored.
//
// Grounded on original_source/src/graph/ShortestPaths.java and
// PathfindingSnapshot.java, reworked in the idiom of thunur-osm's
// pkg/graph/path/dijkstra.go (lazy decrease-key relaxation over a priority
// queue of frontier vertices).
package shortestpath

import (
	"errors"
	"fmt"

	"intelliscissors/pkg/minqueue"
)

// ErrNotDiscovered is returned by PathTo and DistanceTo when asked about a
// vertex the search has not yet reached.
var ErrNotDiscovered = errors.New("shortestpath: vertex not discovered")

const noPredecessor = -1

// Edge is a directed edge from StartID to EndID. Dir is opaque to this
// package; it exists so graphs whose edges carry directionality (a pixel
// grid's eight compass directions) don't need a parallel edge type just to
// thread that information through to a Weigher. Graphs without a notion of
// direction may leave it unset.
type Edge struct {
	StartID int
	EndID   int
	Dir     int
}

// Graph is the source of vertices and their outgoing edges that ShortestPaths
// searches over.
type Graph interface {
	VertexCount() int
	OutgoingEdges(id int) []Edge
}

// Weigher assigns a non-negative integer cost to an edge. It may fail if
// asked to price an edge it cannot interpret.
type Weigher interface {
	Weight(e Edge) (int, error)
}

// ShortestPaths runs an incremental single-source Dijkstra search over a
// Graph. Call SetStart to begin a search from a vertex, then
// ExtendSearch repeatedly to settle more of the frontier. Take a Snapshot at
// any point to get an immutable view of progress so far.
type ShortestPaths struct {
	graph   Graph
	weigher Weigher

	start        int
	started      bool
	distances    []int
	predecessors []int
	settled      []bool
	settledCount int
	frontier     *minqueue.MinQueue
}

// New creates a ShortestPaths engine over graph, pricing edges with weigher.
func New(graph Graph, weigher Weigher) *ShortestPaths {
	sp := &ShortestPaths{graph: graph, weigher: weigher}
	sp.Reset()
	return sp
}

// Reset clears all progress, discarding any in-progress search.
func (sp *ShortestPaths) Reset() {
	n := sp.graph.VertexCount()
	sp.distances = make([]int, n)
	sp.predecessors = make([]int, n)
	sp.settled = make([]bool, n)
	for i := range sp.predecessors {
		sp.predecessors[i] = noPredecessor
	}
	sp.settledCount = 0
	sp.frontier = minqueue.New()
	sp.started = false
}

// SetStart resets the search and begins it from startID.
func (sp *ShortestPaths) SetStart(startID int) {
	sp.Reset()
	sp.start = startID
	sp.started = true
	sp.distances[startID] = 0
	sp.frontier.AddOrUpdate(startID, 0)
}

// AllPathsFound reports whether the frontier is exhausted, meaning every
// vertex reachable from the start has been settled.
func (sp *ShortestPaths) AllPathsFound() bool {
	return sp.started && sp.frontier.Empty()
}

// FindAllPaths sets startID as the search's start vertex and extends the
// search until every reachable vertex is settled. Equivalent to
// SetStart(startID) followed by ExtendSearch(VertexCount()).
func (sp *ShortestPaths) FindAllPaths(startID int) {
	sp.SetStart(startID)
	sp.ExtendSearch(sp.graph.VertexCount())
}

// SettledCount returns how many vertices have been settled so far.
func (sp *ShortestPaths) SettledCount() int {
	return sp.settledCount
}

// ExtendSearch settles up to maxToSettle additional vertices (fewer if the
// frontier empties first), relaxing their outgoing edges as it goes. It is
// safe to call repeatedly until AllPathsFound reports true.
func (sp *ShortestPaths) ExtendSearch(maxToSettle int) {
	for i := 0; i < maxToSettle && !sp.frontier.Empty(); i++ {
		id, err := sp.frontier.Pop()
		if err != nil {
			return
		}
		if sp.settled[id] {
			// Lazy deletion: a stale, now-superseded frontier entry for an
			// already-settled vertex. Skip it rather than re-relax.
			i--
			continue
		}
		sp.settled[id] = true
		sp.settledCount++

		for _, e := range sp.graph.OutgoingEdges(id) {
			w, err := sp.weigher.Weight(e)
			if err != nil || w < 0 {
				continue
			}
			if sp.settled[e.EndID] {
				continue
			}
			newDist := sp.distances[id] + w
			if sp.predecessors[e.EndID] == noPredecessor && e.EndID != sp.start {
				sp.distances[e.EndID] = newDist
				sp.predecessors[e.EndID] = id
				sp.frontier.AddOrUpdate(e.EndID, newDist)
			} else if newDist < sp.distances[e.EndID] {
				sp.distances[e.EndID] = newDist
				sp.predecessors[e.EndID] = id
				sp.frontier.AddOrUpdate(e.EndID, newDist)
			}
		}
	}
}

// Snapshot captures an immutable view of the search's progress so far. The
// returned snapshot is unaffected by later calls to ExtendSearch.
func (sp *ShortestPaths) Snapshot() *Snapshot {
	distances := make([]int, len(sp.distances))
	copy(distances, sp.distances)
	predecessors := make([]int, len(sp.predecessors))
	copy(predecessors, sp.predecessors)
	settled := make([]bool, len(sp.settled))
	copy(settled, sp.settled)

	return &Snapshot{
		start:        sp.start,
		distances:    distances,
		predecessors: predecessors,
		settled:      settled,
	}
}

// Snapshot is an immutable, point-in-time view of a ShortestPaths search,
// deep-copied from the live engine's state so it remains valid even as the
// engine continues to extend its search on another goroutine.
//
// Grounded on original_source/src/graph/PathfindingSnapshot.java.
type Snapshot struct {
	start        int
	distances    []int
	predecessors []int
	settled      []bool
}

// Start returns the vertex the captured search began from.
func (s *Snapshot) Start() int {
	return s.start
}

// Discovered reports whether id has been reached by the search (it has a
// known distance, though it may not yet be settled).
func (s *Snapshot) Discovered(id int) bool {
	return id == s.start || s.predecessors[id] != noPredecessor
}

// Settled reports whether id's shortest distance is final.
func (s *Snapshot) Settled(id int) bool {
	return s.settled[id]
}

// DistanceTo returns the shortest known distance to id. Returns
// ErrNotDiscovered if id has not been discovered.
func (s *Snapshot) DistanceTo(id int) (int, error) {
	if !s.Discovered(id) {
		return 0, fmt.Errorf("%w: vertex %d", ErrNotDiscovered, id)
	}
	return s.distances[id], nil
}

// PathTo reconstructs the path from the search's start vertex to id, inclusive
// of both endpoints. Returns ErrNotDiscovered if id has not been discovered.
func (s *Snapshot) PathTo(id int) ([]int, error) {
	if !s.Discovered(id) {
		return nil, fmt.Errorf("%w: vertex %d", ErrNotDiscovered, id)
	}
	var rev []int
	cur := id
	for cur != s.start {
		rev = append(rev, cur)
		cur = s.predecessors[cur]
	}
	rev = append(rev, s.start)

	path := make([]int, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path, nil
}
