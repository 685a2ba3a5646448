// Package schedule implements list scheduling of a task graph onto a
// finite resource pool. The engine walks a ready set in priority order,
// placing one task per step under dependency and capacity constraints.
// Selection and placement heuristics are interchangeable policy values;
// the ready-set loop is shared across all of them. Given identical
// inputs the engine is fully deterministic.
package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/papapumpkin/gantry/internal/cpm"
	"github.com/papapumpkin/gantry/internal/dag"
	"github.com/papapumpkin/gantry/internal/telemetry"
)

// ErrNoResources is returned when tasks exist but the resource pool is
// empty.
var ErrNoResources = errors.New("no resources")

// ErrBadCapacity is returned when a resource declares capacity < 1.
var ErrBadCapacity = errors.New("invalid resource capacity")

// ErrDuplicateResource is returned when two resources share an ID.
var ErrDuplicateResource = errors.New("duplicate resource")

// ErrInfeasible is returned when a task's demand exceeds the capacity of
// every resource; no amount of delay can ever satisfy it.
var ErrInfeasible = errors.New("infeasible schedule")

// Engine assigns tasks to resources according to a Policy. Events, when
// non-nil, receives one telemetry record per scheduling decision.
type Engine struct {
	Policy Policy
	Events *telemetry.Emitter
	RunID  string // stamped onto telemetry events
}

// New creates an Engine with the given policy and no telemetry.
func New(policy Policy) *Engine {
	return &Engine{Policy: policy}
}

// Run schedules every task in the graph onto the pool. It returns
// cpm.ErrEmptyGraph for an empty graph, ErrNoResources/ErrBadCapacity/
// ErrDuplicateResource for a malformed pool, and ErrInfeasible when a
// task demands more capacity than any single resource offers. The graph
// is not mutated.
func (e *Engine) Run(g *dag.Graph, pool []Resource) (*Schedule, error) {
	analysis, err := cpm.Analyze(g)
	if err != nil {
		return nil, err
	}

	timelines, err := buildTimelines(pool)
	if err != nil {
		return nil, err
	}

	maxCapacity := 0
	for _, tl := range timelines {
		if tl.res.Capacity > maxCapacity {
			maxCapacity = tl.res.Capacity
		}
	}
	// Reject impossible demands before committing anything.
	for _, id := range g.TopologicalOrder() {
		if d := g.Task(id).Demand; d > maxCapacity {
			return nil, fmt.Errorf("%w: task %s demands %d units, max resource capacity is %d",
				ErrInfeasible, id, d, maxCapacity)
		}
	}

	e.emit(telemetry.Event{Kind: telemetry.KindRunStart,
		Data: map[string]any{"policy": e.Policy.String(), "tasks": g.Len(), "resources": len(pool)}})

	finished := make(map[string]int, g.Len()) // task ID -> scheduled finish
	pending := make(map[string]int, g.Len())  // task ID -> unscheduled predecessor count
	var ready []string
	for _, id := range g.TopologicalOrder() {
		n := len(g.Predecessors(id))
		pending[id] = n
		if n == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	assignments := make(map[string]Assignment, g.Len())
	for len(ready) > 0 {
		id := e.selectNext(g, analysis, ready)
		ready = remove(ready, id)
		task := g.Task(id)

		// Dependency-derived earliest start: predecessors as actually
		// scheduled, not just their theoretical earliest finishes.
		est := 0
		for _, pred := range g.Predecessors(id) {
			if f := finished[pred]; f > est {
				est = f
			}
		}

		e.emit(telemetry.Event{Kind: telemetry.KindTaskSelected, TaskID: id,
			Data: map[string]any{"ready_at": est, "slack": analysis.Timing[id].Slack}})

		tl, start := e.place(timelines, est, task)
		finish := start + task.Duration
		tl.insert(interval{taskID: id, start: start, finish: finish, demand: task.Demand})
		finished[id] = finish
		assignments[id] = Assignment{
			TaskID:     id,
			ResourceID: tl.res.ID,
			Start:      start,
			Finish:     finish,
			Demand:     task.Demand,
		}

		if start > est {
			e.emit(telemetry.Event{Kind: telemetry.KindTaskDelayed, TaskID: id,
				Resource: tl.res.ID, Data: map[string]int{"waited": start - est}})
		}
		e.emit(telemetry.Event{Kind: telemetry.KindTaskPlaced, TaskID: id,
			Resource: tl.res.ID, Data: map[string]int{"start": start, "finish": finish}})

		for _, succ := range g.Successors(id) {
			pending[succ]--
			if pending[succ] == 0 {
				ready = insertSorted(ready, succ)
			}
		}
	}

	sched := newSchedule(assignments, timelines, analysis.ProjectFinish)
	e.emit(telemetry.Event{Kind: telemetry.KindRunDone,
		Data: map[string]int{"makespan": sched.Makespan, "critical_length": sched.CriticalLength}})
	return sched, nil
}

// selectNext applies the selection heuristic to the ready set. The set
// is kept sorted, so equal-priority candidates resolve to the smallest
// identifier.
func (e *Engine) selectNext(g *dag.Graph, analysis *cpm.Result, ready []string) string {
	best := ready[0]
	for _, id := range ready[1:] {
		if e.better(g, analysis, id, best) {
			best = id
		}
	}
	return best
}

// better reports whether candidate a should be scheduled before b.
func (e *Engine) better(g *dag.Graph, analysis *cpm.Result, a, b string) bool {
	da, db := g.Task(a).Duration, g.Task(b).Duration
	switch e.Policy.Selection {
	case SelectCriticalPathFirst:
		sa, sb := analysis.Timing[a].Slack, analysis.Timing[b].Slack
		if sa != sb {
			return sa < sb
		}
		if da != db {
			return da > db
		}
	default: // SelectLongestFirst
		if da != db {
			return da > db
		}
	}
	return a < b
}

// place applies the placement rule: pick a timeline and the start time
// for the task on it. Only resources with enough capacity for the
// task's demand are candidates; feasibility of the whole interval is
// checked by the timeline itself, delaying the start when the capacity
// profile requires it.
func (e *Engine) place(timelines []*timeline, est int, task *dag.Task) (*timeline, int) {
	var (
		best      *timeline
		bestStart int
	)

	if e.Policy.Placement == PlaceLatestFinish {
		// Prefer a resource that is free at the ready time and whose
		// committed work ends latest, leaving long idle tails alone.
		for _, tl := range timelines {
			if tl.res.Capacity < task.Demand {
				continue
			}
			if tl.earliestStart(est, task.Duration, task.Demand) != est {
				continue
			}
			if best == nil || tl.end() > best.end() {
				best = tl
			}
		}
		if best != nil {
			return best, est
		}
	}

	// Earliest finish: probe every candidate resource and keep the one
	// with the smallest resulting finish. Timelines are ordered by
	// resource ID, so ties resolve to the lowest ID.
	for _, tl := range timelines {
		if tl.res.Capacity < task.Demand {
			continue
		}
		start := tl.earliestStart(est, task.Duration, task.Demand)
		if best == nil || start < bestStart {
			best = tl
			bestStart = start
		}
	}
	return best, bestStart
}

func (e *Engine) emit(evt telemetry.Event) {
	evt.RunID = e.RunID
	_ = e.Events.Emit(evt)
}

// buildTimelines validates the pool and returns one timeline per
// resource, sorted by ID for deterministic tie-breaking.
func buildTimelines(pool []Resource) ([]*timeline, error) {
	if len(pool) == 0 {
		return nil, ErrNoResources
	}
	seen := make(map[string]bool, len(pool))
	timelines := make([]*timeline, 0, len(pool))
	for _, res := range pool {
		if res.Capacity < 1 {
			return nil, fmt.Errorf("%w: resource %s has capacity %d", ErrBadCapacity, res.ID, res.Capacity)
		}
		if seen[res.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateResource, res.ID)
		}
		seen[res.ID] = true
		timelines = append(timelines, &timeline{res: res})
	}
	sort.Slice(timelines, func(i, j int) bool {
		return timelines[i].res.ID < timelines[j].res.ID
	})
	return timelines, nil
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func insertSorted(ids []string, id string) []string {
	i := sort.SearchStrings(ids, id)
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}
