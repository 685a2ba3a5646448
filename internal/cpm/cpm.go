// Package cpm implements critical path method analysis over a task
// graph: a forward pass for earliest start/finish times, a backward
// pass for latest start/finish times, per-task slack, and enumeration
// of the zero-slack critical paths. Analysis is side-effect free and
// deterministic; running it twice on the same graph yields identical
// results.
package cpm

import (
	"errors"
	"sort"

	"github.com/papapumpkin/gantry/internal/dag"
)

// ErrEmptyGraph is returned when the graph contains no tasks; the
// project finish time is undefined.
var ErrEmptyGraph = errors.New("empty task graph")

// Analyze computes timing bounds for every task in the graph. The graph
// is not mutated; all results live in the returned Result.
func Analyze(g *dag.Graph) (*Result, error) {
	if g.Len() == 0 {
		return nil, ErrEmptyGraph
	}

	order := g.TopologicalOrder()
	result := &Result{
		Timing: make(map[string]*Timing, len(order)),
		Order:  order,
	}
	for _, id := range order {
		result.Timing[id] = &Timing{TaskID: id}
	}

	// Forward pass: ES = max EF over predecessors, EF = ES + duration.
	for _, id := range order {
		ti := result.Timing[id]
		for _, pred := range g.Predecessors(id) {
			if ef := result.Timing[pred].EF; ef > ti.ES {
				ti.ES = ef
			}
		}
		ti.EF = ti.ES + g.Task(id).Duration
		if ti.EF > result.ProjectFinish {
			result.ProjectFinish = ti.EF
		}
	}

	// Backward pass in reverse topological order: LF = min LS over
	// successors, or the project finish time for sinks.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		ti := result.Timing[id]
		ti.LF = result.ProjectFinish
		for _, succ := range g.Successors(id) {
			if ls := result.Timing[succ].LS; ls < ti.LF {
				ti.LF = ls
			}
		}
		ti.LS = ti.LF - g.Task(id).Duration
		ti.Slack = ti.LS - ti.ES
		ti.Critical = ti.Slack == 0
	}

	for _, id := range order {
		if result.Timing[id].Critical {
			result.CriticalTasks = append(result.CriticalTasks, id)
		}
	}

	result.CriticalPaths = criticalPaths(g, result)
	result.Waves = computeWaves(result)
	return result, nil
}

// criticalPaths enumerates every maximal zero-slack chain from a source
// to a sink. A hop from p to s is part of a chain only when both tasks
// are critical and the edge is tight (s cannot start before p finishes).
// Paths come back sorted lexicographically so callers can report ties
// deterministically.
func criticalPaths(g *dag.Graph, r *Result) [][]string {
	var paths [][]string
	var walk func(id string, trail []string)
	walk = func(id string, trail []string) {
		trail = append(trail, id)
		extended := false
		for _, succ := range g.Successors(id) {
			st := r.Timing[succ]
			if st.Critical && st.ES == r.Timing[id].EF {
				extended = true
				walk(succ, trail)
			}
		}
		if !extended {
			path := make([]string, len(trail))
			copy(path, trail)
			paths = append(paths, path)
		}
	}

	for _, id := range g.Sources() {
		if r.Timing[id].Critical {
			walk(id, nil)
		}
	}

	sort.Slice(paths, func(i, j int) bool {
		return lessPath(paths[i], paths[j])
	})
	return paths
}

// computeWaves groups tasks by earliest start time. Within a wave,
// critical tasks sort first, then alphabetically.
func computeWaves(r *Result) []Wave {
	groups := make(map[int][]string)
	for _, id := range r.Order {
		es := r.Timing[id].ES
		groups[es] = append(groups[es], id)
	}

	starts := make([]int, 0, len(groups))
	for es := range groups {
		starts = append(starts, es)
	}
	sort.Ints(starts)

	waves := make([]Wave, len(starts))
	for i, es := range starts {
		ids := groups[es]
		sort.Slice(ids, func(a, b int) bool {
			ca, cb := r.Timing[ids[a]].Critical, r.Timing[ids[b]].Critical
			if ca != cb {
				return ca
			}
			return ids[a] < ids[b]
		})

		critical := false
		for _, id := range ids {
			r.Timing[id].Wave = i
			if r.Timing[id].Critical {
				critical = true
			}
		}
		waves[i] = Wave{Index: i, Start: es, TaskIDs: ids, Critical: critical}
	}
	return waves
}

func lessPath(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
