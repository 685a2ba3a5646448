// Package dag models a project as a directed acyclic graph of tasks.
// A Graph is built once from a flat task list, validated for cycles and
// dangling dependency references at construction time, and is read-only
// afterwards: adjacency maps and the topological order are computed up
// front so downstream analysis passes get O(1) neighbor lookups and a
// stable, deterministic evaluation order.
package dag

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCycle is returned when the dependency graph contains a cycle.
var ErrCycle = errors.New("cycle detected")

// ErrUnknownDependency is returned when a task depends on an ID that is
// not present in the task list.
var ErrUnknownDependency = errors.New("unknown dependency")

// ErrDuplicateTask is returned when two tasks share the same ID.
var ErrDuplicateTask = errors.New("duplicate task")

// ErrSelfDependency is returned when a task lists itself as a dependency.
var ErrSelfDependency = errors.New("self-referencing dependency")

// ErrNonPositiveDuration is returned when a task has duration <= 0.
var ErrNonPositiveDuration = errors.New("non-positive duration")

// Task is a single unit of work in the project.
type Task struct {
	ID        string
	Name      string   // human-readable label; defaults to ID
	Duration  int      // abstract time units, must be positive
	DependsOn []string // IDs of tasks that must finish first
	Demand    int      // resource capacity units consumed while running
}

// Graph is an immutable dependency graph over a set of tasks. Edges point
// from a task to its predecessors: if B lists A in DependsOn, A must
// finish before B starts.
type Graph struct {
	tasks map[string]*Task
	order []string // cached topological order, dependencies first
	// preds maps task ID -> sorted predecessor IDs (its dependencies).
	preds map[string][]string
	// succs maps task ID -> sorted successor IDs (its dependents).
	succs map[string][]string
}

// Build validates the task list and constructs a Graph. It returns
// ErrDuplicateTask, ErrNonPositiveDuration, ErrSelfDependency,
// ErrUnknownDependency, or ErrCycle on malformed input. A Graph that
// builds successfully is guaranteed acyclic.
func Build(tasks []Task) (*Graph, error) {
	g := &Graph{
		tasks: make(map[string]*Task, len(tasks)),
		preds: make(map[string][]string, len(tasks)),
		succs: make(map[string][]string, len(tasks)),
	}

	for i := range tasks {
		t := tasks[i]
		if _, exists := g.tasks[t.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTask, t.ID)
		}
		if t.Duration <= 0 {
			return nil, fmt.Errorf("%w: task %s has duration %d", ErrNonPositiveDuration, t.ID, t.Duration)
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		if t.Demand <= 0 {
			t.Demand = 1
		}
		g.tasks[t.ID] = &t
	}

	for _, t := range tasks {
		seen := make(map[string]bool, len(t.DependsOn))
		for _, dep := range t.DependsOn {
			if dep == t.ID {
				return nil, fmt.Errorf("%w: %s", ErrSelfDependency, t.ID)
			}
			if _, ok := g.tasks[dep]; !ok {
				return nil, fmt.Errorf("%w: task %s depends on %s", ErrUnknownDependency, t.ID, dep)
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			g.preds[t.ID] = append(g.preds[t.ID], dep)
			g.succs[dep] = append(g.succs[dep], t.ID)
		}
	}

	for id := range g.tasks {
		sort.Strings(g.preds[id])
		sort.Strings(g.succs[id])
	}

	order, err := g.topologicalSort()
	if err != nil {
		return nil, err
	}
	g.order = order
	return g, nil
}

// Task returns the task with the given ID, or nil if not found.
func (g *Graph) Task(id string) *Task {
	return g.tasks[id]
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// IDs returns all task IDs, sorted alphabetically.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.tasks))
	for id := range g.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TopologicalOrder returns task IDs in dependency-first order: every
// predecessor appears before its dependents, with alphabetical
// tie-breaking among simultaneously-ready tasks. The order is computed
// once at Build time; each call returns a fresh copy so callers may
// consume or mutate it freely and restart iteration at will.
func (g *Graph) TopologicalOrder() []string {
	order := make([]string, len(g.order))
	copy(order, g.order)
	return order
}

// Predecessors returns the sorted direct dependencies of the given task.
// Returns nil for unknown IDs or tasks with no dependencies.
func (g *Graph) Predecessors(id string) []string {
	return copyIDs(g.preds[id])
}

// Successors returns the sorted direct dependents of the given task.
// Returns nil for unknown IDs or tasks with no dependents.
func (g *Graph) Successors(id string) []string {
	return copyIDs(g.succs[id])
}

// Sources returns the sorted IDs of tasks with no predecessors.
func (g *Graph) Sources() []string {
	var ids []string
	for id := range g.tasks {
		if len(g.preds[id]) == 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Sinks returns the sorted IDs of tasks with no successors.
func (g *Graph) Sinks() []string {
	var ids []string
	for id := range g.tasks {
		if len(g.succs[id]) == 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// topologicalSort runs Kahn's algorithm over the predecessor maps. At
// each step the alphabetically smallest ready task is emitted, making
// the order fully deterministic for a given task set. Returns ErrCycle
// if some tasks can never become ready.
func (g *Graph) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.tasks))
	for id := range g.tasks {
		inDegree[id] = len(g.preds[id])
	}

	var ready []string
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.tasks))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var freed []string
		for _, succ := range g.succs[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				freed = append(freed, succ)
			}
		}
		if len(freed) > 0 {
			ready = append(ready, freed...)
			sort.Strings(ready)
		}
	}

	if len(order) != len(g.tasks) {
		return nil, fmt.Errorf("%w: %d of %d tasks could be ordered",
			ErrCycle, len(order), len(g.tasks))
	}
	return order, nil
}

func copyIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
