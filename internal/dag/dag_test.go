package dag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// taskSpec is a compact task description for building test graphs.
type taskSpec struct {
	id       string
	duration int
	deps     []string
}

func buildGraph(t *testing.T, specs []taskSpec) *Graph {
	t.Helper()
	tasks := make([]Task, 0, len(specs))
	for _, s := range specs {
		tasks = append(tasks, Task{ID: s.id, Duration: s.duration, DependsOn: s.deps})
	}
	g, err := Build(tasks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

// diamond is A -> {B, C} -> D.
func diamond(t *testing.T) *Graph {
	t.Helper()
	return buildGraph(t, []taskSpec{
		{id: "A", duration: 3},
		{id: "B", duration: 2, deps: []string{"A"}},
		{id: "C", duration: 4, deps: []string{"A"}},
		{id: "D", duration: 1, deps: []string{"B", "C"}},
	})
}

// validTopologicalOrder reports whether every dependency appears before
// its dependent in the ordering.
func validTopologicalOrder(g *Graph, order []string) bool {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, id := range order {
		for _, dep := range g.Predecessors(id) {
			if pos[dep] >= pos[id] {
				return false
			}
		}
	}
	return true
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()
	g, err := Build(nil)
	if err != nil {
		t.Fatalf("Build(nil): %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("empty graph has %d tasks, want 0", g.Len())
	}
	if order := g.TopologicalOrder(); len(order) != 0 {
		t.Errorf("TopologicalOrder() = %v, want empty", order)
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		tasks []Task
		want  error
	}{
		{
			name:  "duplicate ID",
			tasks: []Task{{ID: "A", Duration: 1}, {ID: "A", Duration: 2}},
			want:  ErrDuplicateTask,
		},
		{
			name:  "zero duration",
			tasks: []Task{{ID: "A", Duration: 0}},
			want:  ErrNonPositiveDuration,
		},
		{
			name:  "negative duration",
			tasks: []Task{{ID: "A", Duration: -3}},
			want:  ErrNonPositiveDuration,
		},
		{
			name:  "self dependency",
			tasks: []Task{{ID: "A", Duration: 1, DependsOn: []string{"A"}}},
			want:  ErrSelfDependency,
		},
		{
			name:  "unknown dependency",
			tasks: []Task{{ID: "A", Duration: 1, DependsOn: []string{"Z"}}},
			want:  ErrUnknownDependency,
		},
		{
			name: "two-task cycle",
			tasks: []Task{
				{ID: "A", Duration: 1, DependsOn: []string{"B"}},
				{ID: "B", Duration: 1, DependsOn: []string{"A"}},
			},
			want: ErrCycle,
		},
		{
			name: "three-task cycle",
			tasks: []Task{
				{ID: "A", Duration: 1, DependsOn: []string{"C"}},
				{ID: "B", Duration: 1, DependsOn: []string{"A"}},
				{ID: "C", Duration: 1, DependsOn: []string{"B"}},
			},
			want: ErrCycle,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Build(tc.tasks)
			if !errors.Is(err, tc.want) {
				t.Errorf("Build() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestBuildDefaults(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, []taskSpec{{id: "A", duration: 5}})
	task := g.Task("A")
	if task.Name != "A" {
		t.Errorf("Name = %q, want ID fallback %q", task.Name, "A")
	}
	if task.Demand != 1 {
		t.Errorf("Demand = %d, want default 1", task.Demand)
	}
}

func TestTopologicalOrder(t *testing.T) {
	t.Parallel()
	g := diamond(t)

	order := g.TopologicalOrder()
	if len(order) != 4 {
		t.Fatalf("order has %d tasks, want 4", len(order))
	}
	if !validTopologicalOrder(g, order) {
		t.Errorf("invalid topological order: %v", order)
	}

	// Alphabetical tie-breaking makes the order fully deterministic.
	want := []string{"A", "B", "C", "D"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestTopologicalOrderRestartable(t *testing.T) {
	t.Parallel()
	g := diamond(t)

	first := g.TopologicalOrder()
	first[0] = "mutated"
	second := g.TopologicalOrder()
	if second[0] != "A" {
		t.Errorf("mutating a returned order leaked into the graph: %v", second)
	}
}

func TestAdjacency(t *testing.T) {
	t.Parallel()
	g := diamond(t)

	if diff := cmp.Diff([]string{"B", "C"}, g.Predecessors("D")); diff != "" {
		t.Errorf("Predecessors(D) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B", "C"}, g.Successors("A")); diff != "" {
		t.Errorf("Successors(A) mismatch (-want +got):\n%s", diff)
	}
	if got := g.Predecessors("A"); got != nil {
		t.Errorf("Predecessors(A) = %v, want nil", got)
	}
	if got := g.Successors("missing"); got != nil {
		t.Errorf("Successors(missing) = %v, want nil", got)
	}
}

func TestDuplicateEdgesCollapse(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, []taskSpec{
		{id: "A", duration: 1},
		{id: "B", duration: 1, deps: []string{"A", "A", "A"}},
	})
	if got := g.Predecessors("B"); len(got) != 1 {
		t.Errorf("Predecessors(B) = %v, want single edge", got)
	}
}

func TestSourcesAndSinks(t *testing.T) {
	t.Parallel()
	g := diamond(t)

	if diff := cmp.Diff([]string{"A"}, g.Sources()); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"D"}, g.Sinks()); diff != "" {
		t.Errorf("Sinks mismatch (-want +got):\n%s", diff)
	}
}

func TestDisconnectedComponents(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, []taskSpec{
		{id: "A", duration: 1},
		{id: "B", duration: 1, deps: []string{"A"}},
		{id: "X", duration: 2},
		{id: "Y", duration: 2, deps: []string{"X"}},
	})

	order := g.TopologicalOrder()
	if !validTopologicalOrder(g, order) {
		t.Errorf("invalid topological order: %v", order)
	}
	if diff := cmp.Diff([]string{"A", "X"}, g.Sources()); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
}
