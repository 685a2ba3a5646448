package report

import (
	"strings"
	"testing"

	"github.com/papapumpkin/gantry/internal/cpm"
	"github.com/papapumpkin/gantry/internal/dag"
	"github.com/papapumpkin/gantry/internal/schedule"
)

func forkView(t *testing.T, withSchedule bool) View {
	t.Helper()
	g, err := dag.Build([]dag.Task{
		{ID: "A", Duration: 3},
		{ID: "B", Duration: 2, DependsOn: []string{"A"}},
		{ID: "C", Duration: 4, DependsOn: []string{"A"}},
	})
	if err != nil {
		t.Fatalf("dag.Build: %v", err)
	}
	analysis, err := cpm.Analyze(g)
	if err != nil {
		t.Fatalf("cpm.Analyze: %v", err)
	}
	v := View{Name: "fork", Graph: g, Analysis: analysis}
	if withSchedule {
		pool := []schedule.Resource{{ID: "R1", Capacity: 1}, {ID: "R2", Capacity: 1}}
		s, err := schedule.New(schedule.DefaultPolicy()).Run(g, pool)
		if err != nil {
			t.Fatalf("schedule.Run: %v", err)
		}
		v.Schedule = s
	}
	return v
}

func TestTimingStrategy(t *testing.T) {
	t.Parallel()
	out := TimingStrategy{}.Render(forkView(t, false))

	for _, want := range []string{
		"Project: fork",
		"Minimum finish time: 7",
		"A -> C",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("timing report missing %q:\n%s", want, out)
		}
	}
	// Critical tasks carry the star marker; B does not.
	if !strings.Contains(out, "*") {
		t.Errorf("timing report has no critical markers:\n%s", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("colorless report contains ANSI escapes:\n%s", out)
	}
}

func TestTimingStrategyColor(t *testing.T) {
	t.Parallel()
	out := TimingStrategy{UseColor: true}.Render(forkView(t, false))
	if !strings.Contains(out, "\033[") {
		t.Errorf("colored report contains no ANSI escapes:\n%s", out)
	}
}

func TestGanttStrategy(t *testing.T) {
	t.Parallel()
	v := forkView(t, true)
	out := GanttStrategy{}.Render(v)

	// Every task is drawn exactly once.
	for _, id := range []string{"A", "B", "C"} {
		a := v.Schedule.Assignments[id]
		if got := strings.Count(out, (" " + id)); got < 1 {
			t.Errorf("gantt missing task %s:\n%s", id, out)
		}
		wantSpan := len(strings.Repeat("#", a.Finish-a.Start))
		if !strings.Contains(out, strings.Repeat("#", wantSpan)) {
			t.Errorf("gantt missing %d-wide bar for %s:\n%s", wantSpan, id, out)
		}
	}
	if !strings.Contains(out, "R1 (capacity 1)") || !strings.Contains(out, "R2 (capacity 1)") {
		t.Errorf("gantt missing resource headers:\n%s", out)
	}
}

func TestGanttStrategyWithoutSchedule(t *testing.T) {
	t.Parallel()
	out := GanttStrategy{}.Render(forkView(t, false))
	if !strings.Contains(out, "No schedule") {
		t.Errorf("unexpected output for missing schedule:\n%s", out)
	}
}

func TestUtilizationStrategy(t *testing.T) {
	t.Parallel()
	out := UtilizationStrategy{}.Render(forkView(t, true))

	// R1 runs A (0-3) and C (3-7): fully busy. R2 runs B (3-5) of 7.
	if !strings.Contains(out, "100%") {
		t.Errorf("utilization report missing R1 at 100%%:\n%s", out)
	}
	if !strings.Contains(out, "29%") {
		t.Errorf("utilization report missing R2 at 29%%:\n%s", out)
	}
	if !strings.Contains(out, "Makespan: 7 (critical path 7, gap 0)") {
		t.Errorf("utilization report missing summary:\n%s", out)
	}
}
