// Package report renders analysis and scheduling results for terminal
// output. Each Strategy produces a distinct view of the same underlying
// run, letting the CLI pick the output that suits the command.
package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/papapumpkin/gantry/internal/ansi"
	"github.com/papapumpkin/gantry/internal/cpm"
	"github.com/papapumpkin/gantry/internal/dag"
	"github.com/papapumpkin/gantry/internal/schedule"
)

// View bundles everything a renderer may need. Schedule is nil for
// analysis-only reports.
type View struct {
	Name     string
	Graph    *dag.Graph
	Analysis *cpm.Result
	Schedule *schedule.Schedule
}

// Strategy defines how to present a scheduling run. Implementations
// must not mutate the view.
type Strategy interface {
	Render(v View) string
}

// TimingStrategy renders the critical-path analysis: a per-task table of
// earliest/latest bounds and slack, followed by every critical path.
type TimingStrategy struct {
	UseColor bool
}

// Render produces the timing table.
func (s TimingStrategy) Render(v View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", v.Name)
	fmt.Fprintf(&b, "Minimum finish time: %d\n\n", v.Analysis.ProjectFinish)

	tw := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tDUR\tES\tEF\tLS\tLF\tSLACK\t")
	for _, id := range v.Analysis.Order {
		ti := v.Analysis.Timing[id]
		marker := ""
		if ti.Critical {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d%s\t\n",
			s.highlight(id, ti.Critical), v.Graph.Task(id).Duration,
			ti.ES, ti.EF, ti.LS, ti.LF, ti.Slack, marker)
	}
	tw.Flush()

	b.WriteString("\nCritical path")
	if len(v.Analysis.CriticalPaths) > 1 {
		b.WriteString("s (tied)")
	}
	b.WriteString(":\n")
	for _, path := range v.Analysis.CriticalPaths {
		fmt.Fprintf(&b, "  %s\n", strings.Join(path, " -> "))
	}
	return b.String()
}

func (s TimingStrategy) highlight(id string, critical bool) string {
	if !s.UseColor || !critical {
		return id
	}
	return ansi.Bold + ansi.Red + id + ansi.Reset
}

// GanttStrategy renders the realized schedule as per-resource bars, one
// line per assignment, offset by start time. Critical tasks are
// highlighted when color is enabled.
type GanttStrategy struct {
	UseColor bool
}

// Render produces the ASCII gantt chart.
func (s GanttStrategy) Render(v View) string {
	if v.Schedule == nil {
		return "No schedule computed.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s  policy makespan: %d  critical path: %d\n\n",
		v.Name, v.Schedule.Makespan, v.Schedule.CriticalLength)

	grouped := v.Schedule.ByResource()
	for _, res := range v.Schedule.Resources {
		fmt.Fprintf(&b, "%s (capacity %d)\n", res.ID, res.Capacity)
		assigned := grouped[res.ID]
		if len(assigned) == 0 {
			b.WriteString("  idle\n")
			continue
		}
		for _, a := range assigned {
			bar := strings.Repeat(" ", a.Start) + strings.Repeat("#", a.Finish-a.Start)
			label := a.TaskID
			if v.Analysis != nil && v.Analysis.Timing[a.TaskID].Critical {
				label = s.highlight(label)
			}
			fmt.Fprintf(&b, "  %-12s |%-*s| [%d-%d]\n",
				label, v.Schedule.Makespan, bar, a.Start, a.Finish)
		}
	}
	return b.String()
}

func (s GanttStrategy) highlight(id string) string {
	if !s.UseColor {
		return id + "*"
	}
	return ansi.Bold + ansi.Red + id + ansi.Reset
}

// UtilizationStrategy renders per-resource utilization percentages and
// the makespan-versus-critical-path summary.
type UtilizationStrategy struct{}

// Render produces the utilization summary.
func (s UtilizationStrategy) Render(v View) string {
	if v.Schedule == nil {
		return "No schedule computed.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Makespan: %d (critical path %d, gap %d)\n\n",
		v.Schedule.Makespan, v.Schedule.CriticalLength, v.Schedule.Slack())

	util := v.Schedule.Utilization()
	ids := make([]string, 0, len(util))
	for id := range util {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RESOURCE\tUTILIZATION\tTASKS\t")
	grouped := v.Schedule.ByResource()
	for _, id := range ids {
		fmt.Fprintf(tw, "%s\t%.0f%%\t%d\t\n", id, util[id]*100, len(grouped[id]))
	}
	tw.Flush()
	return b.String()
}
