package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/gantry/internal/config"
	"github.com/papapumpkin/gantry/internal/cpm"
	"github.com/papapumpkin/gantry/internal/project"
	"github.com/papapumpkin/gantry/internal/report"
	"github.com/papapumpkin/gantry/internal/schedule"
	"github.com/papapumpkin/gantry/internal/store"
	"github.com/papapumpkin/gantry/internal/telemetry"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [project file]",
	Short: "Assign tasks to resources with a list-scheduling heuristic",
	Long: "Schedule runs the list-scheduling engine over the project's task graph, " +
		"assigning every task to a resource under dependency and capacity constraints, " +
		"and renders the resulting timeline and utilization.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().String("policy", "", "task selection heuristic: longest or critical")
	scheduleCmd.Flags().String("placement", "", "resource placement rule: earliest or latest")
	scheduleCmd.Flags().Int("resources", 0, "default pool size when the project declares no resources")
	scheduleCmd.Flags().Bool("no-history", false, "do not record this run in the history database")

	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyScheduleFlags(cmd, &cfg)

	policy, err := parsePolicy(cfg)
	if err != nil {
		return err
	}

	p, err := project.Load(projectPath(args))
	if err != nil {
		return err
	}
	g, err := p.Graph()
	if err != nil {
		return err
	}
	analysis, err := cpm.Analyze(g)
	if err != nil {
		return err
	}
	pool := p.Pool(cfg.Resources)

	engine := schedule.New(policy)
	engine.RunID = uuid.NewString()
	if cfg.TelemetryPath != "" {
		emitter, err := telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return err
		}
		defer emitter.Close()
		engine.Events = emitter
	}

	sched, err := engine.Run(g, pool)
	if err != nil {
		return err
	}

	view := report.View{Name: p.Name, Graph: g, Analysis: analysis, Schedule: sched}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, report.GanttStrategy{UseColor: !cfg.NoColor}.Render(view))
	fmt.Fprintln(out)
	fmt.Fprint(out, report.UtilizationStrategy{}.Render(view))

	if !cfg.NoHistory {
		if err := recordRun(cmd.Context(), cfg, engine.RunID, p, policy, pool, sched); err != nil {
			// History is bookkeeping; a failed write shouldn't fail the run.
			fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
		}
	}
	return nil
}

// applyScheduleFlags applies CLI flag values to the loaded config.
func applyScheduleFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("policy"); v != "" {
		cfg.Policy = v
	}
	if v, _ := cmd.Flags().GetString("placement"); v != "" {
		cfg.Placement = v
	}
	if v, _ := cmd.Flags().GetInt("resources"); v > 0 {
		cfg.Resources = v
	}
	if v, _ := cmd.Flags().GetBool("no-history"); v {
		cfg.NoHistory = true
	}
}

// parsePolicy resolves the configured selection and placement names.
func parsePolicy(cfg config.Config) (schedule.Policy, error) {
	selection, err := schedule.ParseSelection(cfg.Policy)
	if err != nil {
		return schedule.Policy{}, err
	}
	placement, err := schedule.ParsePlacement(cfg.Placement)
	if err != nil {
		return schedule.Policy{}, err
	}
	return schedule.Policy{Selection: selection, Placement: placement}, nil
}

// recordRun appends the run summary to the history database.
func recordRun(ctx context.Context, cfg config.Config, runID string, p *project.Project,
	policy schedule.Policy, pool []schedule.Resource, sched *schedule.Schedule) error {

	s, err := store.Open(ctx, cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.SaveRun(ctx, store.Run{
		ID:             runID,
		Project:        p.Name,
		Policy:         policy.String(),
		Tasks:          len(sched.Assignments),
		Resources:      len(pool),
		Makespan:       sched.Makespan,
		CriticalLength: sched.CriticalLength,
	})
	return err
}
