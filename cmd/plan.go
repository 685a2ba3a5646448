package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/gantry/internal/config"
	"github.com/papapumpkin/gantry/internal/cpm"
	"github.com/papapumpkin/gantry/internal/project"
	"github.com/papapumpkin/gantry/internal/report"
	"github.com/papapumpkin/gantry/internal/watch"
)

var planCmd = &cobra.Command{
	Use:   "plan [project file]",
	Short: "Analyze the critical path of a project",
	Long: "Plan runs critical path analysis on the project's task graph: earliest and " +
		"latest start/finish times, per-task slack, and every tied critical path.",
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().Bool("watch", false, "re-run the analysis whenever the project file changes")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path := projectPath(args)

	if watchMode, _ := cmd.Flags().GetBool("watch"); watchMode {
		return watchPlan(cmd, cfg, path)
	}
	return renderPlan(cmd, cfg, path)
}

// renderPlan runs one analysis pass and prints the timing report.
func renderPlan(cmd *cobra.Command, cfg config.Config, path string) error {
	p, err := project.Load(path)
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

	strategy := report.TimingStrategy{UseColor: !cfg.NoColor}
	fmt.Fprint(cmd.OutOrStdout(), strategy.Render(report.View{
		Name:     p.Name,
		Graph:    g,
		Analysis: analysis,
	}))
	return nil
}

// watchPlan re-renders the analysis on every change to the project file
// until interrupted.
func watchPlan(cmd *cobra.Command, cfg config.Config, path string) error {
	if err := renderPlan(cmd, cfg, path); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	w, err := watch.NewWatcher(path)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(os.Stderr, "watching %s for changes...\n", path)
	for change := range w.Changes {
		if change.Kind == watch.ChangeRemoved {
			fmt.Fprintf(os.Stderr, "%s removed, waiting for it to reappear\n", path)
			continue
		}
		// Analysis errors in watch mode are transient edits, not fatal.
		if err := renderPlan(cmd, cfg, path); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return nil
}

// projectPath resolves the project file argument, defaulting to
// gantry.toml in the working directory.
func projectPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return project.DefaultPath
}
