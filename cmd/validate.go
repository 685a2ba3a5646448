package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/gantry/internal/config"
	"github.com/papapumpkin/gantry/internal/project"
)

var validateCmd = &cobra.Command{
	Use:   "validate [project file]",
	Short: "Check a project file for structural problems",
	Long: "Validate parses the project file and checks the task graph for cycles, " +
		"unknown dependencies, duplicate IDs, bad durations, and resource demands " +
		"no resource can ever satisfy.",
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path := projectPath(args)

	p, err := project.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "✓ parsed %s (%d tasks)\n", path, len(p.Tasks))

	g, err := p.Graph()
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "✓ dependency graph is acyclic")

	pool := p.Pool(cfg.Resources)
	maxCapacity := 0
	for _, res := range pool {
		if res.Capacity > maxCapacity {
			maxCapacity = res.Capacity
		}
	}
	ok := true
	for _, id := range g.IDs() {
		if d := g.Task(id).Demand; d > maxCapacity {
			fmt.Fprintf(os.Stderr, "✗ task %s demands %d units, max resource capacity is %d\n",
				id, d, maxCapacity)
			ok = false
		}
	}
	if !ok {
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "✓ all demands satisfiable by the %d-resource pool\n", len(pool))
	return nil
}
