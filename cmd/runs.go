package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/gantry/internal/config"
	"github.com/papapumpkin/gantry/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded scheduling runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to show (0 for all)")
	runsCmd.Flags().Int("prune", 0, "delete all but the newest N runs before listing")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := store.Open(ctx, cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if keep, _ := cmd.Flags().GetInt("prune"); keep > 0 {
		deleted, err := s.Prune(ctx, keep)
		if err != nil {
			return err
		}
		if deleted > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "pruned %d runs\n", deleted)
		}
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := s.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tPROJECT\tPOLICY\tTASKS\tRES\tMAKESPAN\tCRITICAL\t")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Project, r.Policy,
			r.Tasks, r.Resources, r.Makespan, r.CriticalLength)
	}
	return tw.Flush()
}
