package main

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/openeval/internal/runner"
	"github.com/stellarlinkco/openeval/internal/store"
)

func newCompareCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "compare <baseline> <candidate>",
		Short:   "Compare two stored experiments by id or name",
		Args:    cobra.ExactArgs(2),
		PreRunE: loadConfigPreRun(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareExperiments(cmd, st, args[0], args[1])
		},
	}
	return cmd
}

func compareExperiments(cmd *cobra.Command, st *cliState, baselineRef, candidateRef string) error {
	s, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	baseline, err := resolveExperiment(cmd, s, baselineRef)
	if err != nil {
		return err
	}
	candidate, err := resolveExperiment(cmd, s, candidateRef)
	if err != nil {
		return err
	}

	cmp, err := runner.Compare(baseline, candidate)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", cmp.Baseline, cmp.Candidate)

	names := make([]string, 0, len(cmp.Scorers))
	for name := range cmp.Scorers {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORER\tBASELINE\tCANDIDATE\tDELTA\t")
	for _, name := range names {
		d := cmp.Scorers[name]
		marker := ""
		if d.Improved {
			marker = "improved"
		} else if d.Delta < 0 {
			marker = "regressed"
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%+.4f\t%s\n", name, d.BaselineMean, d.CandidateMean, d.Delta, marker)
	}
	return tw.Flush()
}

func resolveExperiment(cmd *cobra.Command, s store.Store, ref string) (*runner.ExperimentResult, error) {
	ctx := cmd.Context()

	exp, err := s.GetExperiment(ctx, ref)
	if err == nil {
		return exp, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	exp, err = s.GetLatestByName(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("compare: no experiment with id or name %q", ref)
	}
	return exp, err
}
