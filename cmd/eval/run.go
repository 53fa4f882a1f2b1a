package main

import (
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/openeval/internal/app"
	"github.com/stellarlinkco/openeval/internal/llm"
	"github.com/stellarlinkco/openeval/internal/prompt"
	"github.com/stellarlinkco/openeval/internal/report"
	"github.com/stellarlinkco/openeval/internal/runner"
	"github.com/stellarlinkco/openeval/internal/store"
)

var errThresholdNotMet = errors.New("openeval: score below --fail-under")

type runOptions struct {
	name       string
	dataPath   string
	suitePath  string
	promptPath string
	model      string
	system     string
	report     string
	save       bool
	failUnder  float64
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run a scorer suite against a dataset",
		Args:    cobra.NoArgs,
		PreRunE: loadConfigPreRun(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "experiment name (defaults to the dataset name)")
	cmd.Flags().StringVar(&opts.dataPath, "data", "", "dataset file (json or csv)")
	cmd.Flags().StringVar(&opts.suitePath, "scorers", "", "scorer suite file (yaml)")
	cmd.Flags().StringVar(&opts.promptPath, "prompt", "", "prompt template file (yaml) to wrap each input in")
	cmd.Flags().StringVar(&opts.model, "model", "", "model the task sends inputs to (overrides config)")
	cmd.Flags().StringVar(&opts.system, "system", "", "system prompt for the task")
	cmd.Flags().StringVar(&opts.report, "report", "", "write an HTML report to this path")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist the experiment to storage")
	cmd.Flags().Float64Var(&opts.failUnder, "fail-under", 0, "exit non-zero when any scorer mean falls below this value")

	return cmd
}

func runExperiment(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}
	if strings.TrimSpace(opts.dataPath) == "" {
		return fmt.Errorf("run: --data is required")
	}
	if strings.TrimSpace(opts.suitePath) == "" {
		return fmt.Errorf("run: --scorers is required")
	}

	data, err := app.LoadDataset(opts.dataPath)
	if err != nil {
		return err
	}
	suite, err := app.LoadScorerSuite(opts.suitePath)
	if err != nil {
		return err
	}

	provider, err := llm.DefaultProviderFromConfig(st.cfg)
	if err != nil {
		return err
	}

	var embedder llm.Embedder
	if suiteNeedsEmbedder(suite) {
		embedder, err = llm.EmbedderFromConfig(st.cfg)
		if err != nil {
			return err
		}
	}

	scorers, err := app.BuildScorers(st.cfg, suite, provider, embedder)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(opts.name)
	if name == "" {
		name = data.Name()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	task := app.NewLLMTask(provider, opts.model, opts.system)
	if opts.promptPath != "" {
		p, err := prompt.Load(opts.promptPath)
		if err != nil {
			return err
		}
		task = app.NewPromptTask(provider, opts.model, p)
	}
	exp, err := runner.Evaluate(ctx, name, data, task, scorers)
	if err != nil {
		return err
	}

	printExperiment(cmd, exp)

	if opts.report != "" {
		if err := report.WriteFile(opts.report, exp); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", opts.report)
	}

	if opts.save {
		s, err := store.Open(st.cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		if err := s.SaveExperiment(ctx, exp); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved experiment %s\n", exp.ID)
	}

	if opts.failUnder > 0 {
		for name, s := range exp.Summary {
			if s.Mean < opts.failUnder {
				fmt.Fprintf(stderrWriter, "%s mean %.4f below --fail-under %.4f\n", name, s.Mean, opts.failUnder)
				return errThresholdNotMet
			}
		}
	}
	return nil
}

func suiteNeedsEmbedder(suite *app.ScorerSuite) bool {
	for _, spec := range suite.Scorers {
		if strings.EqualFold(strings.TrimSpace(spec.Type), "similarity") {
			return true
		}
	}
	return false
}

func printExperiment(cmd *cobra.Command, exp *runner.ExperimentResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "experiment %s (%s): %d cases in %d ms, %d tokens, $%.4f\n",
		exp.Name, exp.ID, len(exp.Results), exp.DurationMs, exp.TotalTokens, exp.TotalCostUSD)

	names := make([]string, 0, len(exp.Summary))
	for name := range exp.Summary {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORER\tMEAN\tMIN\tMAX\tPASS RATE\tCASES")
	for _, name := range names {
		s := exp.Summary[name]
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.1f%%\t%d\n", name, s.Mean, s.Min, s.Max, s.PassRate*100, s.Count)
	}
	_ = tw.Flush()

	var failed int
	for _, res := range exp.Results {
		if res.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(out, "%d case(s) errored and were not scored\n", failed)
	}
}
