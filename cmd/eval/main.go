package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/openeval/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errThresholdNotMet) {
			osExit(1)
			return
		}
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "openeval",
		Short:         "Evaluate LLM outputs against scorer suites",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newRunCmd(st))
	root.AddCommand(newCompareCmd(st))
	root.AddCommand(newListCmd(st))
	return root
}

// loadConfigPreRun loads the config file if present, falling back to
// defaults when the default path does not exist.
func loadConfigPreRun(st *cliState) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(st.configPath)
		if err != nil {
			if st.configPath == config.DefaultPath && errors.Is(err, os.ErrNotExist) {
				st.cfg = config.Default()
				return nil
			}
			return err
		}
		st.cfg = cfg
		return nil
	}
}
