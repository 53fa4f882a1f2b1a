package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/openeval/internal/store"
)

func newListCmd(st *cliState) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List stored experiments",
		Args:    cobra.NoArgs,
		PreRunE: loadConfigPreRun(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(st.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			list, err := s.ListExperiments(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCREATED\tCASES\tCOST")
			for _, e := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t$%.4f\n",
					e.ID, e.Name, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Cases, e.TotalCostUSD)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum experiments to list")
	return cmd
}
