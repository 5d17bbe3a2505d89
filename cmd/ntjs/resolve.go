package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	var assets bool
	cmd := &cobra.Command{
		Use:   "resolve <name>...",
		Short: "Print the scripts and packages in emission order",
		Long:  `Resolves the dependencies of the informed scripts, including the bootstrap scripts, and prints them in the order they are emitted.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.services()
			if err != nil {
				return err
			}

			factory := s.provider.NewFactory("")
			for _, name := range args {
				factory.UseScript(name, nil, "")
			}

			manager := factory.Manager()
			sorted, err := manager.Sorted()
			if err != nil {
				return err
			}

			out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range sorted {
				if pkg, exists := manager.Resolve(name); exists {
					fmt.Fprintf(out, "%s\t%s\n", name, pkg.ID)
				} else {
					fmt.Fprintf(out, "%s\t-\n", name)
				}
			}
			if err = out.Flush(); err != nil {
				return err
			}

			if assets {
				if _, err = factory.Script(); err != nil {
					return err
				}
				for _, css := range factory.Stylesheets() {
					fmt.Fprintln(cmd.OutOrStdout(), "css", css)
				}
				for _, js := range factory.Javascripts() {
					fmt.Fprintln(cmd.OutOrStdout(), "js", js)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&assets, "assets", false, "also print the asset urls")
	return cmd
}
