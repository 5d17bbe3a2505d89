package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/syntax-framework/ntjs"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		vars    map[string]string
		baseURL string
	)
	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template to the standard output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.services()
			if err != nil {
				return err
			}

			compiled, _, err := s.server.Compile(filepath.ToSlash(args[0]))
			if err != nil {
				return fmt.Errorf("compiling %s: %w", args[0], err)
			}

			values := map[string]interface{}{}
			for key, value := range vars {
				values[key] = value
			}
			factory := s.provider.NewFactory(baseURL)
			output := ntjs.Render(compiled, factory, values).String()
			if _, err = factory.Script(); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}
	cmd.Flags().StringToStringVar(&vars, "var", nil, "template values, key=value")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base url of the generated asset urls")
	return cmd
}
