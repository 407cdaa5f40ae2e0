package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/productscience/monorange/runconfig/schema"
)

func KeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List every recognized key with its domain and default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := schema.Default()

			t := table.New().Headers("KEY", "DOMAIN", "DEFAULT")
			for _, f := range reg.Fields() {
				def := "required"
				switch {
				case f.Default != nil:
					def = fmt.Sprint(f.Default)
				case f.Optional:
					def = "optional"
				}
				t.Row(f.Path, f.Domain.Describe(), def)
			}
			for _, p := range reg.Patterns() {
				t.Row(p.Glob, p.Domain.Describe(), "pattern")
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())

			if sections := reg.GroupSections(schema.DenoisingGroup); len(sections) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "group %s is registered under %s\n",
					schema.DenoisingGroup, strings.Join(sections, ", "))
			}
			for _, l := range reg.Links() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s must alias %s\n", l.Path, l.Source)
			}
			for _, r := range reg.Rules() {
				kind := "error"
				if r.Severity == schema.SeverityWarning {
					kind = "warning"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rule %s (%s) over %v\n", r.Name, kind, r.Paths)
			}
			return nil
		},
	}
	return cmd
}
