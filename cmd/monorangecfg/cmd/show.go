package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

func ShowCommand() *cobra.Command {
	var section, format string
	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Print the effective run config, defaults and overrides applied",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := mustLoad(cmd, args)
			if err != nil {
				return err
			}

			k := koanf.New(".")
			if err := k.Load(structs.Provider(o.validated.Config, "koanf"), nil); err != nil {
				return err
			}
			if section != "" {
				if !k.Exists(section) {
					return fmt.Errorf("no section %q", section)
				}
				k = k.Cut(section)
			}

			var out []byte
			switch format {
			case "yaml":
				out, err = k.Marshal(yaml.Parser())
			case "json":
				out, err = json.MarshalIndent(k.Raw(), "", "  ")
				out = append(out, '\n')
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "print only this section")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}
