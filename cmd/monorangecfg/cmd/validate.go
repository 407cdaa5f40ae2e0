package cmd

import (
	"github.com/spf13/cobra"
)

func ValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a run config and print every problem found",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), o)
			return o.err
		},
	}
	return cmd
}

// mustLoad loads a config the command needs to be valid, reporting problems on stderr.
func mustLoad(cmd *cobra.Command, args []string) (*outcome, error) {
	o, err := loadConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	if o.failed() {
		renderReport(cmd.ErrOrStderr(), o)
		return nil, o.err
	}
	return o, nil
}
