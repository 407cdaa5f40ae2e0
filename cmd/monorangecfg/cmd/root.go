package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/productscience/monorange/logging"
	"github.com/productscience/monorange/runconfig"
)

const (
	flagSet       = "set"
	flagNoEnv     = "no-env"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"

	// cli settings can also come from MONORANGECFG_LOG_LEVEL and friends
	settingsEnvPrefix = "MONORANGECFG"
)

func NewRootCmd() *cobra.Command {
	settings := viper.New()
	rootCmd := &cobra.Command{
		Use:           "monorangecfg",
		Short:         "Load, validate and inspect MonoRange run configs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings.SetEnvPrefix(settingsEnvPrefix)
			settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			settings.AutomaticEnv()
			if err := settings.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return logging.Configure(cmd.ErrOrStderr(),
				settings.GetString(flagLogLevel), settings.GetString(flagLogFormat))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringArray(flagSet, nil, "override a key, e.g. --set model.hidden_dim=128 (repeatable)")
	flags.Bool(flagNoEnv, false, "ignore "+runconfig.DefaultEnvPrefix+"* environment overrides")
	flags.String(flagLogLevel, "warn", "log level: debug, info, warn, error")
	flags.String(flagLogFormat, "text", "log format: text or json")

	rootCmd.AddCommand(
		ValidateCommand(),
		ShowCommand(),
		PlanCommand(),
		KeysCommand(),
		ServeCommand(),
	)
	return rootCmd
}

// configPath is the optional positional argument, falling back to MONORANGE_CONFIG_PATH.
func configPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return runconfig.GetConfigPath()
}

func loadOptions(cmd *cobra.Command) ([]runconfig.Option, error) {
	var opts []runconfig.Option
	noEnv, err := cmd.Flags().GetBool(flagNoEnv)
	if err != nil {
		return nil, err
	}
	if noEnv {
		opts = append(opts, runconfig.WithoutEnv())
	}
	overrides, err := cmd.Flags().GetStringArray(flagSet)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		opts = append(opts, runconfig.WithOverrides(overrides...))
	}
	return opts, nil
}
