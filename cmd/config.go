package cmd

import (
	"fmt"
	"strings"

	"collector/pkg/collect"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "COLLECTOR"

func configureFlags(command *cobra.Command) {
	defaults := collect.DefaultArguments()

	command.Flags().StringP("extension", "e", defaults.Extension,
		"File extension to collect, without the leading dot.")
	command.Flags().StringP("output", "o", defaults.Output,
		"Output file. Relative paths are resolved against the working directory.")
	command.Flags().BoolP("remove-empty-lines", "r", false,
		"Remove whitespace-only lines from each collected file.")
	command.Flags().StringP("dir", "d", "",
		"Directory to walk. Defaults to the working directory.")
	command.Flags().Bool("debug", false,
		"Enable development logging at debug level.")
}

// newViper layers COLLECTOR_* environment variables under the parsed flags.
// Explicitly set flags win; unset flags fall back to the environment, then
// to their defaults.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	vip := viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()
	if err := vip.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return vip, nil
}

func argumentsFrom(vip *viper.Viper) collect.Arguments {
	return collect.Arguments{
		Root:             vip.GetString("dir"),
		Extension:        vip.GetString("extension"),
		Output:           vip.GetString("output"),
		RemoveEmptyLines: vip.GetBool("remove-empty-lines"),
	}
}
