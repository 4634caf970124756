package main

import (
	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/vectorwire/v1/weaviate"
)

// NewRootCmd creates the root vectorwire command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vectorwire",
		Short:         "Inspect Weaviate server capabilities",
		Long:          "vectorwire reports which query and write features a Weaviate server version supports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringSlice("env-file", nil, "dotenv files to load before reading WEAVIATE_* variables")

	root.AddCommand(
		newFeaturesCmd(),
		newServerVersionCmd(),
		newConfigCmd(),
	)

	return root
}

func loadConfig(cmd *cobra.Command) (*weaviate.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	return weaviate.LoadConfig(path, envFiles...)
}
