package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/vectorwire/v1/version"
)

func newFeaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "List features and whether a server version supports them",
		Long: "List every gated feature with its minimum server version. Without " +
			"--server-version the version is read from the configured server.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := resolveVersion(cmd)
			if err != nil {
				return err
			}
			return printFeatures(cmd, v)
		},
	}
	cmd.Flags().String("server-version", "", "check against this version instead of asking the server")
	return cmd
}

func newServerVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server-version",
		Short: "Print the version reported by the configured server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := fetchVersion(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cfg.Redacted())
			return nil
		},
	}
}

func resolveVersion(cmd *cobra.Command) (version.Version, error) {
	if s, _ := cmd.Flags().GetString("server-version"); s != "" {
		return version.Parse(s)
	}
	return fetchVersion(cmd)
}

func fetchVersion(cmd *cobra.Command) (version.Version, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return version.Version{}, err
	}
	f := version.NewHTTPFetcher(cfg.HTTPBaseURL(), cfg.APIKey, cfg.ConnectTimeout)
	return version.NewOracle(f).Version(cmd.Context())
}

func printFeatures(cmd *cobra.Command, v version.Version) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "server version %s\n\n", v)
	fmt.Fprintln(w, "FEATURE\tMIN VERSION\tSUPPORTED")
	snap := version.NewSnapshot(v)
	for _, f := range version.Features() {
		supported := "no"
		if snap.Supports(f) {
			supported = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name(), f.MinVersion(), supported)
	}
	return w.Flush()
}
