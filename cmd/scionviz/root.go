package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sagoresarker/scion-visualizer/internal/config"
)

var version = "dev"

var (
	configPath string
	v          = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "scionviz",
	Short: "SCION Visualizer backend",
	Long: `scionviz serves a browser dashboard for a local SCION test network.
It runs docker compose and the scion CLI on demand and returns their
parsed output as JSON.`,
	Version:       version,
	SilenceUsage:  true,
	RunE:          runServe,
}

func init() {
	rootCmd.SetVersionTemplate("scionviz version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to YAML config (default ./scionviz.yaml if present)")
	flags.String("listen", config.DefaultListen, "HTTP listen address")
	flags.String("project-root", ".", "working directory for docker and scion commands")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	bindFlag(flags, "server.listen", "listen")
	bindFlag(flags, "project_root", "project-root")
	bindFlag(flags, "log.level", "log-level")

	rootCmd.AddCommand(serveCmd, configCmd, versionCmd)
}

// bindFlag lets an explicitly set flag override file and env values.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scionviz version %s\n", version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, configPath)
		if err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}
