package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// buildRootCmdWith constructs the command tree bound to o.
func buildRootCmdWith(o *Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "energyd",
		Short:         "Building energy and emissions prediction service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.ConfigPath, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	pf.StringVar(&o.EnvFile, "env-file", ".env", "Dotenv file loaded when present")
	pf.StringVar(&o.StoreDir, "store-dir", "", "Model store root (default ~/.energyd/store)")
	pf.StringVar(&o.LogLevel, "log-level", "", "Log level: trace|debug|info|warn|error")
	pf.StringVar(&o.LogFormat, "log-format", "", "Log format: json|console")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(o)
			if err != nil {
				return err
			}
			return fnServe(cmd.Context(), cfg, o)
		},
	}
	serveCmd.Flags().StringVar(&o.Addr, "addr", "", "HTTP listen address (default :$PORT or :3000)")

	var energyPath, ghgPath string
	registerCmd := &cobra.Command{
		Use:     "register",
		Short:   "Register the energy and emissions model artifacts",
		Example: "  energyd register --models-dir ./models",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(o)
			if err != nil {
				return err
			}
			return fnRegister(cmd.Context(), cfg, o, energyPath, ghgPath)
		},
	}
	registerCmd.Flags().StringVar(&o.ModelsDir, "models-dir", "", "Directory holding the default artifact files")
	registerCmd.Flags().StringVar(&energyPath, "energy", "", "Energy model artifact path (overrides --models-dir)")
	registerCmd.Flags().StringVar(&ghgPath, "ghg", "", "Emissions model artifact path (overrides --models-dir)")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List registered model versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(o)
			if err != nil {
				return err
			}
			return fnListModels(cmd.Context(), cfg, o)
		},
	}

	root.AddCommand(serveCmd, registerCmd, modelsCmd)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	root.AddCommand(completionCmd)

	return root
}
