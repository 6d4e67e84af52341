package cmd

import (
	"log"
	"log/slog"
	"os"

	"github.com/jcdickinson/doxyschema/internal/config"
	"github.com/jcdickinson/doxyschema/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at build time with -ldflags "-X".
var version = "0.1.0"

var (
	verbose bool
	noCache bool
)

var rootCmd = &cobra.Command{
	Use:   "doxyschema",
	Short: "Reconstruct API schema metadata from doxygen HTML",
	Long: `Reads the class reference pages produced by doxygen and resolves the API type
hierarchy: which classes exist, which are abstract base classes, how they inherit,
and which fields they expose with binding-ready types.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(verbose)})))
	},
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every pass and field to stderr")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "ignore and do not write schema snapshots")
	rootCmd.PersistentFlags().String("docs", "", "doxygen HTML directory (overrides docs.dir)")
	viper.BindPFlag("docs.dir", rootCmd.PersistentFlags().Lookup("docs"))

	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(mcpCmd)
}

// openWorkspace loads the configuration, applies flag overrides and returns a
// workspace for it.
func openWorkspace() (*config.Config, *workspace.Workspace) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, workspace.New(cfg)
}
