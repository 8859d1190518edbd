package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ksyq12/rproxy/internal/logger"
)

var (
	configPath string
	jsonOutput bool
	verbose    bool
	dryRun     bool
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rproxy",
	Short: "nginx reverse proxy vhost reconciler",
	Long: `rproxy generates nginx reverse proxy vhosts for hosting panel domains and
keeps sites-available and sites-enabled in sync with the domain records.

Each command delivers one domain event (insert, update, delete, ssl or
client_delete) and issues at most one nginx reload.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/rproxy/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Plan changes without writing files or reloading nginx")
}

// flagState snapshots the package flag variables so tests can restore them
type flagState struct {
	configPath, oldDomain, sslAction string
	jsonOutput, verbose, dryRun      bool
	force                            bool
}

func saveFlags() flagState {
	return flagState{
		configPath: configPath,
		oldDomain:  oldDomain,
		sslAction:  sslAction,
		jsonOutput: jsonOutput,
		verbose:    verbose,
		dryRun:     dryRun,
		force:      forceClientDelete,
	}
}

func (s flagState) restore() {
	configPath = s.configPath
	oldDomain = s.oldDomain
	sslAction = s.sslAction
	jsonOutput = s.jsonOutput
	verbose = s.verbose
	dryRun = s.dryRun
	forceClientDelete = s.force
}
