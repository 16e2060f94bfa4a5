package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mockconf",
	Short: "mockconf serves REST and GraphQL mocks from a configuration file",
	Long: `mockconf serves REST and GraphQL mock APIs described in a YAML, JSON or
TOML configuration file. Routes are selected by request entities (headers,
cookies, query, params, body, variables), can replay queued responses for
polling clients, and can be intercepted at route, request, API and server
scope.

Without --config, mockconf looks for mockconf.yaml (.yml, .json, .toml) in the
current directory, or the file named by MOCKCONF_CONFIG.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
