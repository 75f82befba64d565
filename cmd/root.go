package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath = "topology.yaml"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dvsim",
	Short: "Distance-Vector Routing Simulator",
	Long: `dvsim simulates split-horizon route propagation and TTL-bounded packet
forwarding between a set of named routers described by a YAML topology.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "simulation topology")
}
