package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/routelab/dvsim/core"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation",
	Long:  `This will build the topology, run the advertisement schedule and inject every configured packet.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := core.ReadSimConfig(configPath)
		if err != nil {
			panic(err)
		}

		level := slog.LevelInfo
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}

		sim, err := core.Start(*cfg, level)
		if err != nil {
			panic(err)
		}

		if ok, _ := cmd.Flags().GetBool("tables"); ok {
			fmt.Print(sim.DumpTables())
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
	runCmd.Flags().BoolP("tables", "t", false, "Dump routing tables after the run")
}
