package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/routelab/dvsim/core"
)

// tablesCmd represents the tables command
var tablesCmd = &cobra.Command{
	Use:     "tables",
	Aliases: []string{"t"},
	Short:   "Inspect the converged routing tables",
	Long:    `Runs the advertisement schedule without injecting packets, then prints every routing table and the resolution of each configured packet destination.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := core.ReadSimConfig(configPath)
		if err != nil {
			fmt.Println("Error:", err.Error())
			return
		}
		sim, err := core.Converge(*cfg, slog.LevelWarn)
		if err != nil {
			fmt.Println("Error:", err.Error())
			return
		}
		fmt.Print(sim.DumpTables())

		for _, pc := range cfg.Packets {
			nh, ok := sim.Router(pc.Inject).Table.Lookup(pc.Dest)
			if !ok {
				fmt.Printf("%s: no route at %s\n", pc.Dest, pc.Inject)
				continue
			}
			fmt.Printf("%s: via %s at %s\n", pc.Dest, nh, pc.Inject)
		}
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
