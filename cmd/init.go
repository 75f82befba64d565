package cmd

import (
	"fmt"
	"net/netip"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/routelab/dvsim/state"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample topology",
	Long:  `Writes a three-router chain topology with one sample packet to the config path.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := state.SimCfg{
			Name: "chain",
			Routers: []state.RouterCfg{
				{Id: "r1", Prefixes: []netip.Prefix{netip.MustParsePrefix("192.168.1.0/24")}},
				{Id: "r2", Prefixes: []netip.Prefix{netip.MustParsePrefix("192.168.2.0/24")}},
				{Id: "r3", Prefixes: []netip.Prefix{netip.MustParsePrefix("192.168.3.0/24")}},
			},
			Graph: []string{
				"r1, r2",
				"r2, r3",
			},
			Advertise: []state.RouterId{"r1", "r3", "r2"},
			Packets: []state.PacketCfg{
				{
					Source:  netip.MustParseAddr("192.168.1.10"),
					Dest:    netip.MustParseAddr("192.168.3.15"),
					Payload: "hello r3",
					Inject:  "r1",
				},
			},
		}

		out, err := yaml.Marshal(&cfg)
		if err != nil {
			panic(err)
		}
		err = os.WriteFile(configPath, out, 0644)
		if err != nil {
			panic(err)
		}
		fmt.Printf("wrote %s\n", configPath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
