package state

import (
	"fmt"
	"net/netip"
	"slices"
	"strings"
)

// RouterCfg declares a single simulated router and the prefixes it is
// directly connected to.
type RouterCfg struct {
	Id       RouterId
	Prefixes []netip.Prefix `yaml:",omitempty"`
}

// PacketCfg describes a packet injected into the fabric after the
// advertisement schedule has run.
type PacketCfg struct {
	Source  netip.Addr
	Dest    netip.Addr
	Payload string   `yaml:",omitempty"`
	Inject  RouterId // entry router
}

// SimCfg is the whole simulation: topology, advertisement schedule and
// sample traffic.
type SimCfg struct {
	Name      string `yaml:",omitempty"`
	Routers   []RouterCfg
	Graph     []string
	Advertise []RouterId  `yaml:",omitempty"` // explicit advertisement invocation order
	Passes    int         `yaml:",omitempty"` // sweeps over all routers when Advertise is empty
	Packets   []PacketCfg `yaml:",omitempty"`
	LogPath   string      `yaml:"log_path,omitempty"` // if not empty, also log to this file
}

func (c *SimCfg) RouterIds() []RouterId {
	ids := make([]RouterId, 0, len(c.Routers))
	for _, r := range c.Routers {
		ids = append(ids, r.Id)
	}
	return ids
}

func (c *SimCfg) GetRouter(id RouterId) *RouterCfg {
	rIdx := slices.IndexFunc(c.Routers, func(cfg RouterCfg) bool {
		return cfg.Id == id
	})
	if rIdx == -1 {
		return nil
	}
	return &c.Routers[rIdx]
}

/*
ParseGraph Graph syntax is something like this:

r1, r2 // r1 and r2 will be connected

r1, r2, r3 // r1, r2 and r3 will all be interconnected

graph represents the above graph
nodes represents the set of declared router names
*/
func ParseGraph(graph []string, nodes []string) ([]Pair[RouterId, RouterId], error) {
	pairings := make([]Pair[RouterId, RouterId], 0)

	for _, line := range graph {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		names := make([]string, 0)
		for _, tok := range strings.Split(line, ",") {
			tok = strings.TrimSpace(tok)
			if !slices.Contains(nodes, tok) {
				return nil, fmt.Errorf("invalid graph: %s. unknown router %s", line, tok)
			}
			names = append(names, tok)
		}
		if len(names) < 2 {
			return nil, fmt.Errorf("invalid pairing, %v", names)
		}
		interconnect := make([]string, 0)
		for _, name := range names {
			for _, prev := range interconnect {
				if prev == name {
					return nil, fmt.Errorf("invalid graph: %s. router %s linked to itself", line, name)
				}
				pairings = append(pairings, MakeSortedPair(prev, name))
			}
			interconnect = append(interconnect, name)
		}
	}

	SortPairs(pairings)
	return slices.Compact(pairings), nil
}
