package state

import (
	"log/slog"
	"slices"
)

// Env can be read by every component of a simulation run.
type Env struct {
	SimCfg
	Log *slog.Logger
}

// RouterState holds everything a single simulated router owns: its
// routing table and the ids of its registered neighbours. Routers never
// hold references to each other; the fabric resolves ids.
type RouterState struct {
	Id         RouterId
	Table      RoutingTable
	Neighbours []RouterId
}

func NewRouterState(id RouterId) *RouterState {
	return &RouterState{Id: id}
}

func (s *RouterState) HasNeighbour(id RouterId) bool {
	return slices.Contains(s.Neighbours, id)
}
