package core

import (
	"fmt"
	"net/netip"
	"slices"
	"strings"

	"github.com/routelab/dvsim/state"
)

// SimEvent is one observable router action, recorded in dispatch order.
type SimEvent struct {
	Router state.RouterId
	Event  RouterEvent
	Desc   string
	Args   []any
}

// HopRecord is one forwarding step of an injected packet.
type HopRecord struct {
	Router state.RouterId
	Status state.PacketStatus
	TTL    int
}

// Simulation owns every router and resolves ids to state, so routers
// never hold references to each other. All dispatch is synchronous:
// forwarding a packet across n routers is n nested calls on the calling
// goroutine, bounded by the packet's TTL.
type Simulation struct {
	env     *state.Env
	order   []state.RouterId
	routers map[state.RouterId]*state.RouterState
	events  []SimEvent
	trace   []HopRecord
}

func NewSimulation(env *state.Env) *Simulation {
	return &Simulation{
		env:     env,
		routers: make(map[state.RouterId]*state.RouterState),
	}
}

func (sim *Simulation) AddRouter(id state.RouterId) *state.RouterState {
	if rs, ok := sim.routers[id]; ok {
		return rs
	}
	rs := state.NewRouterState(id)
	sim.routers[id] = rs
	sim.order = append(sim.order, id)
	return rs
}

func (sim *Simulation) Router(id state.RouterId) *state.RouterState {
	return sim.routers[id]
}

// Connect registers b as a neighbour of a (one direction only).
func (sim *Simulation) Connect(a, b state.RouterId) {
	ConnectNeighbour(sim.routers[a], sim.handleFor(a), b)
}

// Link wires a bidirectional neighbour relationship.
func (sim *Simulation) Link(a, b state.RouterId) {
	sim.Connect(a, b)
	sim.Connect(b, a)
}

// SeedLocalRoute installs a directly connected prefix. The next hop is
// the router itself, which the forwarding path treats as local
// delivery.
func (sim *Simulation) SeedLocalRoute(id state.RouterId, prefix netip.Prefix) {
	HandleRouteUpdate(sim.routers[id], sim.handleFor(id), prefix, id, 0)
}

// AdvertiseFrom runs one advertisement round from a single router.
func (sim *Simulation) AdvertiseFrom(id state.RouterId) {
	AdvertiseRoutes(sim.routers[id], sim.handleFor(id))
}

// Sweep advertises from every router in declaration order.
func (sim *Simulation) Sweep() {
	for _, id := range sim.order {
		sim.AdvertiseFrom(id)
	}
}

// InjectPacket hands pkt to the entry router and returns the packet's
// hop-by-hop trace. The trace always ends in a terminal status.
func (sim *Simulation) InjectPacket(entry state.RouterId, pkt *state.Packet) []HopRecord {
	rs, ok := sim.routers[entry]
	if !ok {
		return nil
	}
	sim.trace = sim.trace[:0]
	HandlePacket(rs, sim.handleFor(entry), pkt)
	return slices.Clone(sim.trace)
}

// Events returns everything routers have logged so far.
func (sim *Simulation) Events() []SimEvent {
	return sim.events
}

// DumpTables renders every routing table in declaration order.
func (sim *Simulation) DumpTables() string {
	sb := strings.Builder{}
	for _, id := range sim.order {
		sb.WriteString(fmt.Sprintf("[%s]\n", id))
		sb.WriteString(sim.routers[id].Table.String())
	}
	return sb.String()
}

// handle binds the Router action interface to a single router id.
// Cross-router effects route back through the fabric, keeping each
// router's state private to its own operations.
type handle struct {
	sim *Simulation
	id  state.RouterId
}

func (sim *Simulation) handleFor(id state.RouterId) Router {
	return &handle{sim: sim, id: id}
}

func (h *handle) SendRouteUpdate(neigh state.RouterId, prefix netip.Prefix, metric uint16) {
	target, ok := h.sim.routers[neigh]
	if !ok {
		h.Log(InconsistentState, "update for unknown neighbour", "neigh", neigh)
		return
	}
	HandleRouteUpdate(target, h.sim.handleFor(neigh), prefix, h.id, metric)
}

func (h *handle) ForwardPacket(neigh state.RouterId, pkt *state.Packet) {
	target, ok := h.sim.routers[neigh]
	if !ok {
		h.Log(InconsistentState, "forward to unknown neighbour", "neigh", neigh)
		return
	}
	HandlePacket(target, h.sim.handleFor(neigh), pkt)
}

func (h *handle) Log(event RouterEvent, desc string, args ...any) {
	h.sim.events = append(h.sim.events, SimEvent{Router: h.id, Event: event, Desc: desc, Args: args})
	if status, ok := packetStatus(event); ok {
		h.sim.trace = append(h.sim.trace, HopRecord{Router: h.id, Status: status, TTL: intArg(args, "ttl")})
	}
	attrs := append([]any{"router", h.id}, args...)
	if event >= PacketDroppedTTL {
		h.sim.env.Log.Warn(fmt.Sprintf("%s %s", event.String(), desc), attrs...)
	} else {
		h.sim.env.Log.Debug(fmt.Sprintf("%s %s", event.String(), desc), attrs...)
	}
}

func packetStatus(event RouterEvent) (state.PacketStatus, bool) {
	switch event {
	case PacketForwarded:
		return state.InTransit, true
	case PacketDelivered:
		return state.Delivered, true
	case PacketDroppedTTL:
		return state.DroppedTTL, true
	case PacketDroppedNoRoute:
		return state.DroppedNoRoute, true
	}
	return 0, false
}

func intArg(args []any, key string) int {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			if v, ok := args[i+1].(int); ok {
				return v
			}
		}
	}
	return 0
}
