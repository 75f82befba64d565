package core

import (
	"net/netip"

	"github.com/routelab/dvsim/state"
)

type RouterEvent int

// trace events

const (
	NeighbourAdded RouterEvent = iota
	RouteLearned
	RouteReplaced
	PacketForwarded
	PacketDelivered
)

// warn events

const (
	PacketDroppedTTL RouterEvent = iota + 1000
	PacketDroppedNoRoute
	DuplicateNeighbour
	InconsistentState
)

func (e RouterEvent) String() string {
	switch e {
	case NeighbourAdded:
		return "NEIGHBOUR_ADDED"
	case RouteLearned:
		return "ROUTE_LEARNED"
	case RouteReplaced:
		return "ROUTE_REPLACED"
	case PacketForwarded:
		return "PACKET_FORWARDED"
	case PacketDelivered:
		return "PACKET_DELIVERED"
	case PacketDroppedTTL:
		return "PACKET_DROPPED_TTL"
	case PacketDroppedNoRoute:
		return "PACKET_DROPPED_NO_ROUTE"
	case DuplicateNeighbour:
		return "DUPLICATE_NEIGHBOUR"
	case InconsistentState:
		return "INCONSISTENT_STATE"
	}
	return "UNKNOWN"
}

// Router is the set of side effects the routing core can request from
// its environment. The simulation fabric implements it for real runs;
// tests substitute a recording harness.
type Router interface {
	// SendRouteUpdate advertises one of our routes to a neighbour.
	SendRouteUpdate(neigh state.RouterId, prefix netip.Prefix, metric uint16)
	// ForwardPacket hands pkt to a neighbour's forwarding path.
	ForwardPacket(neigh state.RouterId, pkt *state.Packet)
	Log(event RouterEvent, desc string, args ...any)
}

// ConnectNeighbour registers peer in s's neighbour set. Registration is
// one-directional; the driver must connect both ways for a
// bidirectional link.
func ConnectNeighbour(s *state.RouterState, r Router, peer state.RouterId) {
	if s.HasNeighbour(peer) {
		r.Log(DuplicateNeighbour, "neighbour already registered", "peer", peer)
		return
	}
	s.Neighbours = append(s.Neighbours, peer)
	r.Log(NeighbourAdded, "neighbour added", "peer", peer)
}

// HandleRouteUpdate installs prefix via nextHop. The last update always
// wins, even when it names a worse or looping path; metric is carried
// for interface compatibility and never consulted. Seeding a directly
// connected prefix is the same operation with nextHop = own id.
func HandleRouteUpdate(s *state.RouterState, r Router, prefix netip.Prefix, nextHop state.RouterId, metric uint16) {
	_ = metric
	if s.Table.Insert(prefix, nextHop) {
		r.Log(RouteReplaced, "route replaced", "prefix", prefix, "nh", nextHop)
	} else {
		r.Log(RouteLearned, "route learned", "prefix", prefix, "nh", nextHop)
	}
}

// AdvertiseRoutes pushes the full table to every neighbour, withholding
// each route from the neighbour it was learned from (split horizon).
// Tables and neighbour sets are walked in insertion order.
func AdvertiseRoutes(s *state.RouterState, r Router) {
	for _, entry := range s.Table.Entries() {
		for _, neigh := range s.Neighbours {
			if neigh == entry.Nh {
				continue // split horizon
			}
			r.SendRouteUpdate(neigh, entry.Prefix, 0)
		}
	}
}

// HandlePacket runs one forwarding step. Drops are terminal and silent
// with respect to control flow; the event sink is the only visibility.
func HandlePacket(s *state.RouterState, r Router, pkt *state.Packet) {
	pkt.TTL--
	if pkt.TTL <= 0 {
		r.Log(PacketDroppedTTL, "ttl expired", "dst", pkt.Dst, "ttl", pkt.TTL)
		return
	}
	prefix := state.PrefixFromAddr(pkt.Dst)
	nh, ok := s.Table.NextHop(prefix)
	if !ok {
		r.Log(PacketDroppedNoRoute, "no route", "dst", pkt.Dst, "prefix", prefix, "ttl", pkt.TTL)
		return
	}
	if s.HasNeighbour(nh) {
		r.Log(PacketForwarded, "forwarding", "dst", pkt.Dst, "nh", nh, "ttl", pkt.TTL)
		r.ForwardPacket(nh, pkt)
		return
	}
	// the next hop is not a forwardable neighbour (usually it is this
	// router itself): the packet has reached its destination network
	r.Log(PacketDelivered, "delivered", "dst", pkt.Dst, "ttl", pkt.TTL)
}
