package state

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/gaissmai/bart"
)

type RouterId string

// Packet is a single best-effort datagram moving through the simulated
// fabric. TTL is the only field a router ever mutates.
type Packet struct {
	Src     netip.Addr
	Dst     netip.Addr
	Payload any
	TTL     int
}

func NewPacket(src, dst netip.Addr, payload any) *Packet {
	return &Packet{
		Src:     src,
		Dst:     dst,
		Payload: payload,
		TTL:     InitialTTL,
	}
}

// PrefixFromAddr truncates addr to the simulator's fixed prefix length.
// The caller must pass a valid address.
func PrefixFromAddr(addr netip.Addr) netip.Prefix {
	return netip.PrefixFrom(addr, PrefixLen).Masked()
}

// PacketStatus tracks a packet's journey. The drop states and Delivered
// are terminal.
type PacketStatus int

const (
	InTransit PacketStatus = iota
	Delivered
	DroppedTTL
	DroppedNoRoute
)

func (s PacketStatus) String() string {
	switch s {
	case InTransit:
		return "IN_TRANSIT"
	case Delivered:
		return "DELIVERED"
	case DroppedTTL:
		return "DROPPED_TTL"
	case DroppedNoRoute:
		return "DROPPED_NO_ROUTE"
	}
	return "UNKNOWN"
}

type RouteEntry struct {
	Prefix netip.Prefix
	Nh     RouterId // next hop node
}

// RoutingTable maps prefixes to next hops. Lookups go through a bart
// table; the side slice preserves insertion order so that advertisement
// and table dumps stay deterministic.
type RoutingTable struct {
	fwd   bart.Table[RouterId]
	order []netip.Prefix
}

// Insert sets the next hop for prefix, unconditionally replacing any
// previous entry. Reports whether an entry was replaced.
func (t *RoutingTable) Insert(prefix netip.Prefix, nh RouterId) bool {
	_, replaced := t.fwd.Get(prefix)
	t.fwd.Insert(prefix, nh)
	if !replaced {
		t.order = append(t.order, prefix)
	}
	return replaced
}

// NextHop is the exact-prefix lookup used on the forwarding path.
func (t *RoutingTable) NextHop(prefix netip.Prefix) (RouterId, bool) {
	return t.fwd.Get(prefix)
}

// Lookup returns the next hop of the longest prefix matching addr.
func (t *RoutingTable) Lookup(addr netip.Addr) (RouterId, bool) {
	return t.fwd.Lookup(addr)
}

func (t *RoutingTable) Len() int {
	return len(t.order)
}

// Entries returns all routes in insertion order.
func (t *RoutingTable) Entries() []RouteEntry {
	entries := make([]RouteEntry, 0, len(t.order))
	for _, prefix := range t.order {
		nh, ok := t.fwd.Get(prefix)
		if !ok {
			continue
		}
		entries = append(entries, RouteEntry{Prefix: prefix, Nh: nh})
	}
	return entries
}

func (t *RoutingTable) String() string {
	sb := strings.Builder{}
	for _, e := range t.Entries() {
		sb.WriteString(fmt.Sprintf("%s via %s\n", e.Prefix, e.Nh))
	}
	return sb.String()
}
