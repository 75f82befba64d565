package core

import (
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/routelab/dvsim/state"
)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

// RouterHarness records every action the routing core requests, so
// tests can assert on behaviour without a fabric or log capture.
type RouterHarness struct {
	actions []HarnessEvent
}

func (h *RouterHarness) SendRouteUpdate(neigh state.RouterId, prefix netip.Prefix, metric uint16) {
	h.actions = append(h.actions, MakeEvent("UPDATE_ROUTE", neigh, prefix))
}

func (h *RouterHarness) ForwardPacket(neigh state.RouterId, pkt *state.Packet) {
	h.actions = append(h.actions, MakeEvent("FORWARD_PACKET", neigh, pkt.Dst, pkt.TTL))
}

func (h *RouterHarness) Log(event RouterEvent, desc string, args ...any) {
	x := make([]any, 0)
	x = append(x, event)
	x = append(x, desc)
	x = append(x, args...)
	h.actions = append(h.actions, MakeEvent("LOG", x...))
}

// LoggedEvents returns the RouterEvent of every LOG action in order.
func (h *RouterHarness) LoggedEvents() []RouterEvent {
	events := make([]RouterEvent, 0)
	for _, action := range h.actions {
		if action.Message == "LOG" {
			events = append(events, action.Args[0].(RouterEvent))
		}
	}
	return events
}

type HarnessEvents []HarnessEvent

func (h HarnessEvents) String() string {
	out := make([]string, 0)
	for _, action := range h {
		cur := action.Message
		for _, arg := range action.Args {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	slices.Sort(out)
	return strings.Join(out, "\n")
}

// GetActions drains all recorded non-LOG actions.
func (h *RouterHarness) GetActions() HarnessEvents {
	x := make([]HarnessEvent, 0)
	for _, action := range h.actions {
		if action.Message != "LOG" {
			x = append(x, action)
		}
	}

	h.actions = make([]HarnessEvent, 0)
	return x
}

func (e HarnessEvents) contains(msg string, args ...any) bool {
	for _, event := range e {
		if event.Message == msg {
			if len(event.Args) >= len(args) {
				match := true
				for i, arg := range args {
					if !cmp.Equal(event.Args[i], arg, cmpopts.EquateComparable(netip.Prefix{}, netip.Addr{})) {
						match = false
						break
					}
				}
				if match {
					return true
				}
			}
		}
	}
	return false
}

func (e HarnessEvents) AssertContains(t *testing.T, msg string, args ...any) {
	if e.contains(msg, args...) {
		return
	}
	t.Fatal("Expected event not found: ", msg, " with args: ", args, " in ", e)
}

func (e HarnessEvents) AssertNotContains(t *testing.T, msg string, args ...any) {
	if e.contains(msg, args...) {
		t.Fatal("Unexpected event found: ", msg, " with args: ", args, " in ", e)
	}
}

func MakeRouter(id state.RouterId, neighbours ...state.RouterId) *state.RouterState {
	rs := state.NewRouterState(id)
	rs.Neighbours = append(rs.Neighbours, neighbours...)
	return rs
}

func Pfx(s string) netip.Prefix {
	return netip.MustParsePrefix(s)
}

func Addr(s string) netip.Addr {
	return netip.MustParseAddr(s)
}
