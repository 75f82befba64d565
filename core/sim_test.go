package core

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routelab/dvsim/state"
)

func newTestEnv() *state.Env {
	return &state.Env{
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// buildChain wires the canonical three router chain:
//
// R1 --- R2 --- R3
//
// with each router seeding its own /24.
func buildChain(t *testing.T) *Simulation {
	t.Helper()
	sim := NewSimulation(newTestEnv())
	sim.AddRouter("r1")
	sim.AddRouter("r2")
	sim.AddRouter("r3")
	sim.Link("r1", "r2")
	sim.Link("r2", "r3")
	sim.SeedLocalRoute("r1", Pfx("192.168.1.0/24"))
	sim.SeedLocalRoute("r2", Pfx("192.168.2.0/24"))
	sim.SeedLocalRoute("r3", Pfx("192.168.3.0/24"))
	return sim
}

func TestChainConvergesAndDelivers(t *testing.T) {
	sim := buildChain(t)

	sim.AdvertiseFrom("r1")
	sim.AdvertiseFrom("r3")
	sim.AdvertiseFrom("r2")

	nh, ok := sim.Router("r1").Table.NextHop(Pfx("192.168.3.0/24"))
	require.True(t, ok)
	assert.Equal(t, state.RouterId("r2"), nh)

	nh, ok = sim.Router("r3").Table.NextHop(Pfx("192.168.1.0/24"))
	require.True(t, ok)
	assert.Equal(t, state.RouterId("r2"), nh)

	pkt := state.NewPacket(Addr("192.168.1.10"), Addr("192.168.3.15"), "hello r3")
	trace := sim.InjectPacket("r1", pkt)

	require.Equal(t, []HopRecord{
		{Router: "r1", Status: state.InTransit, TTL: 31},
		{Router: "r2", Status: state.InTransit, TTL: 30},
		{Router: "r3", Status: state.Delivered, TTL: 29},
	}, trace)
	assert.Equal(t, 29, pkt.TTL)
}

func TestSplitHorizonAcrossFabric(t *testing.T) {
	sim := buildChain(t)
	sim.AdvertiseFrom("r1") // r2 learns 192.168.1.0/24 via r1

	mark := len(sim.Events())
	sim.AdvertiseFrom("r2")

	// r2 must not advertise 192.168.1.0/24 back toward r1
	for _, ev := range sim.Events()[mark:] {
		if ev.Router == "r1" && (ev.Event == RouteLearned || ev.Event == RouteReplaced) {
			assert.NotEqual(t, Pfx("192.168.1.0/24"), ev.Args[1])
		}
	}
	_, ok := sim.Router("r3").Table.NextHop(Pfx("192.168.1.0/24"))
	assert.True(t, ok)
}

func TestSweepConvergence(t *testing.T) {
	sim := buildChain(t)
	sim.Sweep()
	sim.Sweep()

	_, ok := sim.Router("r1").Table.NextHop(Pfx("192.168.3.0/24"))
	assert.True(t, ok)
	_, ok = sim.Router("r3").Table.NextHop(Pfx("192.168.1.0/24"))
	assert.True(t, ok)
}

func TestInjectNoRoute(t *testing.T) {
	sim := buildChain(t)
	sim.Sweep()
	sim.Sweep()

	pkt := state.NewPacket(Addr("192.168.1.10"), Addr("172.16.0.9"), "nowhere")
	trace := sim.InjectPacket("r1", pkt)

	// dropped on the first hop with zero forwarding invocations
	require.Len(t, trace, 1)
	assert.Equal(t, HopRecord{Router: "r1", Status: state.DroppedNoRoute, TTL: 31}, trace[0])
}

func TestRoutingLoopBoundedByTTL(t *testing.T) {
	// r1 and r2 deliberately point the same prefix at each other; the
	// TTL is the only thing that stops the packet bouncing forever
	sim := NewSimulation(newTestEnv())
	sim.AddRouter("r1")
	sim.AddRouter("r2")
	sim.Link("r1", "r2")
	sim.SeedLocalRoute("r1", Pfx("10.0.0.0/24"))
	HandleRouteUpdate(sim.Router("r1"), sim.handleFor("r1"), Pfx("10.9.9.0/24"), "r2", 0)
	HandleRouteUpdate(sim.Router("r2"), sim.handleFor("r2"), Pfx("10.9.9.0/24"), "r1", 0)

	pkt := state.NewPacket(Addr("10.0.0.1"), Addr("10.9.9.9"), "loop")
	trace := sim.InjectPacket("r1", pkt)

	require.Len(t, trace, state.InitialTTL)
	for _, hop := range trace[:len(trace)-1] {
		assert.Equal(t, state.InTransit, hop.Status)
	}
	assert.Equal(t, state.DroppedTTL, trace[len(trace)-1].Status)
	assert.Equal(t, 0, pkt.TTL)
}

func TestAsymmetricLink(t *testing.T) {
	sim := NewSimulation(newTestEnv())
	sim.AddRouter("r1")
	sim.AddRouter("r2")
	sim.Connect("r1", "r2") // one direction only
	sim.SeedLocalRoute("r1", Pfx("10.0.1.0/24"))
	sim.SeedLocalRoute("r2", Pfx("10.0.2.0/24"))

	sim.AdvertiseFrom("r1")
	sim.AdvertiseFrom("r2")

	// r2 heard about r1's prefix, but r2 has no neighbours to tell
	_, ok := sim.Router("r2").Table.NextHop(Pfx("10.0.1.0/24"))
	assert.True(t, ok)
	_, ok = sim.Router("r1").Table.NextHop(Pfx("10.0.2.0/24"))
	assert.False(t, ok)
}

func TestDumpTables(t *testing.T) {
	sim := buildChain(t)
	out := sim.DumpTables()

	assert.Contains(t, out, "[r1]")
	assert.Contains(t, out, "192.168.1.0/24 via r1")
	assert.Contains(t, out, "[r3]")
	assert.Contains(t, out, "192.168.3.0/24 via r3")
}
