package core

import (
	"log/slog"
	"os"
	"path"

	"github.com/encodeous/tint"
	"github.com/goccy/go-yaml"
	slogmulti "github.com/samber/slog-multi"

	"github.com/routelab/dvsim/state"
)

func ReadSimConfig(cfgPath string) (*state.SimCfg, error) {
	var cfg state.SimCfg
	file, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func buildLogger(cfg *state.SimCfg, logLevel slog.Level) (*slog.Logger, error) {
	prefix := cfg.Name
	if prefix == "" {
		prefix = "dvsim"
	}

	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        logLevel,
			AddSource:    false,
			CustomPrefix: prefix,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	if cfg.LogPath != "" {
		err := os.MkdirAll(path.Dir(cfg.LogPath), 0700)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0700)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), nil
}

// Assemble builds the simulation out of env's config: routers, links
// and seeded prefixes. The advertisement schedule is not run.
func Assemble(env *state.Env) (*Simulation, error) {
	sim := NewSimulation(env)

	ids := make([]string, 0, len(env.Routers))
	for _, rc := range env.Routers {
		sim.AddRouter(rc.Id)
		ids = append(ids, string(rc.Id))
	}

	edges, err := state.ParseGraph(env.Graph, ids)
	if err != nil {
		return nil, err
	}
	for _, edge := range edges {
		sim.Link(edge.V1, edge.V2)
	}

	for _, rc := range env.Routers {
		for _, prefix := range rc.Prefixes {
			sim.SeedLocalRoute(rc.Id, prefix)
		}
	}
	return sim, nil
}

// RunSchedule runs the configured advertisement order, or the default
// sweeps when no explicit order is given. Convergence is strictly a
// function of this schedule; rounds are never repeated to a fixed
// point.
func RunSchedule(sim *Simulation) {
	env := sim.env
	if len(env.Advertise) > 0 {
		for _, id := range env.Advertise {
			sim.AdvertiseFrom(id)
		}
		return
	}
	passes := env.Passes
	if passes == 0 {
		passes = 1
	}
	for i := 0; i < passes; i++ {
		sim.Sweep()
	}
}

// Converge validates cfg, assembles the simulation and runs the
// advertisement schedule, without injecting any packets.
func Converge(cfg state.SimCfg, logLevel slog.Level) (*Simulation, error) {
	err := state.SimConfigValidator(&cfg)
	if err != nil {
		return nil, err
	}
	logger, err := buildLogger(&cfg, logLevel)
	if err != nil {
		return nil, err
	}
	env := &state.Env{
		SimCfg: cfg,
		Log:    logger,
	}
	sim, err := Assemble(env)
	if err != nil {
		return nil, err
	}
	RunSchedule(sim)
	return sim, nil
}

// Start runs the full simulation: converge, then inject every
// configured packet and log its journey.
func Start(cfg state.SimCfg, logLevel slog.Level) (*Simulation, error) {
	sim, err := Converge(cfg, logLevel)
	if err != nil {
		return nil, err
	}
	for _, pc := range cfg.Packets {
		pkt := state.NewPacket(pc.Source, pc.Dest, pc.Payload)
		sim.env.Log.Info("inject packet", "router", pc.Inject, "src", pc.Source, "dst", pc.Dest)
		trace := sim.InjectPacket(pc.Inject, pkt)
		if len(trace) == 0 {
			continue
		}
		last := trace[len(trace)-1]
		sim.env.Log.Info("packet done", "status", last.Status, "router", last.Router, "ttl", last.TTL, "hops", len(trace))
	}
	return sim, nil
}
