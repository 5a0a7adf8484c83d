// Command des-run is a minimal CLI embedder demonstrating
// registry.Registry + net.Sim + des.Builder wired end to end, using a
// ping-pong topology as its built-in demo.
// Flag parsing deliberately uses the standard library "flag" package
// rather than github.com/spf13/pflag — see DESIGN.md's "Dropped
// dependencies" section for why pflag is not wired in here either.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	des "github.com/desimkit/des"
	"github.com/desimkit/des/net"
	"github.com/desimkit/des/registry"
)

func main() {
	var (
		maxTime   = flag.Float64("max-time", 30, "simulated seconds to run")
		maxEvents = flag.Uint64("max-events", 0, "maximum events to dispatch (0 = unlimited)")
		seed      = flag.Uint64("seed", 1, "RNG seed")
		logLevel  = flag.String("log-level", "info", "log level: debug, info, or quiet")
		cfgPath   = flag.String("config", "", "optional TOML or YAML RuntimeConfig file")
	)
	flag.Parse()

	logger, err := buildLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "des-run: %s\n", err)
		os.Exit(1)
	}

	reg := registry.NewRegistry()
	registerPingPongSymbols(reg)

	sim, err := buildPingPongTopology(reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "des-run: building topology: %s\n", err)
		os.Exit(1)
	}

	builder := des.NewBuilder(sim).
		WithSeed(*seed).
		WithMaxTime(des.SimTime(*maxTime)).
		WithLogger(logger).
		WithDiagnosticSink(des.LoggingSink{Logger: logger})
	if *maxEvents > 0 {
		builder = builder.WithMaxEvents(*maxEvents)
	}
	if *cfgPath != "" {
		cfg, err := loadConfig(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "des-run: loading config: %s\n", err)
			os.Exit(1)
		}
		builder = builder.WithConfig(cfg)
	}

	rt, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "des-run: %s\n", err)
		os.Exit(1)
	}

	result := rt.Run()
	fmt.Printf("result: %s\n", result)
	for _, snap := range sim.Topology() {
		fmt.Printf("  %s active=%v gates=%d\n", snap.Path, snap.Active, snap.GateCount)
	}
}

func buildLogger(level string) (des.Logger, error) {
	switch level {
	case "quiet":
		return des.NewZapLogger()
	case "debug":
		return des.NewDevelopmentLogger()
	default:
		return des.NewDevelopmentLogger()
	}
}

func loadConfig(path string) (*des.RuntimeConfig, error) {
	cfg := &des.RuntimeConfig{}
	var feeder des.ConfigFeeder
	if len(path) > 5 && path[len(path)-5:] == ".toml" {
		feeder = des.TOMLFeeder{}
	} else {
		feeder = des.YAMLFeeder{}
	}
	if err := feeder.Feed(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pingPongChannelMetrics: bitrate 8_000_000 bits/s, 10ms latency, no
// jitter.
var pingPongChannelMetrics = net.ChannelMetrics{
	BitrateBPS: 8_000_000,
	Latency:    10 * time.Millisecond,
}

func registerPingPongSymbols(reg *registry.Registry) {
	_ = reg.Register("PingPong", func(path string) (net.Software, error) {
		return &pingPongSoftware{}, nil
	})
}

func buildPingPongTopology(reg *registry.Registry) (*net.Sim, error) {
	sim := net.New(nil)

	pingSoft, err := registry.Symbol[*pingPongSoftware](reg, "ping", "PingPong")
	if err != nil {
		return nil, err
	}
	pongSoft, err := registry.Symbol[*pingPongSoftware](reg, "pong", "PingPong")
	if err != nil {
		return nil, err
	}
	pingSoft.isSender = true
	pingSoft.label = "ping"
	pongSoft.label = "pong"

	if _, err := sim.Node("ping", pingSoft); err != nil {
		return nil, err
	}
	if _, err := sim.Node("pong", pongSoft); err != nil {
		return nil, err
	}

	pingOut, err := sim.Gate("ping", "out", 1, 0)
	if err != nil {
		return nil, err
	}
	pongIn, err := sim.Gate("pong", "in", 1, 0)
	if err != nil {
		return nil, err
	}
	pongOut, err := sim.Gate("pong", "out", 1, 0)
	if err != nil {
		return nil, err
	}
	pingIn, err := sim.Gate("ping", "in", 1, 0)
	if err != nil {
		return nil, err
	}

	chAB, err := net.NewChannel("ping->pong", pingPongChannelMetrics)
	if err != nil {
		return nil, err
	}
	chBA, err := net.NewChannel("pong->ping", pingPongChannelMetrics)
	if err != nil {
		return nil, err
	}
	if err := pingOut.Connect(pongIn, chAB); err != nil {
		return nil, err
	}
	if err := pongOut.Connect(pingIn, chBA); err != nil {
		return nil, err
	}

	pingSoft.outGate = "out"
	pongSoft.outGate = "out"
	return sim, nil
}
