package net

import "sort"

// ModuleSnapshot is a read-only introspection view of one module's graph
// topology, in the spirit of an aggregate health rollup over per-module
// status.
type ModuleSnapshot struct {
	Path      string
	Active    bool
	GateCount int
	Gates     []GateSnapshot
}

// GateSnapshot describes one gate's wiring for introspection.
type GateSnapshot struct {
	Name        string
	Pos         int
	HasNext     bool
	NextPath    string
	HasChannel  bool
	ChannelBusy bool
}

// Topology returns a point-in-time snapshot of every module in the graph,
// sorted by path for stable output (diffable test fixtures, CLI dumps).
func (s *Sim) Topology() []ModuleSnapshot {
	s.mu.RLock()
	modules := make([]*ModuleContext, 0, len(s.modules))
	for _, m := range s.modules {
		modules = append(modules, m)
	}
	s.mu.RUnlock()

	sort.Slice(modules, func(i, j int) bool {
		return modules[i].path.String() < modules[j].path.String()
	})

	out := make([]ModuleSnapshot, 0, len(modules))
	for _, m := range modules {
		gates := m.Gates()
		gs := make([]GateSnapshot, 0, len(gates))
		for _, g := range gates {
			snap := GateSnapshot{Name: g.Name(), Pos: g.Pos()}
			if next, ok := g.Next(); ok {
				snap.HasNext = true
				if owner, err := next.Owner(); err == nil {
					snap.NextPath = owner.Path().String() + "#" + next.Name()
				}
			}
			if ch, ok := g.Channel(); ok {
				snap.HasChannel = true
				snap.ChannelBusy = ch.Busy()
			}
			gs = append(gs, snap)
		}
		out = append(out, ModuleSnapshot{
			Path:      m.Path().String(),
			Active:    m.Active(),
			GateCount: len(gates),
			Gates:     gs,
		})
	}
	return out
}
