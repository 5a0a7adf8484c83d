package des

// Builder assembles a Runtime from its parts using a fluent options
// pattern: every dependency has a sane zero-value default so embedders
// only set what they care about, and Build validates the result once at
// the end instead of scattering nil checks through the hot path.
type Builder struct {
	app Application

	backend   Backend
	seed      uint64
	startTime SimTime
	maxEvents uint64
	maxTime   SimTime

	logger      Logger
	diagnostics *Diagnostics
	sink        DiagnosticSink

	drainAsyncBeforeExit bool
	explicitDrain        bool

	cfg *RuntimeConfig

	// explicitXxx records whether the corresponding With* method was
	// called, so Build can let a config value fill in only the fields an
	// embedder left untouched, regardless of call order relative to
	// WithConfig.
	explicitBackend   bool
	explicitSeed      bool
	explicitStartTime bool
	explicitMaxEvents bool
	explicitMaxTime   bool
}

// NewBuilder starts a Builder for the given Application, the only
// required dependency.
func NewBuilder(app Application) *Builder {
	return &Builder{
		app:       app,
		backend:   HeapBackend,
		startTime: Now(),
		maxTime:   SimTimeMax,
	}
}

// WithBackend selects the EventQueue implementation.
func (b *Builder) WithBackend(backend Backend) *Builder {
	b.backend = backend
	b.explicitBackend = true
	return b
}

// WithSeed sets the RNG seed. Defaults to 0 (deterministic, reproducible)
// if never called.
func (b *Builder) WithSeed(seed uint64) *Builder {
	b.seed = seed
	b.explicitSeed = true
	return b
}

// WithStartTime sets the cursor's initial value.
func (b *Builder) WithStartTime(t SimTime) *Builder {
	b.startTime = t
	b.explicitStartTime = true
	return b
}

// WithMaxEvents caps the number of events Run/DispatchAll will process. Zero
// (the default) means unlimited.
func (b *Builder) WithMaxEvents(n uint64) *Builder {
	b.maxEvents = n
	b.explicitMaxEvents = true
	return b
}

// WithMaxTime caps the simulated horizon. Defaults to SimTimeMax
// (unlimited).
func (b *Builder) WithMaxTime(t SimTime) *Builder {
	b.maxTime = t
	b.explicitMaxTime = true
	return b
}

// WithLogger overrides the default no-op logger.
func (b *Builder) WithLogger(logger Logger) *Builder {
	b.logger = logger
	return b
}

// WithDiagnosticSink overrides the default LoggingSink used to publish
// CloudEvents diagnostics.
func (b *Builder) WithDiagnosticSink(sink DiagnosticSink) *Builder {
	b.sink = sink
	return b
}

// WithDrainAsyncBeforeExit enables the opt-in behavior where the loop
// keeps running past an empty queue while the async bridge reports watched
// work in flight.
func (b *Builder) WithDrainAsyncBeforeExit(drain bool) *Builder {
	b.drainAsyncBeforeExit = drain
	b.explicitDrain = true
	return b
}

// WithConfig seeds the Builder from a loaded RuntimeConfig, letting a CLI
// embedder (cmd/des-run) populate most of a Builder from a single TOML/YAML
// file instead of one flag per With* method. A With* call — whether made
// before or after WithConfig — always takes precedence over the
// corresponding config field, since Build only consults b.cfg for fields no
// With* method ever set.
func (b *Builder) WithConfig(cfg *RuntimeConfig) *Builder {
	b.cfg = cfg
	return b
}

// Build validates the accumulated options, constructs a Runtime, and runs
// its AtSimStart hook. Returns ErrApplicationNil if no Application was
// supplied to NewBuilder.
func (b *Builder) Build() (*Runtime, error) {
	if b.app == nil {
		return nil, ErrApplicationNil
	}

	backend := b.backend
	seed := b.seed
	startTime := b.startTime
	maxEvents := b.maxEvents
	maxTime := b.maxTime
	drain := b.drainAsyncBeforeExit
	source := "des"

	if b.cfg != nil {
		if !b.explicitBackend && b.cfg.Backend != "" {
			backend = backendFromString(b.cfg.Backend)
		}
		if !b.explicitSeed && b.cfg.Seed != 0 {
			seed = b.cfg.Seed
		}
		if !b.explicitStartTime && b.cfg.StartTime != 0 {
			startTime = b.cfg.startTime()
		}
		if !b.explicitMaxEvents && b.cfg.MaxEvents != 0 {
			maxEvents = b.cfg.MaxEvents
		}
		if !b.explicitMaxTime && b.cfg.MaxTime != 0 {
			maxTime = b.cfg.maxTime()
		}
		if !b.explicitDrain && b.cfg.DrainAsyncBeforeExit {
			drain = true
		}
		if b.cfg.DiagnosticsSource != "" {
			source = b.cfg.DiagnosticsSource
		}
	}
	if maxTime == 0 {
		maxTime = SimTimeMax
	}

	logger := b.logger
	if logger == nil {
		logger = noopLogger{}
	}

	diagnostics := b.diagnostics
	if diagnostics == nil {
		diagnostics = NewDiagnostics(source, b.sink, logger)
	}

	rt := &Runtime{
		cursor:               startTime,
		queue:                NewEventQueue(backend),
		rng:                  NewRNG(seed),
		app:                  b.app,
		logger:               logger,
		diagnostics:          diagnostics,
		maxEvents:            maxEvents,
		maxTime:              maxTime,
		drainAsyncBeforeExit: drain,
	}

	if err := rt.Start(); err != nil {
		return rt, err
	}
	return rt, nil
}
