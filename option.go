package smr

// config holds the tunables applied at Construct time.
type config struct {
	initialHazardCount int // N0, clamped to >= minInitialHazardCount.
	retiredBlockSize   int // Retired pointers per retired block (spec's retired_block::c_capacity).
	logger             Logger
	identity           ThreadIdentity
	orphanWarnEvery    int // forward every nth help_scan orphan-adoption Warn; 1 means every call.
}

const (
	// minInitialHazardCount is the floor N0 is clamped to, per spec §3.
	minInitialHazardCount = 16

	// defaultRetiredBlockSize matches the source's retired_block::c_capacity.
	defaultRetiredBlockSize = 256

	// guardBlockSize is the fixed capacity of a chained extended guard
	// block (spec §3, "Guard block"). Unlike the retired block size this
	// is not configurable: the spec requires exactly 16 slots per block.
	guardBlockSize = 16
)

// defaultConfig returns the baseline configuration before options are applied.
//
// goland:noinspection GoUnusedExportedFunction
func defaultConfig() config {
	return config{
		initialHazardCount: minInitialHazardCount,
		retiredBlockSize:   defaultRetiredBlockSize,
		logger:             DiscardLogger{},
		identity:           DefaultThreadIdentity(),
		orphanWarnEvery:    1,
	}
}

// Option configures the SMR singleton using the functional options pattern.
type Option func(*config)

// WithLogger installs a Logger used for attach/detach and orphan-adoption
// diagnostics. The default is a DiscardLogger (no-op).
//
//goland:noinspection GoUnusedExportedFunction
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRetiredBlockSize overrides the number of retired pointers held per
// retired block. The spec requires this to match across a single SMR
// lifetime; it has no effect once Construct has run.
//
//goland:noinspection GoUnusedExportedFunction
func WithRetiredBlockSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.retiredBlockSize = n
		}
	}
}

// WithOrphanWarnThrottle forwards only every nth help_scan orphan-adoption
// Warn log to the installed Logger, instead of one per adopted record. A
// workload where many threads exit without detaching can otherwise make
// help_scan's diagnostics the dominant source of log volume; n <= 1 logs
// every adoption (the default).
//
//goland:noinspection GoUnusedExportedFunction
func WithOrphanWarnThrottle(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.orphanWarnEvery = n
		}
	}
}

// WithThreadIdentity overrides how the calling thread's identity and
// liveness are determined. The default parses a goroutine id out of a
// runtime.Stack trace (see internal/threadid); a caller with a cheaper or
// platform-specific mechanism can substitute it here.
//
//goland:noinspection GoUnusedExportedFunction
func WithThreadIdentity(id ThreadIdentity) Option {
	return func(c *config) {
		if id != nil {
			c.identity = id
		}
	}
}
