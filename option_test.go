package smr

import "testing"

func TestDefaultConfigUsesMinimumHazardCount(t *testing.T) {
	cfg := defaultConfig()
	if cfg.initialHazardCount != minInitialHazardCount {
		t.Fatalf("default initialHazardCount = %d, want %d", cfg.initialHazardCount, minInitialHazardCount)
	}
}

func TestWithRetiredBlockSizeIgnoresNonPositive(t *testing.T) {
	cfg := defaultConfig()
	WithRetiredBlockSize(0)(&cfg)
	if cfg.retiredBlockSize != defaultRetiredBlockSize {
		t.Fatalf("retiredBlockSize changed to %d on a zero override", cfg.retiredBlockSize)
	}
	WithRetiredBlockSize(-5)(&cfg)
	if cfg.retiredBlockSize != defaultRetiredBlockSize {
		t.Fatalf("retiredBlockSize changed to %d on a negative override", cfg.retiredBlockSize)
	}
	WithRetiredBlockSize(64)(&cfg)
	if cfg.retiredBlockSize != 64 {
		t.Fatalf("retiredBlockSize = %d, want 64", cfg.retiredBlockSize)
	}
}

func TestWithLoggerIgnoresNil(t *testing.T) {
	cfg := defaultConfig()
	WithLogger(nil)(&cfg)
	if _, ok := cfg.logger.(DiscardLogger); !ok {
		t.Fatal("WithLogger(nil) replaced the default logger")
	}
}

func TestConstructClampsBelowMinimum(t *testing.T) {
	Construct(1)
	defer Destruct(true)

	c := current()
	if c.cfg.initialHazardCount != minInitialHazardCount {
		t.Fatalf("Construct(1) left initialHazardCount = %d, want %d", c.cfg.initialHazardCount, minInitialHazardCount)
	}
}

func TestConstructIsIdempotent(t *testing.T) {
	Construct(16)
	defer Destruct(true)

	first := current()
	Construct(64)
	if current() != first {
		t.Fatal("Construct replaced an existing singleton instead of being a no-op")
	}
}
