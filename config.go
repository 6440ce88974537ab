package cll

import (
	"fmt"

	"cll/data_struct"
	"cll/sync2"
)

const DefaultKeyRange = 1000

var ErrInvalidConfig = fmt.Errorf("invalid config")

// Config is handed by value to every worker, workers never share mutable parameters.
type Config struct {
	Impl         data_struct.Kind
	Lock         sync2.LockKind
	Threads      int
	OpsPerThread int
	// UpdateRatio is the percentage (0-100) of operations that write; writes
	// are inserts or deletes with equal probability, the rest are lookups.
	UpdateRatio int
	KeyRange    int
	Seed        int64
	// Prefill keys are inserted before workers start and are not timed.
	Prefill int
	Verify  bool
	// MemLimit caps live list and node objects, 0 means unlimited.
	MemLimit int64
}

func DefaultConfig() Config {
	return Config{
		Impl:         data_struct.KindHOH,
		Lock:         sync2.LockMutex,
		Threads:      4,
		OpsPerThread: 100000,
		UpdateRatio:  20,
		KeyRange:     DefaultKeyRange,
		Seed:         1,
	}
}

func (c Config) Validate() error {
	switch {
	case !c.Impl.Valid():
		return fmt.Errorf("%w: list implementation %s", ErrInvalidConfig, c.Impl)
	case !c.Lock.Valid():
		return fmt.Errorf("%w: lock kind %s", ErrInvalidConfig, c.Lock)
	case c.Threads < 1:
		return fmt.Errorf("%w: thread count %d, want >= 1", ErrInvalidConfig, c.Threads)
	case c.OpsPerThread < 0:
		return fmt.Errorf("%w: operation count %d, want >= 0", ErrInvalidConfig, c.OpsPerThread)
	case c.UpdateRatio < 0 || c.UpdateRatio > 100:
		return fmt.Errorf("%w: update ratio %d, want 0-100", ErrInvalidConfig, c.UpdateRatio)
	case c.KeyRange < 1:
		return fmt.Errorf("%w: key range %d, want >= 1", ErrInvalidConfig, c.KeyRange)
	case c.Prefill < 0:
		return fmt.Errorf("%w: prefill %d, want >= 0", ErrInvalidConfig, c.Prefill)
	case c.MemLimit < 0:
		return fmt.Errorf("%w: memory limit %d, want >= 0", ErrInvalidConfig, c.MemLimit)
	}
	return nil
}

func (c Config) ListOptions() data_struct.Options {
	opts := data_struct.Options{Lock: c.Lock}
	if c.MemLimit > 0 {
		opts.Allocator = data_struct.NewAllocator(c.MemLimit)
	}
	return opts
}

func (c Config) String() string {
	return fmt.Sprintf("impl=%s lock=%s threads=%d ops=%d update=%d%% keys=%d seed=%d prefill=%d",
		c.Impl, c.Lock, c.Threads, c.OpsPerThread, c.UpdateRatio, c.KeyRange, c.Seed, c.Prefill)
}
