package cll

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"cll/assert"
	"cll/data_struct"

	"github.com/golang/glog"
)

const glogLevelBench = glog.Level(4)

var ErrVerifyFailed = fmt.Errorf("verification failed")

type Result struct {
	Impl        data_struct.Kind
	Lock        string
	Threads     int
	TotalOps    int64
	UpdateRatio int
	Elapsed     time.Duration
	Throughput  float64 // operations per second

	Inserts        int64
	InsertFailures int64
	Deletes        int64
	DeleteHits     int64
	Lookups        int64
	LookupHits     int64
	FinalLen       int
}

type workerStats struct {
	inserts, insertFailures int64
	deletes, deleteHits     int64
	lookups, lookupHits     int64
}

func (ws *workerStats) merge(other workerStats) {
	ws.inserts += other.inserts
	ws.insertFailures += other.insertFailures
	ws.deletes += other.deletes
	ws.deleteHits += other.deleteHits
	ws.lookups += other.lookups
	ws.lookupHits += other.lookupHits
}

// Bench drives a list with Config.Threads goroutines issuing random operations.
type Bench struct {
	cfg     Config
	counter *data_struct.KeyCounter
}

func NewBench(cfg Config) *Bench {
	b := &Bench{cfg: cfg}
	if cfg.Verify {
		b.counter = data_struct.NewKeyCounter(64)
	}
	return b
}

// RunConfig creates the list described by cfg, benchmarks it and destroys it.
func RunConfig(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l, err := data_struct.New(cfg.Impl, cfg.ListOptions())
	if err != nil {
		return nil, fmt.Errorf("create %s list: %w", cfg.Impl, err)
	}
	defer l.Destroy()
	return NewBench(cfg).Run(l)
}

// Run prefills l, runs the workers and waits for all of them. With Verify set
// l must be empty when passed in.
func (b *Bench) Run(l data_struct.List) (*Result, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := b.prefill(l); err != nil {
		return nil, err
	}
	glog.V(glogLevelBench).Infof("bench start: %s", b.cfg)

	var (
		wg    sync.WaitGroup
		stats = make([]workerStats, b.cfg.Threads)
	)
	start := time.Now()
	for i := 0; i < b.cfg.Threads; i++ {
		wg.Add(1)
		go func(id int, cfg Config) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(cfg.Seed + int64(id) + 1))
			stats[id] = b.work(l, cfg, rnd)
		}(i, b.cfg)
	}
	wg.Wait()
	elapsed := time.Since(start)

	var total workerStats
	for _, s := range stats {
		total.merge(s)
	}
	res := &Result{
		Impl:           b.cfg.Impl,
		Lock:           b.cfg.Lock.String(),
		Threads:        b.cfg.Threads,
		TotalOps:       int64(b.cfg.Threads) * int64(b.cfg.OpsPerThread),
		UpdateRatio:    b.cfg.UpdateRatio,
		Elapsed:        elapsed,
		Inserts:        total.inserts,
		InsertFailures: total.insertFailures,
		Deletes:        total.deletes,
		DeleteHits:     total.deleteHits,
		Lookups:        total.lookups,
		LookupHits:     total.lookupHits,
		FinalLen:       -1,
	}
	assert.Must(res.Inserts+res.Deletes+res.Lookups == res.TotalOps)
	if secs := elapsed.Seconds(); secs > 0 {
		res.Throughput = float64(res.TotalOps) / secs
	}
	if insp, ok := l.(data_struct.Inspector); ok {
		res.FinalLen = insp.Len()
	}
	glog.V(glogLevelBench).Infof("bench done: %d ops in %v", res.TotalOps, elapsed)

	if b.cfg.Verify {
		if err := b.verify(l); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (b *Bench) prefill(l data_struct.List) error {
	rnd := rand.New(rand.NewSource(b.cfg.Seed))
	for i := 0; i < b.cfg.Prefill; i++ {
		key := rnd.Intn(b.cfg.KeyRange)
		if err := l.Insert(key); err != nil {
			return fmt.Errorf("prefill key %d: %w", key, err)
		}
		b.record(key, 1)
	}
	return nil
}

func (b *Bench) record(key int, delta int64) {
	if b.counter != nil {
		b.counter.Add(key, delta)
	}
}

func (b *Bench) work(l data_struct.List, cfg Config, rnd *rand.Rand) (s workerStats) {
	for i := 0; i < cfg.OpsPerThread; i++ {
		key := rnd.Intn(cfg.KeyRange)
		if rnd.Intn(100) >= cfg.UpdateRatio {
			s.lookups++
			if l.Lookup(key) {
				s.lookupHits++
			}
			continue
		}
		if rnd.Intn(2) == 1 {
			s.inserts++
			if err := l.Insert(key); err != nil {
				s.insertFailures++
				continue
			}
			b.record(key, 1)
		} else {
			s.deletes++
			if l.Delete(key) {
				s.deleteHits++
				b.record(key, -1)
			}
		}
	}
	return s
}

// verify checks the list against the net inserts recorded by the workers.
func (b *Bench) verify(l data_struct.List) error {
	insp, ok := l.(data_struct.Inspector)
	if !ok {
		return fmt.Errorf("%w: %T can't be inspected", ErrVerifyFailed, l)
	}
	if err := insp.Validate(); err != nil {
		return errors.Join(ErrVerifyFailed, err)
	}
	expected, negative := b.counter.Sorted()
	if len(negative) > 0 {
		return fmt.Errorf("%w: keys %v deleted more often than inserted", ErrVerifyFailed, negative)
	}
	actual := insp.Keys()
	if len(actual) != len(expected) {
		return fmt.Errorf("%w: list holds %d keys, expected %d", ErrVerifyFailed, len(actual), len(expected))
	}
	for i := range actual {
		if actual[i] != expected[i] {
			return fmt.Errorf("%w: position %d holds key %d, expected %d", ErrVerifyFailed, i, actual[i], expected[i])
		}
	}
	glog.V(glogLevelBench).Infof("verified %d keys", len(actual))
	return nil
}
