package cll

import (
	"errors"
	"testing"

	"cll/data_struct"
	"cll/sync2"

	"github.com/tychoish/fun/assert"
	"github.com/tychoish/fun/assert/check"
)

const spinLockOpsPerThread = 500

func testConfig(kind data_struct.Kind) Config {
	cfg := DefaultConfig()
	cfg.Impl = kind
	cfg.Threads = 8
	cfg.OpsPerThread = 10000
	cfg.UpdateRatio = 20
	cfg.Prefill = 100
	cfg.Verify = true
	return cfg
}

func TestRunConfig_Verified(t *testing.T) {
	for _, kind := range []data_struct.Kind{data_struct.KindCoarse, data_struct.KindHOH} {
		for _, lock := range []sync2.LockKind{sync2.LockMutex, sync2.LockTicket} {
			kind, lock := kind, lock
			t.Run(kind.String()+"/"+lock.String(), func(t *testing.T) {
				cfg := testConfig(kind)
				cfg.Lock = lock
				if lock != sync2.LockMutex {
					// spin locks are slow to hand over among 8 goroutines, worse under -race
					if testing.Short() {
						t.Skip("spin lock run skipped in short mode")
					}
					cfg.OpsPerThread = spinLockOpsPerThread
				}
				res, err := RunConfig(cfg)
				assert.NotError(t, err)
				check.Equal(t, res.TotalOps, int64(cfg.Threads*cfg.OpsPerThread))
				check.Equal(t, res.Inserts+res.Deletes+res.Lookups, res.TotalOps)
				check.Equal(t, res.InsertFailures, int64(0))
				check.True(t, res.DeleteHits <= res.Deletes)
				check.True(t, res.LookupHits <= res.Lookups)
				check.True(t, res.Throughput > 0)
				check.Equal(t, int64(res.FinalLen), int64(cfg.Prefill)+res.Inserts-res.DeleteHits)
				check.Equal(t, res.Lock, lock.String())
			})
		}
	}
}

func TestBench_SingleThreadIsDeterministic(t *testing.T) {
	run := func(kind data_struct.Kind) *Result {
		cfg := testConfig(kind)
		cfg.Threads = 1
		res, err := RunConfig(cfg)
		assert.NotError(t, err)
		return res
	}
	coarse, fine := run(data_struct.KindCoarse), run(data_struct.KindHOH)
	check.Equal(t, coarse.Inserts, fine.Inserts)
	check.Equal(t, coarse.DeleteHits, fine.DeleteHits)
	check.Equal(t, coarse.LookupHits, fine.LookupHits)
	check.Equal(t, coarse.FinalLen, fine.FinalLen)

	again := run(data_struct.KindHOH)
	check.Equal(t, again.LookupHits, fine.LookupHits)
	check.Equal(t, again.FinalLen, fine.FinalLen)
}

func TestBench_UpdateRatioExtremes(t *testing.T) {
	cfg := testConfig(data_struct.KindHOH)
	cfg.UpdateRatio = 0
	res, err := RunConfig(cfg)
	assert.NotError(t, err)
	check.Equal(t, res.Lookups, res.TotalOps)
	check.Equal(t, res.FinalLen, cfg.Prefill)

	cfg.UpdateRatio = 100
	res, err = RunConfig(cfg)
	assert.NotError(t, err)
	check.Equal(t, res.Lookups, int64(0))
	check.Equal(t, res.Inserts+res.Deletes, res.TotalOps)
}

func TestBench_MemoryLimit(t *testing.T) {
	cfg := testConfig(data_struct.KindHOH)
	cfg.Prefill = 0
	cfg.UpdateRatio = 100
	cfg.MemLimit = 51 // the list plus 50 nodes
	res, err := RunConfig(cfg)
	assert.NotError(t, err)
	check.True(t, res.InsertFailures > 0)
	check.True(t, res.FinalLen <= 50)

	cfg.Prefill = 100
	_, err = RunConfig(cfg)
	check.True(t, errors.Is(err, data_struct.ErrOutOfMemory))
}

func TestBench_InvalidConfig(t *testing.T) {
	cfg := testConfig(data_struct.KindCoarse)
	cfg.Threads = 0
	_, err := RunConfig(cfg)
	check.True(t, errors.Is(err, ErrInvalidConfig))
}

type corruptingList struct {
	*data_struct.CoarseList
}

// Delete reports success without removing anything.
func (l corruptingList) Delete(key int) bool {
	return l.CoarseList.Lookup(key)
}

func TestBench_VerifyDetectsLostDelete(t *testing.T) {
	cfg := testConfig(data_struct.KindCoarse)
	cfg.Threads = 2
	cfg.UpdateRatio = 100
	inner, err := data_struct.NewCoarseList(data_struct.Options{})
	assert.NotError(t, err)
	defer inner.Destroy()

	_, err = NewBench(cfg).Run(corruptingList{inner})
	check.True(t, errors.Is(err, ErrVerifyFailed))
}
