package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"cll"
	"cll/data_struct"
	"cll/sync2"

	"github.com/golang/glog"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] [<threads> <operations> <update_ratio>]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	def := cll.DefaultConfig()
	var (
		impl     = flag.String("impl", "both", "list implementation: coarse | hoh | both")
		lock     = flag.String("lock", def.Lock.String(), "lock kind: mutex | ticket | cas")
		threads  = flag.Int("threads", def.Threads, "number of worker goroutines")
		ops      = flag.Int("ops", def.OpsPerThread, "operations per worker")
		update   = flag.Int("update", def.UpdateRatio, "percentage of write operations (0-100)")
		keys     = flag.Int("keys", def.KeyRange, "keys are drawn from [0, keys)")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "random seed, workers use seed+id+1")
		prefill  = flag.Int("prefill", def.Prefill, "keys inserted before timing starts")
		verify   = flag.Bool("verify", false, "check the final list against the operations that succeeded")
		memLimit = flag.Int64("mem-limit", 0, "maximum live list and node objects, 0 means unlimited")
	)
	flag.Usage = usage
	flag.Parse()
	defer glog.Flush()

	cfg := def
	cfg.Threads, cfg.OpsPerThread, cfg.UpdateRatio = *threads, *ops, *update
	cfg.KeyRange, cfg.Seed, cfg.Prefill = *keys, *seed, *prefill
	cfg.Verify, cfg.MemLimit = *verify, *memLimit

	if args := flag.Args(); len(args) > 0 {
		if len(args) != 3 {
			usage()
			os.Exit(2)
		}
		positional := []*int{&cfg.Threads, &cfg.OpsPerThread, &cfg.UpdateRatio}
		for i, arg := range args {
			n, err := strconv.Atoi(arg)
			if err != nil {
				glog.Fatalf("bad argument '%s': %v", arg, err)
			}
			*positional[i] = n
		}
	}

	lockKind, err := sync2.ParseLockKind(*lock)
	if err != nil {
		glog.Fatalf("%v", err)
	}
	cfg.Lock = lockKind

	var kinds []data_struct.Kind
	if *impl == "both" {
		kinds = []data_struct.Kind{data_struct.KindCoarse, data_struct.KindHOH}
	} else {
		kind, err := data_struct.ParseKind(*impl)
		if err != nil {
			glog.Fatalf("%v", err)
		}
		kinds = []data_struct.Kind{kind}
	}

	var results []*cll.Result
	for _, kind := range kinds {
		cfg.Impl = kind
		res, err := cll.RunConfig(cfg)
		if err != nil {
			glog.Fatalf("%s list: %v", kind, err)
		}
		fmt.Print(cll.FormatResult(res))
		if glog.V(1) {
			fmt.Print(cll.FormatDetail(res))
		}
		if cfg.Verify {
			fmt.Println("Verification: ok")
		}
		fmt.Println()
		results = append(results, res)
	}
	if len(results) == 2 {
		fmt.Println(cll.CompareResults(results[0], results[1]))
	}
}
