package cll

import "strconv"

// FormatResult renders r the way the benchmark reports it, one field per line.
func FormatResult(r *Result) string {
	bytes := make([]byte, 0, 200)
	bytes = append(bytes, "Implementation: "...)
	bytes = append(bytes, r.Impl.String()...)
	bytes = append(bytes, " ("...)
	bytes = append(bytes, r.Lock...)
	bytes = append(bytes, " locks)\nThreads: "...)
	bytes = strconv.AppendInt(bytes, int64(r.Threads), 10)
	bytes = append(bytes, "\nTotal operations: "...)
	bytes = strconv.AppendInt(bytes, r.TotalOps, 10)
	bytes = append(bytes, "\nUpdate ratio: "...)
	bytes = strconv.AppendInt(bytes, int64(r.UpdateRatio), 10)
	bytes = append(bytes, "%\nExecution time: "...)
	bytes = strconv.AppendFloat(bytes, r.Elapsed.Seconds(), 'f', 4, 64)
	bytes = append(bytes, " seconds\nThroughput: "...)
	bytes = strconv.AppendFloat(bytes, r.Throughput, 'f', 2, 64)
	bytes = append(bytes, " ops/sec\n"...)
	return string(bytes)
}

// FormatDetail renders the per-operation counters of r.
func FormatDetail(r *Result) string {
	bytes := make([]byte, 0, 200)
	bytes = append(bytes, "Inserts: "...)
	bytes = strconv.AppendInt(bytes, r.Inserts, 10)
	if r.InsertFailures > 0 {
		bytes = append(bytes, " ("...)
		bytes = strconv.AppendInt(bytes, r.InsertFailures, 10)
		bytes = append(bytes, " failed)"...)
	}
	bytes = append(bytes, "\nDeletes: "...)
	bytes = strconv.AppendInt(bytes, r.Deletes, 10)
	bytes = append(bytes, " ("...)
	bytes = strconv.AppendInt(bytes, r.DeleteHits, 10)
	bytes = append(bytes, " found)\nLookups: "...)
	bytes = strconv.AppendInt(bytes, r.Lookups, 10)
	bytes = append(bytes, " ("...)
	bytes = strconv.AppendInt(bytes, r.LookupHits, 10)
	bytes = append(bytes, " found)\n"...)
	if r.FinalLen >= 0 {
		bytes = append(bytes, "Final length: "...)
		bytes = strconv.AppendInt(bytes, int64(r.FinalLen), 10)
		bytes = append(bytes, '\n')
	}
	return string(bytes)
}

// Speedup returns how much faster (in percent) b ran than a, negative if slower.
func Speedup(a, b *Result) float64 {
	if a.Throughput == 0 {
		return 0
	}
	return (b.Throughput - a.Throughput) / a.Throughput * 100
}

func CompareResults(baseline, candidate *Result) string {
	bytes := make([]byte, 0, 100)
	bytes = append(bytes, candidate.Impl.String()...)
	bytes = append(bytes, " vs "...)
	bytes = append(bytes, baseline.Impl.String()...)
	bytes = append(bytes, ": "...)
	bytes = strconv.AppendFloat(bytes, Speedup(baseline, candidate), 'f', 2, 64)
	bytes = append(bytes, '%')
	return string(bytes)
}
