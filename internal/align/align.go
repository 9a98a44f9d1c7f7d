// Package align implements the constellation alignment step: given a
// reference and a sample fingerprint collection, it finds the time offset
// at which the sample most plausibly occurs inside the reference.
package align

import (
	"errors"
	"runtime"
	"sync"

	"github.com/soundcheck-labs/constellation/internal/model"
)

// ErrNoMatches is returned when the source or sample collection is empty,
// or when they share no fingerprint hashes at all.
var ErrNoMatches = errors.New("align: no matches")

type match struct {
	delta      int
	sampleTime int
}

// Align builds a sample_index: hash -> time map by scanning sample (when
// several sample fingerprints share a hash, one arbitrary entry wins —
// last-write-wins over insertion order), then, for every source fingerprint
// whose hash appears in that map, records the signed delta between the
// source and sample anchor times. It histograms the deltas and returns the
// most frequent one, breaking ties by first-seen insertion order, along
// with the sample-side time of one fingerprint that voted for it.
//
// This loses duplicate anchor times for a repeated hash in the sample set —
// an intentional fidelity constraint carried from the reference
// implementation, not a latent bug. A fully correct aligner would keep a
// list per hash and consider every pairing.
func Align(source, sample []model.Fingerprint) (model.OffsetReport, error) {
	if len(source) == 0 || len(sample) == 0 {
		return model.OffsetReport{}, ErrNoMatches
	}

	sampleIndex := make(map[string]int, len(sample))
	for _, fp := range sample {
		sampleIndex[fp.Hash] = fp.AnchorTime
	}

	matches := collectMatches(source, sampleIndex)
	if len(matches) == 0 {
		return model.OffsetReport{}, ErrNoMatches
	}

	counts := make(map[int]int, len(matches))
	order := make([]int, 0, len(matches))
	for _, m := range matches {
		if counts[m.delta] == 0 {
			order = append(order, m.delta)
		}
		counts[m.delta]++
	}

	bestDelta := order[0]
	bestCount := counts[bestDelta]
	for _, d := range order[1:] {
		if counts[d] > bestCount {
			bestDelta = d
			bestCount = counts[d]
		}
	}

	firstSampleTime := 0
	for _, m := range matches {
		if m.delta == bestDelta {
			firstSampleTime = m.sampleTime
			break
		}
	}

	return model.OffsetReport{
		MostCommonOffset:            bestDelta,
		MostCommonOffsetOccurrences: bestCount,
		FirstSampleOffsetMatch:      firstSampleTime,
	}, nil
}

// collectMatches scans source in parallel shards, looking each hash up in
// sampleIndex (read-only once built, so safe to share across workers), and
// returns the matches in source order so downstream first-seen tie-breaks
// stay deterministic regardless of worker count.
func collectMatches(source []model.Fingerprint, sampleIndex map[string]int) []match {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(source) {
		workers = len(source)
	}
	if workers < 1 {
		workers = 1
	}

	shardResults := make([][]match, workers)
	chunk := (len(source) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := minInt(start+chunk, len(source))
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			var local []match
			for _, fp := range source[start:end] {
				sampleTime, ok := sampleIndex[fp.Hash]
				if !ok {
					continue
				}
				local = append(local, match{
					delta:      fp.AnchorTime - sampleTime,
					sampleTime: sampleTime,
				})
			}
			shardResults[w] = local
		}(w, start, end)
	}
	wg.Wait()

	var out []match
	for _, shard := range shardResults {
		out = append(out, shard...)
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
