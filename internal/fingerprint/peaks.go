package fingerprint

import (
	"runtime"
	"sort"
	"sync"

	"github.com/soundcheck-labs/constellation/internal/model"
)

// FootprintSize is the side length of the square tile over which a single
// local maximum is selected.
const FootprintSize = 8

// MinAmp is the minimum magnitude a tile maximum must exceed (strictly) to
// be kept as a peak.
const MinAmp = 0.1

// tile describes one disjoint FootprintSize x FootprintSize region of the
// spectrogram, clipped at the right/bottom edges.
type tile struct {
	t0, t1 int // time range [t0, t1)
	f0, f1 int // freq range [f0, f1)
}

// ExtractPeaks finds one local maximum per FootprintSize x FootprintSize
// tile of the spectrogram whose magnitude exceeds MinAmp, and returns them
// sorted by time ascending (stable, so equal-time peaks keep their
// row-major discovery order).
//
// Tiles are dispatched across a worker pool sized to GOMAXPROCS. Workers
// write into disjoint shards of a shared bitmask — safe without locking
// because no two tiles ever touch the same cell — which are then scanned
// in row-major order to produce the deterministic peak list. Execution
// order therefore never affects the output.
func ExtractPeaks(spec *model.Spectrogram) []model.Peak {
	if spec == nil || spec.Width == 0 || spec.Height == 0 {
		return nil
	}
	w, h := spec.Width, spec.Height

	tiles := buildTiles(w, h, FootprintSize)

	marked := make([]bool, w*h)
	workers := runtime.GOMAXPROCS(0)
	if workers > len(tiles) {
		workers = len(tiles)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan tile)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for tl := range jobs {
				markTileMax(spec, tl, marked)
			}
		}()
	}
	for _, tl := range tiles {
		jobs <- tl
	}
	close(jobs)
	wg.Wait()

	peaks := make([]model.Peak, 0, len(tiles))
	for idx, m := range marked {
		if !m {
			continue
		}
		peaks = append(peaks, model.Peak{
			TimeIdx: idx / w,
			FreqIdx: idx % w,
		})
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].TimeIdx < peaks[j].TimeIdx
	})

	return peaks
}

// buildTiles partitions a w x h grid into disjoint, edge-clipped
// FootprintSize x FootprintSize tiles in row-major order.
func buildTiles(w, h, footprint int) []tile {
	var tiles []tile
	for t0 := 0; t0 < h; t0 += footprint {
		t1 := minInt(t0+footprint, h)
		for f0 := 0; f0 < w; f0 += footprint {
			f1 := minInt(f0+footprint, w)
			tiles = append(tiles, tile{t0: t0, t1: t1, f0: f0, f1: f1})
		}
	}
	return tiles
}

// markTileMax finds the strict local maximum within one tile (ties broken
// by first-seen row-major order) and, if it exceeds MinAmp, marks its cell
// in the shared bitmask. Every tile owns a disjoint cell range so this
// write never races with another worker's.
func markTileMax(spec *model.Spectrogram, tl tile, marked []bool) {
	w := spec.Width
	best := -1
	bestMag := MinAmp
	for t := tl.t0; t < tl.t1; t++ {
		row := t * w
		for f := tl.f0; f < tl.f1; f++ {
			mag := spec.Magnitudes[row+f]
			if mag > bestMag {
				bestMag = mag
				best = row + f
			}
		}
	}
	if best >= 0 {
		marked[best] = true
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
