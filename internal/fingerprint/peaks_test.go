package fingerprint

import (
	"math/rand"
	"testing"

	"github.com/soundcheck-labs/constellation/internal/model"
)

// syntheticSpectrogram builds a spectrogram of deterministic pseudo-random
// background noise, every bin below MinAmp; callers plant the loud bins
// ExtractPeaks is meant to find.
func syntheticSpectrogram(width, height int) *model.Spectrogram {
	rng := rand.New(rand.NewSource(1))
	mags := make([]float64, width*height)
	for i := range mags {
		mags[i] = rng.Float64() * MinAmp * 0.5
	}
	return &model.Spectrogram{Magnitudes: mags, Width: width, Height: height, SampleRate: 11025, LengthSec: float64(height) / 11025}
}

func TestExtractPeaks(t *testing.T) {
	width, height := 64, 64
	spec := syntheticSpectrogram(width, height)

	// Plant one unambiguous spike per tile so every tile contributes a peak.
	for t0 := 0; t0 < height; t0 += FootprintSize {
		for f0 := 0; f0 < width; f0 += FootprintSize {
			spec.Magnitudes[t0*width+f0] = 10.0
		}
	}

	peaks := ExtractPeaks(spec)
	if len(peaks) == 0 {
		t.Fatal("expected peaks from synthetic spectrogram with planted spikes")
	}

	for i, p := range peaks {
		if p.TimeIdx < 0 || p.TimeIdx >= height {
			t.Errorf("peak %d has invalid time index: %d", i, p.TimeIdx)
		}
		if p.FreqIdx < 0 || p.FreqIdx >= width {
			t.Errorf("peak %d has invalid freq index: %d", i, p.FreqIdx)
		}
	}

	for i := 1; i < len(peaks); i++ {
		if peaks[i].TimeIdx < peaks[i-1].TimeIdx {
			t.Error("peaks not sorted by time index")
			break
		}
		if peaks[i].TimeIdx == peaks[i-1].TimeIdx && peaks[i].FreqIdx < peaks[i-1].FreqIdx {
			t.Error("peaks not sorted by frequency within the same time index")
			break
		}
	}
}

func TestExtractPeaksBelowMinAmpIgnored(t *testing.T) {
	width, height := 32, 32
	mags := make([]float64, width*height)
	for i := range mags {
		mags[i] = MinAmp / 2 // every bin below threshold
	}
	spec := &model.Spectrogram{Magnitudes: mags, Width: width, Height: height, SampleRate: 11025}

	peaks := ExtractPeaks(spec)
	if len(peaks) != 0 {
		t.Errorf("expected no peaks below MinAmp, got %d", len(peaks))
	}
}

func TestExtractPeaksEmptySpectrogram(t *testing.T) {
	spec := &model.Spectrogram{Width: 0, Height: 0}

	peaks := ExtractPeaks(spec)
	if len(peaks) != 0 {
		t.Error("expected no peaks from empty spectrogram")
	}
}

func TestBuildTilesClipsEdges(t *testing.T) {
	tiles := buildTiles(10, 10, FootprintSize)

	for _, tl := range tiles {
		if tl.t1 > 10 || tl.f1 > 10 {
			t.Errorf("tile %+v exceeds spectrogram bounds", tl)
		}
		if tl.t0 >= tl.t1 || tl.f0 >= tl.f1 {
			t.Errorf("tile %+v is empty", tl)
		}
	}
}

func TestMinInt(t *testing.T) {
	tests := []struct {
		a, b, expected int
	}{
		{5, 10, 5},
		{10, 5, 5},
		{7, 7, 7},
		{-5, 3, -5},
	}

	for _, tt := range tests {
		result := minInt(tt.a, tt.b)
		if result != tt.expected {
			t.Errorf("minInt(%d, %d) = %d, expected %d", tt.a, tt.b, result, tt.expected)
		}
	}
}
