package fingerprint

import (
	"math"
	"testing"

	"github.com/soundcheck-labs/constellation/internal/model"
)

func TestHamming(t *testing.T) {
	sizes := []int{128, 256, 512, 1024}

	for _, size := range sizes {
		window := Hamming(size)

		if len(window) != size {
			t.Errorf("Expected window size %d, got %d", size, len(window))
		}

		for i, val := range window {
			if val < 0 || val > 1 {
				t.Errorf("Window value %d out of range [0,1]: %f", i, val)
			}
		}

		if window[0] >= window[size/2] {
			t.Error("Hamming window should be lower at edges")
		}
	}
}

func TestFFTReal(t *testing.T) {
	signal := make([]float64, 128)
	for i := range signal {
		signal[i] = 1.0 // DC signal
	}

	spectrum := FFTReal(signal)

	if len(spectrum) != len(signal) {
		t.Errorf("Expected spectrum length %d, got %d", len(signal), len(spectrum))
	}
}

func TestMagnitudeSpectrum(t *testing.T) {
	spectrum := []complex128{
		complex(1.0, 0.0),
		complex(0.0, 1.0),
		complex(3.0, 4.0),
		complex(0.0, 0.0),
	}

	n := 4
	mag := MagnitudeSpectrum(spectrum, n)

	expectedLen := len(spectrum) / 2
	if len(mag) != expectedLen {
		t.Errorf("Expected magnitude length %d, got %d", expectedLen, len(mag))
	}

	norm := math.Sqrt(float64(n))
	if math.Abs(mag[0]-1.0/norm) > 1e-9 {
		t.Errorf("Expected magnitude %f, got %f", 1.0/norm, mag[0])
	}
	if math.Abs(mag[1]-1.0/norm) > 1e-9 {
		t.Errorf("Expected magnitude %f, got %f", 1.0/norm, mag[1])
	}
}

// sendFrames streams samples to ComputeSpectrogram in sampleRate-tagged
// chunks, mimicking how a real decoder hands off frames.
func sendFrames(samples []float64, sampleRate, channels, chunkSize int) <-chan model.Frame {
	frames := make(chan model.Frame, 8)
	go func() {
		defer close(frames)
		for i := 0; i < len(samples); i += chunkSize {
			end := i + chunkSize
			if end > len(samples) {
				end = len(samples)
			}
			frames <- model.Frame{SampleRate: sampleRate, Channels: channels, Samples: samples[i:end]}
		}
	}()
	return frames
}

func TestComputeSpectrogramSilence(t *testing.T) {
	sampleRate := 11025
	samples := make([]float64, sampleRate) // 1 second of silence, mono

	spec, err := ComputeSpectrogram(sendFrames(samples, sampleRate, 1, 4096))
	if err != nil {
		t.Fatalf("ComputeSpectrogram failed: %v", err)
	}

	if spec.Height == 0 {
		t.Fatal("expected at least one spectrogram column for a full second of audio")
	}
	if spec.Width != FFTSize/2 {
		t.Errorf("expected width %d, got %d", FFTSize/2, spec.Width)
	}
	if spec.SampleRate != sampleRate {
		t.Errorf("expected sample rate %d, got %d", sampleRate, spec.SampleRate)
	}

	expectedHeight := (len(samples)-FFTSize)/Overlap + 1
	if spec.Height < expectedHeight-1 || spec.Height > expectedHeight+1 {
		t.Logf("expected ~%d columns, got %d", expectedHeight, spec.Height)
	}
}

func TestComputeSpectrogramTooShort(t *testing.T) {
	samples := make([]float64, FFTSize/2)

	spec, err := ComputeSpectrogram(sendFrames(samples, 11025, 1, 4096))
	if err != nil {
		t.Fatalf("ComputeSpectrogram failed: %v", err)
	}
	if spec.Height != 0 {
		t.Errorf("expected no columns from input shorter than one window, got %d", spec.Height)
	}
}

func TestComputeSpectrogramStereoUsesChannel0Only(t *testing.T) {
	sampleRate := 11025
	n := sampleRate * 2 // one second of stereo interleaved samples
	interleaved := make([]float64, n)
	for i := 0; i < n; i += 2 {
		interleaved[i] = 1.0   // channel 0: constant
		interleaved[i+1] = 0.0 // channel 1: silence
	}

	spec, err := ComputeSpectrogram(sendFrames(interleaved, sampleRate, 2, 8192))
	if err != nil {
		t.Fatalf("ComputeSpectrogram failed: %v", err)
	}
	if spec.Height == 0 {
		t.Fatal("expected at least one spectrogram column")
	}

	// Channel 0 is a DC signal; its spectrogram should show strong low-bin
	// energy rather than silence (which a channel-1 leak would produce).
	if spec.Magnitudes[0] == 0 {
		t.Error("expected non-zero DC energy from channel 0")
	}
}

func TestDeinterleaveChannel0(t *testing.T) {
	stereo := []float64{1, 2, 3, 4, 5, 6}
	mono := deinterleaveChannel0(stereo, 2)
	want := []float64{1, 3, 5}

	if len(mono) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(mono))
	}
	for i := range want {
		if mono[i] != want[i] {
			t.Errorf("index %d: expected %f, got %f", i, want[i], mono[i])
		}
	}
}

func TestDeinterleaveChannel0Mono(t *testing.T) {
	mono := []float64{1, 2, 3}
	out := deinterleaveChannel0(mono, 1)
	if len(out) != len(mono) {
		t.Fatalf("expected passthrough of length %d, got %d", len(mono), len(out))
	}
}
