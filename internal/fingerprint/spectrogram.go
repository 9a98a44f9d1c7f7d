package fingerprint

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/soundcheck-labs/constellation/internal/model"
)

// Tunables. FFTSize and Overlap are fixed at build time for bit-level
// reproducibility: identical PCM input must always yield identical
// spectrogram floats, which rules out making these runtime knobs.
const (
	FFTSize = 4096
	// Overlap is named after the reference implementation's OVERLAP
	// constant (FFTSize * 0.5), but it is used as the hop — the window
	// advance — not as an overlap length. The name is load-bearing
	// history, not a description of its role.
	Overlap = FFTSize / 2
)

// hammingWindow is computed once; every track windows against the same
// coefficients.
var hammingWindow = Hamming(FFTSize)

// Hamming returns a Hamming window of length n.
func Hamming(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		// Hamming: 0.54 - 0.46*cos(2*pi*n/(N-1))
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// FFTReal wraps the go-dsp FFT function and returns a complex spectrum.
func FFTReal(frame []float64) []complex128 {
	return fft.FFTReal(frame)
}

// MagnitudeSpectrum converts a complex spectrum into a magnitude spectrum,
// normalised by sqrt(N) so successive windows are comparable regardless of
// FFT length.
func MagnitudeSpectrum(spectrum []complex128, n int) []float64 {
	half := len(spectrum) / 2
	mag := make([]float64, half)
	norm := math.Sqrt(float64(n))
	for i := 0; i < half; i++ {
		mag[i] = cmplx.Abs(spectrum[i]) / norm
	}
	return mag
}

// ComputeSpectrogram drains a channel of decoded PCM frames and builds the
// magnitude spectrogram of channel 0. Samples accumulate in a growable
// buffer; every time the buffer holds more than FFTSize unconsumed samples
// past ptr, a window is cut, Hamming-tapered, transformed and appended to
// the spectrogram, after which ptr advances by Overlap (the hop). Any tail
// shorter than FFTSize is left unprocessed once the channel closes.
//
// Channel 1 is never processed. The reference implementation builds its
// second spectrogram from channel 0's buffer as well (a copy-paste bug);
// this implementation treats channel 0 as the only authoritative source
// and never materialises a channel-1 spectrogram at all.
//
// A frame whose sample rate differs from earlier frames simply overwrites
// the tracked rate — the last one seen wins, and no error is raised.
func ComputeSpectrogram(frames <-chan model.Frame) (*model.Spectrogram, error) {
	var buffer []float64
	ptr := 0
	sampleRate := 0
	var magnitudes []float64
	height := 0

	for frame := range frames {
		if frame.SampleRate != 0 {
			sampleRate = frame.SampleRate
		}
		buffer = append(buffer, deinterleaveChannel0(frame.Samples, frame.Channels)...)

		for len(buffer)-ptr > FFTSize {
			windowed := make([]float64, FFTSize)
			copy(windowed, buffer[ptr:ptr+FFTSize])
			for i := range windowed {
				windowed[i] *= hammingWindow[i]
			}

			spectrum := FFTReal(windowed)
			magnitudes = append(magnitudes, MagnitudeSpectrum(spectrum, FFTSize)...)
			height++
			ptr += Overlap
		}
	}

	if sampleRate == 0 {
		sampleRate = 44100
	}

	return &model.Spectrogram{
		Magnitudes: magnitudes,
		Width:      FFTSize / 2,
		Height:     height,
		SampleRate: sampleRate,
		LengthSec:  float64(ptr) / float64(sampleRate),
	}, nil
}

// ComputeSpectrogramFromSamples runs ComputeSpectrogram over an already
// fully-decoded, already-mono sample slice (the shape the WASM binding
// receives from the browser's Web Audio API, with no streaming decoder in
// front of it). It batches the slice into frames of the same size the
// streaming decoders use, so the windowing state machine above is the one
// and only implementation of C2.
func ComputeSpectrogramFromSamples(samples []float64, sampleRate int) (*model.Spectrogram, error) {
	const batch = 4096
	frames := make(chan model.Frame, 1)

	go func() {
		defer close(frames)
		for i := 0; i < len(samples); i += batch {
			end := i + batch
			if end > len(samples) {
				end = len(samples)
			}
			frames <- model.Frame{
				SampleRate: sampleRate,
				Channels:   1,
				Samples:    samples[i:end],
			}
		}
	}()

	return ComputeSpectrogram(frames)
}

// deinterleaveChannel0 extracts channel 0 from an interleaved sample buffer.
// Mono frames (Channels <= 1) are passed through unchanged.
func deinterleaveChannel0(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return samples
	}
	out := make([]float64, len(samples)/channels)
	for i := range out {
		out[i] = samples[i*channels]
	}
	return out
}
