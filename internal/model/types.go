// Package model holds the data types shared across the decode, STFT, peak,
// fingerprint and alignment stages.
package model

// Frame is one decoded unit emitted by the MP3 decoder: a sample rate and
// interleaved float samples for up to two channels, normalised to [-1, 1].
type Frame struct {
	SampleRate int
	Channels   int
	Samples    []float64 // interleaved, len = n * Channels
}

// Peak identifies one cell of a spectrogram that survived the local-maximum
// filter. TimeIdx (window index) and FreqIdx (frequency bin) are
// spectrogram coordinates.
type Peak struct {
	TimeIdx int
	FreqIdx int
}

// Fingerprint pairs a namespace hash with the time index of its anchor peak.
type Fingerprint struct {
	Hash       string
	AnchorTime int
}

// Spectrogram is the flat magnitude matrix produced by the STFT engine.
// Cell (t, f) lives at t*Width+f; Width is always FFT_SIZE/2.
type Spectrogram struct {
	Magnitudes []float64
	Width      int
	Height     int
	SampleRate int
	LengthSec  float64
}

// ReferenceSample is the immutable bundle held by the reference store.
type ReferenceSample struct {
	ID          string
	Fingerprints []Fingerprint
	Timesteps   int
	LengthSec   float64
}

// OffsetReport is the result of aligning a sample fingerprint set against a
// reference fingerprint set.
type OffsetReport struct {
	MostCommonOffset           int
	MostCommonOffsetOccurrences int
	FirstSampleOffsetMatch     int
}
